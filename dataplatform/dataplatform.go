package dataplatform

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	supa "github.com/nedpals/supabase-go"

	"github.com/cepro/chronicsgen/repository"
)

// DataPlatform handles the streaming of scenario run records to Supabase.
// Put completed runs onto the Runs channel; they are buffered on disk in a
// SQLite database before being uploaded, so a flaky connection never loses a
// record.
type DataPlatform struct {
	Runs chan repository.ScenarioRun

	table       string
	uploadEvery time.Duration

	repository *repository.Repository
	supaClient *supa.Client
	logger     *slog.Logger
	done       chan struct{}
}

func New(supabaseUrl, supabaseKey, schema, table, bufferRepositoryFilename string, uploadEvery time.Duration) (*DataPlatform, error) {

	supaClient := supa.CreateClient(supabaseUrl, supabaseKey)
	supaClient.DB.AddHeader("Accept-Profile", schema)
	supaClient.DB.AddHeader("Content-Profile", schema)

	repo, err := repository.New(bufferRepositoryFilename)
	if err != nil {
		return nil, fmt.Errorf("create repository: %w", err)
	}

	if uploadEvery <= 0 {
		uploadEvery = 5 * time.Second
	}

	return &DataPlatform{
		Runs:        make(chan repository.ScenarioRun, 25), // a small buffer to allow SQLite to catch up in case the disk is slow
		table:       table,
		uploadEvery: uploadEvery,
		repository:  repo,
		supaClient:  supaClient,
		logger:      slog.Default().With("host", supabaseUrl),
		done:        make(chan struct{}),
	}, nil
}

// Run loops waiting for completed scenario runs, buffering them and
// periodically attempting uploads. When the context is cancelled it flushes
// the queue before returning.
func (d *DataPlatform) Run(ctx context.Context) {
	defer close(d.done)

	uploadTicker := time.NewTicker(d.uploadEvery)
	defer uploadTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.flush()
			return
		case run := <-d.Runs:
			err := d.repository.AddScenarioRun(run)
			if err != nil {
				d.logger.Error("failed to persist scenario run", "error", err)
			}
			d.logger.Debug("Stored scenario run", "scenario", run.Name)

		case <-uploadTicker.C:
			d.attemptUpload()
		}
	}
}

// Done is closed once Run has flushed the queued runs and returned.
func (d *DataPlatform) Done() <-chan struct{} {
	return d.done
}

// flush persists any runs still queued on the channel and makes one last
// upload attempt. Runs that cannot be uploaded stay in the SQLite buffer for
// the next process run.
func (d *DataPlatform) flush() {
	for {
		select {
		case run := <-d.Runs:
			if err := d.repository.AddScenarioRun(run); err != nil {
				d.logger.Error("failed to persist scenario run", "error", err)
			}
		default:
			d.attemptUpload()
			return
		}
	}
}

// attemptUpload attempts to upload buffered runs: first records that have
// never been tried, then records that have already failed at least once.
func (d *DataPlatform) attemptUpload() {

	// uploadChunkLimit defines how many records we upload in one supabase HTTP request
	uploadChunkLimit := 100

	freshRuns, err := d.repository.GetScenarioRuns(uploadChunkLimit, true)
	if err != nil {
		d.logger.Error("failed to query fresh scenario runs", "error", err)
	} else if len(freshRuns) > 0 {
		if err := d.handleRuns(freshRuns); err != nil {
			d.logger.Error("failed to handle fresh scenario runs", "error", err)
		}
	}

	oldRuns, err := d.repository.GetScenarioRuns(uploadChunkLimit, false)
	if err != nil {
		d.logger.Error("failed to query old scenario runs", "error", err)
	} else if len(oldRuns) > 0 {
		if err := d.handleRuns(oldRuns); err != nil {
			d.logger.Error("failed to handle old scenario runs", "error", err)
		}
	}
}

// handleRuns attempts to upload the given runs. On success they are deleted
// from the buffer; on failure the upload attempt count is incremented and
// they stay buffered for a later retry.
func (d *DataPlatform) handleRuns(runs []repository.StoredScenarioRun) error {

	uploadErr := d.supaClient.DB.From(d.table).Insert(convertRuns(runs)).Execute(nil)
	if uploadErr != nil {
		uploadErr = fmt.Errorf("upload failed: %w", uploadErr)
		if errInc := d.repository.IncrementUploadAttemptCount(runs); errInc != nil {
			return fmt.Errorf("%w: increment upload attempt count: %w", uploadErr, errInc)
		}
		return uploadErr
	}

	if err := d.repository.DeleteRuns(runs); err != nil {
		return fmt.Errorf("delete scenario runs: %w", err)
	}

	d.logger.Info("Uploaded scenario runs", "db_table", d.table, "db_records", len(runs))

	return nil
}
