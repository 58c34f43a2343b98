package renewable

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// savePlot writes a diagnostic plot of one site's chronic against its
// noise-free reference curve, with hours on the x axis.
func savePlot(path, title string, series, ref []float64, dtMinutes int) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "hours"
	p.Y.Label.Text = "power (MW)"

	toXYs := func(values []float64) plotter.XYs {
		xys := make(plotter.XYs, len(values))
		for i, v := range values {
			xys[i].X = float64(i*dtMinutes) / 60
			xys[i].Y = v
		}
		return xys
	}

	seriesLine, err := plotter.NewLine(toXYs(series))
	if err != nil {
		return fmt.Errorf("series line: %w", err)
	}
	refLine, err := plotter.NewLine(toXYs(ref))
	if err != nil {
		return fmt.Errorf("reference line: %w", err)
	}
	refLine.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}

	p.Add(seriesLine, refLine)
	p.Legend.Add("chronic", seriesLine)
	p.Legend.Add("reference", refLine)

	return p.Save(10*vg.Inch, 4*vg.Inch, path)
}
