package main

import (
	"github.com/cockroachdb/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// series is one structure/configuration's latency samples across sizes,
// for plotting.
type series struct {
	label  string
	points plotter.XYs
}

func plotterXY(n int, latencyNs int64) plotter.XY {
	return plotter.XY{X: float64(n), Y: float64(latencyNs)}
}

// renderLatencyPlot draws latency-vs-size for each series on one chart
// and saves it as a PNG at path.
func renderLatencyPlot(title, path string, allSeries []series) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "elements"
	p.Y.Label.Text = "latency (ns/op)"

	for i, s := range allSeries {
		line, points, err := plotter.NewLinePoints(s.points)
		if err != nil {
			return errors.Wrapf(err, "plotting series %q", s.label)
		}
		color := plotutil.Color(i)
		line.Color = color
		points.Color = color
		p.Add(line, points)
		p.Legend.Add(s.label, line, points)
	}

	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "saving plot to %s", path)
	}
	return nil
}
