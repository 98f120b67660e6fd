// Package plot renders a run's sample series as a PNG chart.
package plot

import (
	"path/filepath"
	"time"

	"github.com/huangsam/trafficprofile/internal/contract"
	"github.com/huangsam/trafficprofile/schema"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Default chart size.
const (
	DefaultWidth  = 10 * vg.Inch
	DefaultHeight = 5 * vg.Inch
)

// ChartPlotter writes traffic_profile_<key>_<stamp>.png files under a directory.
type ChartPlotter struct {
	dir           string
	width, height vg.Length
}

// New returns a plotter that saves charts into dir.
func New(dir string) *ChartPlotter {
	return &ChartPlotter{dir: dir, width: DefaultWidth, height: DefaultHeight}
}

// Render implements contract.Plotter. An empty series renders nothing and returns "".
func (c *ChartPlotter) Render(routeKey string, samples []schema.Sample) (string, error) {
	if len(samples) == 0 {
		logrus.WithField("route", routeKey).Debug("empty series, skipping chart")
		return "", nil
	}

	start := samples[0].Timestamp
	path := filepath.Join(c.dir, schema.ChartFileName(routeKey, start))

	p, err := Build(routeKey, samples)
	if err != nil {
		return "", &contract.IOError{Op: "plot", Path: path, Phase: contract.PlottingStage, Err: err}
	}
	if err := p.Save(c.width, c.height, path); err != nil {
		return "", &contract.IOError{Op: "save", Path: path, Phase: contract.PlottingStage, Err: err}
	}
	return path, nil
}

// Build assembles the chart for samples without writing it anywhere.
func Build(routeKey string, samples []schema.Sample) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = Title(routeKey, samples[0].Timestamp)
	p.X.Label.Text = "Departure Time"
	p.Y.Label.Text = "Trip Duration (min)"
	p.X.Tick.Marker = plot.TimeTicks{Format: timeTickFormat(samples), Time: plot.UnixTimeIn(time.Local)}
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(samples))
	for i, sm := range samples {
		pts[i].X = float64(sm.Timestamp.Unix())
		pts[i].Y = sm.DurationMinutes
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	line.LineStyle.Width = vg.Points(1.5)
	p.Add(line)

	if len(pts) == 1 {
		// A single point has no line to draw.
		scatter, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, err
		}
		p.Add(scatter)
	}
	p.Y.Min = 0
	return p, nil
}

// Title is the chart heading, e.g. "Traffic Profile for home_work Starting at 2024-03-04 08:00".
func Title(routeKey string, start time.Time) string {
	return "Traffic Profile for " + routeKey + " Starting at " + start.Format("2006-01-02 15:04")
}

// timeTickFormat shows dates on the axis once a series spans more than a day.
func timeTickFormat(samples []schema.Sample) string {
	first, last := samples[0].Timestamp, samples[len(samples)-1].Timestamp
	if last.Sub(first) > 24*time.Hour || first.Sub(last) > 24*time.Hour {
		return "01-02 15:04"
	}
	return "15:04"
}

var _ contract.Plotter = &ChartPlotter{}
