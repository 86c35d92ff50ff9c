package report

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/itsmardochee/SmartFit-Coach/internal/db"
)

// SaveSessionPlot writes a PNG chart of per-rep minimum angle against the
// depth threshold. Used by the session-plot tool for offline review.
func SaveSessionPlot(session db.SessionRecord, reps []db.RepRecord, depthThreshold float64, path string) error {
	if len(reps) == 0 {
		return fmt.Errorf("session %s has no reps to plot", session.SessionID)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s session %s", session.Exercise, session.SessionID)
	p.X.Label.Text = "Rep"
	p.Y.Label.Text = "Min angle (deg)"
	p.Y.Min = 0
	p.Y.Max = 180

	pts := make(plotter.XYs, 0, len(reps))
	for _, r := range reps {
		pts = append(pts, plotter.XY{X: float64(r.Sequence), Y: r.MinAngle})
	}

	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return fmt.Errorf("failed to build line: %w", err)
	}
	line.Width = vg.Points(1)
	line.Color = color.RGBA{B: 255, A: 255}
	points.Color = color.RGBA{B: 255, A: 255}
	p.Add(line, points)
	p.Legend.Add("min angle", line)

	// Horizontal threshold line across the full rep range.
	threshold := plotter.XYs{
		{X: float64(reps[0].Sequence), Y: depthThreshold},
		{X: float64(reps[len(reps)-1].Sequence), Y: depthThreshold},
	}
	tLine, err := plotter.NewLine(threshold)
	if err != nil {
		return fmt.Errorf("failed to build threshold line: %w", err)
	}
	tLine.Width = vg.Points(1)
	tLine.Color = color.RGBA{R: 255, A: 255}
	tLine.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	p.Add(tLine)
	p.Legend.Add("depth threshold", tLine)

	if err := p.Save(10*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save plot: %w", err)
	}
	return nil
}
