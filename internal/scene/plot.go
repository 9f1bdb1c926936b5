package scene

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// PlotTrajectory renders a top-down view of the synthetic camera path to a
// PNG file. The horizontal axis is the pose tx component and the vertical
// axis is tz, so the orbit appears as a circle around the subject at the
// origin. The first pose gets a larger red marker to make the orbit
// direction readable.
func PlotTrajectory(doc *Document, path string) error {
	if doc == nil || len(doc.Frames) == 0 {
		return ErrNoFrames
	}

	p := plot.New()
	p.Title.Text = "Synthetic camera trajectory (top-down)"
	p.X.Label.Text = "x (m)"
	p.Y.Label.Text = "z (m)"

	pts := make(plotter.XYs, 0, len(doc.Frames))
	for _, f := range doc.Frames {
		m := f.TransformMatrix
		if len(m) != 4 || len(m[0]) != 4 || len(m[2]) != 4 {
			return fmt.Errorf("frame %s: transform matrix is not 4x4", f.FilePath)
		}
		pts = append(pts, plotter.XY{X: m[0][3], Y: m[2][3]})
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("build trajectory line: %w", err)
	}
	line.Width = vg.Points(1)
	line.Color = color.RGBA{B: 200, A: 255}
	p.Add(line)

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("build trajectory points: %w", err)
	}
	scatter.GlyphStyle.Radius = vg.Points(2)
	p.Add(scatter)

	start, err := plotter.NewScatter(pts[:1])
	if err != nil {
		return fmt.Errorf("build start marker: %w", err)
	}
	start.GlyphStyle.Radius = vg.Points(4)
	start.GlyphStyle.Color = color.RGBA{R: 200, A: 255}
	p.Add(start)

	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("save trajectory plot: %w", err)
	}
	return nil
}
