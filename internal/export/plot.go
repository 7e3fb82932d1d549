package export

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/san-kum/episim/internal/epi"
)

// PlotCompartments writes a PNG chart of all three compartments plus
// the transmission rate over time.
func PlotCompartments(path, title string, tr *epi.Trajectory) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "time (days)"
	p.Y.Label.Text = "population fraction"
	p.Legend.Top = true

	series := []struct {
		label string
		ys    []float64
	}{
		{"S", tr.Compartment(epi.S)},
		{"I", tr.Compartment(epi.I)},
		{"R", tr.Compartment(epi.R)},
		{"beta", tr.Betas},
	}

	for i, s := range series {
		line, err := plotter.NewLine(xys(tr.Times, s.ys))
		if err != nil {
			return err
		}
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Dashes = plotutil.DefaultDashes[i%len(plotutil.DefaultDashes)]
		p.Add(line)
		p.Legend.Add(s.label, line)
	}

	return savePNG(p, path)
}

// PlotComparison overlays infected prevalence across named runs.
func PlotComparison(path, title string, runs map[string]*epi.Result) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "time (days)"
	p.Y.Label.Text = "infected fraction"
	p.Legend.Top = true

	i := 0
	for name, result := range runs {
		tr := result.Trajectory
		line, err := plotter.NewLine(xys(tr.Times, tr.Infected()))
		if err != nil {
			return err
		}
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Dashes = plotutil.DefaultDashes[i%len(plotutil.DefaultDashes)]
		p.Add(line)
		p.Legend.Add(name, line)
		i++
	}

	return savePNG(p, path)
}

func xys(xs, ys []float64) plotter.XYs {
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	return pts
}

func savePNG(p *plot.Plot, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("cannot create directory: %w", err)
		}
	}

	c := vgimg.NewWith(
		vgimg.UseWH(8*vg.Inch, 6*vg.Inch),
		vgimg.UseDPI(150),
	)
	p.Draw(draw.New(c))

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	defer bw.Flush()

	pngc := vgimg.PngCanvas{Canvas: c}
	if _, err := pngc.WriteTo(bw); err != nil {
		return fmt.Errorf("cannot write png: %w", err)
	}
	return nil
}
