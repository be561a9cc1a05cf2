package plot

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"strings"

	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/hupe1980/kmbench/jobscript"
	"github.com/hupe1980/kmbench/results"
)

// ErrNoSeries is returned when the series holds no samples to plot.
var ErrNoSeries = errors.New("plot: nothing to plot")

// Formats lists the image formats Timings can render.
var Formats = []string{"png", "svg", "pdf", "eps", "jpg", "tiff"}

var methodTitle = map[jobscript.Method]string{
	jobscript.MethodReg:   "PAM",
	jobscript.MethodClara: "CLARA",
}

var axisTitle = map[jobscript.Mode]string{
	jobscript.ModeSharedMemory: "Threads",
	jobscript.ModeDistributed:  "Procs",
	jobscript.ModeHybrid:       "Nodes",
}

var (
	serialColor   = color.RGBA{R: 255, G: 165, A: 255}
	parallelColor = color.RGBA{B: 255, A: 255}
)

// errorPoints plots means with symmetric standard errors.
type errorPoints struct {
	plotter.XYs
	plotter.YErrors
}

// Timings renders mean run time per scale of one mode and method, with
// standard-error bars and the serial mean as a flat reference line. The
// distributed mode's process counts are not evenly spaced (2..16 and 32),
// so its points are drawn at evenly spaced positions labelled with the
// actual count. format is one of Formats.
func Timings(series results.Series, mode jobscript.Mode, method jobscript.Method, w io.Writer, format string) error {
	sum, err := results.Aggregate(series, mode, method)
	if err != nil {
		return err
	}

	p := gplot.New()
	p.Title.Text = fmt.Sprintf("%s %s", methodTitle[method], strings.ToUpper(string(mode)))
	p.X.Label.Text = axisTitle[mode]
	p.Y.Label.Text = sum.Label()
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	xs := positions(mode, sum.Scales)
	ticks := []gplot.Tick{{Value: 1, Label: "1"}}
	for i, s := range sum.Scales {
		ticks = append(ticks, gplot.Tick{Value: xs[i], Label: fmt.Sprint(s)})
	}
	p.X.Tick.Marker = gplot.ConstantTicks(ticks)

	if base, ok := baseline(series, method, sum.Unit); ok {
		line, err := plotter.NewLine(plotter.XYs{{X: 1, Y: base}, {X: xs[len(xs)-1], Y: base}})
		if err != nil {
			return err
		}
		line.Color = serialColor
		line.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(strings.ToUpper(string(jobscript.ModeSerial)), line)
	}

	pts := errorPoints{
		XYs:     make(plotter.XYs, len(xs)),
		YErrors: make(plotter.YErrors, len(xs)),
	}
	for i := range xs {
		pts.XYs[i] = plotter.XY{X: xs[i], Y: sum.Means[i]}
		pts.YErrors[i].Low = sum.StdErrs[i]
		pts.YErrors[i].High = sum.StdErrs[i]
	}

	line, scatter, err := plotter.NewLinePoints(pts.XYs)
	if err != nil {
		return err
	}
	line.Color = parallelColor
	scatter.GlyphStyle.Color = parallelColor
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}

	bars, err := plotter.NewYErrorBars(pts)
	if err != nil {
		return err
	}
	bars.Color = parallelColor

	p.Add(line, scatter, bars)
	p.Legend.Add(strings.ToUpper(string(mode)), line, scatter)

	wt, err := p.WriterTo(6*vg.Inch, 4*vg.Inch, format)
	if err != nil {
		return fmt.Errorf("plot: %w", err)
	}
	_, err = wt.WriteTo(w)
	return err
}

func positions(mode jobscript.Mode, scales []int) []float64 {
	xs := make([]float64, len(scales))
	for i, s := range scales {
		if mode == jobscript.ModeDistributed {
			xs[i] = float64(i + 2)
		} else {
			xs[i] = float64(s)
		}
	}
	return xs
}

// baseline returns the serial mean of method in unit.
func baseline(series results.Series, method jobscript.Method, unit results.Unit) (float64, bool) {
	sp, err := results.Speedup(series, jobscript.ModeSerial, method)
	if err != nil {
		return 0, false
	}
	if unit == results.Milliseconds {
		return sp.BaselineMean * 1000, true
	}
	return sp.BaselineMean, true
}

// clusterColors returns n distinct colors, cycling through a qualitative
// palette when n exceeds its size.
func clusterColors(n int) ([]string, error) {
	pal, err := brewer.GetPalette(brewer.TypeQualitative, "Paired", 12)
	if err != nil {
		return nil, err
	}
	base := pal.Colors()

	out := make([]string, n)
	for i := range out {
		r, g, b, _ := base[i%len(base)].RGBA()
		out[i] = fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
	}
	return out, nil
}
