package plot

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/hupe1980/kmbench/codec"
)

// Clustering renders an interactive HTML scatter plot of points coloured
// by their assigned cluster, with the centers drawn in black. Points with
// more than two features are reduced to two by averaging contiguous
// feature groups.
func Clustering(points, centers codec.PointSet, labels codec.LabelSet, w io.Writer) error {
	if len(points) == 0 {
		return ErrNoSeries
	}
	if len(labels) != len(points) {
		return fmt.Errorf("plot: %d labels for %d points", len(labels), len(points))
	}
	width := points.Width()
	if width < 2 {
		return fmt.Errorf("plot: need at least 2 features, got %d", width)
	}
	if len(centers) > 0 && centers.Width() != width {
		return fmt.Errorf("plot: centers have %d features, points have %d", centers.Width(), width)
	}

	k := len(centers)
	for _, l := range labels {
		if int(l) >= k {
			k = int(l) + 1
		}
		if l < 0 {
			return fmt.Errorf("plot: negative label %d", l)
		}
	}

	groups := make([][]opts.ScatterData, k)
	for i, p := range points {
		groups[labels[i]] = append(groups[labels[i]], opts.ScatterData{
			Name:  fmt.Sprint(i),
			Value: reduce(p, 2),
		})
	}

	colors, err := clusterColors(k)
	if err != nil {
		return err
	}

	sc := charts.NewScatter()
	sc.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Clustering - Scatter Plot"}),
		charts.WithLegendOpts(opts.Legend{Top: "5%"}),
		charts.WithDataZoomOpts(
			opts.DataZoom{Type: "inside", XAxisIndex: 0},
			opts.DataZoom{Type: "inside", YAxisIndex: 0},
		),
		charts.WithTooltipOpts(opts.Tooltip{Formatter: "{a}: {b}"}),
	)

	for i, data := range groups {
		if len(data) == 0 {
			continue
		}
		sc.AddSeries(fmt.Sprintf("Cluster %d", i), data,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: colors[i]}))
	}

	if len(centers) > 0 {
		data := make([]opts.ScatterData, len(centers))
		for i, c := range centers {
			data[i] = opts.ScatterData{Name: fmt.Sprintf("center %d", i), Value: reduce(c, 2), SymbolSize: 14}
		}
		sc.AddSeries("Centers", data, charts.WithItemStyleOpts(opts.ItemStyle{Color: "black"}))
	}

	return sc.Render(w)
}

// reduce averages contiguous groups of coordinates down to dim values.
func reduce(p codec.Point, dim int) []float64 {
	if len(p) == dim {
		return append([]float64(nil), p...)
	}
	out := make([]float64, dim)
	lo := 0
	for i := range out {
		hi := (i + 1) * len(p) / dim
		for _, v := range p[lo:hi] {
			out[i] += v
		}
		out[i] /= float64(hi - lo)
		lo = hi
	}
	return out
}
