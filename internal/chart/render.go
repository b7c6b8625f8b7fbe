package chart

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/felixbrock/ponygp/internal/domain"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"

	defaultWidth  = 1024
	defaultHeight = 512
	maxTicks      = 12
)

var (
	ErrNoPoints          = errors.New("no plottable fitness values error")
	ErrUnsupportedFormat = errors.New("unsupported chart format error")

	strokeColor = drawing.Color{R: 81, G: 145, B: 255, A: 255}
	fillColor   = drawing.Color{R: 138, G: 178, B: 252, A: 130}
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case "", PNG:
		return PNG, nil
	case SVG:
		return SVG, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, s)
	}
}

func (f Format) ContentType() string {
	if f == SVG {
		return "image/svg+xml"
	}
	return "image/png"
}

type Size struct {
	Width  int
	Height int
}

// Points converts the fitness texts to chart coordinates. The x value is the
// generation index. Values that do not parse as finite floats are skipped.
func Points(fitnesses domain.FitnessSeries) (xs []float64, ys []float64) {
	for i, f := range fitnesses {
		y, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil || math.IsNaN(y) || math.IsInf(y, 0) {
			continue
		}
		xs = append(xs, float64(i))
		ys = append(ys, y)
	}

	return xs, ys
}

// Render draws the fitness chart to w. The caption sits below the x axis.
func Render(w io.Writer, fitnesses domain.FitnessSeries, format Format, size Size) error {
	xs, ys := Points(fitnesses)
	if len(xs) == 0 {
		return ErrNoPoints
	}

	// go-chart cannot range a single x value.
	if len(xs) == 1 {
		xs = []float64{xs[0], xs[0] + 1}
		ys = []float64{ys[0], ys[0]}
	}

	if size.Width <= 0 {
		size.Width = defaultWidth
	}
	if size.Height <= 0 {
		size.Height = defaultHeight
	}

	graph := gochart.Chart{
		Width:      size.Width,
		Height:     size.Height,
		Background: gochart.Style{Padding: gochart.Box{Top: 24, Left: 16, Right: 16, Bottom: 16}},
		XAxis: gochart.XAxis{
			Name:  Title,
			Range: xRange(len(fitnesses), xs),
			Ticks: ticks(len(fitnesses)),
		},
		YAxis: gochart.YAxis{
			Range: yRange(ys),
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return strconv.FormatFloat(f, 'f', 2, 64)
				}
				return ""
			},
		},
		Series: []gochart.Series{
			gochart.ContinuousSeries{
				Name:    DatasetLabel,
				XValues: xs,
				YValues: ys,
				Style: gochart.Style{
					StrokeColor: strokeColor,
					StrokeWidth: 2,
					FillColor:   fillColor,
				},
			},
		},
	}
	graph.Elements = []gochart.Renderable{gochart.Legend(&graph)}

	provider := gochart.PNG
	if format == SVG {
		provider = gochart.SVG
	}

	if err := graph.Render(provider, w); err != nil {
		return fmt.Errorf("render fitness chart: %w", err)
	}

	return nil
}

func xRange(n int, xs []float64) gochart.Range {
	hi := math.Max(float64(n-1), xs[len(xs)-1])
	return &gochart.ContinuousRange{Min: 0, Max: math.Max(hi, 1)}
}

// yRange widens a flat series, go-chart rejects a zero y delta.
func yRange(ys []float64) gochart.Range {
	lo, hi := ys[0], ys[0]
	for _, y := range ys[1:] {
		lo = math.Min(lo, y)
		hi = math.Max(hi, y)
	}

	if lo != hi {
		return nil
	}

	return &gochart.ContinuousRange{Min: lo - 1, Max: hi + 1}
}

// ticks labels at most maxTicks generations, always including the first.
func ticks(n int) []gochart.Tick {
	if n < 2 {
		return []gochart.Tick{{Value: 0, Label: "Gen 0"}}
	}

	step := (n + maxTicks - 1) / maxTicks
	labels := Labels(n)

	var t []gochart.Tick
	for i := 0; i < n; i += step {
		t = append(t, gochart.Tick{Value: float64(i), Label: labels[i]})
	}

	return t
}
