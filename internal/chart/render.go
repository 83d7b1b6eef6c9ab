package chart

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Print size of rendered charts, in pixels.
const (
	Width  = 2400
	Height = 1200
)

// ErrNoData is returned when rendering an empty series.
var ErrNoData = errors.New("chart has no data")

// Render draws d as a PNG: a marker line for Score, bars otherwise.
func Render(k Kind, d Data) ([]byte, error) {
	if d.Len() == 0 {
		return nil, ErrNoData
	}
	buf := bytes.NewBuffer([]byte{})
	var err error
	if k == Score {
		err = lineChart(k, d).Render(gochart.PNG, buf)
	} else {
		err = barChart(k, d).Render(gochart.PNG, buf)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s chart: %w", k, err)
	}
	return buf.Bytes(), nil
}

func lineChart(k Kind, d Data) gochart.Chart {
	xs := make([]float64, d.Len())
	for i := range xs {
		xs[i] = float64(i)
	}
	lo, hi := d.Values[0], d.Values[d.Len()-1]
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	xName, yName := k.Axes()
	return gochart.Chart{
		Title:  k.Title(),
		Width:  Width,
		Height: Height,
		Background: gochart.Style{
			Padding:     gochart.Box{Top: 60, Left: 40, Right: 40, Bottom: 40},
			FillColor:   drawing.ColorWhite,
			StrokeColor: drawing.ColorFromHex("efefef"),
			StrokeWidth: 1,
		},
		XAxis: gochart.XAxis{
			Name:  xName,
			Range: &gochart.ContinuousRange{Min: 0, Max: math.Max(xs[len(xs)-1], 1)},
			ValueFormatter: func(v interface{}) string {
				if vf, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", vf)
				}
				return ""
			},
		},
		YAxis: gochart.YAxis{
			Name:  yName,
			Range: &gochart.ContinuousRange{Min: lo, Max: hi},
			ValueFormatter: func(v interface{}) string {
				if vf, ok := v.(float64); ok {
					return fmt.Sprintf("%.2f", vf)
				}
				return ""
			},
		},
		Series: []gochart.Series{
			gochart.ContinuousSeries{
				XValues: xs,
				YValues: d.Values,
				Style: gochart.Style{
					StrokeColor: drawing.ColorBlue,
					StrokeWidth: 2,
					DotColor:    drawing.ColorBlue,
					DotWidth:    3,
				},
			},
		},
	}
}

func barChart(k Kind, d Data) gochart.BarChart {
	bars := make([]gochart.Value, d.Len())
	for i, v := range d.Values {
		bars[i] = gochart.Value{Label: d.Labels[i], Value: v}
	}
	bottom := labelPadding(d.Labels)
	slot := (Width - 200) / d.Len()
	barWidth := slot * 3 / 5
	if barWidth > 120 {
		barWidth = 120
	}
	_, yName := k.Axes()
	return gochart.BarChart{
		Title:  k.Title(),
		Width:  Width,
		Height: Height,
		Background: gochart.Style{
			Padding:     gochart.Box{Top: 60, Bottom: bottom},
			FillColor:   drawing.ColorWhite,
			StrokeColor: gochart.ColorBlack,
		},
		BarWidth:   barWidth,
		BarSpacing: slot - barWidth,
		Bars:       bars,
		XAxis: gochart.Style{
			StrokeWidth:         2,
			StrokeColor:         gochart.ColorBlack,
			TextRotationDegrees: 45,
			FontSize:            14,
		},
		YAxis: gochart.YAxis{
			Name:  yName,
			Range: &gochart.ContinuousRange{Min: 0, Max: niceMax(maxValue(d.Values))},
			Style: gochart.Style{
				StrokeWidth: 2,
				StrokeColor: gochart.ColorBlack,
				FontSize:    14,
			},
			GridMajorStyle: gochart.Style{
				StrokeColor:     gochart.ColorBlack,
				StrokeWidth:     1,
				StrokeDashArray: []float64{5.0, 5.0},
			},
		},
	}
}

func labelPadding(labels []string) int {
	longest := 0
	for _, l := range labels {
		if len(l) > longest {
			longest = len(l)
		}
	}
	return longest*8 + 40
}

func maxValue(vals []float64) float64 {
	m := 0.0
	for _, v := range vals {
		if v > m {
			m = v
		}
	}
	return m
}

// niceMax rounds m up to the next grid step, leaving one step of headroom.
func niceMax(m float64) float64 {
	step := gridStep(m)
	if step == 0 {
		return 1
	}
	return math.Ceil(m/step)*step + step
}

func gridStep(maxValue float64) float64 {
	if maxValue <= 0 {
		return 0
	}
	magnitude := math.Pow(10, math.Floor(math.Log10(maxValue)))
	var step float64
	switch normalized := maxValue / magnitude; {
	case normalized <= 1:
		step = 0.2
	case normalized <= 2:
		step = 0.5
	case normalized <= 5:
		step = 1.0
	default:
		step = 2.0
	}
	final := step * magnitude
	if final >= 1000 {
		return math.Round(final/100) * 100
	}
	if final >= 100 {
		return math.Round(final/10) * 10
	}
	return final
}
