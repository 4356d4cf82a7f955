package scoreservice

import (
	"bytes"

	scoredomain "github.com/Black-And-White-Club/leaderboard-scores/app/modules/score/domain"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ChartPalette colors a rendered leaderboard.
type ChartPalette struct {
	Background drawing.Color
	PrimaryBar drawing.Color
	AccentBar  drawing.Color
	TextColor  drawing.Color
}

// DefaultChartPalette is used when Options.Palette is left empty.
var DefaultChartPalette = ChartPalette{
	Background: drawing.Color{R: 0x12, G: 0x1c, B: 0x17, A: 0xff},
	PrimaryBar: drawing.Color{R: 0x2f, G: 0x7d, B: 0x5a, A: 0xff},
	AccentBar:  drawing.Color{R: 0xd4, G: 0xaf, B: 0x37, A: 0xff},
	TextColor:  drawing.Color{R: 0xe8, G: 0xec, B: 0xe9, A: 0xff},
}

const (
	maxChartBars  = 20
	chartBarWidth = 40
	chartBarSpace = 20
	chartHeight   = 400
)

// GenerateLeaderboardChart produces a PNG bar chart of the leaderboard, one
// bar per score in leaderboard order. The leader is drawn in the accent
// color. Only the first maxChartBars entries are plotted.
func GenerateLeaderboardChart(game string, views []scoredomain.ScoreView, palette ChartPalette) ([]byte, error) {
	if len(views) == 0 {
		return renderNoDataPlaceholder(palette)
	}
	if len(views) > maxChartBars {
		views = views[:maxChartBars]
	}

	bars := make([]chart.Value, len(views))
	lo, hi := 0.0, 0.0
	for i, v := range views {
		fill := palette.PrimaryBar
		if i == 0 {
			fill = palette.AccentBar
		}
		value := float64(v.Score)
		bars[i] = chart.Value{
			Label: v.Username,
			Value: value,
			Style: chart.Style{
				FillColor:   fill,
				StrokeColor: fill,
				StrokeWidth: 1,
			},
		}
		lo = min(lo, value)
		hi = max(hi, value)
	}
	// A flat range cannot be scaled.
	if hi == lo {
		hi = lo + 1
	}

	width := max(400, 120+len(bars)*(chartBarWidth+chartBarSpace))
	graph := chart.BarChart{
		Title:      game,
		TitleStyle: chart.Style{FontColor: palette.TextColor},
		Width:      width,
		Height:     chartHeight,
		BarWidth:   chartBarWidth,
		BarSpacing: chartBarSpace,
		Background: chart.Style{
			FillColor: palette.Background,
			Padding:   chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		XAxis: chart.Style{
			FontColor:   palette.TextColor,
			StrokeColor: palette.TextColor,
		},
		YAxis: chart.YAxis{
			Name: "Score",
			Style: chart.Style{
				FontColor:   palette.TextColor,
				StrokeColor: palette.TextColor,
			},
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
		},
		Bars: bars,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func renderNoDataPlaceholder(palette ChartPalette) ([]byte, error) {
	const (
		width  = 400
		height = 200
		msg    = "No scores recorded"
	)

	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, err
	}
	r, err := chart.PNG(width, height)
	if err != nil {
		return nil, err
	}

	r.SetFillColor(palette.Background)
	r.MoveTo(0, 0)
	r.LineTo(width, 0)
	r.LineTo(width, height)
	r.LineTo(0, height)
	r.Close()
	r.Fill()

	r.SetFont(font)
	r.SetFontColor(palette.TextColor)
	r.SetFontSize(12.0)
	tb := r.MeasureText(msg)
	r.Text(msg, (width-tb.Width())/2, (height+tb.Height())/2)

	buffer := bytes.NewBuffer([]byte{})
	if err := r.Save(buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
