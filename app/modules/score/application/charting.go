package scoreservice

import (
	"bytes"
	"context"
	"fmt"

	scoredb "github.com/Black-And-White-Club/meishu/app/modules/score/infrastructure/repositories"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// maxChartBars keeps bar labels legible at the fixed chart width.
const maxChartBars = 20

var (
	chartBackground = drawing.ColorFromHex("1b1f24")
	chartBar        = drawing.ColorFromHex("d4a72c")
	chartText       = drawing.ColorFromHex("e6edf3")
)

// LeaderboardChart renders the top finalized scores as a PNG bar chart.
func (s *ScoreService) LeaderboardChart(ctx context.Context, limit int) ([]byte, error) {
	if limit <= 0 || limit > maxChartBars {
		limit = maxChartBars
	}

	scores, err := s.Leaderboard(ctx, limit)
	if err != nil {
		return nil, err
	}

	png, err := renderLeaderboardChart(scores)
	if err != nil {
		return nil, fmt.Errorf("failed to render leaderboard chart: %w", err)
	}
	return png, nil
}

func renderLeaderboardChart(scores []scoredb.Score) ([]byte, error) {
	bars := make([]chart.Value, 0, len(scores))
	lo, hi := 0.0, 0.0
	for _, score := range scores {
		v := float64(score.Score)
		lo, hi = min(lo, v), max(hi, v)
		bars = append(bars, chart.Value{
			Label: score.DisplayName(),
			Value: v,
			Style: chart.Style{
				FillColor:   chartBar,
				StrokeColor: chartBar,
			},
		})
	}
	if len(bars) == 0 {
		bars = append(bars, chart.Value{Label: "No scores yet", Value: 0})
	}
	if hi <= lo {
		hi = lo + 1
	}

	graph := chart.BarChart{
		Title:      "Leaderboard",
		TitleStyle: chart.Style{FontColor: chartText},
		Width:      800,
		Height:     400,
		BarWidth:   30,
		Background: chart.Style{
			FillColor: chartBackground,
			Padding:   chart.Box{Top: 40},
		},
		Canvas: chart.Style{
			FillColor: chartBackground,
		},
		XAxis: chart.Style{
			FontColor: chartText,
		},
		YAxis: chart.YAxis{
			Style: chart.Style{FontColor: chartText},
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
