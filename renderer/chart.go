package renderer

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/etnz/moneymanager"
	"github.com/etnz/moneymanager/date"
	"github.com/shopspring/decimal"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNotEnoughData is returned when a chart needs more points than available.
var ErrNotEnoughData = errors.New("not enough data to draw a chart")

// BalancePoint is the balance at the end of a day.
type BalancePoint struct {
	Date    date.Date
	Balance decimal.Decimal
}

// BalanceSeries returns the end of day balance for each day with a debit or a
// credit, in date order. Transfers do not change the balance and are ignored.
func BalanceSeries(records []moneymanager.Record) []BalancePoint {
	moves := slices.DeleteFunc(slices.Clone(records), func(r moneymanager.Record) bool {
		return r.Kind != moneymanager.Debit && r.Kind != moneymanager.Credit
	})
	slices.SortStableFunc(moves, func(a, b moneymanager.Record) int { return a.Date.Compare(b.Date) })

	var points []BalancePoint
	balance := decimal.Zero
	for _, r := range moves {
		balance = balance.Add(r.Signed())
		if n := len(points); n > 0 && points[n-1].Date == r.Date {
			points[n-1].Balance = balance
			continue
		}
		points = append(points, BalancePoint{Date: r.Date, Balance: balance})
	}
	return points
}

// BalanceChart renders the running balance as a PNG line chart.
func BalanceChart(points []BalancePoint, currency string) ([]byte, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 days, got %d", ErrNotEnoughData, len(points))
	}

	xValues := make([]time.Time, len(points))
	yValues := make([]float64, len(points))
	for i, p := range points {
		xValues[i] = p.Date.Time()
		yValues[i] = p.Balance.InexactFloat64()
	}

	balanceSeries := chart.TimeSeries{
		Name: "Balance",
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("2563eb"),
			StrokeWidth: 2.5,
		},
		XValues: xValues,
		YValues: yValues,
	}

	graph := chart.Chart{
		Title:  "Balance",
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("02 Jan 06")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return money(decimal.NewFromFloat(f).Round(0), currency)
				}
				return ""
			},
		},
		Series: []chart.Series{balanceSeries},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}
