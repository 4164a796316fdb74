package backend

import (
	"fmt"
	"math"

	"git.sr.ht/~whereswaldon/scrubchart/chart"
)

// dailyProduction is the bar chart sample, one value per day.
var dailyProduction = []float64{
	299, 280, 298, 250, 299, 295, 290, 270, 280,
	299, 260, 299, 300, 299, 200, 298, 250, 299,
}

var dayParts = []string{"00:00", "6:00", "12:00", "18:00", "24:00"}

// SampleSeries returns demonstration data for a chart kind. The bar sample is
// a run of daily totals labelled by day. The line sample is a day of voltage
// readings every half hour, with columns for each quarter of the day.
func SampleSeries(kind chart.Kind) *chart.Series {
	if kind == chart.KindBar {
		s := &chart.Series{Points: make([]chart.DataPoint, len(dailyProduction))}
		for i, v := range dailyProduction {
			s.Points[i] = chart.DataPoint{X: chart.Text(fmt.Sprintf("%d", i+1)), Y: v}
		}
		return s
	}
	const readings = 49
	s := &chart.Series{
		Points:     make([]chart.DataPoint, readings),
		Categories: dayParts,
	}
	for i := range s.Points {
		hour := float64(i) / 2
		// Load dips overnight and around midday.
		v := 230 + 12*math.Sin(hour*math.Pi/12) - 6*math.Cos(hour*math.Pi/3)
		s.Points[i] = chart.DataPoint{
			X: chart.Text(fmt.Sprintf("%02d:%02d", int(hour), (i%2)*30)),
			Y: math.Round(v*10) / 10,
		}
	}
	return s
}
