// Package forecast produces a moving-average demand forecast with a linear
// trend term, and scores forecast quality via MAPE-derived accuracy.
//
// This is a windowed-average extrapolation, not a statistical model: it has
// no seasonality awareness and is knowingly naive. It exists as a baseline
// for the dashboard's demand view.
package forecast

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrWindowSize rejects non-positive moving-average windows.
	ErrWindowSize = errors.New("window must be positive")

	// ErrHorizon rejects negative forecast horizons.
	ErrHorizon = errors.New("horizon must not be negative")
)

// DefaultHorizon is the forward forecast length used by Evaluate.
const DefaultHorizon = 30

// TrainRatio is the chronological share of a series used for fitting; the
// remainder is held out for accuracy scoring.
const TrainRatio = 0.8

// MovingAverage forecasts `horizon` future values from a daily demand
// series. When the series is shorter than the window, every forecast value
// is the overall series mean. Otherwise the base is the mean of the last
// `window` points, the trend is (last - point `window` steps back)/window,
// and forecast[i] = max(0, base + trend*i). Output length always equals
// horizon and every value is non-negative.
func MovingAverage(series []float64, window, horizon int) ([]float64, error) {
	if window <= 0 {
		return nil, fmt.Errorf("moving average: window %d: %w", window, ErrWindowSize)
	}
	if horizon < 0 {
		return nil, fmt.Errorf("moving average: horizon %d: %w", horizon, ErrHorizon)
	}

	out := make([]float64, horizon)

	if len(series) < window {
		fill := mean(series)
		for i := range out {
			out[i] = math.Max(0, fill)
		}
		return out, nil
	}

	base := mean(series[len(series)-window:])
	trend := (series[len(series)-1] - series[len(series)-window]) / float64(window)

	for i := range out {
		out[i] = math.Max(0, base+trend*float64(i))
	}
	return out, nil
}

// Accuracy scores a forecast against actuals as max(0, 100 - MAPE), where
// MAPE is the mean absolute percentage error over the points where the
// actual is non-zero. Zero-actual points are excluded from the denominator
// rather than dividing by zero. Empty series, or series whose actuals are
// all zero, score 0. A perfect forecast scores 100.
func Accuracy(actual, forecast []float64) float64 {
	n := len(actual)
	if len(forecast) < n {
		n = len(forecast)
	}

	sum := 0.0
	count := 0
	for i := 0; i < n; i++ {
		if actual[i] == 0 {
			continue
		}
		sum += math.Abs((actual[i] - forecast[i]) / actual[i])
		count++
	}
	if count == 0 {
		return 0
	}

	mape := sum / float64(count) * 100
	return math.Max(0, 100-mape)
}

// Split divides a chronologically ordered series into training and test
// portions at TrainRatio.
func Split(series []float64) (train, test []float64) {
	cut := int(float64(len(series)) * TrainRatio)
	return series[:cut], series[cut:]
}

// Evaluation holds the outcome of fitting on the training portion of a
// series and scoring against the held-out test portion.
type Evaluation struct {
	Test     []float64 `json:"test"`
	TestFit  []float64 `json:"test_fit"`
	Forward  []float64 `json:"forward"`
	Accuracy float64   `json:"accuracy"`
}

// Evaluate fits a moving average on the first 80% of the series, scores it
// against the remaining 20%, and extends a DefaultHorizon forward forecast
// from the full series.
func Evaluate(series []float64, window int) (*Evaluation, error) {
	train, test := Split(series)

	testFit, err := MovingAverage(train, window, len(test))
	if err != nil {
		return nil, err
	}

	forward, err := MovingAverage(series, window, DefaultHorizon)
	if err != nil {
		return nil, err
	}

	return &Evaluation{
		Test:     test,
		TestFit:  testFit,
		Forward:  forward,
		Accuracy: Accuracy(test, testFit),
	}, nil
}

func mean(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range series {
		sum += v
	}
	return sum / float64(len(series))
}
