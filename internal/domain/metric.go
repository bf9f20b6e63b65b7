package domain

import "encoding/json"

// Metric is a numeric KPI result that distinguishes a genuinely computed
// zero from "not available". Aggregates over an empty collection return an
// invalid Metric instead of collapsing to 0, so the presentation layer can
// render "N/A" rather than "0%". It marshals to JSON null when invalid.
type Metric struct {
	Value float64
	Valid bool
}

// MetricOf wraps a computed value.
func MetricOf(v float64) Metric {
	return Metric{Value: v, Valid: true}
}

// NoMetric is the "not available" sentinel.
func NoMetric() Metric {
	return Metric{}
}

// Or returns the metric's value, or fallback when not available.
func (m Metric) Or(fallback float64) float64 {
	if !m.Valid {
		return fallback
	}
	return m.Value
}

func (m Metric) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(m.Value)
}

func (m *Metric) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = Metric{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*m = Metric{Value: v, Valid: true}
	return nil
}
