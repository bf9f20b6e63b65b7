package domain

import "strings"

// StockStatus classifies a product's stock position against its safety
// stock and reorder point.
type StockStatus string

const (
	StockCritical StockStatus = "Critical"
	StockLow      StockStatus = "Low"
	StockNormal   StockStatus = "Normal"
)

var stockStatuses = map[string]StockStatus{
	"critical": StockCritical,
	"low":      StockLow,
	"normal":   StockNormal,
}

// ParseStockStatus returns the status for a given label (case-insensitive).
func ParseStockStatus(label string) (StockStatus, bool) {
	s, ok := stockStatuses[strings.ToLower(strings.TrimSpace(label))]
	return s, ok
}

// ABCClass is the Pareto value tier of a product: A items carry the top
// ~80% of value, B the next ~15%, C the remainder.
type ABCClass string

const (
	ClassA ABCClass = "A"
	ClassB ABCClass = "B"
	ClassC ABCClass = "C"
)

// ParseABCClass returns the class for a given label (case-insensitive).
func ParseABCClass(label string) (ABCClass, bool) {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "A":
		return ClassA, true
	case "B":
		return ClassB, true
	case "C":
		return ClassC, true
	}
	return "", false
}

// Compliance records whether an order followed a named process step.
type Compliance string

const (
	Compliant    Compliance = "Compliant"
	NonCompliant Compliance = "Non-Compliant"
)

// ParseCompliance returns the compliance value for a label (case-insensitive).
func ParseCompliance(label string) (Compliance, bool) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "compliant":
		return Compliant, true
	case "non-compliant", "noncompliant":
		return NonCompliant, true
	}
	return "", false
}
