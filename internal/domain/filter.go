package domain

import "time"

// OrderFilter selects a subset of orders by date range, category, ABC class
// or supplier. Filtering is a data-shaping step: its output is always a
// valid (possibly empty) order collection, and every KPI is defined over
// the empty result.
type OrderFilter struct {
	DateFrom   *time.Time `json:"date_from"`
	DateTo     *time.Time `json:"date_to"`
	Categories []string   `json:"categories"`
	ABCClasses []ABCClass `json:"abc_classes"`
	Suppliers  []string   `json:"suppliers"`
}

// IsZero reports whether the filter selects everything.
func (f OrderFilter) IsZero() bool {
	return f.DateFrom == nil && f.DateTo == nil &&
		len(f.Categories) == 0 && len(f.ABCClasses) == 0 && len(f.Suppliers) == 0
}

// Match reports whether the order passes every populated predicate.
func (f OrderFilter) Match(o Order) bool {
	if f.DateFrom != nil && o.OrderDate.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && o.OrderDate.After(*f.DateTo) {
		return false
	}
	if len(f.Categories) > 0 && !containsString(f.Categories, o.Category) {
		return false
	}
	if len(f.ABCClasses) > 0 && !containsClass(f.ABCClasses, o.ABCClass) {
		return false
	}
	if len(f.Suppliers) > 0 && !containsString(f.Suppliers, o.SupplierID) {
		return false
	}
	return true
}

// Apply returns the orders passing the filter, preserving input order.
func (f OrderFilter) Apply(orders []Order) []Order {
	if f.IsZero() {
		out := make([]Order, len(orders))
		copy(out, orders)
		return out
	}

	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		if f.Match(o) {
			out = append(out, o)
		}
	}
	return out
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func containsClass(haystack []ABCClass, needle ABCClass) bool {
	for _, c := range haystack {
		if c == needle {
			return true
		}
	}
	return false
}
