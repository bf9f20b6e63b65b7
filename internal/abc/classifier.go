// Package abc ranks items by value contribution and assigns Pareto tiers:
// class A while the running cumulative share of total value is at or below
// 80%, class B at or below 95%, class C for the remainder.
package abc

import (
	"sort"

	"github.com/supplyboard/backend-go/internal/domain"
)

// Boundary percentages are inclusive: an item whose cumulative share lands
// exactly on 80 is still class A, exactly on 95 still class B.
const (
	classABoundary = 80.0
	classBBoundary = 95.0
)

// Item is one classification input: an identifier plus the unit value and
// quantity whose product is the item's value contribution.
type Item struct {
	ID        string  `json:"id"`
	UnitValue float64 `json:"unit_value"`
	Quantity  float64 `json:"quantity"`
}

// Classified is an Item with its computed value, cumulative share of the
// grand total and assigned class.
type Classified struct {
	Item
	TotalValue    float64         `json:"total_value"`
	CumulativePct float64         `json:"cumulative_pct"`
	Class         domain.ABCClass `json:"class"`
}

// Classify sorts items descending by total value and assigns classes by
// cumulative percentage. The sort is stable, so items with equal value keep
// their input order and re-running on the same input always reproduces the
// same assignment. A single item carrying 100% of value is class A. Empty
// input yields an empty result.
func Classify(items []Item) []Classified {
	out := make([]Classified, len(items))
	grandTotal := 0.0
	for i, it := range items {
		value := it.UnitValue * it.Quantity
		out[i] = Classified{Item: it, TotalValue: value}
		grandTotal += value
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalValue > out[j].TotalValue
	})

	cumulative := 0.0
	for i := range out {
		cumulative += out[i].TotalValue

		pct := 100.0
		if grandTotal > 0 {
			pct = cumulative / grandTotal * 100
		}
		out[i].CumulativePct = pct

		switch {
		case pct <= classABoundary:
			out[i].Class = domain.ClassA
		case pct <= classBBoundary:
			out[i].Class = domain.ClassB
		default:
			out[i].Class = domain.ClassC
		}
	}

	// The top item is always A even when it alone exceeds the 80% boundary:
	// the A tier is never empty for non-empty input.
	if len(out) > 0 && grandTotal > 0 {
		out[0].Class = domain.ClassA
	}

	return out
}

// ClassShare summarizes one class's share of total value and quantity.
type ClassShare struct {
	Class      domain.ABCClass `json:"class"`
	ItemCount  int             `json:"item_count"`
	TotalValue float64         `json:"total_value"`
	ValuePct   float64         `json:"value_pct"`
}

// Shares aggregates classified items into per-class value shares, ordered
// A, B, C.
func Shares(classified []Classified) []ClassShare {
	byClass := map[domain.ABCClass]*ClassShare{}
	grandTotal := 0.0
	for _, c := range classified {
		s, ok := byClass[c.Class]
		if !ok {
			s = &ClassShare{Class: c.Class}
			byClass[c.Class] = s
		}
		s.ItemCount++
		s.TotalValue += c.TotalValue
		grandTotal += c.TotalValue
	}

	out := make([]ClassShare, 0, 3)
	for _, class := range []domain.ABCClass{domain.ClassA, domain.ClassB, domain.ClassC} {
		s, ok := byClass[class]
		if !ok {
			continue
		}
		if grandTotal > 0 {
			s.ValuePct = s.TotalValue / grandTotal * 100
		}
		out = append(out, *s)
	}
	return out
}
