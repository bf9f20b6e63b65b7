package abc

import (
	"math"
	"testing"

	"github.com/supplyboard/backend-go/internal/domain"
)

func TestClassify(t *testing.T) {
	// Values: 700, 150, 100, 50 of a 1000 total; cumulative 70, 85, 95, 100.
	items := []Item{
		{ID: "P0004", UnitValue: 50, Quantity: 1},
		{ID: "P0001", UnitValue: 70, Quantity: 10},
		{ID: "P0003", UnitValue: 100, Quantity: 1},
		{ID: "P0002", UnitValue: 15, Quantity: 10},
	}

	out := Classify(items)
	if len(out) != 4 {
		t.Fatalf("Expected 4 classified items, got %d", len(out))
	}

	wantOrder := []string{"P0001", "P0002", "P0003", "P0004"}
	wantClass := []domain.ABCClass{domain.ClassA, domain.ClassB, domain.ClassB, domain.ClassC}
	for i := range out {
		if out[i].ID != wantOrder[i] {
			t.Errorf("Position %d: expected %s, got %s", i, wantOrder[i], out[i].ID)
		}
		if out[i].Class != wantClass[i] {
			t.Errorf("%s: expected class %v, got %v", out[i].ID, wantClass[i], out[i].Class)
		}
	}

	if math.Abs(out[0].CumulativePct-70) > 1e-9 || math.Abs(out[3].CumulativePct-100) > 1e-9 {
		t.Errorf("Unexpected cumulative percentages: %v, %v", out[0].CumulativePct, out[3].CumulativePct)
	}
}

func TestClassify_BoundariesInclusive(t *testing.T) {
	// Cumulative shares land exactly on 80 and 95.
	items := []Item{
		{ID: "P0001", UnitValue: 80, Quantity: 1},
		{ID: "P0002", UnitValue: 15, Quantity: 1},
		{ID: "P0003", UnitValue: 5, Quantity: 1},
	}

	out := Classify(items)
	if out[0].Class != domain.ClassA {
		t.Errorf("Item at exactly 80%% cumulative: expected A, got %v", out[0].Class)
	}
	if out[1].Class != domain.ClassB {
		t.Errorf("Item at exactly 95%% cumulative: expected B, got %v", out[1].Class)
	}
	if out[2].Class != domain.ClassC {
		t.Errorf("Last item: expected C, got %v", out[2].Class)
	}
}

func TestClassify_SingleItemIsClassA(t *testing.T) {
	out := Classify([]Item{{ID: "P0001", UnitValue: 10, Quantity: 5}})
	if len(out) != 1 || out[0].Class != domain.ClassA {
		t.Errorf("A single item carrying all value must be class A, got %+v", out)
	}
}

func TestClassify_StableForEqualValues(t *testing.T) {
	items := []Item{
		{ID: "P0001", UnitValue: 10, Quantity: 1},
		{ID: "P0002", UnitValue: 10, Quantity: 1},
		{ID: "P0003", UnitValue: 10, Quantity: 1},
	}

	first := Classify(items)
	second := Classify(items)
	for i := range first {
		if first[i].ID != items[i].ID {
			t.Errorf("Equal-value items must keep input order, position %d got %s", i, first[i].ID)
		}
		if first[i] != second[i] {
			t.Errorf("Re-running classification changed position %d", i)
		}
	}
}

func TestClassify_ZeroTotalValue(t *testing.T) {
	out := Classify([]Item{
		{ID: "P0001", UnitValue: 0, Quantity: 10},
		{ID: "P0002", UnitValue: 5, Quantity: 0},
	})

	for _, c := range out {
		if c.Class != domain.ClassC {
			t.Errorf("Expected class C for zero-value item %s, got %v", c.ID, c.Class)
		}
		if c.CumulativePct != 100 {
			t.Errorf("Expected cumulative pct 100 for zero total, got %v", c.CumulativePct)
		}
	}
}

func TestClassify_Empty(t *testing.T) {
	if out := Classify(nil); len(out) != 0 {
		t.Errorf("Expected empty result, got %v", out)
	}
}

func TestShares(t *testing.T) {
	classified := Classify([]Item{
		{ID: "P0001", UnitValue: 700, Quantity: 1},
		{ID: "P0002", UnitValue: 200, Quantity: 1},
		{ID: "P0003", UnitValue: 100, Quantity: 1},
	})

	shares := Shares(classified)
	if len(shares) != 3 {
		t.Fatalf("Expected 3 class shares, got %d", len(shares))
	}
	if shares[0].Class != domain.ClassA || shares[1].Class != domain.ClassB || shares[2].Class != domain.ClassC {
		t.Errorf("Expected shares ordered A, B, C, got %+v", shares)
	}
	if shares[0].ItemCount != 1 || math.Abs(shares[0].ValuePct-70) > 1e-9 {
		t.Errorf("Unexpected class A share: %+v", shares[0])
	}

	totalPct := shares[0].ValuePct + shares[1].ValuePct + shares[2].ValuePct
	if math.Abs(totalPct-100) > 1e-9 {
		t.Errorf("Expected shares to sum to 100%%, got %v", totalPct)
	}
}
