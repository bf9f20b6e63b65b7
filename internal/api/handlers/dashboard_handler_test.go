package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/supplyboard/backend-go/internal/domain"
)

func filterContext(t *testing.T, rawQuery string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard/summary?"+rawQuery, nil)
	return c
}

func TestParseFilter(t *testing.T) {
	h := NewDashboardHandler(nil)

	filter, err := h.parseFilter(filterContext(t,
		"date_from=2025-01-01&date_to=2025-03-31&category=Component,Raw%20Material&abc_class=a&supplier=SUP001&supplier=SUP002"))
	if err != nil {
		t.Fatalf("parseFilter failed: %v", err)
	}

	if filter.DateFrom == nil || filter.DateFrom.Format("2006-01-02") != "2025-01-01" {
		t.Errorf("Unexpected date_from: %v", filter.DateFrom)
	}
	if filter.DateTo == nil || filter.DateTo.Format("2006-01-02") != "2025-03-31" {
		t.Errorf("Unexpected date_to: %v", filter.DateTo)
	}
	if len(filter.Categories) != 2 || filter.Categories[0] != "Component" || filter.Categories[1] != "Raw Material" {
		t.Errorf("Expected comma-separated categories split, got %v", filter.Categories)
	}
	if len(filter.ABCClasses) != 1 || filter.ABCClasses[0] != domain.ClassA {
		t.Errorf("Expected abc_class normalized to A, got %v", filter.ABCClasses)
	}
	if len(filter.Suppliers) != 2 {
		t.Errorf("Expected repeated supplier params collected, got %v", filter.Suppliers)
	}
}

func TestParseFilter_Empty(t *testing.T) {
	h := NewDashboardHandler(nil)

	filter, err := h.parseFilter(filterContext(t, ""))
	if err != nil {
		t.Fatalf("parseFilter failed: %v", err)
	}
	if !filter.IsZero() {
		t.Errorf("Expected zero filter for no params, got %+v", filter)
	}
}

func TestParseFilter_Invalid(t *testing.T) {
	h := NewDashboardHandler(nil)

	if _, err := h.parseFilter(filterContext(t, "date_from=01/01/2025")); err == nil {
		t.Error("Expected error for malformed date")
	}
	if _, err := h.parseFilter(filterContext(t, "abc_class=D")); err == nil {
		t.Error("Expected error for unknown ABC class")
	}
}

func TestQueryList_Deduplicates(t *testing.T) {
	c := filterContext(t, "category=Component&category=Component,Chemicals")

	values := queryList(c, "category")
	if len(values) != 2 || values[0] != "Component" || values[1] != "Chemicals" {
		t.Errorf("Expected deduplicated flattened list, got %v", values)
	}
}
