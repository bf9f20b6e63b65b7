package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func policyRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/policy/calculate", NewPolicyHandler().Calculate)
	return router
}

func postPolicy(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/policy/calculate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	policyRouter().ServeHTTP(w, req)
	return w
}

func TestPolicyCalculate(t *testing.T) {
	w := postPolicy(t, `{
		"annual_demand": 1000,
		"ordering_cost": 50,
		"holding_cost": 5,
		"avg_demand": 40,
		"demand_std_dev": 10,
		"lead_time": 4,
		"service_level": 0.95
	}`)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp policyResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.EOQ < 141 || resp.EOQ > 142 {
		t.Errorf("Expected EOQ ~141.42, got %v", resp.EOQ)
	}
	if resp.SafetyStock < 32 || resp.SafetyStock > 34 {
		t.Errorf("Expected safety stock ~32.9, got %v", resp.SafetyStock)
	}
	if resp.ReorderPoint != 40*4+resp.SafetyStock {
		t.Errorf("Expected ROP = demand*lead_time + safety, got %v", resp.ReorderPoint)
	}
}

func TestPolicyCalculate_ValidationErrorsAre400(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"zero holding cost", `{"annual_demand":1000,"ordering_cost":50,"holding_cost":0,"service_level":0.95}`},
		{"service level out of range", `{"annual_demand":1000,"ordering_cost":50,"holding_cost":5,"service_level":1.5}`},
		{"negative demand std", `{"annual_demand":1000,"ordering_cost":50,"holding_cost":5,"demand_std_dev":-1,"service_level":0.95}`},
		{"malformed body", `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := postPolicy(t, tt.body); w.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}
