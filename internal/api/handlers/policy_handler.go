package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/supplyboard/backend-go/internal/policy"
)

// PolicyHandler exposes the interactive policy calculators: given demand
// and cost parameters it returns the recommended order quantity, safety
// stock and reorder point.
type PolicyHandler struct{}

func NewPolicyHandler() *PolicyHandler {
	return &PolicyHandler{}
}

type policyRequest struct {
	AnnualDemand float64 `json:"annual_demand"`
	OrderingCost float64 `json:"ordering_cost"`
	HoldingCost  float64 `json:"holding_cost"`
	AvgDemand    float64 `json:"avg_demand"`
	DemandStdDev float64 `json:"demand_std_dev"`
	LeadTime     float64 `json:"lead_time"`
	ServiceLevel float64 `json:"service_level"`
}

type policyResponse struct {
	EOQ          float64 `json:"eoq"`
	SafetyStock  float64 `json:"safety_stock"`
	ReorderPoint float64 `json:"reorder_point"`
}

func (h *PolicyHandler) Calculate(c *gin.Context) {
	var req policyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	eoq, err := policy.EOQ(req.AnnualDemand, req.OrderingCost, req.HoldingCost)
	if err != nil {
		respondPolicyError(c, err)
		return
	}

	safety, err := policy.SafetyStock(req.DemandStdDev, req.LeadTime, req.ServiceLevel)
	if err != nil {
		respondPolicyError(c, err)
		return
	}

	c.JSON(http.StatusOK, policyResponse{
		EOQ:          eoq,
		SafetyStock:  safety,
		ReorderPoint: policy.ReorderPoint(req.AvgDemand, req.LeadTime, safety),
	})
}

func respondPolicyError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, policy.ErrNonPositiveHoldingCost),
		errors.Is(err, policy.ErrNegativeInput),
		errors.Is(err, policy.ErrServiceLevelRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "policy calculation failed", "details": err.Error()})
	}
}
