package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/supplyboard/backend-go/internal/domain"
	"github.com/supplyboard/backend-go/internal/forecast"
	"github.com/supplyboard/backend-go/internal/repository"
	"github.com/supplyboard/backend-go/internal/scenario"
	"github.com/supplyboard/backend-go/internal/service"
)

const dateLayout = "2006-01-02"

type DashboardHandler struct {
	service *service.DashboardService
}

func NewDashboardHandler(service *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// parseFilter reads the order filter from query params. List params accept
// both repeated values and comma-separated strings:
//
//	?category=Electronics&category=Chemicals
//	?category=Electronics,Chemicals
func (h *DashboardHandler) parseFilter(c *gin.Context) (domain.OrderFilter, error) {
	var filter domain.OrderFilter

	if from := strings.TrimSpace(c.Query("date_from")); from != "" {
		t, err := time.Parse(dateLayout, from)
		if err != nil {
			return filter, errors.New("date_from must be YYYY-MM-DD")
		}
		filter.DateFrom = &t
	}
	if to := strings.TrimSpace(c.Query("date_to")); to != "" {
		t, err := time.Parse(dateLayout, to)
		if err != nil {
			return filter, errors.New("date_to must be YYYY-MM-DD")
		}
		filter.DateTo = &t
	}

	filter.Categories = queryList(c, "category")
	filter.Suppliers = queryList(c, "supplier")

	for _, raw := range queryList(c, "abc_class") {
		class, ok := domain.ParseABCClass(raw)
		if !ok {
			return filter, errors.New("abc_class must be one of A, B, C")
		}
		filter.ABCClasses = append(filter.ABCClasses, class)
	}

	return filter, nil
}

func queryList(c *gin.Context, param string) []string {
	raw := c.QueryArray(param)
	if len(raw) == 0 {
		if single := strings.TrimSpace(c.Query(param)); single != "" {
			raw = []string{single}
		}
	}

	var values []string
	seen := make(map[string]struct{})
	for _, v := range raw {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if _, ok := seen[part]; ok {
				continue
			}
			seen[part] = struct{}{}
			values = append(values, part)
		}
	}
	return values
}

func (h *DashboardHandler) GetSummary(c *gin.Context) {
	filter, err := h.parseFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := h.service.GetSummary(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, "failed to fetch summary", err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *DashboardHandler) GetSupplierPerformance(c *gin.Context) {
	filter, err := h.parseFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	performance, err := h.service.GetSupplierPerformance(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, "failed to fetch supplier performance", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"suppliers": performance})
}

func (h *DashboardHandler) GetOTDTrend(c *gin.Context) {
	filter, err := h.parseFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trend, err := h.service.GetOTDTrend(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, "failed to fetch OTD trend", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"trend": trend})
}

func (h *DashboardHandler) GetInventoryStatus(c *gin.Context) {
	status, err := h.service.GetInventoryStatus(c.Request.Context())
	if err != nil {
		respondServiceError(c, "failed to fetch inventory status", err)
		return
	}

	c.JSON(http.StatusOK, status)
}

func (h *DashboardHandler) GetABCClassification(c *gin.Context) {
	filter, err := h.parseFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.service.GetABCClassification(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, "failed to fetch ABC classification", err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *DashboardHandler) GetForecast(c *gin.Context) {
	productID := strings.TrimSpace(c.Query("product_id"))
	if productID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product_id parameter is required"})
		return
	}

	window, err := strconv.Atoi(c.DefaultQuery("window", "7"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "window must be an integer"})
		return
	}

	eval, err := h.service.GetForecast(c.Request.Context(), productID, window)
	if err != nil {
		respondServiceError(c, "failed to compute forecast", err)
		return
	}

	c.JSON(http.StatusOK, eval)
}

// scenarioRequest is the POST body for a what-if simulation.
type scenarioRequest struct {
	Filter       domain.OrderFilter   `json:"filter"`
	Perturbation scenario.Perturbation `json:"perturbation"`
}

func (h *DashboardHandler) SimulateScenario(c *gin.Context) {
	var req scenarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	impact, err := h.service.SimulateScenario(c.Request.Context(), req.Filter, req.Perturbation)
	if err != nil {
		respondServiceError(c, "failed to simulate scenario", err)
		return
	}

	c.JSON(http.StatusOK, impact)
}

// respondServiceError maps domain validation sentinels to 400, missing data
// to 404, and everything else to 500.
func respondServiceError(c *gin.Context, message string, err error) {
	switch {
	case errors.Is(err, forecast.ErrWindowSize), errors.Is(err, forecast.ErrHorizon):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrNoData):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": message, "details": err.Error()})
	}
}
