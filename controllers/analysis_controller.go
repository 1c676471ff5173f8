package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/siddevkota/NutriCare/services"
)

type AnalysisController struct {
	weights   *services.WeightService
	nutrition *services.NutritionService
	risk      *services.RiskService
	log       *zap.Logger
}

func NewAnalysisController(weights *services.WeightService, nutrition *services.NutritionService, risk *services.RiskService, log *zap.Logger) *AnalysisController {
	return &AnalysisController{weights: weights, nutrition: nutrition, risk: risk, log: log}
}

// POST /weight-estimation
//
// Turns client-measured physical areas into weights and scaled
// nutrition, for flows where calibration happened on the device.
func (a *AnalysisController) WeightEstimation(c *gin.Context) {
	var req struct {
		Foods []struct {
			Name    string  `json:"name" binding:"required"`
			AreaCm2 float64 `json:"area_cm2"`
		} `json:"foods" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "foods with name and area_cm2 are required"})
		return
	}

	out := make([]gin.H, 0, len(req.Foods))
	for _, f := range req.Foods {
		est := a.weights.EstimateForArea(f.Name, f.AreaCm2)
		scaled := a.nutrition.ScaleToWeight(f.Name, est.WeightG)
		entry := gin.H{
			"estimate":  est,
			"nutrition": scaled,
		}
		if gi, ok := a.risk.GlycemicInfo(f.Name); ok {
			entry["glycemic"] = gi
		}
		out = append(out, entry)
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"foods":  out,
		"count":  len(out),
	})
}

// defaultPortionG stands in for portions sent without a weight.
const defaultPortionG = 100.0

// POST /diabetes-analysis
//
// Full meal assessment: per-food glycemic load, meal totals, risk level
// and the advice blocks that go with it.
func (a *AnalysisController) DiabetesAnalysis(c *gin.Context) {
	var req struct {
		DetectedFoods []struct {
			Name             string   `json:"name" binding:"required"`
			EstimatedWeightG *float64 `json:"estimated_weight_g"`
		} `json:"detected_foods" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "detected_foods entries require a name"})
		return
	}

	portions := make([]services.PortionInput, 0, len(req.DetectedFoods))
	for _, f := range req.DetectedFoods {
		weight := defaultPortionG
		if f.EstimatedWeightG != nil {
			weight = *f.EstimatedWeightG
		}
		portions = append(portions, services.PortionInput{Name: f.Name, WeightG: weight})
	}

	assessment := a.risk.AssessMeal(portions)
	c.JSON(http.StatusOK, gin.H{
		"status":     "success",
		"assessment": assessment,
	})
}
