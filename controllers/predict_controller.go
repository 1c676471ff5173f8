package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/siddevkota/NutriCare/models"
	"github.com/siddevkota/NutriCare/services"
	"github.com/siddevkota/NutriCare/utils"
)

type PredictController struct {
	roboflow *services.RoboflowService
	seg      *services.SegmentationService
	weights  *services.WeightService
	log      *zap.Logger
}

func NewPredictController(roboflow *services.RoboflowService, seg *services.SegmentationService, weights *services.WeightService, log *zap.Logger) *PredictController {
	return &PredictController{roboflow: roboflow, seg: seg, weights: weights, log: log}
}

// POST /predict and POST /direct-predict
//
// Accepts a base64 image, forwards it to the segmentation model and
// returns per-class areas plus weight estimates. The raw mask and class
// map are passed through so the client can render the overlay later
// without a second round trip.
func (p *PredictController) Predict(c *gin.Context) {
	var req struct {
		Image string `json:"image" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image is required"})
		return
	}

	cleaned, err := utils.NormalizeBase64Image(req.Image)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid base64 image"})
		return
	}

	result, err := p.roboflow.Detect(c.Request.Context(), cleaned)
	if err != nil {
		p.log.Error("segmentation request failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "segmentation model unavailable"})
		return
	}

	summary := p.analyze(result)
	estimates, calibration := p.weights.EstimateFromAreas(summary)
	names := classNames(summary.Classes)

	c.JSON(http.StatusOK, gin.H{
		"status":            "success",
		"message":           "image analyzed",
		"analysis_id":       uuid.NewString(),
		"detected_classes":  names,
		"total_classes":     len(names),
		"class_areas":       summary.Classes,
		"total_food_area":   summary.TotalFoodArea,
		"mask_info":         summary.MaskInfo,
		"detection_mode":    summary.Mode,
		"weight_estimates":  estimates,
		"calibration_info":  calibration,
		"segmentation_mask": result.SegmentationMask,
		"class_map":         result.ClassMap,
		"image_info":        result.Image,
	})
}

// sampleImage is a small embedded PNG the smoke test sends, so the check
// needs no client-supplied photo.
const sampleImage = "iVBORw0KGgoAAAANSUhEUgAAAAgAAAAICAIAAABLbSncAAAAEUlEQVR42mO4Md0GK2IYWhIA3S9qwRxi7/MAAAAASUVORK5CYII="

// GET /test
//
// Runs one prediction against the embedded sample image to confirm the
// model endpoint is reachable and its responses still parse.
func (p *PredictController) ModelTest(c *gin.Context) {
	if !p.roboflow.Configured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "segmentation model not configured"})
		return
	}

	result, err := p.roboflow.Detect(c.Request.Context(), sampleImage)
	if err != nil {
		p.log.Error("model test failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "segmentation model unavailable"})
		return
	}

	summary := p.analyze(result)
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "model test completed",
		"test_result": gin.H{
			"detected_classes": classNames(summary.Classes),
			"total_classes":    len(summary.Classes),
			"class_areas":      summary.Classes,
			"detection_mode":   summary.Mode,
			"mask_info":        summary.MaskInfo,
		},
	})
}

// analyze turns a model response into per-class areas. A bad mask is not
// fatal: class-map fallback still names the foods.
func (p *PredictController) analyze(result *services.SegmentationResult) models.AreaSummary {
	var mask *models.SegmentationMask
	if result.SegmentationMask != "" {
		raw, derr := utils.DecodeBase64Image(result.SegmentationMask)
		if derr == nil {
			mask, derr = p.seg.DecodeMask(raw)
		}
		if derr != nil {
			p.log.Warn("mask unusable, falling back to class map", zap.Error(derr))
			mask = nil
		}
	}
	return p.seg.ClassAreas(mask, result.ClassMap)
}

func classNames(classes []models.FoodClassArea) []string {
	names := make([]string, 0, len(classes))
	for _, cls := range classes {
		names = append(names, cls.Name)
	}
	return names
}
