package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/siddevkota/NutriCare/services"
)

type HealthController struct {
	roboflow  *services.RoboflowService
	nutrition *services.NutritionService
}

func NewHealthController(roboflow *services.RoboflowService, nutrition *services.NutritionService) *HealthController {
	return &HealthController{roboflow: roboflow, nutrition: nutrition}
}

// GET / and GET /health
func (h *HealthController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":            "healthy",
		"service":           "nutricare-backend",
		"model_ready":       h.roboflow.Configured(),
		"supported_classes": len(h.nutrition.Classes()),
		"endpoints":         EndpointMap(),
	})
}

// EndpointMap is served by the health endpoint and by the 404 handler so
// clients can discover the API without docs.
func EndpointMap() gin.H {
	return gin.H{
		"GET /health":             "service health and model state",
		"GET /test":               "one prediction against an embedded sample image",
		"GET /classes":            "supported food classes",
		"GET /food-details/:name": "reference data for one food",
		"POST /predict":           "segment an image, measure areas, estimate weights",
		"POST /direct-predict":    "alias of /predict",
		"POST /weight-estimation": "estimate weights from provided physical areas",
		"POST /diabetes-analysis": "glycemic risk assessment for weighed foods",
		"POST /generate-mask":     "render the segmentation overlay",
	}
}
