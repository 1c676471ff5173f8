package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/siddevkota/NutriCare/controllers"
	"github.com/siddevkota/NutriCare/middlewares"
	"github.com/siddevkota/NutriCare/services"
)

// Services carries every constructed service the handlers need.
type Services struct {
	Roboflow     *services.RoboflowService
	Segmentation *services.SegmentationService
	Weights      *services.WeightService
	Nutrition    *services.NutritionService
	Risk         *services.RiskService
	Overlay      *services.OverlayService
}

func SetupRouter(svc Services, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestLogger(log))
	r.Use(cors.Default())

	health := controllers.NewHealthController(svc.Roboflow, svc.Nutrition)
	predict := controllers.NewPredictController(svc.Roboflow, svc.Segmentation, svc.Weights, log)
	analysis := controllers.NewAnalysisController(svc.Weights, svc.Nutrition, svc.Risk, log)
	food := controllers.NewFoodController(svc.Nutrition)
	overlay := controllers.NewOverlayController(svc.Overlay, log)

	r.GET("/", health.Health)
	r.GET("/health", health.Health)
	r.GET("/test", predict.ModelTest)
	r.GET("/classes", food.Classes)
	r.GET("/food-details/:name", food.FoodDetails)

	r.POST("/predict", predict.Predict)
	r.POST("/direct-predict", predict.Predict)
	r.POST("/weight-estimation", analysis.WeightEstimation)
	r.POST("/diabetes-analysis", analysis.DiabetesAnalysis)
	r.POST("/generate-mask", overlay.GenerateMask)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":               "endpoint not found",
			"available_endpoints": controllers.EndpointMap(),
		})
	})

	return r
}
