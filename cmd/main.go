package main

import (
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/siddevkota/NutriCare/config"
	"github.com/siddevkota/NutriCare/data"
	"github.com/siddevkota/NutriCare/routes"
	"github.com/siddevkota/NutriCare/services"
)

func newLogger() *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	log, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return log
}

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	log := newLogger()
	defer log.Sync()

	cfg := config.Load()
	ref := data.Load(cfg.Data.Dir, log)

	seg := services.NewSegmentationService(log)
	weights := services.NewWeightService(ref, cfg.Data.FrameAreaCm2, log)
	nutrition := services.NewNutritionService(ref, log)
	risk := services.NewRiskService(ref, nutrition, log)
	overlay := services.NewOverlayService(seg, ref, log)
	roboflow := services.NewRoboflowService(cfg.Roboflow.Endpoint, cfg.Roboflow.ProjectID, cfg.Roboflow.Version, cfg.Roboflow.APIKey, cfg.Roboflow.Timeout, log)

	r := routes.SetupRouter(routes.Services{
		Roboflow:     roboflow,
		Segmentation: seg,
		Weights:      weights,
		Nutrition:    nutrition,
		Risk:         risk,
		Overlay:      overlay,
	}, log)

	log.Info("starting server",
		zap.String("addr", cfg.Server.Addr()),
		zap.Bool("model_ready", roboflow.Configured()),
		zap.Int("known_foods", len(nutrition.Classes())),
	)
	if err := r.Run(cfg.Server.Addr()); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}
