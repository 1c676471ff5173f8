package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/siddevkota/NutriCare/data"
	"github.com/siddevkota/NutriCare/models"
)

func weightTestRef() *data.Reference {
	return data.New(data.Tables{
		Physical: map[string]models.PhysicalProfile{
			"roti":  {Shape: models.ShapeRectangular, DensityGPerCm3: 0.8, ThicknessCm: 2.0, ShapeFactor: 1.0},
			"daal":  {Shape: models.ShapeCylinder, DensityGPerCm3: 1.0, ThicknessCm: 4.0, ShapeFactor: 1.0},
			"momo":  {Shape: models.ShapeSphere, DensityGPerCm3: 1.2, ThicknessCm: 3.5, ShapeFactor: 1.0},
			"bhat":  {Shape: models.ShapeIrregular, DensityGPerCm3: 1.0, ThicknessCm: 2.0, ShapeFactor: 0.8},
			"dhido": {Shape: models.ShapeIrregular, DensityGPerCm3: 1.0, ThicknessCm: 2.0, ShapeFactor: 5.0},
		},
	})
}

func TestEstimateForAreaShapes(t *testing.T) {
	svc := NewWeightService(weightTestRef(), DefaultFrameAreaCm2, zap.NewNop())

	tests := []struct {
		name    string
		food    string
		areaCm2 float64
		wantVol float64
		wantG   float64
		wantOz  float64
	}{
		// rectangular: area * thickness
		{name: "rectangular slab", food: "roti", areaCm2: 100, wantVol: 200.0, wantG: 160.0, wantOz: 5.64},
		// cylinder: pi r^2 t with r from the footprint, so area * thickness
		{name: "cylinder", food: "daal", areaCm2: 100, wantVol: 400.0, wantG: 400.0, wantOz: 14.11},
		// sphere: r from area/(4 pi), thickness ignored
		{name: "sphere", food: "momo", areaCm2: 100, wantVol: 94.0, wantG: 112.8, wantOz: 3.98},
		// irregular: area * thickness * shape factor
		{name: "irregular", food: "bhat", areaCm2: 100, wantVol: 160.0, wantG: 160.0, wantOz: 5.64},
		// out-of-range shape factor clamps to 1
		{name: "irregular bad factor", food: "dhido", areaCm2: 100, wantVol: 200.0, wantG: 200.0, wantOz: 7.05},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			est := svc.EstimateForArea(tt.food, tt.areaCm2)

			assert.Equal(t, tt.food, est.Name)
			assert.Equal(t, tt.areaCm2, est.AreaCm2)
			assert.Equal(t, tt.wantVol, est.VolumeCm3)
			assert.Equal(t, tt.wantG, est.WeightG)
			assert.Equal(t, tt.wantOz, est.WeightOz)
			assert.Equal(t, models.ConfidenceHigh, est.Confidence)
			assert.Equal(t, "reference_profile", est.Method)
		})
	}
}

func TestEstimateForAreaScalesLinearly(t *testing.T) {
	svc := NewWeightService(weightTestRef(), DefaultFrameAreaCm2, zap.NewNop())

	single := svc.EstimateForArea("roti", 50)
	double := svc.EstimateForArea("roti", 100)
	assert.Equal(t, single.WeightG*2, double.WeightG)
}

func TestEstimateForAreaUnknownFoodUsesDefaultProfile(t *testing.T) {
	svc := NewWeightService(weightTestRef(), DefaultFrameAreaCm2, zap.NewNop())

	est := svc.EstimateForArea("mystery stew", 100)

	// default profile: rectangular, density 1.0, 2 cm thick
	assert.Equal(t, models.ShapeRectangular, est.Shape)
	assert.Equal(t, 200.0, est.VolumeCm3)
	assert.Equal(t, 200.0, est.WeightG)
	assert.Equal(t, models.ConfidenceLow, est.Confidence)
	assert.Equal(t, "default_profile", est.Method)
}

func TestEstimateForAreaNegativeAreaClamps(t *testing.T) {
	svc := NewWeightService(weightTestRef(), DefaultFrameAreaCm2, zap.NewNop())

	est := svc.EstimateForArea("roti", -5)
	assert.Zero(t, est.AreaCm2)
	assert.Zero(t, est.WeightG)
}

func TestEstimateFromAreasCalibration(t *testing.T) {
	svc := NewWeightService(weightTestRef(), 400.0, zap.NewNop())

	summary := models.AreaSummary{
		Mode: models.DetectionModeMask,
		Classes: []models.FoodClassArea{
			{Name: "roti", ClassIDs: []int{1}, PixelCount: 3000, Percentage: 30, Confidence: models.ConfidenceHigh},
			{Name: "mystery stew", ClassIDs: []int{2}, PixelCount: 1000, Percentage: 10, Confidence: models.ConfidenceHigh},
		},
		MaskInfo: models.MaskInfo{Width: 100, Height: 100, TotalPixels: 10000},
	}

	estimates, calibration := svc.EstimateFromAreas(summary)

	assert.Equal(t, 400.0, calibration.FrameAreaCm2)
	assert.Equal(t, 25.0, calibration.PixelsPerCm2) // 10000 px over 400 cm2
	assert.Equal(t, 10000, calibration.TotalPixels)
	assert.Contains(t, calibration.Note, "assumed frame area")

	require.Len(t, estimates, 2)

	// 3000 px / 25 px per cm2 = 120 cm2, rectangular 2 cm at 0.8
	assert.Equal(t, 120.0, estimates[0].AreaCm2)
	assert.Equal(t, 192.0, estimates[0].WeightG)
	assert.Equal(t, models.ConfidenceHigh, estimates[0].Confidence)

	// unknown food keeps its measured area but drops to the default profile
	assert.Equal(t, 40.0, estimates[1].AreaCm2)
	assert.Equal(t, models.ConfidenceLow, estimates[1].Confidence)
	assert.Equal(t, "default_profile", estimates[1].Method)
}

func TestEstimateFromAreasMergedConfidenceSurvives(t *testing.T) {
	svc := NewWeightService(weightTestRef(), 400.0, zap.NewNop())

	summary := models.AreaSummary{
		Classes:  []models.FoodClassArea{{Name: "roti", PixelCount: 1000, Confidence: models.ConfidenceEstimated}},
		MaskInfo: models.MaskInfo{TotalPixels: 10000},
	}
	estimates, _ := svc.EstimateFromAreas(summary)

	require.Len(t, estimates, 1)
	assert.Equal(t, models.ConfidenceEstimated, estimates[0].Confidence)
}

func TestEstimateFromAreasWithoutPixels(t *testing.T) {
	svc := NewWeightService(weightTestRef(), 400.0, zap.NewNop())

	summary := models.AreaSummary{
		Mode:    models.DetectionModeClassMap,
		Classes: []models.FoodClassArea{{Name: "roti", Confidence: models.ConfidenceLow}},
	}
	estimates, calibration := svc.EstimateFromAreas(summary)

	assert.Zero(t, calibration.PixelsPerCm2)
	assert.Contains(t, calibration.Note, "weights defaulted to zero")

	require.Len(t, estimates, 1)
	assert.Zero(t, estimates[0].WeightG)
	assert.Zero(t, estimates[0].AreaCm2)
	assert.Equal(t, models.ConfidenceLow, estimates[0].Confidence)
	assert.Equal(t, "uncalibrated", estimates[0].Method)
	// The profile is still reported so clients can show what would apply.
	assert.Equal(t, models.ShapeRectangular, estimates[0].Shape)
	assert.Equal(t, 0.8, estimates[0].DensityGPerCm3)
}

func TestNewWeightServiceBadFrameAreaFallsBack(t *testing.T) {
	svc := NewWeightService(weightTestRef(), -1, zap.NewNop())

	summary := models.AreaSummary{
		Classes:  []models.FoodClassArea{{Name: "roti", PixelCount: 400, Confidence: models.ConfidenceHigh}},
		MaskInfo: models.MaskInfo{TotalPixels: 400},
	}
	_, calibration := svc.EstimateFromAreas(summary)
	assert.Equal(t, DefaultFrameAreaCm2, calibration.FrameAreaCm2)
}
