package models

// ScaledNutrition is NutritionFacts scaled linearly to an estimated portion
// weight. Known reports whether the food had a reference entry at all: a
// zeroed record with Known=false means insufficient data, not a
// zero-calorie food.
type ScaledNutrition struct {
	NutritionFacts
	WeightG float64 `json:"weight_g"`
	Known   bool    `json:"known"`
}

// CalibrationInfo documents how pixel areas were converted to physical
// areas for a batch of weight estimates.
type CalibrationInfo struct {
	FrameAreaCm2 float64 `json:"frame_area_cm2"`
	PixelsPerCm2 float64 `json:"pixels_per_cm2"`
	TotalPixels  int     `json:"total_pixels"`
	Note         string  `json:"note,omitempty"`
}

type WeightEstimate struct {
	Name           string     `json:"name"`
	AreaCm2        float64    `json:"area_cm2"`
	VolumeCm3      float64    `json:"volume_cm3"`
	Shape          FoodShape  `json:"shape"`
	DensityGPerCm3 float64    `json:"density_g_per_cm3"`
	ThicknessCm    float64    `json:"thickness_cm"`
	WeightG        float64    `json:"estimated_weight_g"`
	WeightOz       float64    `json:"estimated_weight_oz"`
	Confidence     Confidence `json:"confidence"`
	Method         string     `json:"method"`
}

// FoodInstance is the per-food view inside one meal assessment. Transient:
// built per request, never stored.
type FoodInstance struct {
	Name         string          `json:"name"`
	PixelArea    int             `json:"pixel_area,omitempty"`
	AreaCm2      float64         `json:"area_cm2,omitempty"`
	WeightG      float64         `json:"estimated_weight_g"`
	Nutrition    ScaledNutrition `json:"nutrition"`
	GIKnown      bool            `json:"gi_known"`
	GIValue      float64         `json:"gi_value,omitempty"`
	GICategory   GICategory      `json:"gi_category,omitempty"`
	GlycemicLoad float64         `json:"glycemic_load"`
	HighRisk     bool            `json:"high_risk"`
}

type HighRiskFood struct {
	Name         string  `json:"name"`
	GIValue      float64 `json:"gi"`
	GlycemicLoad float64 `json:"gl"`
	Reason       string  `json:"reason"`
}

type MealTotals struct {
	Calories float64 `json:"calories"`
	CarbsG   float64 `json:"carbs_g"`
	FiberG   float64 `json:"fiber_g"`
	ProteinG float64 `json:"protein_g"`
}

// RiskLevel is the meal-level classification band.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// MealAssessment aggregates all detected foods into one glycemic-risk view.
// InsufficientData is set when no food carried known GI data; the zeroed
// score then means "unknown", not "safe".
type MealAssessment struct {
	RiskScore         float64             `json:"risk_score"`
	RiskLevel         RiskLevel           `json:"risk_level"`
	RiskMessage       string              `json:"risk_message"`
	RiskColor         string              `json:"risk_color"`
	AverageGI         float64             `json:"average_gi"`
	TotalGlycemicLoad float64             `json:"total_glycemic_load"`
	Totals            MealTotals          `json:"totals"`
	Foods             []FoodInstance      `json:"food_breakdown"`
	HighRiskFoods     []HighRiskFood      `json:"high_risk_foods"`
	Recommendations   []string            `json:"recommendations"`
	Alternatives      map[string][]string `json:"alternatives"`
	PortionAdvice     map[string]string   `json:"portion_advice,omitempty"`
	TimingAdvice      map[string]string   `json:"timing_advice,omitempty"`
	Pairings          map[string][]string `json:"pairings,omitempty"`
	InsufficientData  bool                `json:"insufficient_data"`
	UnknownFoods      []string            `json:"unknown_foods,omitempty"`
}
