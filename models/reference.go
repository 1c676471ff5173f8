package models

// FoodShape selects the volumetric model used for weight estimation.
type FoodShape string

const (
	ShapeRectangular FoodShape = "rectangular"
	ShapeCylinder    FoodShape = "cylinder"
	ShapeSphere      FoodShape = "sphere"
	ShapeIrregular   FoodShape = "irregular"
)

// NutritionFacts holds per-100g reference values.
type NutritionFacts struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
	FiberG   float64 `json:"fiber_g"`
}

// PhysicalProfile describes how a food sits on the plate. ShapeFactor only
// applies to irregular footprints, which overstate true cross-section.
type PhysicalProfile struct {
	Shape          FoodShape `json:"shape"`
	DensityGPerCm3 float64   `json:"density_g_per_cm3"`
	ThicknessCm    float64   `json:"thickness_cm"`
	ShapeFactor    float64   `json:"shape_factor"`
}

// GICategory is the coarse glycemic-index band of a food.
type GICategory string

const (
	GILow    GICategory = "low"
	GIMedium GICategory = "medium"
	GIHigh   GICategory = "high"
)

type GlycemicRecord struct {
	GIValue               float64    `json:"gi_value"`
	GICategory            GICategory `json:"gi_category"`
	PortionRecommendation string     `json:"portion_recommendation,omitempty"`
	TimingAdvice          string     `json:"timing_advice,omitempty"`
}
