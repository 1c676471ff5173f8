package services

import (
	"strings"

	"go.uber.org/zap"

	"github.com/siddevkota/NutriCare/data"
	"github.com/siddevkota/NutriCare/models"
	"github.com/siddevkota/NutriCare/utils"
)

// NutritionService scales per-100g reference facts to estimated portions
// and serves the merged per-food reference view.
type NutritionService struct {
	ref *data.Reference
	log *zap.Logger
}

func NewNutritionService(ref *data.Reference, log *zap.Logger) *NutritionService {
	return &NutritionService{ref: ref, log: log}
}

// ScaleToWeight scales reference nutrition linearly to weightG grams.
// Unknown foods return a zeroed record with Known=false; callers must read
// that as missing data, not as a zero-calorie food.
func (s *NutritionService) ScaleToWeight(name string, weightG float64) models.ScaledNutrition {
	if weightG < 0 {
		weightG = 0
	}
	facts, ok := s.ref.Nutrition(name)
	if !ok {
		s.log.Debug("no nutrition entry", zap.String("food", name))
		return models.ScaledNutrition{WeightG: utils.Round1(weightG)}
	}
	factor := weightG / 100
	return models.ScaledNutrition{
		NutritionFacts: models.NutritionFacts{
			Calories: utils.Round1(facts.Calories * factor),
			ProteinG: utils.Round1(facts.ProteinG * factor),
			CarbsG:   utils.Round1(facts.CarbsG * factor),
			FatG:     utils.Round1(facts.FatG * factor),
			FiberG:   utils.Round1(facts.FiberG * factor),
		},
		WeightG: utils.Round1(weightG),
		Known:   true,
	}
}

// Classes lists every food the reference data can describe.
func (s *NutritionService) Classes() []string {
	return s.ref.Foods()
}

// FoodDetails is the merged reference view of one food, served by the
// food-details endpoint.
type FoodDetails struct {
	Name         string                  `json:"name"`
	Nutrition    *models.NutritionFacts  `json:"nutrition_per_100g,omitempty"`
	Physical     *models.PhysicalProfile `json:"physical_profile,omitempty"`
	Glycemic     *models.GlycemicRecord  `json:"glycemic_record,omitempty"`
	Alternatives []string                `json:"alternatives,omitempty"`
	Pairings     []string                `json:"pairings,omitempty"`
}

// Details merges every reference table's entry for one food. ok is false
// only when no table knows the name at all.
func (s *NutritionService) Details(name string) (*FoodDetails, bool) {
	details := &FoodDetails{Name: normalizeName(name)}
	found := false
	if facts, ok := s.ref.Nutrition(name); ok {
		details.Nutrition = &facts
		found = true
	}
	if profile, ok := s.ref.Physical(name); ok {
		details.Physical = &profile
		found = true
	}
	if rec, ok := s.ref.Glycemic(name); ok {
		details.Glycemic = &rec
		found = true
	}
	if alts := s.ref.Alternatives(name); len(alts) > 0 {
		details.Alternatives = alts
		found = true
	}
	if pairs := s.ref.Pairings(name); len(pairs) > 0 {
		details.Pairings = pairs
		found = true
	}
	return details, found
}

// normalizeName is the canonical food-name form used across the pipeline:
// lowercase, surrounding whitespace dropped.
func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
