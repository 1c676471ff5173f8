package services

import (
	"fmt"
	"sort"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/siddevkota/NutriCare/data"
	"github.com/siddevkota/NutriCare/models"
	"github.com/siddevkota/NutriCare/utils"
)

// Glycemic thresholds. Per-food: a glycemic load above
// HighRiskGLThreshold marks the food high risk regardless of its GI band.
// Meal level: the avg-GI / total-GL ladder is checked top down, first
// match wins.
const (
	HighRiskGLThreshold = 20.0

	mealHighAvgGI     = 70.0
	mealHighTotalGL   = 20.0
	mealMediumAvgGI   = 56.0
	mealMediumTotalGL = 11.0
)

var recommendationSets = map[models.RiskLevel][]string{
	models.RiskHigh: {
		"Consider reducing portion sizes of the high-GI foods",
		"Add fiber-rich vegetables to slow glucose absorption",
		"Include a protein source to balance the meal",
		"Monitor blood glucose 1-2 hours after eating",
	},
	models.RiskMedium: {
		"Practice portion control with the starchy items",
		"Pair carbohydrates with vegetables or protein",
		"Eat the vegetable portion first",
	},
	models.RiskLow: {
		"Good choice! This meal should be gentle on blood sugar",
		"Keep portions balanced for steady energy",
	},
}

var fallbackRiskColors = map[models.RiskLevel]string{
	models.RiskLow:    "#10B981",
	models.RiskMedium: "#F59E0B",
	models.RiskHigh:   "#EF4444",
}

var fallbackRiskMessages = map[models.RiskLevel]string{
	models.RiskLow:    "This meal should have a gentle effect on blood sugar.",
	models.RiskMedium: "This meal may cause a moderate rise in blood sugar.",
	models.RiskHigh:   "This meal is likely to cause a sharp rise in blood sugar.",
}

const insufficientDataMessage = "Not enough glycemic reference data to assess this meal."

// PortionInput is one weighed food entering the risk engine.
type PortionInput struct {
	Name    string
	WeightG float64
}

// RiskService computes per-food glycemic loads and aggregates them into a
// meal-level assessment.
type RiskService struct {
	ref       *data.Reference
	nutrition *NutritionService
	log       *zap.Logger
}

func NewRiskService(ref *data.Reference, nutrition *NutritionService, log *zap.Logger) *RiskService {
	return &RiskService{ref: ref, nutrition: nutrition, log: log}
}

// GlycemicInfo exposes the raw glycemic record for one food.
func (s *RiskService) GlycemicInfo(name string) (models.GlycemicRecord, bool) {
	return s.ref.Glycemic(name)
}

// AnalyzeFood scales nutrition to the portion weight and derives the
// food's glycemic load. Foods without a glycemic record keep GIKnown=false
// and contribute nothing to meal GI aggregates.
func (s *RiskService) AnalyzeFood(name string, weightG float64) models.FoodInstance {
	nut := s.nutrition.ScaleToWeight(name, weightG)
	inst := models.FoodInstance{
		Name:      normalizeName(name),
		WeightG:   nut.WeightG,
		Nutrition: nut,
	}
	rec, ok := s.ref.Glycemic(name)
	if !ok {
		return inst
	}
	inst.GIKnown = true
	inst.GIValue = rec.GIValue
	inst.GICategory = rec.GICategory
	inst.GlycemicLoad = utils.Round2(rec.GIValue * nut.CarbsG / 100)
	inst.HighRisk = rec.GICategory == models.GIHigh || inst.GlycemicLoad > HighRiskGLThreshold
	return inst
}

// AssessMeal runs the full meal aggregation: totals, average GI over foods
// with known GI, total glycemic load, the risk ladder, the weighted risk
// score, and the advice attachments. With no known GI data at all the
// score and average are defined as zero and InsufficientData is set; that
// zero means "unknown", never "safe".
func (s *RiskService) AssessMeal(portions []PortionInput) models.MealAssessment {
	assessment := models.MealAssessment{
		Alternatives: map[string][]string{},
	}

	var knownGI []float64
	for _, portion := range portions {
		inst := s.AnalyzeFood(portion.Name, portion.WeightG)
		assessment.Foods = append(assessment.Foods, inst)

		assessment.Totals.Calories += inst.Nutrition.Calories
		assessment.Totals.CarbsG += inst.Nutrition.CarbsG
		assessment.Totals.FiberG += inst.Nutrition.FiberG
		assessment.Totals.ProteinG += inst.Nutrition.ProteinG

		if inst.GIKnown {
			knownGI = append(knownGI, inst.GIValue)
			assessment.TotalGlycemicLoad += inst.GlycemicLoad
		}
		if !inst.GIKnown && !inst.Nutrition.Known {
			assessment.UnknownFoods = append(assessment.UnknownFoods, inst.Name)
		}

		if inst.HighRisk {
			rec, _ := s.ref.Glycemic(inst.Name)
			assessment.HighRiskFoods = append(assessment.HighRiskFoods, models.HighRiskFood{
				Name:         inst.Name,
				GIValue:      inst.GIValue,
				GlycemicLoad: inst.GlycemicLoad,
				Reason:       riskReason(rec, inst.GlycemicLoad),
			})
			if alts := s.ref.Alternatives(inst.Name); len(alts) > 0 {
				assessment.Alternatives[inst.Name] = alts
			}
		}

		s.attachAdvice(&assessment, inst.Name)
	}

	assessment.Totals.Calories = utils.Round1(assessment.Totals.Calories)
	assessment.Totals.CarbsG = utils.Round1(assessment.Totals.CarbsG)
	assessment.Totals.FiberG = utils.Round1(assessment.Totals.FiberG)
	assessment.Totals.ProteinG = utils.Round1(assessment.Totals.ProteinG)
	assessment.TotalGlycemicLoad = utils.Round2(assessment.TotalGlycemicLoad)

	if len(knownGI) > 0 {
		assessment.AverageGI = utils.Round2(stat.Mean(knownGI, nil))
		assessment.RiskScore = s.riskScore(assessment.TotalGlycemicLoad, assessment.Totals)
	} else {
		assessment.InsufficientData = true
	}

	assessment.RiskLevel = classifyRisk(assessment.AverageGI, assessment.TotalGlycemicLoad)
	assessment.RiskMessage, assessment.RiskColor = s.presentation(assessment.RiskLevel)
	if assessment.InsufficientData {
		assessment.RiskMessage = insufficientDataMessage
	}
	assessment.Recommendations = recommendations(assessment.RiskLevel, assessment.InsufficientData)

	sort.Strings(assessment.UnknownFoods)
	s.log.Info("assessed meal",
		zap.Int("foods", len(assessment.Foods)),
		zap.String("risk_level", string(assessment.RiskLevel)),
		zap.Float64("risk_score", assessment.RiskScore),
		zap.Float64("average_gi", assessment.AverageGI),
		zap.Float64("total_gl", assessment.TotalGlycemicLoad),
		zap.Bool("insufficient_data", assessment.InsufficientData),
	)
	return assessment
}

// riskScore is the weighted model over the whole meal: glycemic load
// drives the score up, fiber and protein pull it down, and it never goes
// below zero.
func (s *RiskService) riskScore(totalGL float64, totals models.MealTotals) float64 {
	factors := s.ref.RiskFactors()
	score := totalGL*factors.GlycemicLoad +
		(totals.CarbsG/50)*factors.Carbs -
		(totals.FiberG/10)*factors.Fiber -
		(totals.ProteinG/20)*factors.Protein
	if score < 0 {
		score = 0
	}
	return utils.Round2(score)
}

func (s *RiskService) presentation(level models.RiskLevel) (message, color string) {
	if spec, ok := s.ref.RiskLevel(string(level)); ok {
		message, color = spec.Message, spec.Color
	}
	if message == "" {
		message = fallbackRiskMessages[level]
	}
	if color == "" {
		color = fallbackRiskColors[level]
	}
	return message, color
}

func (s *RiskService) attachAdvice(assessment *models.MealAssessment, name string) {
	if rec, ok := s.ref.Glycemic(name); ok {
		if rec.PortionRecommendation != "" {
			if assessment.PortionAdvice == nil {
				assessment.PortionAdvice = map[string]string{}
			}
			assessment.PortionAdvice[name] = rec.PortionRecommendation
		}
		if rec.TimingAdvice != "" {
			if assessment.TimingAdvice == nil {
				assessment.TimingAdvice = map[string]string{}
			}
			assessment.TimingAdvice[name] = rec.TimingAdvice
		}
	}
	if pairs := s.ref.Pairings(name); len(pairs) > 0 {
		if assessment.Pairings == nil {
			assessment.Pairings = map[string][]string{}
		}
		assessment.Pairings[name] = pairs
	}
}

// classifyRisk is the meal ladder, checked in order. Boundary values
// classify at the level: an average GI of exactly 70 or a total load of
// exactly 20 is high.
func classifyRisk(avgGI, totalGL float64) models.RiskLevel {
	switch {
	case avgGI >= mealHighAvgGI || totalGL >= mealHighTotalGL:
		return models.RiskHigh
	case avgGI >= mealMediumAvgGI || totalGL >= mealMediumTotalGL:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}

func recommendations(level models.RiskLevel, insufficient bool) []string {
	if insufficient {
		return []string{"Add foods with known glycemic data for a fuller assessment"}
	}
	return append([]string(nil), recommendationSets[level]...)
}

func riskReason(rec models.GlycemicRecord, gl float64) string {
	switch {
	case rec.GICategory == models.GIHigh && gl > HighRiskGLThreshold:
		return fmt.Sprintf("high glycemic index (%.0f) and glycemic load %.1f above %.0f", rec.GIValue, gl, HighRiskGLThreshold)
	case rec.GICategory == models.GIHigh:
		return fmt.Sprintf("high glycemic index (%.0f)", rec.GIValue)
	default:
		return fmt.Sprintf("glycemic load %.1f above %.0f", gl, HighRiskGLThreshold)
	}
}
