// Package data loads the static reference tables (per-100g nutrition,
// physical profiles, glycemic records, food alternatives, overlay palette)
// into an immutable lookup object. The pipeline services receive it by
// injection; nothing mutates it after Load, so concurrent reads need no
// locking.
package data

import (
	"encoding/json"
	"image/color"
	"os"
	"path/filepath"
	"sort"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"go.uber.org/zap"

	"github.com/siddevkota/NutriCare/models"
)

const (
	nutritionFileName    = "nutrition_database.json"
	physicalFileName     = "physical_properties.json"
	glycemicFileName     = "glycemic_index.json"
	alternativesFileName = "food_alternatives.json"
	paletteFileName      = "overlay_palette.json"
)

// DefaultOverlayAlpha is the translucency used for overlay colors that do
// not specify their own.
const DefaultOverlayAlpha = 120

// RiskFactors weight the terms of the meal risk score.
type RiskFactors struct {
	GlycemicLoad float64 `json:"glycemic_load"`
	Carbs        float64 `json:"carbs"`
	Fiber        float64 `json:"fiber"`
	Protein      float64 `json:"protein"`
}

// DefaultRiskFactors mirrors the historical weighting of the scoring model.
func DefaultRiskFactors() RiskFactors {
	return RiskFactors{GlycemicLoad: 0.4, Carbs: 0.3, Fiber: 0.2, Protein: 0.1}
}

// RiskLevelSpec carries the presentation side of one risk band.
type RiskLevelSpec struct {
	ScoreRange []float64 `json:"score_range,omitempty"`
	Message    string    `json:"message"`
	Color      string    `json:"color"`
}

// PaletteEntry is one overlay color as stored on disk.
type PaletteEntry struct {
	Hex   string `json:"hex"`
	Alpha uint8  `json:"alpha,omitempty"`
}

// DefaultProfile is the documented fallback for foods with no physical
// entry: a flat rectangular slab of water density, 2 cm thick.
func DefaultProfile() models.PhysicalProfile {
	return models.PhysicalProfile{
		Shape:          models.ShapeRectangular,
		DensityGPerCm3: 1.0,
		ThicknessCm:    2.0,
		ShapeFactor:    1.0,
	}
}

// Tables is the raw material for a Reference. Load fills them from the
// JSON files in the data directory; tests build fixture tables directly.
type Tables struct {
	Nutrition      map[string]models.NutritionFacts
	Physical       map[string]models.PhysicalProfile
	Glycemic       map[string]models.GlycemicRecord
	Alternatives   map[string][]string
	Pairings       map[string][]string
	RiskFactors    *RiskFactors
	RiskLevels     map[string]RiskLevelSpec
	Palette        map[string]PaletteEntry
	PaletteDefault *PaletteEntry
}

// Reference is the read-only lookup handed to the pipeline services. All
// name lookups are case-insensitive and ignore surrounding whitespace.
type Reference struct {
	nutrition      map[string]models.NutritionFacts
	physical       map[string]models.PhysicalProfile
	defaultProfile models.PhysicalProfile
	glycemic       map[string]models.GlycemicRecord
	alternatives   map[string][]string
	pairings       map[string][]string
	riskFactors    RiskFactors
	riskLevels     map[string]RiskLevelSpec
	palette        map[string]color.NRGBA
	paletteDefault color.NRGBA
	foods          []string
}

// New builds a Reference from in-memory tables, normalizing keys and
// filling documented defaults for anything absent.
func New(t Tables) *Reference {
	r := &Reference{
		nutrition:      map[string]models.NutritionFacts{},
		physical:       map[string]models.PhysicalProfile{},
		defaultProfile: DefaultProfile(),
		glycemic:       map[string]models.GlycemicRecord{},
		alternatives:   map[string][]string{},
		pairings:       map[string][]string{},
		riskFactors:    DefaultRiskFactors(),
		riskLevels:     map[string]RiskLevelSpec{},
		palette:        builtinPalette(),
		paletteDefault: builtinPaletteDefault,
	}
	for name, facts := range t.Nutrition {
		r.nutrition[normalizeKey(name)] = facts
	}
	for name, profile := range t.Physical {
		key := normalizeKey(name)
		if key == "default" {
			r.defaultProfile = profile
			continue
		}
		r.physical[key] = profile
	}
	for name, rec := range t.Glycemic {
		r.glycemic[normalizeKey(name)] = rec
	}
	for name, alts := range t.Alternatives {
		r.alternatives[normalizeKey(name)] = alts
	}
	for name, pairs := range t.Pairings {
		r.pairings[normalizeKey(name)] = pairs
	}
	if t.RiskFactors != nil && *t.RiskFactors != (RiskFactors{}) {
		r.riskFactors = *t.RiskFactors
	}
	for level, spec := range t.RiskLevels {
		r.riskLevels[normalizeKey(level)] = spec
	}
	if t.Palette != nil {
		r.palette = parsePalette(t.Palette)
	}
	if t.PaletteDefault != nil {
		if c, ok := parsePaletteEntry(*t.PaletteDefault); ok {
			r.paletteDefault = c
		}
	}
	r.foods = make([]string, 0, len(r.nutrition))
	for name := range r.nutrition {
		r.foods = append(r.foods, name)
	}
	sort.Strings(r.foods)
	return r
}

// Load reads the reference files under dir. Every file is independently
// optional: a missing or malformed file logs a warning and leaves that
// table on its defaults, it never fails startup.
func Load(dir string, log *zap.Logger) *Reference {
	var t Tables

	var nf nutritionFile
	if readJSON(filepath.Join(dir, nutritionFileName), &nf, log) {
		t.Nutrition = map[string]models.NutritionFacts{}
		for name, entry := range nf.Foods {
			t.Nutrition[name] = entry.NutritionPer100g
		}
	}

	var pf map[string]models.PhysicalProfile
	if readJSON(filepath.Join(dir, physicalFileName), &pf, log) {
		t.Physical = pf
	}

	var gf glycemicFile
	if readJSON(filepath.Join(dir, glycemicFileName), &gf, log) {
		t.Glycemic = gf.GlycemicData
		if gf.MealRiskScoring.RiskFactors != (RiskFactors{}) {
			factors := gf.MealRiskScoring.RiskFactors
			t.RiskFactors = &factors
		}
		t.RiskLevels = gf.MealRiskScoring.RiskLevels
	}

	var af alternativesFile
	if readJSON(filepath.Join(dir, alternativesFileName), &af, log) {
		t.Alternatives = af.Alternatives
		t.Pairings = af.Pairings
	}

	var cf paletteFile
	if readJSON(filepath.Join(dir, paletteFileName), &cf, log) {
		t.Palette = cf.Colors
		t.PaletteDefault = cf.Default
	}

	ref := New(t)
	log.Info("reference data loaded",
		zap.String("dir", dir),
		zap.Int("foods", len(ref.nutrition)),
		zap.Int("physical_profiles", len(ref.physical)),
		zap.Int("glycemic_records", len(ref.glycemic)),
		zap.Int("alternative_sets", len(ref.alternatives)),
		zap.Int("palette_colors", len(ref.palette)),
	)
	return ref
}

// Nutrition returns the per-100g facts for a food.
func (r *Reference) Nutrition(name string) (models.NutritionFacts, bool) {
	facts, ok := r.nutrition[normalizeKey(name)]
	return facts, ok
}

// Physical returns the physical profile for a food. Callers that need the
// fallback behavior use DefaultPhysical when ok is false.
func (r *Reference) Physical(name string) (models.PhysicalProfile, bool) {
	profile, ok := r.physical[normalizeKey(name)]
	return profile, ok
}

func (r *Reference) DefaultPhysical() models.PhysicalProfile {
	return r.defaultProfile
}

func (r *Reference) Glycemic(name string) (models.GlycemicRecord, bool) {
	rec, ok := r.glycemic[normalizeKey(name)]
	return rec, ok
}

// Alternatives returns the substitute foods for a name, nil when the table
// has no entry.
func (r *Reference) Alternatives(name string) []string {
	return r.alternatives[normalizeKey(name)]
}

// Pairings returns companion foods that blunt the glycemic response.
func (r *Reference) Pairings(name string) []string {
	return r.pairings[normalizeKey(name)]
}

func (r *Reference) RiskFactors() RiskFactors {
	return r.riskFactors
}

func (r *Reference) RiskLevel(level string) (RiskLevelSpec, bool) {
	spec, ok := r.riskLevels[normalizeKey(level)]
	return spec, ok
}

// PaletteColor resolves the overlay color for a label.
func (r *Reference) PaletteColor(label string) (color.NRGBA, bool) {
	c, ok := r.palette[normalizeKey(label)]
	return c, ok
}

func (r *Reference) PaletteDefault() color.NRGBA {
	return r.paletteDefault
}

// Foods lists every food with a nutrition entry, sorted. The returned
// slice is a copy.
func (r *Reference) Foods() []string {
	return append([]string(nil), r.foods...)
}

type nutritionFile struct {
	Foods map[string]struct {
		NutritionPer100g models.NutritionFacts `json:"nutrition_per_100g"`
	} `json:"foods"`
}

type glycemicFile struct {
	GlycemicData    map[string]models.GlycemicRecord `json:"glycemic_data"`
	MealRiskScoring struct {
		RiskFactors RiskFactors              `json:"risk_factors"`
		RiskLevels  map[string]RiskLevelSpec `json:"risk_levels"`
	} `json:"meal_risk_scoring"`
}

type alternativesFile struct {
	Alternatives map[string][]string `json:"alternatives"`
	Pairings     map[string][]string `json:"pairings"`
}

type paletteFile struct {
	Colors  map[string]PaletteEntry `json:"colors"`
	Default *PaletteEntry           `json:"default"`
}

func readJSON(path string, v any, log *zap.Logger) bool {
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Warn("reference file unavailable", zap.String("path", path), zap.Error(err))
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		log.Warn("reference file malformed", zap.String("path", path), zap.Error(err))
		return false
	}
	return true
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func parsePalette(entries map[string]PaletteEntry) map[string]color.NRGBA {
	out := make(map[string]color.NRGBA, len(entries))
	for label, entry := range entries {
		if c, ok := parsePaletteEntry(entry); ok {
			out[normalizeKey(label)] = c
		}
	}
	return out
}

func parsePaletteEntry(entry PaletteEntry) (color.NRGBA, bool) {
	c, err := colorful.Hex(strings.TrimSpace(entry.Hex))
	if err != nil {
		return color.NRGBA{}, false
	}
	alpha := entry.Alpha
	if alpha == 0 {
		alpha = DefaultOverlayAlpha
	}
	red, green, blue := c.RGB255()
	return color.NRGBA{R: red, G: green, B: blue, A: alpha}, true
}

// builtinPalette is the shipped default; overlay_palette.json overrides it
// per deployment.
func builtinPalette() map[string]color.NRGBA {
	return map[string]color.NRGBA{
		"selroti":      {R: 245, G: 158, B: 11, A: DefaultOverlayAlpha},
		"bhat":         {R: 52, G: 168, B: 83, A: DefaultOverlayAlpha},
		"burger":       {R: 146, G: 64, B: 14, A: DefaultOverlayAlpha},
		"chana masala": {R: 180, G: 83, B: 9, A: DefaultOverlayAlpha},
		"chiya":        {R: 161, G: 98, B: 7, A: DefaultOverlayAlpha},
		"chowmein":     {R: 249, G: 115, B: 22, A: DefaultOverlayAlpha},
		"daal":         {R: 251, G: 188, B: 4, A: DefaultOverlayAlpha},
		"dhido":        {R: 120, G: 113, B: 108, A: DefaultOverlayAlpha},
		"gundruk":      {R: 22, G: 163, B: 74, A: DefaultOverlayAlpha},
		"kheer":        {R: 253, G: 230, B: 138, A: DefaultOverlayAlpha},
		"masu":         {R: 234, G: 67, B: 53, A: DefaultOverlayAlpha},
		"momo":         {R: 96, G: 165, B: 250, A: DefaultOverlayAlpha},
		"pakoda":       {R: 217, G: 119, B: 6, A: DefaultOverlayAlpha},
		"roti":         {R: 250, G: 204, B: 21, A: DefaultOverlayAlpha},
		"samosa":       {R: 251, G: 146, B: 60, A: DefaultOverlayAlpha},
		"yomari":       {R: 192, G: 132, B: 252, A: DefaultOverlayAlpha},
	}
}

var builtinPaletteDefault = color.NRGBA{R: 156, G: 163, B: 175, A: DefaultOverlayAlpha}
