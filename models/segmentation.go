package models

import (
	"strconv"
	"strings"
)

// SegmentationMask is a decoded class-indexed mask: each pixel value is a
// category id, not a color. Pixels is row-major, length Width*Height.
type SegmentationMask struct {
	Width  int   `json:"width"`
	Height int   `json:"height"`
	Pixels []int `json:"-"`
}

func (m *SegmentationMask) TotalPixels() int {
	if m == nil {
		return 0
	}
	return m.Width * m.Height
}

// At returns the class id at (x, y). Out-of-range coordinates read as 0.
func (m *SegmentationMask) At(x, y int) int {
	if m == nil || x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return 0
	}
	return m.Pixels[y*m.Width+x]
}

// ClassMap maps stringified class ids to display labels, as returned by the
// segmentation model.
type ClassMap map[string]string

// Label resolves a numeric class id to its display label.
func (cm ClassMap) Label(id int) (string, bool) {
	label, ok := cm[strconv.Itoa(id)]
	return label, ok
}

// ReservedLabel reports whether a label must never be treated as food.
// Comparison is case-insensitive and ignores surrounding whitespace.
func ReservedLabel(label string) bool {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "", "background", "none":
		return true
	}
	return false
}

// MaskInfo summarizes the decoded mask dimensions for API responses.
type MaskInfo struct {
	Width       int `json:"width"`
	Height      int `json:"height"`
	TotalPixels int `json:"total_pixels"`
}

// DetectionMode states where the detected classes came from. Callers must
// read this flag instead of inferring the degraded path from zero areas.
type DetectionMode string

const (
	// DetectionModeMask: classes were measured spatially from the mask.
	DetectionModeMask DetectionMode = "mask"
	// DetectionModeClassMap: the mask was absent or unusable, so every
	// non-reserved class-map label is reported with zero area.
	DetectionModeClassMap DetectionMode = "class_map_fallback"
)

// FoodClassArea is the measured footprint of one food label. ClassIDs lists
// every mask id merged into the entry (more than one when the model maps
// distinct ids to the same label).
type FoodClassArea struct {
	Name       string     `json:"name"`
	ClassIDs   []int      `json:"class_ids,omitempty"`
	PixelCount int        `json:"pixel_count"`
	Percentage float64    `json:"percentage"`
	Confidence Confidence `json:"confidence"`
}

type AreaTotal struct {
	PixelCount int     `json:"pixel_count"`
	Percentage float64 `json:"percentage"`
}

// AreaSummary is the full output of area calculation over one mask.
type AreaSummary struct {
	Mode          DetectionMode   `json:"detection_mode"`
	Classes       []FoodClassArea `json:"class_areas"`
	TotalFoodArea AreaTotal       `json:"total_food_area"`
	MaskInfo      MaskInfo        `json:"mask_info"`
}
