package services

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/siddevkota/NutriCare/data"
	"github.com/siddevkota/NutriCare/models"
	"github.com/siddevkota/NutriCare/utils"
)

// DefaultFrameAreaCm2 is the assumed real-world area covered by a full
// frame when no reference object is in view, roughly a 20x20 cm tray shot
// from above. It is an assumption, not a measurement; deployments override
// it through FRAME_AREA_CM2.
const DefaultFrameAreaCm2 = 400.0

// ouncesPerGram converts an already-estimated weight; ounces are never
// re-derived from area.
const ouncesPerGram = 0.035274

const (
	methodReferenceProfile = "reference_profile"
	methodDefaultProfile   = "default_profile"
	methodUncalibrated     = "uncalibrated"
)

// WeightService turns measured footprints into mass estimates using a
// fixed frame calibration and per-food volumetric profiles.
type WeightService struct {
	ref          *data.Reference
	frameAreaCm2 float64
	log          *zap.Logger
}

func NewWeightService(ref *data.Reference, frameAreaCm2 float64, log *zap.Logger) *WeightService {
	if frameAreaCm2 <= 0 {
		frameAreaCm2 = DefaultFrameAreaCm2
	}
	return &WeightService{ref: ref, frameAreaCm2: frameAreaCm2, log: log}
}

// EstimateFromAreas converts every measured class area into a weight
// estimate. A zero total pixel count means calibration is impossible: all
// estimates short-circuit to zero rather than dividing by zero, and the
// calibration note says so.
func (s *WeightService) EstimateFromAreas(summary models.AreaSummary) ([]models.WeightEstimate, models.CalibrationInfo) {
	totalPixels := summary.MaskInfo.TotalPixels
	if totalPixels == 0 {
		calibration := models.CalibrationInfo{
			FrameAreaCm2: s.frameAreaCm2,
			TotalPixels:  0,
			Note:         "no mask pixels available, weights defaulted to zero",
		}
		estimates := make([]models.WeightEstimate, 0, len(summary.Classes))
		for _, cls := range summary.Classes {
			profile := s.profileFor(cls.Name)
			estimates = append(estimates, models.WeightEstimate{
				Name:           cls.Name,
				Shape:          profile.Shape,
				DensityGPerCm3: profile.DensityGPerCm3,
				ThicknessCm:    profile.ThicknessCm,
				Confidence:     models.ConfidenceLow,
				Method:         methodUncalibrated,
			})
		}
		return estimates, calibration
	}

	pixelsPerCm2 := float64(totalPixels) / s.frameAreaCm2
	calibration := models.CalibrationInfo{
		FrameAreaCm2: s.frameAreaCm2,
		PixelsPerCm2: utils.Round2(pixelsPerCm2),
		TotalPixels:  totalPixels,
		Note:         fmt.Sprintf("assumed frame area of %.0f cm², no reference object", s.frameAreaCm2),
	}

	estimates := make([]models.WeightEstimate, 0, len(summary.Classes))
	for _, cls := range summary.Classes {
		areaCm2 := float64(cls.PixelCount) / pixelsPerCm2
		estimates = append(estimates, s.estimate(cls.Name, areaCm2, cls.Confidence))
	}
	s.log.Info("estimated weights",
		zap.Int("foods", len(estimates)),
		zap.Float64("pixels_per_cm2", calibration.PixelsPerCm2),
	)
	return estimates, calibration
}

// EstimateForArea runs the volumetric model directly on an
// already-physical area, skipping pixel calibration. Used when the caller
// measured area by other means.
func (s *WeightService) EstimateForArea(name string, areaCm2 float64) models.WeightEstimate {
	if areaCm2 < 0 {
		areaCm2 = 0
	}
	return s.estimate(name, areaCm2, models.ConfidenceHigh)
}

// estimate applies the shape-dependent volume model. The confidence of the
// incoming area is kept for known foods and forced to low when the default
// profile stands in.
func (s *WeightService) estimate(name string, areaCm2 float64, areaConfidence models.Confidence) models.WeightEstimate {
	profile, known := s.ref.Physical(name)
	confidence := areaConfidence
	if confidence == "" {
		confidence = models.ConfidenceHigh
	}
	method := methodReferenceProfile
	if !known {
		profile = s.ref.DefaultPhysical()
		confidence = models.ConfidenceLow
		method = methodDefaultProfile
		s.log.Debug("no physical profile, using default", zap.String("food", name))
	}

	volume := volumeCm3(profile, areaCm2)
	grams := utils.Round1(volume * profile.DensityGPerCm3)

	return models.WeightEstimate{
		Name:           name,
		AreaCm2:        utils.Round1(areaCm2),
		VolumeCm3:      utils.Round1(volume),
		Shape:          profile.Shape,
		DensityGPerCm3: profile.DensityGPerCm3,
		ThicknessCm:    profile.ThicknessCm,
		WeightG:        grams,
		WeightOz:       utils.Round2(grams * ouncesPerGram),
		Confidence:     confidence,
		Method:         method,
	}
}

func (s *WeightService) profileFor(name string) models.PhysicalProfile {
	if profile, ok := s.ref.Physical(name); ok {
		return profile
	}
	return s.ref.DefaultPhysical()
}

// volumeCm3 is the shape model. The footprint is what the camera saw from
// above; thickness, radius and shape factor turn it into a volume.
func volumeCm3(p models.PhysicalProfile, areaCm2 float64) float64 {
	switch p.Shape {
	case models.ShapeCylinder:
		r := math.Sqrt(areaCm2 / math.Pi)
		return math.Pi * r * r * p.ThicknessCm
	case models.ShapeSphere:
		r := math.Sqrt(areaCm2 / (4 * math.Pi))
		return 4.0 / 3.0 * math.Pi * r * r * r
	case models.ShapeIrregular:
		factor := p.ShapeFactor
		if factor <= 0 || factor > 1 {
			factor = 1
		}
		return areaCm2 * p.ThicknessCm * factor
	default: // rectangular
		return areaCm2 * p.ThicknessCm
	}
}
