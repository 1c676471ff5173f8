package services

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"sort"
	"strconv"

	// mask blobs arrive in whatever container the model emits
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"go.uber.org/zap"
	xdraw "golang.org/x/image/draw"

	"github.com/siddevkota/NutriCare/models"
	"github.com/siddevkota/NutriCare/utils"
)

// ErrMaskDecode reports an undecodable segmentation mask. Callers treat
// the mask as absent and fall back to class-map-only detection; this error
// never fails a whole request.
var ErrMaskDecode = errors.New("segmentation mask could not be decoded")

// SegmentationService decodes class-indexed masks and measures per-food
// areas. It holds no per-request state; every method is a pure function of
// its inputs.
type SegmentationService struct {
	log *zap.Logger
}

func NewSegmentationService(log *zap.Logger) *SegmentationService {
	return &SegmentationService{log: log}
}

// DecodeMask turns an encoded mask blob into a class-id grid. Paletted
// images contribute their palette index, grayscale images their Y value;
// anything else is reduced with the ITU-R 601-2 luma transform, matching
// how the producing side flattens masks to a single channel.
func (s *SegmentationService) DecodeMask(raw []byte) (*models.SegmentationMask, error) {
	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMaskDecode, err)
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: empty %dx%d image", ErrMaskDecode, w, h)
	}
	mask := &models.SegmentationMask{Width: w, Height: h, Pixels: make([]int, w*h)}
	switch im := img.(type) {
	case *image.Paletted:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				mask.Pixels[y*w+x] = int(im.ColorIndexAt(b.Min.X+x, b.Min.Y+y))
			}
		}
	case *image.Gray:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				mask.Pixels[y*w+x] = int(im.GrayAt(b.Min.X+x, b.Min.Y+y).Y)
			}
		}
	default:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
				luma := (299*(r>>8) + 587*(g>>8) + 114*(bl>>8)) / 1000
				mask.Pixels[y*w+x] = int(luma)
			}
		}
	}
	s.log.Debug("decoded segmentation mask",
		zap.String("format", format),
		zap.Int("width", w),
		zap.Int("height", h),
	)
	return mask, nil
}

// ResizeToMatch rescales the mask grid to width x height with nearest
// neighbour only: class ids are categorical, any interpolating resampler
// would invent ids that never existed. Returns the mask unchanged when the
// dimensions already match.
func (s *SegmentationService) ResizeToMatch(mask *models.SegmentationMask, width, height int) *models.SegmentationMask {
	if mask == nil || width <= 0 || height <= 0 {
		return mask
	}
	if mask.Width == width && mask.Height == height {
		return mask
	}
	src := image.NewGray(image.Rect(0, 0, mask.Width, mask.Height))
	for i, id := range mask.Pixels {
		src.Pix[i] = uint8(id)
	}
	dst := image.NewGray(image.Rect(0, 0, width, height))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	out := &models.SegmentationMask{Width: width, Height: height, Pixels: make([]int, width*height)}
	for i, v := range dst.Pix {
		out.Pixels[i] = int(v)
	}
	return out
}

// ClassAreas measures per-food pixel counts and frame percentages.
// Only ids that actually occur in the grid are considered; reserved and
// unmapped ids are skipped. Distinct ids resolving to the same label are
// merged into one entry (counts summed, confidence downgraded to
// estimated). A nil or empty mask, or a mask yielding zero accepted
// classes, degrades to the class-map fallback with an explicit mode flag.
func (s *SegmentationService) ClassAreas(mask *models.SegmentationMask, classMap models.ClassMap) models.AreaSummary {
	info := models.MaskInfo{}
	if mask != nil {
		info = models.MaskInfo{Width: mask.Width, Height: mask.Height, TotalPixels: mask.TotalPixels()}
	}
	total := mask.TotalPixels()
	if total == 0 {
		return s.classMapFallback(classMap, info)
	}

	counts := map[int]int{}
	for _, id := range mask.Pixels {
		counts[id]++
	}

	type merged struct {
		ids    []int
		pixels int
	}
	byLabel := map[string]*merged{}
	for id, n := range counts {
		label, ok := classMap.Label(id)
		if !ok || models.ReservedLabel(label) {
			continue
		}
		key := normalizeName(label)
		entry := byLabel[key]
		if entry == nil {
			entry = &merged{}
			byLabel[key] = entry
		}
		entry.ids = append(entry.ids, id)
		entry.pixels += n
	}
	if len(byLabel) == 0 {
		s.log.Info("no food classes present in mask, falling back to class map",
			zap.Int("distinct_ids", len(counts)),
			zap.Int("class_map_size", len(classMap)),
		)
		return s.classMapFallback(classMap, info)
	}

	summary := models.AreaSummary{Mode: models.DetectionModeMask, MaskInfo: info}
	for name, entry := range byLabel {
		sort.Ints(entry.ids)
		confidence := models.ConfidenceHigh
		if len(entry.ids) > 1 {
			confidence = models.ConfidenceEstimated
		}
		summary.Classes = append(summary.Classes, models.FoodClassArea{
			Name:       name,
			ClassIDs:   entry.ids,
			PixelCount: entry.pixels,
			Percentage: utils.Round2(100 * float64(entry.pixels) / float64(total)),
			Confidence: confidence,
		})
		summary.TotalFoodArea.PixelCount += entry.pixels
	}
	summary.TotalFoodArea.Percentage = utils.Round2(100 * float64(summary.TotalFoodArea.PixelCount) / float64(total))

	sort.Slice(summary.Classes, func(i, j int) bool {
		if summary.Classes[i].PixelCount != summary.Classes[j].PixelCount {
			return summary.Classes[i].PixelCount > summary.Classes[j].PixelCount
		}
		return summary.Classes[i].Name < summary.Classes[j].Name
	})

	s.log.Info("measured class areas",
		zap.Int("classes", len(summary.Classes)),
		zap.Int("food_pixels", summary.TotalFoodArea.PixelCount),
		zap.Float64("food_percentage", summary.TotalFoodArea.Percentage),
	)
	return summary
}

// classMapFallback reports every non-reserved class-map label with zero
// area. Downstream stages still see the food names; all quantities stay
// zero and the mode flag tells callers why.
func (s *SegmentationService) classMapFallback(classMap models.ClassMap, info models.MaskInfo) models.AreaSummary {
	summary := models.AreaSummary{Mode: models.DetectionModeClassMap, MaskInfo: info}

	type merged struct{ ids []int }
	byLabel := map[string]*merged{}
	for idKey, label := range classMap {
		if models.ReservedLabel(label) {
			continue
		}
		key := normalizeName(label)
		entry := byLabel[key]
		if entry == nil {
			entry = &merged{}
			byLabel[key] = entry
		}
		if id, err := strconv.Atoi(idKey); err == nil {
			entry.ids = append(entry.ids, id)
		}
	}
	for name, entry := range byLabel {
		sort.Ints(entry.ids)
		summary.Classes = append(summary.Classes, models.FoodClassArea{
			Name:       name,
			ClassIDs:   entry.ids,
			Confidence: models.ConfidenceLow,
		})
	}
	sort.Slice(summary.Classes, func(i, j int) bool {
		return summary.Classes[i].Name < summary.Classes[j].Name
	})
	return summary
}
