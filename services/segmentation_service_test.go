package services

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/siddevkota/NutriCare/models"
)

func encodeTestPNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// gridMask builds a mask by hand: ids is row-major, length w*h.
func gridMask(w, h int, ids []int) *models.SegmentationMask {
	return &models.SegmentationMask{Width: w, Height: h, Pixels: ids}
}

func fillMask(w, h int, counts map[int]int) *models.SegmentationMask {
	pixels := make([]int, 0, w*h)
	for id, n := range counts {
		for i := 0; i < n; i++ {
			pixels = append(pixels, id)
		}
	}
	for len(pixels) < w*h {
		pixels = append(pixels, 0)
	}
	return gridMask(w, h, pixels)
}

func TestDecodeMaskPaletted(t *testing.T) {
	palette := color.Palette{
		color.NRGBA{A: 255},
		color.NRGBA{R: 255, A: 255},
		color.NRGBA{G: 255, A: 255},
		color.NRGBA{B: 255, A: 255},
	}
	img := image.NewPaletted(image.Rect(0, 0, 4, 2), palette)
	want := []int{0, 1, 1, 2, 0, 0, 3, 2}
	for i, id := range want {
		img.Pix[i] = uint8(id)
	}

	svc := NewSegmentationService(zap.NewNop())
	mask, err := svc.DecodeMask(encodeTestPNG(t, img))
	require.NoError(t, err)

	assert.Equal(t, 4, mask.Width)
	assert.Equal(t, 2, mask.Height)
	assert.Equal(t, want, mask.Pixels)
	assert.Equal(t, 8, mask.TotalPixels())
}

func TestDecodeMaskGray(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 2, 2))
	img.Pix = []uint8{0, 7, 7, 255}

	svc := NewSegmentationService(zap.NewNop())
	mask, err := svc.DecodeMask(encodeTestPNG(t, img))
	require.NoError(t, err)

	assert.Equal(t, []int{0, 7, 7, 255}, mask.Pixels)
}

func TestDecodeMaskColorUsesLuma(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})
	img.SetRGBA(1, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})

	svc := NewSegmentationService(zap.NewNop())
	mask, err := svc.DecodeMask(encodeTestPNG(t, img))
	require.NoError(t, err)

	// 299*255/1000 for pure red, full weight sum for white.
	assert.Equal(t, []int{76, 255}, mask.Pixels)
}

func TestDecodeMaskRejectsGarbage(t *testing.T) {
	svc := NewSegmentationService(zap.NewNop())

	_, err := svc.DecodeMask([]byte("definitely not an image"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMaskDecode)

	_, err = svc.DecodeMask(nil)
	assert.ErrorIs(t, err, ErrMaskDecode)
}

func TestClassAreasMeasuresAndRanks(t *testing.T) {
	// 100x100 frame: 30% bhat, 20% daal, the rest background.
	mask := fillMask(100, 100, map[int]int{1: 3000, 2: 2000})
	classMap := models.ClassMap{"0": "background", "1": "bhat", "2": "daal"}

	svc := NewSegmentationService(zap.NewNop())
	summary := svc.ClassAreas(mask, classMap)

	assert.Equal(t, models.DetectionModeMask, summary.Mode)
	require.Len(t, summary.Classes, 2)

	assert.Equal(t, "bhat", summary.Classes[0].Name)
	assert.Equal(t, []int{1}, summary.Classes[0].ClassIDs)
	assert.Equal(t, 3000, summary.Classes[0].PixelCount)
	assert.Equal(t, 30.0, summary.Classes[0].Percentage)
	assert.Equal(t, models.ConfidenceHigh, summary.Classes[0].Confidence)

	assert.Equal(t, "daal", summary.Classes[1].Name)
	assert.Equal(t, 2000, summary.Classes[1].PixelCount)
	assert.Equal(t, 20.0, summary.Classes[1].Percentage)

	assert.Equal(t, 5000, summary.TotalFoodArea.PixelCount)
	assert.Equal(t, 50.0, summary.TotalFoodArea.Percentage)
	assert.Equal(t, models.MaskInfo{Width: 100, Height: 100, TotalPixels: 10000}, summary.MaskInfo)
}

func TestClassAreasMergesIdsWithSameLabel(t *testing.T) {
	mask := fillMask(10, 20, map[int]int{1: 100, 3: 50})
	classMap := models.ClassMap{"0": "background", "1": "bhat", "3": " Bhat "}

	svc := NewSegmentationService(zap.NewNop())
	summary := svc.ClassAreas(mask, classMap)

	require.Len(t, summary.Classes, 1)
	merged := summary.Classes[0]
	assert.Equal(t, "bhat", merged.Name)
	assert.Equal(t, []int{1, 3}, merged.ClassIDs)
	assert.Equal(t, 150, merged.PixelCount)
	assert.Equal(t, 75.0, merged.Percentage)
	assert.Equal(t, models.ConfidenceEstimated, merged.Confidence)
}

func TestClassAreasSkipsReservedAndUnmappedIds(t *testing.T) {
	mask := fillMask(10, 10, map[int]int{5: 30, 7: 20, 9: 25})
	classMap := models.ClassMap{"0": "background", "7": "None", "9": "momo"}

	svc := NewSegmentationService(zap.NewNop())
	summary := svc.ClassAreas(mask, classMap)

	require.Len(t, summary.Classes, 1)
	assert.Equal(t, "momo", summary.Classes[0].Name)
	assert.Equal(t, 25, summary.Classes[0].PixelCount)

	// Skipped ids also stay out of the food total.
	assert.Equal(t, 25, summary.TotalFoodArea.PixelCount)
	assert.LessOrEqual(t, summary.TotalFoodArea.PixelCount, summary.MaskInfo.TotalPixels)
}

func TestClassAreasFullFrameFood(t *testing.T) {
	mask := fillMask(10, 10, map[int]int{2: 100})
	classMap := models.ClassMap{"2": "daal"}

	svc := NewSegmentationService(zap.NewNop())
	summary := svc.ClassAreas(mask, classMap)

	require.Len(t, summary.Classes, 1)
	assert.Equal(t, 100.0, summary.Classes[0].Percentage)
	assert.Equal(t, summary.MaskInfo.TotalPixels, summary.TotalFoodArea.PixelCount)
	assert.Equal(t, 100.0, summary.TotalFoodArea.Percentage)
}

func TestClassAreasNilMaskFallsBack(t *testing.T) {
	classMap := models.ClassMap{"0": "background", "2": "daal", "1": "bhat", "3": "none"}

	svc := NewSegmentationService(zap.NewNop())
	summary := svc.ClassAreas(nil, classMap)

	assert.Equal(t, models.DetectionModeClassMap, summary.Mode)
	require.Len(t, summary.Classes, 2)
	assert.Equal(t, "bhat", summary.Classes[0].Name)
	assert.Equal(t, "daal", summary.Classes[1].Name)
	for _, cls := range summary.Classes {
		assert.Zero(t, cls.PixelCount)
		assert.Zero(t, cls.Percentage)
		assert.Equal(t, models.ConfidenceLow, cls.Confidence)
	}
	assert.Zero(t, summary.TotalFoodArea.PixelCount)
	assert.Equal(t, models.MaskInfo{}, summary.MaskInfo)
}

func TestClassAreasAllBackgroundFallsBack(t *testing.T) {
	mask := fillMask(4, 4, nil) // every pixel id 0
	classMap := models.ClassMap{"0": "background", "1": "bhat"}

	svc := NewSegmentationService(zap.NewNop())
	summary := svc.ClassAreas(mask, classMap)

	assert.Equal(t, models.DetectionModeClassMap, summary.Mode)
	require.Len(t, summary.Classes, 1)
	assert.Equal(t, "bhat", summary.Classes[0].Name)
	// The mask existed, so its dimensions are still reported.
	assert.Equal(t, models.MaskInfo{Width: 4, Height: 4, TotalPixels: 16}, summary.MaskInfo)
}

func TestClassAreasFallbackMergesDuplicateLabels(t *testing.T) {
	classMap := models.ClassMap{"1": "bhat", "4": "BHAT", "not-a-number": "bhat"}

	svc := NewSegmentationService(zap.NewNop())
	summary := svc.ClassAreas(nil, classMap)

	require.Len(t, summary.Classes, 1)
	assert.Equal(t, "bhat", summary.Classes[0].Name)
	assert.Equal(t, []int{1, 4}, summary.Classes[0].ClassIDs)
}

func TestResizeToMatchDoubles(t *testing.T) {
	mask := gridMask(2, 2, []int{1, 2, 3, 4})

	svc := NewSegmentationService(zap.NewNop())
	out := svc.ResizeToMatch(mask, 4, 4)

	require.Equal(t, 4, out.Width)
	require.Equal(t, 4, out.Height)

	counts := map[int]int{}
	for _, id := range out.Pixels {
		counts[id]++
	}
	// Nearest neighbour on an exact 2x upscale replicates each id into a
	// 2x2 block and never invents new ids.
	assert.Equal(t, map[int]int{1: 4, 2: 4, 3: 4, 4: 4}, counts)
	assert.Equal(t, 1, out.At(0, 0))
	assert.Equal(t, 2, out.At(3, 0))
	assert.Equal(t, 3, out.At(0, 3))
	assert.Equal(t, 4, out.At(3, 3))
}

func TestResizeToMatchIdentity(t *testing.T) {
	mask := gridMask(3, 2, []int{1, 1, 2, 2, 0, 0})

	svc := NewSegmentationService(zap.NewNop())
	assert.Same(t, mask, svc.ResizeToMatch(mask, 3, 2))
	assert.Same(t, mask, svc.ResizeToMatch(mask, 0, 5))
	assert.Nil(t, svc.ResizeToMatch(nil, 4, 4))
}
