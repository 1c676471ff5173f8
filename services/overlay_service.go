package services

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"go.uber.org/zap"

	"github.com/siddevkota/NutriCare/data"
	"github.com/siddevkota/NutriCare/models"
)

// ErrImageDecode reports an undecodable original image. Unlike a bad mask,
// a bad original leaves nothing to draw on, so this one does surface to
// the caller.
var ErrImageDecode = errors.New("original image could not be decoded")

// OverlayService recolors a class-indexed mask and composites it over the
// source image. Purely visual; it never touches the numeric pipeline.
type OverlayService struct {
	seg *SegmentationService
	ref *data.Reference
	log *zap.Logger
}

func NewOverlayService(seg *SegmentationService, ref *data.Reference, log *zap.Logger) *OverlayService {
	return &OverlayService{seg: seg, ref: ref, log: log}
}

// Render decodes both images, resizes the mask to the original's
// dimensions (nearest neighbour, ids are categorical), paints each class
// into a transparent overlay and alpha-composites it over the original.
// Any mask-side failure degrades to the unmodified original; only an
// undecodable original is an error.
func (o *OverlayService) Render(maskRaw []byte, classMap models.ClassMap, originalRaw []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(originalRaw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}
	base := toNRGBA(img)

	mask, err := o.seg.DecodeMask(maskRaw)
	if err != nil {
		o.log.Warn("mask unusable, returning original image", zap.Error(err))
		return encodePNG(base)
	}
	mask = o.seg.ResizeToMatch(mask, base.Rect.Dx(), base.Rect.Dy())

	overlay := image.NewNRGBA(base.Rect)
	colors := o.classColors(mask, classMap)
	for y := 0; y < mask.Height; y++ {
		for x := 0; x < mask.Width; x++ {
			if c, paint := colors[mask.At(x, y)]; paint {
				overlay.SetNRGBA(x, y, c)
			}
		}
	}
	draw.Draw(base, base.Rect, overlay, image.Point{}, draw.Over)

	return encodePNG(base)
}

// classColors maps every id present in the mask to its overlay color.
// Id 0 is always background and never painted; ids whose label is reserved
// are skipped; labels missing from the palette, and ids missing from the
// class map entirely, get the default gray.
func (o *OverlayService) classColors(mask *models.SegmentationMask, classMap models.ClassMap) map[int]color.NRGBA {
	present := map[int]struct{}{}
	for _, id := range mask.Pixels {
		present[id] = struct{}{}
	}
	colors := make(map[int]color.NRGBA, len(present))
	for id := range present {
		if id == 0 {
			continue
		}
		label, mapped := classMap.Label(id)
		if mapped && models.ReservedLabel(label) {
			continue
		}
		if c, ok := o.ref.PaletteColor(label); mapped && ok {
			colors[id] = c
		} else {
			colors[id] = o.ref.PaletteDefault()
		}
	}
	return colors
}

func toNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode overlay png: %w", err)
	}
	return buf.Bytes(), nil
}
