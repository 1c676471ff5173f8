package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/siddevkota/NutriCare/models"
	"github.com/siddevkota/NutriCare/services"
	"github.com/siddevkota/NutriCare/utils"
)

type OverlayController struct {
	overlay *services.OverlayService
	log     *zap.Logger
}

func NewOverlayController(overlay *services.OverlayService, log *zap.Logger) *OverlayController {
	return &OverlayController{overlay: overlay, log: log}
}

// POST /generate-mask
//
// Composites the stored segmentation mask over the original photo and
// returns the blended image as a PNG data URL. An unusable mask still
// yields a response, the service falls back to the plain original.
func (o *OverlayController) GenerateMask(c *gin.Context) {
	var req struct {
		SegmentationMask string          `json:"segmentation_mask" binding:"required"`
		ClassMap         models.ClassMap `json:"class_map"`
		OriginalImage    string          `json:"original_image" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "segmentation_mask and original_image are required"})
		return
	}

	originalRaw, err := utils.DecodeBase64Image(req.OriginalImage)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid base64 in original_image"})
		return
	}
	maskRaw, err := utils.DecodeBase64Image(req.SegmentationMask)
	if err != nil {
		o.log.Warn("segmentation_mask is not valid base64", zap.Error(err))
		maskRaw = nil
	}

	out, err := o.overlay.Render(maskRaw, req.ClassMap, originalRaw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not decode original image"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":        "success",
		"overlay_image": utils.EncodeImageDataURL("image/png", out),
	})
}
