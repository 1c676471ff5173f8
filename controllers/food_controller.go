package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/siddevkota/NutriCare/services"
)

type FoodController struct {
	nutrition *services.NutritionService
}

func NewFoodController(nutrition *services.NutritionService) *FoodController {
	return &FoodController{nutrition: nutrition}
}

// GET /classes
func (f *FoodController) Classes(c *gin.Context) {
	classes := f.nutrition.Classes()
	c.JSON(http.StatusOK, gin.H{
		"classes": classes,
		"total":   len(classes),
	})
}

// GET /food-details/:name
func (f *FoodController) FoodDetails(c *gin.Context) {
	name := c.Param("name")
	details, ok := f.nutrition.Details(name)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error":             "unknown food: " + name,
			"available_classes": f.nutrition.Classes(),
		})
		return
	}
	c.JSON(http.StatusOK, details)
}
