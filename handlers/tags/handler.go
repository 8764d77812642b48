package tags

import (
	"errors"
	"net/http"
	"strings"

	"mindful-backend/db"
	"mindful-backend/models"
	"mindful-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// @Summary List tags
// @Description All tags ordered by name
// @Tags tags
// @Produce json
// @Success 200 {array} models.Tag
// @Failure 500 {object} map[string]string "message: Failed to fetch tags"
// @Router /api/tags [get]
func GetAllTags(c *gin.Context) {
	var tags []models.Tag
	if err := db.DB.Order("name ASC").Find(&tags).Error; err != nil {
		utils.LogError(err, "Error fetching tags in GetAllTags")
		utils.SendError(c, http.StatusInternalServerError, "Failed to fetch tags")
		return
	}

	if tags == nil {
		tags = []models.Tag{}
	}
	c.JSON(http.StatusOK, tags)
}

// @Summary Create a tag
// @Description Admins can create tags ahead of time with a custom color
// @Tags tags
// @Accept json
// @Produce json
// @Param tag body models.TagCreate true "Tag"
// @Security BearerAuth
// @Success 201 {object} models.Tag
// @Failure 400 {object} map[string]string "message: Invalid input"
// @Failure 409 {object} map[string]string "message: Tag already exists"
// @Failure 500 {object} map[string]string "message: Failed to create tag"
// @Router /api/tags [post]
func CreateTag(c *gin.Context) {
	var input models.TagCreate
	if !utils.ValidateRequestBody(c, &input) {
		return
	}

	tag := models.Tag{
		Name:  strings.TrimSpace(input.Name),
		Color: input.Color,
	}
	if tag.Name == "" {
		utils.SendError(c, http.StatusBadRequest, "Tag name is required")
		return
	}
	if tag.Color == "" {
		tag.Color = models.DefaultTagColor
	}

	var existing models.Tag
	if err := db.DB.Where("name = ?", tag.Name).First(&existing).Error; err == nil {
		utils.SendError(c, http.StatusConflict, "Tag already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.LogError(err, "Error checking tag in CreateTag")
		utils.SendError(c, http.StatusInternalServerError, "Failed to create tag")
		return
	}

	if err := db.DB.Create(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.SendError(c, http.StatusConflict, "Tag already exists")
			return
		}
		utils.LogError(err, "Error creating tag in CreateTag")
		utils.SendError(c, http.StatusInternalServerError, "Failed to create tag")
		return
	}

	c.JSON(http.StatusCreated, tag)
}
