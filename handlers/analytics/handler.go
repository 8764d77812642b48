package analytics

import (
	"math"
	"net/http"
	"time"

	"mindful-backend/db"
	"mindful-backend/models"
	"mindful-backend/utils"

	"github.com/gin-gonic/gin"
)

const (
	recentWindow = 7 * 24 * time.Hour
	topTagsLimit = 10
)

var now = time.Now

type PostAnalytics struct {
	TotalPosts  int64   `json:"totalPosts"`
	RecentPosts int64   `json:"recentPosts"`
	Growth      float64 `json:"growth"`
}

type TagAnalytics struct {
	TagName  string `json:"tagName"`
	TagColor string `json:"tagColor"`
	Count    int64  `json:"count"`
}

type UserAnalytics struct {
	TotalUsers  int64   `json:"totalUsers"`
	ActiveUsers int64   `json:"activeUsers"`
	Growth      float64 `json:"growth"`
}

// @Summary Post analytics
// @Description Total posts, posts of the last 7 days and their share in percent
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} PostAnalytics
// @Failure 500 {object} map[string]string "message: Failed to fetch analytics"
// @Router /api/analytics/posts [get]
func GetPostAnalytics(c *gin.Context) {
	var stats PostAnalytics
	cutoff := now().Add(-recentWindow)

	if err := db.DB.Model(&models.Post{}).Count(&stats.TotalPosts).Error; err != nil {
		fail(c, err)
		return
	}
	if err := db.DB.Model(&models.Post{}).Where("created_at >= ?", cutoff).Count(&stats.RecentPosts).Error; err != nil {
		fail(c, err)
		return
	}
	stats.Growth = growth(stats.RecentPosts, stats.TotalPosts)

	c.JSON(http.StatusOK, stats)
}

// @Summary Tag analytics
// @Description The 10 most used tags with their post count
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {array} TagAnalytics
// @Failure 500 {object} map[string]string "message: Failed to fetch analytics"
// @Router /api/analytics/tags [get]
func GetTagAnalytics(c *gin.Context) {
	stats := []TagAnalytics{}
	err := db.DB.Model(&models.Tag{}).
		Select("tags.name AS tag_name, tags.color AS tag_color, COUNT(post_tags.post_id) AS count").
		Joins("LEFT JOIN post_tags ON post_tags.tag_id = tags.id").
		Group("tags.id, tags.name, tags.color").
		Order("count DESC").
		Limit(topTagsLimit).
		Scan(&stats).Error
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// @Summary User analytics
// @Description Total users, users active in the last 7 days and their share in percent
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserAnalytics
// @Failure 500 {object} map[string]string "message: Failed to fetch analytics"
// @Router /api/analytics/users [get]
func GetUserAnalytics(c *gin.Context) {
	var stats UserAnalytics
	cutoff := now().Add(-recentWindow)

	if err := db.DB.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		fail(c, err)
		return
	}
	if err := db.DB.Model(&models.User{}).Where("updated_at >= ?", cutoff).Count(&stats.ActiveUsers).Error; err != nil {
		fail(c, err)
		return
	}
	stats.Growth = growth(stats.ActiveUsers, stats.TotalUsers)

	c.JSON(http.StatusOK, stats)
}

// growth is part/total in percent, rounded to one decimal.
func growth(part, total int64) float64 {
	if part == 0 || total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*1000) / 10
}

func fail(c *gin.Context, err error) {
	userID, _ := c.Get("user_id")
	utils.LogErrorWithUser(userID, err, "Error computing analytics")
	utils.SendError(c, http.StatusInternalServerError, "Failed to fetch analytics")
}
