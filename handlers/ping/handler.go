package ping

import (
	"net/http"

	"mindful-backend/db"
	"mindful-backend/utils"

	"github.com/gin-gonic/gin"
)

type Handler struct{}

func New() *Handler {
	return &Handler{}
}

// HandlePing reports liveness and whether the database answers.
// @Summary Ping test
// @Description Liveness probe answering pong, with the database status
// @Tags health
// @Produce json
// @Success 200 {object} utils.Response
// @Router /ping [get]
func (h *Handler) HandlePing(c *gin.Context) {
	utils.SendSuccess(c, http.StatusOK, "Ping successful", gin.H{
		"message":  "pong",
		"database": databaseStatus(c),
	})
}

// HandleHello
// @Summary Hello world
// @Tags health
// @Produce plain
// @Success 200 {string} string "Hello World"
// @Router /api/hello [get]
func (h *Handler) HandleHello(c *gin.Context) {
	c.String(http.StatusOK, "Hello World")
}

func databaseStatus(c *gin.Context) string {
	if db.DB == nil {
		return "unconfigured"
	}
	sqlDB, err := db.DB.DB()
	if err != nil {
		return "down"
	}
	if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		return "down"
	}
	return "up"
}
