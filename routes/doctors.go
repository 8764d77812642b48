package routes

import (
	"mindful-backend/handlers/doctors"
	"mindful-backend/middleware"

	"github.com/gin-gonic/gin"
)

func DoctorsRoutes(r *gin.RouterGroup) {
	r.GET("/doctors", doctors.GetDoctors)
	r.GET("/doctors/search", doctors.SearchDoctors)
	r.GET("/doctors/:id", doctors.GetDoctorByID)

	doctorsRoutes := r.Group("/doctors")
	doctorsRoutes.Use(middleware.JWTAuth())
	{
		doctorsRoutes.GET("/connections", doctors.GetMyConnections)
		doctorsRoutes.POST("/:id/connect", doctors.ConnectDoctor)
	}

	r.POST("/doctors", middleware.AdminAuth(), doctors.CreateDoctor)
}
