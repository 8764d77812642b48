package doctors

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"mindful-backend/db"
	"mindful-backend/models"
	"mindful-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// @Summary List doctors
// @Description Doctors ordered by name, optionally filtered by specialization
// @Tags doctors
// @Produce json
// @Param specialization query string false "Specialization"
// @Success 200 {array} models.Doctor
// @Failure 500 {object} map[string]string "message: Failed to fetch doctors"
// @Router /api/doctors [get]
func GetDoctors(c *gin.Context) {
	query := db.DB.Order("name ASC")
	if specialization := strings.TrimSpace(c.Query("specialization")); specialization != "" {
		query = query.Where("specialization = ?", specialization)
	}

	var doctors []models.Doctor
	if err := query.Find(&doctors).Error; err != nil {
		utils.LogError(err, "Error fetching doctors in GetDoctors")
		utils.SendError(c, http.StatusInternalServerError, "Failed to fetch doctors")
		return
	}

	if doctors == nil {
		doctors = []models.Doctor{}
	}
	c.JSON(http.StatusOK, doctors)
}

// @Summary Search doctors
// @Description Case-insensitive search on name and specialization
// @Tags doctors
// @Produce json
// @Param q query string true "Search query"
// @Success 200 {array} models.Doctor
// @Failure 400 {object} map[string]string "message: Search query required"
// @Failure 500 {object} map[string]string "message: Failed to search doctors"
// @Router /api/doctors/search [get]
func SearchDoctors(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		utils.SendError(c, http.StatusBadRequest, "Search query required")
		return
	}

	pattern := "%" + q + "%"
	var doctors []models.Doctor
	err := db.DB.Where("name ILIKE ? OR specialization ILIKE ?", pattern, pattern).
		Order("name ASC").
		Find(&doctors).Error
	if err != nil {
		utils.LogError(err, "Error searching doctors in SearchDoctors")
		utils.SendError(c, http.StatusInternalServerError, "Failed to search doctors")
		return
	}

	if doctors == nil {
		doctors = []models.Doctor{}
	}
	c.JSON(http.StatusOK, doctors)
}

// @Summary Get a doctor
// @Tags doctors
// @Produce json
// @Param id path int true "Doctor ID"
// @Success 200 {object} models.Doctor
// @Failure 400 {object} map[string]string "message: Invalid doctor ID"
// @Failure 404 {object} map[string]string "message: Doctor not found"
// @Failure 500 {object} map[string]string "message: Failed to fetch doctor"
// @Router /api/doctors/{id} [get]
func GetDoctorByID(c *gin.Context) {
	doctorID, err := utils.ParseID(c, "id")
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "Invalid doctor ID")
		return
	}

	var doctor models.Doctor
	if err := db.DB.First(&doctor, "id = ?", doctorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.SendError(c, http.StatusNotFound, "Doctor not found")
			return
		}
		utils.LogError(err, "Error fetching doctor in GetDoctorByID")
		utils.SendError(c, http.StatusInternalServerError, "Failed to fetch doctor")
		return
	}

	c.JSON(http.StatusOK, doctor)
}

// @Summary Add a doctor
// @Description Admin only. The rating is given out of 5 and stored in tenths.
// @Tags doctors
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Name"
// @Param specialization formData string true "Specialization"
// @Param experience formData int true "Years of experience"
// @Param rating formData number false "Rating out of 5, e.g. 4.5"
// @Param bio formData string false "Bio"
// @Param isAvailable formData boolean false "Accepting new patients"
// @Param nextAvailable formData string false "Next availability, RFC3339"
// @Param picture formData file false "Profile picture"
// @Security BearerAuth
// @Success 201 {object} models.Doctor
// @Failure 400 {object} map[string]string "message: Invalid input"
// @Failure 401 {object} map[string]string "message: Unauthorized"
// @Failure 403 {object} map[string]string "message: Access denied"
// @Failure 500 {object} map[string]string "message: Failed to create doctor"
// @Router /api/doctors [post]
func CreateDoctor(c *gin.Context) {
	userID, _ := c.Get("user_id")

	doctor, msg := parseDoctorForm(c)
	if msg != "" {
		utils.SendError(c, http.StatusBadRequest, msg)
		return
	}

	file, err := c.FormFile("picture")
	if err == nil && file != nil {
		imageURL, err := utils.UploadImage(file, "doctor_pictures", "doctor")
		if err != nil {
			utils.LogErrorWithUser(userID, err, "Error uploading doctor picture")
			utils.SendError(c, http.StatusBadRequest, "Error uploading picture: "+err.Error())
			return
		}
		doctor.ProfileImageURL = imageURL
	}

	if err := db.DB.Create(&doctor).Error; err != nil {
		utils.LogErrorWithUser(userID, err, "Error creating doctor in CreateDoctor")
		if doctor.ProfileImageURL != "" {
			_ = utils.DeleteImage(doctor.ProfileImageURL)
		}
		utils.SendError(c, http.StatusInternalServerError, "Failed to create doctor")
		return
	}

	utils.LogSuccessWithUser(userID, "Doctor created: "+doctor.Name)
	c.JSON(http.StatusCreated, doctor)
}

// @Summary Request a connection with a doctor
// @Tags doctors
// @Accept json
// @Produce json
// @Param id path int true "Doctor ID"
// @Param request body models.DoctorConnectionCreate false "Message to the doctor"
// @Security BearerAuth
// @Success 201 {object} models.DoctorConnection
// @Failure 400 {object} map[string]string "message: Invalid input"
// @Failure 401 {object} map[string]string "message: Unauthorized"
// @Failure 404 {object} map[string]string "message: Doctor not found"
// @Failure 500 {object} map[string]string "message: Failed to create connection request"
// @Router /api/doctors/{id}/connect [post]
func ConnectDoctor(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.SendError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	doctorID, err := utils.ParseID(c, "id")
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "Invalid doctor ID")
		return
	}

	var input models.DoctorConnectionCreate
	if c.Request.ContentLength != 0 {
		if !utils.ValidateRequestBody(c, &input) {
			return
		}
	}

	var doctor models.Doctor
	if err := db.DB.Select("id").First(&doctor, "id = ?", doctorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.SendError(c, http.StatusNotFound, "Doctor not found")
			return
		}
		utils.LogErrorWithUser(userID, err, "Error fetching doctor in ConnectDoctor")
		utils.SendError(c, http.StatusInternalServerError, "Failed to create connection request")
		return
	}

	connection := models.DoctorConnection{
		UserID:   userID.(string),
		DoctorID: doctorID,
		Status:   models.ConnectionPending,
		Message:  strings.TrimSpace(input.Message),
	}
	if err := db.DB.Create(&connection).Error; err != nil {
		utils.LogErrorWithUser(userID, err, "Error creating connection in ConnectDoctor")
		utils.SendError(c, http.StatusInternalServerError, "Failed to create connection request")
		return
	}

	utils.LogSuccessWithUser(userID, "Connection requested with doctor "+strconv.FormatUint(uint64(doctorID), 10))
	c.JSON(http.StatusCreated, connection)
}

// @Summary My connection requests
// @Description The caller's connection requests, newest first
// @Tags doctors
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.DoctorConnection
// @Failure 401 {object} map[string]string "message: Unauthorized"
// @Failure 500 {object} map[string]string "message: Failed to fetch connections"
// @Router /api/doctors/connections [get]
func GetMyConnections(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.SendError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var connections []models.DoctorConnection
	err := db.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&connections).Error
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Error fetching connections in GetMyConnections")
		utils.SendError(c, http.StatusInternalServerError, "Failed to fetch connections")
		return
	}

	if connections == nil {
		connections = []models.DoctorConnection{}
	}
	c.JSON(http.StatusOK, connections)
}

// parseDoctorForm reads the multipart fields, returning a rejection message when one is invalid.
func parseDoctorForm(c *gin.Context) (models.Doctor, string) {
	doctor := models.Doctor{
		Name:           strings.TrimSpace(c.PostForm("name")),
		Specialization: strings.TrimSpace(c.PostForm("specialization")),
		Bio:            c.PostForm("bio"),
		IsAvailable:    true,
	}

	if doctor.Name == "" {
		return doctor, "Name is required"
	}
	if doctor.Specialization == "" {
		return doctor, "Specialization is required"
	}

	experience, err := strconv.Atoi(c.PostForm("experience"))
	if err != nil || experience < 0 {
		return doctor, "Experience must be a positive number of years"
	}
	doctor.Experience = experience

	if raw := c.PostForm("rating"); raw != "" {
		rating, err := strconv.ParseFloat(raw, 64)
		if err != nil || rating < 0 || rating > 5 {
			return doctor, "Rating must be between 0 and 5"
		}
		doctor.Rating = int(math.Round(rating * 10))
	}

	if raw := c.PostForm("isAvailable"); raw != "" {
		available, err := strconv.ParseBool(raw)
		if err != nil {
			return doctor, "isAvailable must be true or false"
		}
		doctor.IsAvailable = available
	}

	if raw := c.PostForm("nextAvailable"); raw != "" {
		next, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return doctor, "nextAvailable must be an RFC3339 date"
		}
		doctor.NextAvailable = &next
	}

	return doctor, ""
}
