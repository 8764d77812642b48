package auth

import (
	"errors"
	"net/http"
	"strings"

	"mindful-backend/db"
	"mindful-backend/models"
	"mindful-backend/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// @Summary Register a new user
// @Description Create an account with an email and a password
// @Tags auth
// @Accept json
// @Produce json
// @Param user body models.UserCreate true "User information"
// @Success 201 {object} map[string]interface{} "message: User created successfully, email: user email"
// @Failure 400 {object} map[string]string "message: Invalid input"
// @Failure 409 {object} map[string]string "message: Email already exists"
// @Failure 500 {object} map[string]string "message: Error message"
// @Router /api/auth/register [post]
func Register(c *gin.Context) {
	var input models.UserCreate
	if !utils.ValidateRequestBody(c, &input) {
		return
	}

	input.Email = strings.TrimSpace(strings.ToLower(input.Email))

	if !utils.ValidateEmail(input.Email) {
		utils.SendError(c, http.StatusBadRequest, "Invalid email format")
		return
	}

	if msg := checkPassword(input.Password); msg != "" {
		utils.SendError(c, http.StatusBadRequest, msg)
		return
	}

	var existingUser models.User
	if err := db.DB.Where("email = ?", input.Email).First(&existingUser).Error; err == nil {
		utils.SendError(c, http.StatusConflict, "This email is already used")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.LogError(err, "Error checking email existence in Register")
		utils.SendError(c, http.StatusInternalServerError, "Error when checking the email existence")
		return
	}

	passwordHash, err := hashPassword(input.Password)
	if err != nil {
		utils.LogError(err, "Error hashing password in Register")
		utils.SendError(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	user := models.User{
		Email:     input.Email,
		Password:  passwordHash,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Role:      models.UserRole,
	}

	if err := db.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.SendError(c, http.StatusConflict, "This email is already used")
			return
		}
		utils.LogError(err, "Error creating user in Register")
		utils.SendError(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	utils.LogSuccessWithUser(user.ID, "User registered")
	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"email":   user.Email,
	})
}

// @Summary User login
// @Description Exchange credentials for a JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param user body models.UserLogin true "Credentials"
// @Success 200 {object} map[string]string "token: JWT"
// @Failure 400 {object} map[string]string "message: Invalid input"
// @Failure 401 {object} map[string]string "message: Wrong credentials"
// @Failure 500 {object} map[string]string "message: Error message"
// @Router /api/auth/login [post]
func Login(c *gin.Context) {
	var input models.UserLogin
	if !utils.ValidateRequestBody(c, &input) {
		return
	}

	email := strings.TrimSpace(strings.ToLower(input.Email))
	if !utils.ValidateEmail(email) {
		utils.SendError(c, http.StatusBadRequest, "Invalid email format")
		return
	}

	var user models.User
	if err := db.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.SendError(c, http.StatusUnauthorized, "Wrong credentials")
			return
		}
		utils.LogError(err, "Error fetching user in Login")
		utils.SendError(c, http.StatusInternalServerError, "Failed to log in")
		return
	}

	if !samePassword(input.Password, user.Password) {
		utils.SendError(c, http.StatusUnauthorized, "Wrong credentials")
		return
	}

	token, err := utils.GenerateJWT(user)
	if err != nil {
		utils.LogErrorWithUser(user.ID, err, "Error generating token in Login")
		utils.SendError(c, http.StatusInternalServerError, "Failed to log in")
		return
	}

	utils.LogSuccessWithUser(user.ID, "User logged in")
	c.JSON(http.StatusOK, gin.H{
		"token": token,
	})
}

// @Summary Current user
// @Description Return the authenticated user's profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} map[string]string "message: Unauthorized"
// @Failure 404 {object} map[string]string "message: User not found"
// @Failure 500 {object} map[string]string "message: Failed to fetch user"
// @Router /api/auth/user [get]
func GetCurrentUser(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.SendError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var user models.User
	if err := db.DB.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.SendError(c, http.StatusNotFound, "User not found")
			return
		}
		utils.LogErrorWithUser(userID, err, "Error fetching user in GetCurrentUser")
		utils.SendError(c, http.StatusInternalServerError, "Failed to fetch user")
		return
	}

	c.JSON(http.StatusOK, user)
}

// @Summary Update profile picture
// @Description Upload a new profile picture for the authenticated user
// @Tags auth
// @Accept multipart/form-data
// @Produce json
// @Param picture formData file true "Profile picture"
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 400 {object} map[string]string "message: Picture is required"
// @Failure 401 {object} map[string]string "message: Unauthorized"
// @Failure 404 {object} map[string]string "message: User not found"
// @Failure 500 {object} map[string]string "message: Error message"
// @Router /api/auth/user/picture [put]
func UpdateProfilePicture(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.SendError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	file, err := c.FormFile("picture")
	if err != nil || file == nil {
		utils.SendError(c, http.StatusBadRequest, "Picture is required")
		return
	}
	if err := utils.ValidateImage(file); err != nil {
		utils.SendError(c, http.StatusBadRequest, err.Error())
		return
	}

	var user models.User
	if err := db.DB.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.SendError(c, http.StatusNotFound, "User not found")
			return
		}
		utils.LogErrorWithUser(userID, err, "Error fetching user in UpdateProfilePicture")
		utils.SendError(c, http.StatusInternalServerError, "Failed to update picture")
		return
	}

	imageURL, err := utils.UploadImage(file, "profile_pictures", "user")
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Error uploading profile picture")
		utils.SendError(c, http.StatusInternalServerError, "Error uploading picture: "+err.Error())
		return
	}

	previous := user.ProfileImageURL
	if err := db.DB.Model(&user).Update("profile_image_url", imageURL).Error; err != nil {
		utils.LogErrorWithUser(userID, err, "Error saving profile picture")
		utils.SendError(c, http.StatusInternalServerError, "Failed to update picture")
		return
	}
	user.ProfileImageURL = imageURL

	if previous != "" {
		if err := utils.DeleteImage(previous); err != nil {
			utils.LogErrorWithUser(userID, err, "Error deleting previous profile picture")
		}
	}

	utils.LogSuccessWithUser(userID, "Profile picture updated")
	c.JSON(http.StatusOK, user)
}

// checkPassword returns the rejection message for a weak password, or "".
func checkPassword(password string) string {
	if len(password) < 6 {
		return "The password must contain at least 6 characters"
	}

	hasLower := strings.ContainsAny(password, "abcdefghijklmnopqrstuvwxyz")
	hasUpper := strings.ContainsAny(password, "ABCDEFGHIJKLMNOPQRSTUVWXYZ")
	hasDigit := strings.ContainsAny(password, "0123456789")

	if !hasLower || !hasUpper || !hasDigit {
		return "The password must contain at least one lowercase, one uppercase and one digit"
	}
	return ""
}

func hashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedPassword), nil
}

func samePassword(formPassword string, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(formPassword))
	return err == nil
}
