package controllers

import (
	"net/http"
	"os"

	"cloud.google.com/go/auth/credentials/idtoken"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/quanghuy/intelliquiz-backend/models"
	"github.com/quanghuy/intelliquiz-backend/utils"
)

// ====== INPUT STRUCTS ======
type RegisterInput struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Role      string `json:"role" binding:"required,oneof=LECTURER STUDENT"`
	RegNo     string `json:"reg_no"`
}

type LoginInput struct {
	EmailOrRegNo string `json:"email_or_reg_no" binding:"required"`
	Password     string `json:"password" binding:"required"`
}

func userPayload(user models.User) gin.H {
	return gin.H{
		"id":         user.ID,
		"email":      user.Email,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"role":       user.Role,
		"reg_no":     user.RegNo,
	}
}

// ====== HANDLERS ======
func Register(c *gin.Context) {
	db := mustDB(c)

	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	// duplicate email or registration number
	query := db.Where("email = ?", input.Email)
	if input.RegNo != "" {
		query = query.Or("reg_no = ?", input.RegNo)
	}
	var existing models.User
	if err := query.First(&existing).Error; err == nil {
		utils.RespondError(c, http.StatusConflict, "User already exists")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Cannot hash password")
		return
	}

	newUser := models.User{
		Email:     input.Email,
		Password:  string(hashed),
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Role:      models.UserRole(input.Role),
	}
	// registration numbers belong to students only
	if newUser.Role == models.RoleStudent && input.RegNo != "" {
		newUser.RegNo = &input.RegNo
	}

	if err := db.Create(&newUser).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Cannot create user")
		return
	}

	token, err := utils.GenerateToken(newUser.ID.String(), newUser.Email, string(newUser.Role))
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Cannot create token")
		return
	}

	utils.RespondSuccess(c, http.StatusCreated, gin.H{
		"user":  userPayload(newUser),
		"token": token,
	}, "Registration successful")
}

func Login(c *gin.Context) {
	db := mustDB(c)

	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	// students may log in with their registration number
	var user models.User
	if err := db.Where("email = ? OR reg_no = ?", input.EmailOrRegNo, input.EmailOrRegNo).
		First(&user).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := utils.GenerateToken(user.ID.String(), user.Email, string(user.Role))
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Cannot create token")
		return
	}

	utils.RespondSuccess(c, http.StatusOK, gin.H{
		"user":  userPayload(user),
		"token": token,
	}, "Login successful")
}

type GoogleLoginInput struct {
	IDToken string `json:"id_token" binding:"required"`
}

// GoogleLogin verifies a Google ID token and signs the account in, creating
// a student account on first contact.
func GoogleLogin(c *gin.Context) {
	db := mustDB(c)

	var input GoogleLoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	payload, err := idtoken.Validate(c, input.IDToken, os.Getenv("GOOGLE_CLIENT_ID"))
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, "Invalid Google token")
		return
	}

	email, _ := payload.Claims["email"].(string)
	firstName, _ := payload.Claims["given_name"].(string)
	lastName, _ := payload.Claims["family_name"].(string)

	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		user = models.User{
			Email:     email,
			FirstName: firstName,
			LastName:  lastName,
			Role:      models.RoleStudent,
			// no password for Google accounts
		}
		if err := db.Create(&user).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, "Cannot create Google user")
			return
		}
	}

	token, err := utils.GenerateToken(user.ID.String(), user.Email, string(user.Role))
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Cannot create token")
		return
	}

	utils.RespondSuccess(c, http.StatusOK, gin.H{
		"user":  userPayload(user),
		"token": token,
	}, "Login successful")
}

type ChangePasswordInput struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

func ChangePassword(c *gin.Context) {
	db := mustDB(c)
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input ChangePasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, "User not found")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.OldPassword)); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, "Old password is incorrect")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Cannot hash new password")
		return
	}

	user.Password = string(hashed)
	if err := db.Save(&user).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Cannot update password")
		return
	}

	utils.RespondSuccess(c, http.StatusOK, nil, "Password changed successfully")
}
