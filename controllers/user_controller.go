package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quanghuy/intelliquiz-backend/models"
	"github.com/quanghuy/intelliquiz-backend/utils"
)

func GetCurrentUser(c *gin.Context) {
	db := mustDB(c)
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, "User not found")
		return
	}

	utils.RespondSuccess(c, http.StatusOK, userPayload(user), "")
}

type UpdateProfileInput struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

// UpdateCurrentUser changes profile fields only. Email, role and reg_no are
// immutable after registration.
func UpdateCurrentUser(c *gin.Context) {
	db := mustDB(c)
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, "User not found")
		return
	}

	updates := map[string]interface{}{}
	if input.FirstName != nil && *input.FirstName != "" {
		updates["first_name"] = *input.FirstName
	}
	if input.LastName != nil && *input.LastName != "" {
		updates["last_name"] = *input.LastName
	}
	if len(updates) > 0 {
		if err := db.Model(&user).Updates(updates).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, "Cannot update profile")
			return
		}
	}

	utils.RespondSuccess(c, http.StatusOK, userPayload(user), "Profile updated")
}
