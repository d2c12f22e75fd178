package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quanghuy/intelliquiz-backend/utils"
)

func HealthCheck(c *gin.Context) {
	db := mustDB(c)

	sqlDB, err := db.DB()
	if err != nil || sqlDB.Ping() != nil {
		utils.RespondError(c, http.StatusServiceUnavailable, "Database unreachable")
		return
	}

	utils.RespondSuccess(c, http.StatusOK, gin.H{"status": "ok"}, "")
}
