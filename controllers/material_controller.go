package controllers

import (
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/quanghuy/intelliquiz-backend/models"
	"github.com/quanghuy/intelliquiz-backend/services"
	"github.com/quanghuy/intelliquiz-backend/utils"
	"github.com/quanghuy/intelliquiz-backend/ws"
)

const maxMaterialSize = 20 * 1024 * 1024

// UploadMaterial ingests a source document: validate, store the original in
// Supabase, extract plain text. Extraction failure does not fail the upload,
// the material is kept with empty content so the author can retry generation
// later with a different file.
func UploadMaterial(c *gin.Context) {
	db := mustDB(c)
	lecturerID, ok := currentUserID(c)
	if !ok {
		return
	}

	title := strings.TrimSpace(c.PostForm("title"))
	if title == "" {
		utils.RespondError(c, http.StatusBadRequest, "Title is required")
		return
	}
	description := c.PostForm("description")

	file, err := c.FormFile("file")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "No file attached")
		return
	}
	if file.Size > maxMaterialSize {
		utils.RespondError(c, http.StatusBadRequest, "File exceeds 20MB")
		return
	}

	ext := filepath.Ext(file.Filename)
	inputType, err := utils.GetInputTypeFromExt(ext)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if !utils.ValidMaterialMime(file.Header.Get("Content-Type")) {
		utils.RespondError(c, http.StatusBadRequest, "Unsupported file type")
		return
	}

	material := models.Material{
		LecturerID:  lecturerID,
		Title:       title,
		Description: description,
		FileType:    string(inputType),
		FileSize:    file.Size,
		Status:      models.MaterialStatusUploading,
	}
	if err := db.Create(&material).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Cannot store material")
		return
	}
	ws.BroadcastMaterialListChanged()

	publicURL, err := utils.UploadMaterialToSupabase(file, material.ID.String())
	if err != nil {
		db.Delete(&material)
		utils.RespondError(c, http.StatusInternalServerError, "File storage upload failed")
		return
	}

	db.Model(&material).Updates(map[string]interface{}{
		"file_url": publicURL,
		"status":   models.MaterialStatusExtracting,
	})
	ws.SendMaterialStatus(material.ID.String(), models.MaterialStatusExtracting, "")

	content, err := services.ExtractText(inputType, file)
	if err != nil {
		// keep the upload, generation will report the missing content
		log.Printf("text extraction failed for material %s: %v", material.ID, err)
		db.Model(&material).Update("status", models.MaterialStatusFailed)
		ws.SendMaterialStatus(material.ID.String(), models.MaterialStatusFailed, err.Error())
	} else {
		db.Model(&material).Updates(map[string]interface{}{
			"content": strings.TrimSpace(content),
			"status":  models.MaterialStatusReady,
		})
		ws.SendMaterialStatus(material.ID.String(), models.MaterialStatusReady, "")
	}
	ws.BroadcastMaterialListChanged()

	db.First(&material, "id = ?", material.ID)
	utils.RespondSuccess(c, http.StatusCreated, material, "Material uploaded successfully")
}

func GetMaterials(c *gin.Context) {
	db := mustDB(c)
	lecturerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var materials []models.Material
	if err := db.Where("lecturer_id = ?", lecturerID).
		Order("created_at DESC").
		Find(&materials).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Cannot list materials")
		return
	}

	utils.RespondSuccess(c, http.StatusOK, materials, "")
}

func GetMaterialDetail(c *gin.Context) {
	db := mustDB(c)

	var material models.Material
	if err := db.First(&material, "id = ?", c.Param("id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, "Material not found")
		return
	}

	utils.RespondSuccess(c, http.StatusOK, material, "")
}

func DeleteMaterial(c *gin.Context) {
	db := mustDB(c)
	lecturerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var material models.Material
	if err := db.First(&material, "id = ?", c.Param("id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, "Material not found")
		return
	}
	if material.LecturerID != lecturerID {
		utils.RespondError(c, http.StatusForbidden, "Access denied")
		return
	}

	if err := utils.DeleteFileFromSupabase(material.FileURL); err != nil {
		log.Printf("cannot delete stored file for material %s: %v", material.ID, err)
	}

	if err := db.Delete(&material).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Cannot delete material")
		return
	}
	ws.BroadcastMaterialListChanged()

	utils.RespondSuccess(c, http.StatusOK, nil, "Material deleted successfully")
}
