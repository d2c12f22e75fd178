package utils

import (
	"errors"
	"strings"

	"github.com/quanghuy/intelliquiz-backend/services"
)

var allowedMaterialMimes = map[string]bool{
	"application/pdf": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"text/plain": true,
}

var allowedVideoMimes = map[string]bool{
	"video/mp4":  true,
	"video/webm": true,
}

// GetInputTypeFromExt maps a file extension to an extraction input type.
func GetInputTypeFromExt(ext string) (services.InputType, error) {
	switch strings.ToLower(ext) {
	case ".pdf":
		return services.InputPDF, nil
	case ".docx":
		return services.InputDOCX, nil
	case ".txt":
		return services.InputTXT, nil
	default:
		return "", errors.New("unsupported file type")
	}
}

// ValidMaterialMime accepts the MIME types the ingestion pipeline understands.
// An empty content type is tolerated, the extension check already ran.
func ValidMaterialMime(contentType string) bool {
	if contentType == "" {
		return true
	}
	// strip "; charset=..." suffixes
	if i := strings.Index(contentType, ";"); i != -1 {
		contentType = strings.TrimSpace(contentType[:i])
	}
	return allowedMaterialMimes[contentType]
}

func ValidVideoMime(contentType string) bool {
	if i := strings.Index(contentType, ";"); i != -1 {
		contentType = strings.TrimSpace(contentType[:i])
	}
	return allowedVideoMimes[contentType]
}
