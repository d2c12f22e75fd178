package utils

import "github.com/gin-gonic/gin"

// APIResponse is the shared envelope for every endpoint. Success responses
// carry data and an optional message, failures carry a single error string.
type APIResponse struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data,omitempty"`
	Message    string      `json:"message,omitempty"`
	Error      string      `json:"error,omitempty"`
	StatusCode int         `json:"statusCode"`
}

func RespondSuccess(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, APIResponse{
		Success:    true,
		Data:       data,
		Message:    message,
		StatusCode: status,
	})
}

func RespondError(c *gin.Context, status int, message string) {
	c.JSON(status, APIResponse{
		Success:    false,
		Error:      message,
		StatusCode: status,
	})
}
