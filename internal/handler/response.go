package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	errTypeValidation = "validation_error"
	errTypeProcessing = "processing_error"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func respondError(c *gin.Context, status int, errType, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:   errType,
		Message: message,
	})
}

func respondValidationError(c *gin.Context, message string) {
	respondError(c, http.StatusBadRequest, errTypeValidation, message)
}
