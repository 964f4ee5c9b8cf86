package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Dibyajyoti06/CareConnect/internal/apperr"
)

// apiResponse is the envelope every client-facing endpoint returns.
type apiResponse struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Data       any    `json:"data,omitempty"`
}

func respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, apiResponse{
		Success:    status < 400,
		StatusCode: status,
		Message:    message,
		Data:       data,
	})
}

// respondErr maps service errors to the envelope. Non-classified errors
// surface as a plain 500 without internal detail.
func respondErr(c *gin.Context, err error) {
	status := apperr.StatusOf(err)
	msg := "internal server error"
	if status != http.StatusInternalServerError {
		msg = err.Error()
	}
	respond(c, status, msg, nil)
}
