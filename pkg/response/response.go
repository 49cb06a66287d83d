package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/class-admin/pkg/errors"
)

// ErrorBody is the error envelope returned by every endpoint.
type ErrorBody struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// OK is the body returned by deletes and other acknowledgement-only endpoints.
type OK struct {
	OK bool `json:"ok"`
}

func setHeaders(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.Header("X-Content-Type-Options", "nosniff")
	c.Header("Referrer-Policy", "same-origin")
}

// JSON sends a success response.
func JSON(c *gin.Context, status int, data interface{}) {
	setHeaders(c)
	c.JSON(status, data)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data)
}

// Ack responds with {"ok": true}.
func Ack(c *gin.Context) {
	JSON(c, http.StatusOK, OK{OK: true})
}

// Error sends an error response converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	setHeaders(c)
	c.JSON(appErr.Status, ErrorBody{Error: appErr.Message, Details: appErr.Details})
}

// Abort writes the error envelope and stops the middleware chain.
func Abort(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}
