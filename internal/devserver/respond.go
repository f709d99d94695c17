package devserver

import "github.com/gin-gonic/gin"

// envelope is the uniform response body shape: every endpoint, success or
// failure, returns {success, data?, message?}
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// respondOK writes a success envelope
func respondOK(c *gin.Context, status int, data any, message string) {
	c.JSON(status, envelope{Success: true, Data: data, Message: message})
}

// respondError writes a failure envelope
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, envelope{Success: false, Message: message})
}
