package respond

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// Response unified API response envelope
type Response struct {
	Code    int         `json:"code" example:"0" description:"Business code: 0 success, non-zero failure"`
	Message string      `json:"message" example:"success" description:"Response message"`
	Data    interface{} `json:"data,omitempty" description:"Response payload"`
}

// Success respond 200 with data
func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{Code: 0, Message: "success", Data: data})
}

// SuccessWithCode respond 200 with a custom business code
func SuccessWithCode(c *gin.Context, code int, data interface{}) {
	c.JSON(200, Response{Code: code, Message: "success", Data: data})
}

// InvalidParam respond 400 parameter error
func InvalidParam(c *gin.Context, message string) {
	c.JSON(400, Response{Code: 400, Message: message})
}

// NotFound respond 404 resource not found
func NotFound(c *gin.Context, message string) {
	c.JSON(404, Response{Code: 404, Message: message})
}

// Conflict respond 409 state conflict
func Conflict(c *gin.Context, message string) {
	c.JSON(409, Response{Code: 409, Message: message})
}

// Gone respond 410 resource no longer available
func Gone(c *gin.Context, message string) {
	c.JSON(410, Response{Code: 410, Message: message})
}

// ServerError respond 500 server error
func ServerError(c *gin.Context, message string) {
	c.JSON(500, Response{Code: 500, Message: message})
}

// TimingMiddleware log requests that take longer than a second
func TimingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)
		if elapsed > time.Second {
			log.Printf("Slow request: %s %s took %s", c.Request.Method, c.Request.URL.Path, elapsed)
		}
	}
}
