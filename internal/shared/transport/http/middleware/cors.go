package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"LevelEditor/modules/kit/tracex"
)

// Cors 允许任意来源访问编辑接口，预检请求直接返回 204。
func Cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type,Authorization,"+tracex.Header)
		h.Set("Access-Control-Expose-Headers", tracex.Header)
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
