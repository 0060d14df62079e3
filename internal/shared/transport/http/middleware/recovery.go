package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"LevelEditor/internal/shared/transport"
	"LevelEditor/modules/kit/errx"
	"LevelEditor/modules/kit/logx"
)

// Recovery 把 handler 的 panic 转成 SystemError 响应，并按系统错误记日志（带 trace_id）。
// 需要挂在 AccessLog 之后，access 日志才能看到这次失败。
func Recovery(log logx.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			p := recover()
			if p == nil {
				return
			}
			if p == http.ErrAbortHandler {
				panic(p)
			}
			err := errx.ErrInternal.WithCause(fmt.Errorf("panic: %v", p)).WithData("path", c.Request.URL.Path)
			logx.ReportError(c.Request.Context(), log, c.Request.Method+" "+c.FullPath(), err)
			c.AbortWithStatusJSON(http.StatusOK, gin.H{
				"code":     transport.SystemError,
				"msg":      "系统繁忙，请稍后重试",
				"err_code": string(errx.CodeOf(err)),
			})
		}()
		c.Next()
	}
}
