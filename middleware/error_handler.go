package middleware

import (
	"FairShare/utils"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorHandlerMiddleware renders errors attached with c.Error. CustomError
// keeps its status; anything else becomes a 500 carrying the error message.
func ErrorHandlerMiddleware(log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err

		var customErr *utils.CustomError
		if errors.As(err, &customErr) {
			utils.ErrorResponse(c, customErr.StatusCode, customErr.Message)
			return
		}

		log.Errorw("request failed",
			"request_id", RequestIDFrom(c),
			"path", c.Request.URL.Path,
			"error", err,
		)
		utils.ErrorResponse(c, http.StatusInternalServerError, err.Error())
	}
}
