package middleware

import (
	"FairShare/utils"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Recovery turns a panic into a 500 JSON error instead of a dropped connection.
func Recovery(log *zap.SugaredLogger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		log.Errorw("panic recovered",
			"request_id", RequestIDFrom(c),
			"path", c.Request.URL.Path,
			"panic", recovered,
		)
		utils.ErrorResponse(c, http.StatusInternalServerError, fmt.Sprint(recovered))
	})
}
