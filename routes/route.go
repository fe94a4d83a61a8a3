package route

import (
	"FairShare/controllers"
	"FairShare/handlers"
	"FairShare/middleware"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Options tunes the engine built by NewRouter.
type Options struct {
	AllowOrigins   []string
	MaxUploadBytes int64
}

// NewRouter builds the gin engine with middleware and all routes.
func NewRouter(opts Options, log *zap.SugaredLogger, receiptController *controllers.ReceiptController) *gin.Engine {
	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLog(log))
	r.Use(middleware.Recovery(log))
	r.Use(middleware.ErrorHandlerMiddleware(log))
	r.Use(cors.New(corsConfig(opts.AllowOrigins)))
	if opts.MaxUploadBytes > 0 {
		r.Use(middleware.MaxBodySize(opts.MaxUploadBytes))
	}

	RegisterRoutes(r, receiptController)
	return r
}

// RegisterRoutes initializes all routes
func RegisterRoutes(router *gin.Engine, receiptController *controllers.ReceiptController) {
	root := router.Group("")
	{
		handlers.RegisterHealthRoutes(root)
		handlers.RegisterReceiptRoutes(root, receiptController)
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	return cfg
}
