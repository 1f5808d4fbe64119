package middleware

import (
	"time"

	"github.com/A-Santhosh-Hub/YT-Video-Downloader/internal/model"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS builds the cross-origin middleware. An empty origin list allows any origin
// without credentials.
func CORS(cfg *model.CORSConfig) gin.HandlerFunc {
	c := cors.Config{
		AllowMethods:  []string{"GET", "HEAD", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Range"},
		ExposeHeaders: []string{"Content-Length", "Content-Range", "Accept-Ranges", "X-RateLimit-Remaining"},
		MaxAge:        12 * time.Hour,
	}

	if len(cfg.AllowedOrigins) == 0 {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.AllowedOrigins
		c.AllowCredentials = true
	}

	return cors.New(c)
}
