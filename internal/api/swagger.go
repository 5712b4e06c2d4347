package api

import (
	"net/http"

	_ "garbage-vision-go/docs"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (s *Server) setupSwagger() {
	s.router.GET("/api/info", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"title":       "Garbage Vision API",
			"version":     s.config.Version,
			"description": "Garbage detection service for image uploads and annotated live camera streams",
			"swagger_ui":  "/docs/index.html",
			"endpoints": gin.H{
				"health":  "/health",
				"metrics": "/metrics",
				"upload":  "/upload",
				"camera":  "/camera",
				"results": "/results",
			},
			"port": s.config.Port,
		})
	})

	s.router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
