package api

import (
	"PropTour/internal/api/middleware"
	"PropTour/internal/pkg/logger"
	"PropTour/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup, accountSvc service.AccountService) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		tourGroup := apiGroup.Group("/video-tours")
		{
			tourGroup.Use(middleware.AuthMiddleware(accountSvc))
			{
				tourGroup.POST("", group.VideoTourHandler.Upload)
				tourGroup.GET("/count", group.VideoTourHandler.Count)
				tourGroup.GET("/listing/:listing_id", group.VideoTourHandler.List)
				tourGroup.GET("/:id", group.VideoTourHandler.GetByID)
				tourGroup.PUT("/:id", group.VideoTourHandler.Update)
				tourGroup.DELETE("/:id", group.VideoTourHandler.Delete)
			}
		}
	}

	return r
}
