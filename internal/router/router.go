package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gmallikarjunreddy/fundaroo-collective/internal/auth"
	"github.com/gmallikarjunreddy/fundaroo-collective/internal/handler"
	"github.com/gmallikarjunreddy/fundaroo-collective/internal/ledger"
	"github.com/gmallikarjunreddy/fundaroo-collective/internal/logic"
	"github.com/gmallikarjunreddy/fundaroo-collective/internal/store"
	"gorm.io/gorm"
)

// Setup wires handlers onto a gin engine.
func Setup(db *gorm.DB, projectStore *store.ProjectStore, pledgeLedger *ledger.Ledger, jwtManager *auth.JWTManager) *gin.Engine {
	r := gin.New()

	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "fundaroo-collective",
		})
	})

	api := r.Group("/api")

	projectHandler := handler.NewProjectHandler(projectStore, pledgeLedger)
	projects := api.Group("/projects")
	{
		projects.GET("", projectHandler.GetProjects)
		projects.GET("/featured", projectHandler.GetFeaturedProjects)
		projects.GET("/:id", projectHandler.GetProject)

		protected := projects.Group("")
		protected.Use(authMiddleware(jwtManager))
		{
			protected.POST("", projectHandler.CreateProject)
			protected.PUT("/:id", projectHandler.UpdateProject)
			protected.DELETE("/:id", projectHandler.DeleteProject)
			protected.POST("/:id/back", projectHandler.BackProject)
		}
	}

	userHandler := handler.NewUserHandler(logic.NewUserLogic(db), projectStore, jwtManager)
	users := api.Group("/users")
	{
		users.POST("", userHandler.Register)
		users.POST("/login", userHandler.Login)
		users.GET("/:id", userHandler.GetUser)

		profile := users.Group("/profile")
		profile.Use(authMiddleware(jwtManager))
		{
			profile.GET("", userHandler.GetProfile)
			profile.PUT("", userHandler.UpdateProfile)
		}
	}

	return r
}

// authMiddleware validates the bearer token and stores the caller id in
// the request context. Handlers trust this id; ownership checks stay in
// the store and ledger.
func authMiddleware(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": auth.ErrMissingToken.Error()})
			return
		}

		claims, err := jwtManager.Validate(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": auth.ErrInvalidToken.Error()})
			return
		}

		c.Set(handler.CallerIDKey, claims.UserID)
		c.Next()
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
