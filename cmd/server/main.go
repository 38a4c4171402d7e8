package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"linkmark/internal/api"
	"linkmark/internal/config"
	"linkmark/internal/model"
	"linkmark/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.ParseConfig()
	if err != nil {
		logrus.WithError(err).Error("failed to parse config")
		return
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	repo, err := model.InitRepository(&cfg)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise repository")
		return
	}

	store, err := storage.NewStorage(cfg)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise storage")
		return
	}

	httpHandler, err := api.NewHTTPHandler(cfg, repo, store)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise http handler")
		return
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(LoggingMiddleware())
	r.Use(CORSMiddleware())
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	apiGroup := r.Group("/api")

	authGroup := apiGroup.Group("/auth")
	authGroup.GET("/status", httpHandler.AuthStatus)
	authGroup.POST("/register", httpHandler.Register)
	authGroup.POST("/login", httpHandler.Login)
	authGroup.GET("/me", httpHandler.IdentityMiddleware(), httpHandler.Me)

	protected := apiGroup.Group("")
	protected.Use(httpHandler.IdentityMiddleware())

	protected.GET("/bookmarks", httpHandler.ListBookmarks)
	protected.POST("/bookmarks", httpHandler.CreateBookmark)
	protected.GET("/bookmarks/:id", httpHandler.GetBookmark)
	protected.PUT("/bookmarks/:id", httpHandler.UpdateBookmark)
	protected.PUT("/bookmarks/:id/tags", httpHandler.UpdateBookmarkTags)
	protected.DELETE("/bookmarks/:id", httpHandler.DeleteBookmark)

	protected.GET("/tags", httpHandler.ListTags)
	protected.POST("/tags", httpHandler.CreateTag)
	protected.GET("/tags/stats", httpHandler.TagStats)
	protected.GET("/tags/popular", httpHandler.PopularTags)
	protected.PUT("/tags/:id", httpHandler.UpdateTag)
	protected.DELETE("/tags/:id", httpHandler.DeleteTag)

	protected.GET("/categories", httpHandler.ListCategories)
	protected.POST("/categories", httpHandler.CreateCategory)
	protected.PUT("/categories/:id", httpHandler.UpdateCategory)
	protected.DELETE("/categories/:id", httpHandler.DeleteCategory)

	if localProvider, ok := store.(storage.LocalBaseDirProvider); ok {
		publicPrefix := strings.TrimSpace(cfg.StoragePublicBaseURL)
		if publicPrefix == "" {
			publicPrefix = "/files"
		}
		if !strings.HasPrefix(publicPrefix, "http://") && !strings.HasPrefix(publicPrefix, "https://") {
			if !strings.HasPrefix(publicPrefix, "/") {
				publicPrefix = "/" + publicPrefix
			}
			r.Static(publicPrefix, localProvider.LocalBaseDir())
		}
	}

	serverHost := fmt.Sprintf("0.0.0.0:%s", cfg.HTTPPort)
	logger.WithField("host", serverHost).Info("server starting")
	httpServer := &http.Server{
		Addr:         serverHost,
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	err = httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logger.WithError(err).Error("server failed to start")
	}
}

// CORSMiddleware handles cross-origin requests.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-User-ID, X-Requested-With")
		c.Header("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// LoggingMiddleware logs every request after it completes.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		logrus.WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"duration":  duration.String(),
			"size":      c.Writer.Size(),
			"client_ip": c.ClientIP(),
		}).Info("http_request")
	}
}
