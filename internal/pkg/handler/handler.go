package handler

import (
	"face-analysis/internal/pkg/middleware"
	"face-analysis/internal/pkg/service"
	"net/http"
	"os"

	"face-analysis/tools"

	"github.com/gin-gonic/gin"
)

const (
	serverAddrName = "FACE_ANALYSIS__SERVER_ADDRESS"
)

type Handler struct {
	service *service.Service
}

func NewHandler(service *service.Service) *Handler {
	return &Handler{
		service: service,
	}
}

func NewServer(s *service.Service) *http.Server {
	tools.CheckEnvs(serverAddrName)

	serverAddress := os.Getenv(serverAddrName)

	router := gin.Default()
	router.Use(middleware.CorsMiddleware())
	router.Use(middleware.RequestIdMiddleware())

	handler := NewHandler(s)

	router.GET("/", handler.root)
	router.GET("/health", handler.health)

	api := router.Group("/api")

	handler.setAnalysisGroup(api)
	handler.setScanGroup(api)

	return &http.Server{
		Addr:    serverAddress,
		Handler: router,
	}
}

func (h *Handler) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "face-analysis",
		"status":  "running",
	})
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Health(c.Request.Context()))
}
