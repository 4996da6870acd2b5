package handler

import (
	"errors"
	"face-analysis/internal/pkg/middleware"
	"face-analysis/internal/pkg/model/scan_model"
	"face-analysis/tools"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (h *Handler) setScanGroup(api *gin.RouterGroup) {
	scanApiGroup := api.Group("scans")
	authMiddleware := middleware.NewAuthMiddleware()
	scanApiGroup.Use(authMiddleware.BasicAuthMiddleware())
	{
		scanApiGroup.GET("/:id", h.getScan)
		scanApiGroup.POST("/", h.createScan)
		scanApiGroup.DELETE("/:id", h.deleteScan)
		scanApiGroup.PATCH("/:id", h.addImageToScan)
		scanApiGroup.PATCH("/:id/process", h.processScan)
	}
}

func (h *Handler) getScan(c *gin.Context) {

	var scanId int
	var err error
	var scan *scan_model.Scan

	scanIdStr := c.Param("id")

	scanId, err = strconv.Atoi(scanIdStr)
	if err != nil {
		log.Println(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	scan, err = h.service.GetScanById(scanId)
	if err != nil {
		if errors.Is(err, tools.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": scan})
}

func (h *Handler) createScan(c *gin.Context) {

	scanId, err := h.service.CreateScan()
	if err != nil {
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": scanId})
}

func (h *Handler) deleteScan(c *gin.Context) {

	var scanId int
	var err error

	scanIdStr := c.Param("id")

	scanId, err = strconv.Atoi(scanIdStr)
	if err != nil {
		log.Println(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err = h.service.DeleteScan(scanId)
	if err != nil {
		if errors.Is(err, tools.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": "scan was successfully deleted"})
}

func (h *Handler) addImageToScan(c *gin.Context) {

	var scanId int
	var err error

	scanIdStr := c.Param("id")

	scanId, err = strconv.Atoi(scanIdStr)
	if err != nil {
		log.Println(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	imageName := c.PostForm("imageName")
	if len(imageName) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image name cannot be empty"})
		return
	}

	fileData := &scan_model.FileData{}
	fileData.File, fileData.FileHeader, err = c.Request.FormFile("image")
	if err != nil {
		log.Println(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to get uploaded image"})
		return
	}
	defer fileData.File.Close()

	err = h.service.AddImageToScan(scanId, imageName, fileData)
	if err != nil {
		if errors.Is(err, tools.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": "image was successfully added to scan"})
}

func (h *Handler) processScan(c *gin.Context) {

	var scanId int
	var err error

	scanIdStr := c.Param("id")

	scanId, err = strconv.Atoi(scanIdStr)
	if err != nil {
		log.Println(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err = h.service.UpdateScanStatus(scanId, scan_model.StatusInProgress)
	if err != nil {
		if errors.Is(err, tools.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": "scan is being processed"})

	go h.service.ProcessScan(scanId)
}
