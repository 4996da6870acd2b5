package handler

import (
	"errors"
	"face-analysis/internal/pkg/model/analysis_model"
	"face-analysis/tools"
	"io"
	"log"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
)

// maxBatchFiles bounds one batch request.
const maxBatchFiles = 10

func (h *Handler) setAnalysisGroup(api *gin.RouterGroup) {
	analysisApiGroup := api.Group("analyze")
	{
		analysisApiGroup.POST("/face-detection", h.detectFace)
		analysisApiGroup.POST("/skin", h.analyzeSkin)
		analysisApiGroup.POST("/features", h.analyzeFeatures)
		analysisApiGroup.POST("/age", h.analyzeAge)
		analysisApiGroup.POST("/expression", h.analyzeExpression)
		analysisApiGroup.POST("/comprehensive", h.analyzeComprehensive)
		analysisApiGroup.POST("/batch", h.analyzeBatch)
	}
}

// readImageFile extracts the uploaded "image" form file bytes.
func readImageFile(c *gin.Context) (data []byte, err error) {
	file, _, err := c.Request.FormFile("image")
	if err != nil {
		return nil, errors.New("failed to get uploaded image")
	}
	defer file.Close()

	return io.ReadAll(file)
}

func (h *Handler) detectFace(c *gin.Context) {

	imageData, err := readImageFile(c)
	if err != nil {
		log.Println(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	preview, err := h.service.DetectPreview(c.Request.Context(), imageData)
	if err != nil {
		log.Println(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": preview})
}

func (h *Handler) analyzeSkin(c *gin.Context) {

	imageData, err := readImageFile(c)
	if err != nil {
		log.Println(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.AnalyzeSkin(c.Request.Context(), imageData)
	if err != nil {
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

func (h *Handler) analyzeFeatures(c *gin.Context) {

	imageData, err := readImageFile(c)
	if err != nil {
		log.Println(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.AnalyzeFeatures(c.Request.Context(), imageData)
	if err != nil {
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

func (h *Handler) analyzeAge(c *gin.Context) {

	imageData, err := readImageFile(c)
	if err != nil {
		log.Println(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.AnalyzeAge(c.Request.Context(), imageData)
	if err != nil {
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

func (h *Handler) analyzeExpression(c *gin.Context) {

	imageData, err := readImageFile(c)
	if err != nil {
		log.Println(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.AnalyzeExpression(c.Request.Context(), imageData)
	if err != nil {
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

func (h *Handler) analyzeComprehensive(c *gin.Context) {

	imageData, err := readImageFile(c)
	if err != nil {
		log.Println(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.Comprehensive(c.Request.Context(), imageData)
	if err != nil {
		if errors.Is(err, tools.ErrNoFace) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "no face detected in the image",
				"data":  result,
			})
			return
		}
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

// batchItem is one per-file outcome of a batch request. Failures are
// isolated: a bad file yields an item with Error set, not a failed request.
type batchItem struct {
	FileIndex int                                   `json:"file_index"`
	Filename  string                                `json:"filename"`
	Analysis  *analysis_model.ComprehensiveAnalysis `json:"analysis,omitempty"`
	Error     string                                `json:"error,omitempty"`
}

func (h *Handler) analyzeBatch(c *gin.Context) {

	form, err := c.MultipartForm()
	if err != nil {
		log.Println(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	files := form.File["images"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no images uploaded"})
		return
	}
	if len(files) > maxBatchFiles {
		c.JSON(http.StatusBadRequest, gin.H{"error": "too many images: the batch limit is 10"})
		return
	}

	items := make([]batchItem, 0, len(files))
	for i, fileHeader := range files {
		item := batchItem{FileIndex: i, Filename: fileHeader.Filename}

		imageData, err := readFormFile(fileHeader)
		if err != nil {
			item.Error = err.Error()
			items = append(items, item)
			continue
		}

		result, err := h.service.Comprehensive(c.Request.Context(), imageData)
		if err != nil && !errors.Is(err, tools.ErrNoFace) {
			item.Error = err.Error()
			items = append(items, item)
			continue
		}

		item.Analysis = result
		items = append(items, item)
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

func readFormFile(fileHeader *multipart.FileHeader) (data []byte, err error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return io.ReadAll(file)
}
