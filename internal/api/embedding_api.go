// Package api exposes the embedding service over HTTP.
package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"wordsim/internal/domain"
	"wordsim/internal/logging"
	"wordsim/internal/service"
)

// EmbeddingService is the subset of the service the HTTP layer needs.
type EmbeddingService interface {
	StartTraining() *service.Run
	Progress() domain.TrainingProgress
	ModelConfig() domain.ModelInfo
	IsTrained() bool
	TrainingStats() (domain.TrainingStats, error)
	Vocabulary() []string
	Similarity(a, b string) (float64, error)
	GenericSimilarity(ctx context.Context, a, b string) (float64, error)
	GenericName() string
	Compare(ctx context.Context, a, b string) domain.Comparison
	Embedding(word string) ([]float64, int, error)
	Neighbors(word string, k int) ([]domain.Neighbor, error)
}

// WordPairRequest is the body of the similarity endpoints.
type WordPairRequest struct {
	Word1 string `json:"word1" binding:"required"`
	Word2 string `json:"word2" binding:"required"`
}

// EmbeddingAPI handles training and similarity endpoints.
type EmbeddingAPI struct {
	svc EmbeddingService
	log logging.Logger
}

// NewEmbeddingAPI creates an EmbeddingAPI.
func NewEmbeddingAPI(svc EmbeddingService, log logging.Logger) *EmbeddingAPI {
	if log == nil {
		log = logging.Nop{}
	}
	return &EmbeddingAPI{svc: svc, log: log}
}

// NewRouter builds a gin engine with all routes mounted under /api.
func NewRouter(svc EmbeddingService, log logging.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	NewEmbeddingAPI(svc, log).RegisterRoutes(router.Group("/api"))
	return router
}

// RegisterRoutes registers the embedding endpoints on router.
func (a *EmbeddingAPI) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/train", a.train)
	router.GET("/status", a.status)
	router.GET("/vocabulary", a.vocabulary)
	router.GET("/health", a.health)
	router.GET("/embedding/:word", a.embedding)
	router.GET("/neighbors/:word", a.neighbors)

	sim := router.Group("/similarity")
	sim.POST("/custom", a.customSimilarity)
	sim.POST("/generic", a.genericSimilarity)
	sim.POST("/compare", a.compare)
}

// train starts a background training run and returns immediately.
func (a *EmbeddingAPI) train(c *gin.Context) {
	run := a.svc.StartTraining()
	c.JSON(http.StatusOK, gin.H{
		"status":  "Training started",
		"message": "Model training has been initiated. Check /api/status for progress.",
		"runId":   run.ID,
	})
}

func (a *EmbeddingAPI) status(c *gin.Context) {
	resp := gin.H{
		"progress":  a.svc.Progress(),
		"config":    a.svc.ModelConfig(),
		"isTrained": a.svc.IsTrained(),
	}
	if stats, err := a.svc.TrainingStats(); err == nil {
		resp["stats"] = stats
	}
	c.JSON(http.StatusOK, resp)
}

func (a *EmbeddingAPI) vocabulary(c *gin.Context) {
	words := a.svc.Vocabulary()
	c.JSON(http.StatusOK, gin.H{"vocabulary": words, "size": len(words), "isTrained": a.svc.IsTrained()})
}

func (a *EmbeddingAPI) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "modelTrained": a.svc.IsTrained()})
}

func (a *EmbeddingAPI) customSimilarity(c *gin.Context) {
	var req WordPairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sim, err := a.svc.Similarity(req.Word1, req.Word2)
	if err != nil {
		a.fail(c, "Error calculating similarity", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"word1": req.Word1, "word2": req.Word2, "similarity": sim, "model": "custom"})
}

func (a *EmbeddingAPI) genericSimilarity(c *gin.Context) {
	var req WordPairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sim, err := a.svc.GenericSimilarity(c.Request.Context(), req.Word1, req.Word2)
	if err != nil {
		a.fail(c, "Error calculating generic similarity", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"word1":      req.Word1,
		"word2":      req.Word2,
		"similarity": sim,
		"model":      "generic",
		"modelInfo":  a.svc.GenericName(),
	})
}

func (a *EmbeddingAPI) compare(c *gin.Context) {
	var req WordPairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, a.svc.Compare(c.Request.Context(), req.Word1, req.Word2))
}

func (a *EmbeddingAPI) embedding(c *gin.Context) {
	word := c.Param("word")
	vec, dim, err := a.svc.Embedding(word)
	if err != nil {
		a.fail(c, "Error getting embedding", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"word": word, "embedding": vec, "dimension": dim})
}

func (a *EmbeddingAPI) neighbors(c *gin.Context) {
	word := c.Param("word")
	k := service.DefaultNeighbors
	if raw := c.Query("k"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "k must be a positive integer"})
			return
		}
		k = n
	}
	res, err := a.svc.Neighbors(word, k)
	if err != nil {
		a.fail(c, "Error finding neighbors", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"word": word, "neighbors": res})
}

// fail maps service errors onto HTTP statuses.
func (a *EmbeddingAPI) fail(c *gin.Context, msg string, err error) {
	switch {
	case domain.IsPrecondition(err):
		c.JSON(http.StatusPreconditionFailed, gin.H{"error": err.Error()})
	case domain.IsInvalidArgument(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		a.log.Error(msg, logging.Fields{"path": c.FullPath(), "error": err})
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg, "details": err.Error()})
	}
}
