package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"bandprep/internal/domain"
	"bandprep/internal/repository"
)

// VocabularyHandler mantiene dependencias para endpoints de vocabulario.
type VocabularyHandler struct {
	logger *zap.Logger
	vocab  repository.VocabularyRepository
}

func NewVocabularyHandler(logger *zap.Logger, vocab repository.VocabularyRepository) *VocabularyHandler {
	return &VocabularyHandler{
		logger: logger,
		vocab:  vocab,
	}
}

// List maneja GET /vocabulary.
func (h *VocabularyHandler) List(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	items, err := h.vocab.ListByUser(c.Request.Context(), claims.Subject, limit)
	if err != nil {
		h.logger.Error("list vocabulary failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load vocabulary"})
		return
	}
	if items == nil {
		items = []domain.Vocabulary{}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": items})
}

// Create maneja POST /vocabulary.
func (h *VocabularyHandler) Create(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	var req struct {
		Word   string  `json:"word" binding:"required"`
		Source string  `json:"source" binding:"required"`
		Notes  *string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid vocabulary request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	word := strings.TrimSpace(req.Word)
	if existing, err := h.vocab.GetByWord(c.Request.Context(), claims.Subject, word); err == nil {
		c.JSON(http.StatusOK, gin.H{"success": true, "data": existing})
		return
	} else if !errors.Is(err, pgx.ErrNoRows) {
		h.logger.Error("vocabulary lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save vocabulary"})
		return
	}

	item := domain.Vocabulary{
		ID:        uuid.NewString(),
		UserID:    claims.Subject,
		Word:      word,
		Source:    req.Source,
		Notes:     req.Notes,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.vocab.Create(c.Request.Context(), item); err != nil {
		h.logger.Error("create vocabulary failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save vocabulary"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": item})
}

// Delete maneja DELETE /vocabulary/:id.
func (h *VocabularyHandler) Delete(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	id := c.Param("id")
	if err := h.vocab.Delete(c.Request.Context(), claims.Subject, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "vocabulary not found"})
			return
		}
		h.logger.Error("delete vocabulary failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete vocabulary"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Vocabulary deleted"})
}
