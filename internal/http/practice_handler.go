package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bandprep/internal/domain"
	"bandprep/internal/repository"
)

// PracticeHandler sirve contenido de práctica precargado.
type PracticeHandler struct {
	logger   *zap.Logger
	practice repository.PracticeRepository
}

func NewPracticeHandler(logger *zap.Logger, practice repository.PracticeRepository) *PracticeHandler {
	return &PracticeHandler{
		logger:   logger,
		practice: practice,
	}
}

// ListReading maneja GET /practice/reading.
func (h *PracticeHandler) ListReading(c *gin.Context) {
	h.listPassages(c, "reading")
}

// ListListening maneja GET /practice/listening.
func (h *PracticeHandler) ListListening(c *gin.Context) {
	h.listPassages(c, "listening")
}

// ListSpeaking maneja GET /practice/speaking.
func (h *PracticeHandler) ListSpeaking(c *gin.Context) {
	h.listQuestions(c, "speaking")
}

// ListWriting maneja GET /practice/writing.
func (h *PracticeHandler) ListWriting(c *gin.Context) {
	h.listQuestions(c, "writing")
}

func (h *PracticeHandler) listPassages(c *gin.Context, skill string) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	passages, err := h.practice.ListPassagesBySkill(c.Request.Context(), skill, limit)
	if err != nil {
		h.logger.Error("list passages failed", zap.Error(err), zap.String("skill", skill))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load practice content"})
		return
	}
	if passages == nil {
		passages = []domain.Passage{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": passages})
}

func (h *PracticeHandler) listQuestions(c *gin.Context, skill string) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	questions, err := h.practice.ListQuestionsBySkill(c.Request.Context(), skill, limit)
	if err != nil {
		h.logger.Error("list questions failed", zap.Error(err), zap.String("skill", skill))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load practice content"})
		return
	}
	if questions == nil {
		questions = []domain.PracticeQuestion{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": questions})
}
