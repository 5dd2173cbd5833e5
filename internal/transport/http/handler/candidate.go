package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/ErlanBelekov/learning-management-system/internal/domain"
	"github.com/ErlanBelekov/learning-management-system/internal/usecase"
	"github.com/gin-gonic/gin"
)

type candidateUsecaser interface {
	Save(ctx context.Context, in usecase.SaveCandidateInput) (*domain.HiredCandidate, error)
	List(ctx context.Context) ([]*domain.HiredCandidate, error)
	FindByFirstName(ctx context.Context, firstName string) (*domain.HiredCandidate, error)
	Import(ctx context.Context, r io.Reader) ([]*domain.HiredCandidate, error)
}

type CandidateHandler struct {
	candidateUsecase candidateUsecaser
	logger           *slog.Logger
}

func NewCandidateHandler(candidateUsecase candidateUsecaser, logger *slog.Logger) *CandidateHandler {
	return &CandidateHandler{
		candidateUsecase: candidateUsecase,
		logger:           logger.With("component", "candidate_handler"),
	}
}

type saveCandidateRequest struct {
	FirstName    string `json:"first_name"    binding:"required"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"         binding:"required,email"`
	MobileNumber string `json:"mobile_number"`
	Degree       string `json:"degree"`
	HiredCity    string `json:"hired_city"`
	HiredDate    string `json:"hired_date"    binding:"required,datetime=2006-01-02"`
	Status       string `json:"status"`
}

type candidateResponse struct {
	ID           int64     `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	MobileNumber string    `json:"mobile_number"`
	Degree       string    `json:"degree"`
	HiredCity    string    `json:"hired_city"`
	HiredDate    string    `json:"hired_date"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func newCandidateResponse(c *domain.HiredCandidate) candidateResponse {
	return candidateResponse{
		ID:           c.ID,
		FirstName:    c.FirstName,
		LastName:     c.LastName,
		Email:        c.Email,
		MobileNumber: c.MobileNumber,
		Degree:       c.Degree,
		HiredCity:    c.HiredCity,
		HiredDate:    c.HiredDate.Format(time.DateOnly),
		Status:       c.Status,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

// POST /candidates
func (h *CandidateHandler) Save(c *gin.Context) {
	var req saveCandidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	saved, err := h.candidateUsecase.Save(c.Request.Context(), usecase.SaveCandidateInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		MobileNumber: req.MobileNumber,
		Degree:       req.Degree,
		HiredCity:    req.HiredCity,
		HiredDate:    req.HiredDate,
		Status:       req.Status,
	})
	if err != nil {
		respondError(c, h.logger, "save candidate", err)
		return
	}

	c.JSON(http.StatusCreated, newCandidateResponse(saved))
}

// GET /candidates
func (h *CandidateHandler) List(c *gin.Context) {
	candidates, err := h.candidateUsecase.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "list candidates", err)
		return
	}

	items := make([]candidateResponse, len(candidates))
	for i, cand := range candidates {
		items[i] = newCandidateResponse(cand)
	}
	c.JSON(http.StatusOK, gin.H{"candidates": items})
}

// GET /candidates/:firstName
func (h *CandidateHandler) GetByFirstName(c *gin.Context) {
	cand, err := h.candidateUsecase.FindByFirstName(c.Request.Context(), c.Param("firstName"))
	if err != nil {
		respondError(c, h.logger, "get candidate", err)
		return
	}
	c.JSON(http.StatusOK, newCandidateResponse(cand))
}

// POST /candidates/import
// Expects a multipart upload in field "file".
func (h *CandidateHandler) Import(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errMissingFile})
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, h.logger, "open upload", err)
		return
	}
	defer f.Close()

	saved, err := h.candidateUsecase.Import(c.Request.Context(), f)
	if err != nil {
		respondError(c, h.logger, "import candidates", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"imported": len(saved)})
}
