package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/crabstertechnology/EZCirkit/internal/core"
	"github.com/crabstertechnology/EZCirkit/internal/models"
)

// TutorialHandler handles the tutorial tree endpoints and the admin content
// management endpoints.
type TutorialHandler struct {
	tutorialService core.TutorialService
}

// NewTutorialHandler creates a new TutorialHandler.
func NewTutorialHandler(ts core.TutorialService) *TutorialHandler {
	return &TutorialHandler{tutorialService: ts}
}

func mapTutorialErrorToStatus(c *gin.Context, err error) {
	var statusCode int
	var errResponse ErrorResponse

	switch {
	case errors.Is(err, core.ErrChapterNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: core.ErrChapterNotFound.Error()}
	case errors.Is(err, core.ErrTutorialNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: core.ErrTutorialNotFound.Error()}
	case errors.Is(err, core.ErrChapterNotEmpty):
		statusCode = http.StatusConflict
		errResponse = ErrorResponse{Error: core.ErrChapterNotEmpty.Error()}
	case errors.Is(err, core.ErrInvalidLevel):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: core.ErrInvalidLevel.Error()}
	default:
		log.Printf("Internal Server Error: %v", err)
		statusCode = http.StatusInternalServerError
		errResponse = ErrorResponse{Error: "An unexpected internal server error occurred."}
	}
	c.JSON(statusCode, errResponse)
}

// GetTree handles GET /tutorials
// Reached through OptionalToken: anonymous viewers get the tree with gated
// fields stripped and hasAccess false.
func (h *TutorialHandler) GetTree(c *gin.Context) {
	tree, err := h.tutorialService.Tree(c.Request.Context(), viewerFromContext(c))
	if err != nil {
		mapTutorialErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, tree)
}

// GetTutorial handles GET /tutorials/:chapterId/:tutorialId
func (h *TutorialHandler) GetTutorial(c *gin.Context) {
	chapterID := c.Param("chapterId")
	tutorialID := c.Param("tutorialId")
	if chapterID == "" || tutorialID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Chapter ID and Tutorial ID are required"})
		return
	}

	tutorial, err := h.tutorialService.GetTutorial(c.Request.Context(), viewerFromContext(c), chapterID, tutorialID)
	if err != nil {
		mapTutorialErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, tutorial)
}

// CreateChapter handles POST /admin/chapters
func (h *TutorialHandler) CreateChapter(c *gin.Context) {
	var req models.CreateChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	chapter, err := h.tutorialService.CreateChapter(c.Request.Context(), req)
	if err != nil {
		mapTutorialErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, chapter)
}

// UpdateChapter handles PUT /admin/chapters/:chapterId
func (h *TutorialHandler) UpdateChapter(c *gin.Context) {
	chapterID := c.Param("chapterId")
	if chapterID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Chapter ID is required"})
		return
	}

	var req models.UpdateChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	chapter, err := h.tutorialService.UpdateChapter(c.Request.Context(), chapterID, req)
	if err != nil {
		mapTutorialErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, chapter)
}

// DeleteChapter handles DELETE /admin/chapters/:chapterId
func (h *TutorialHandler) DeleteChapter(c *gin.Context) {
	chapterID := c.Param("chapterId")
	if chapterID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Chapter ID is required"})
		return
	}

	if err := h.tutorialService.DeleteChapter(c.Request.Context(), chapterID); err != nil {
		mapTutorialErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Chapter deleted"})
}

// CreateTutorial handles POST /admin/chapters/:chapterId/tutorials
func (h *TutorialHandler) CreateTutorial(c *gin.Context) {
	chapterID := c.Param("chapterId")
	if chapterID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Chapter ID is required"})
		return
	}

	var req models.CreateTutorialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	tutorial, err := h.tutorialService.CreateTutorial(c.Request.Context(), chapterID, req)
	if err != nil {
		mapTutorialErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, tutorial)
}

// UpdateTutorial handles PUT /admin/chapters/:chapterId/tutorials/:tutorialId
func (h *TutorialHandler) UpdateTutorial(c *gin.Context) {
	chapterID := c.Param("chapterId")
	tutorialID := c.Param("tutorialId")
	if chapterID == "" || tutorialID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Chapter ID and Tutorial ID are required"})
		return
	}

	var req models.UpdateTutorialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	tutorial, err := h.tutorialService.UpdateTutorial(c.Request.Context(), chapterID, tutorialID, req)
	if err != nil {
		mapTutorialErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, tutorial)
}

// DeleteTutorial handles DELETE /admin/chapters/:chapterId/tutorials/:tutorialId
func (h *TutorialHandler) DeleteTutorial(c *gin.Context) {
	chapterID := c.Param("chapterId")
	tutorialID := c.Param("tutorialId")
	if chapterID == "" || tutorialID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Chapter ID and Tutorial ID are required"})
		return
	}

	if err := h.tutorialService.DeleteTutorial(c.Request.Context(), chapterID, tutorialID); err != nil {
		mapTutorialErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Tutorial deleted"})
}
