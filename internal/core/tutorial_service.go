package core

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/crabstertechnology/EZCirkit/internal/db"
	"github.com/crabstertechnology/EZCirkit/internal/models"
)

// Custom errors for the TutorialService
var (
	ErrChapterNotFound  = errors.New("tutorial chapter not found")
	ErrTutorialNotFound = errors.New("tutorial not found")
	ErrChapterNotEmpty  = errors.New("chapter still contains tutorials")
	ErrInvalidLevel     = errors.New("invalid tutorial level")
)

// tutorialService implements the TutorialService interface.
type tutorialService struct {
	tutorialRepo db.TutorialRepository
	orderRepo    db.OrderRepository
}

// NewTutorialService creates a new TutorialService instance.
func NewTutorialService(tr db.TutorialRepository, or db.OrderRepository) TutorialService {
	return &tutorialService{
		tutorialRepo: tr,
		orderRepo:    or,
	}
}

// hasAccess reports whether the viewer may see gated tutorial content:
// admins always, customers once they have a paid order.
func (s *tutorialService) hasAccess(ctx context.Context, viewer Viewer) (bool, error) {
	if !viewer.Authenticated {
		return false, nil
	}
	if viewer.IsAdmin {
		return true, nil
	}
	purchased, err := s.orderRepo.HasPaidOrder(ctx, viewer.UserID)
	if err != nil {
		return false, fmt.Errorf("failed to check purchases for user '%s': %w", viewer.UserID, err)
	}
	return purchased, nil
}

// stripGated removes the purchase-gated fields from a tutorial in place.
func stripGated(t *models.Tutorial) {
	t.VideoID = ""
	t.Code = ""
	t.Transcript = ""
	t.Notes = ""
}

// Tree returns every chapter with its tutorials, ordered by the explicit
// order fields. Gated fields are stripped unless the viewer has access, and
// the access verdict rides along so clients can render the lock state.
func (s *tutorialService) Tree(ctx context.Context, viewer Viewer) (*models.TutorialTree, error) {
	access, err := s.hasAccess(ctx, viewer)
	if err != nil {
		return nil, err
	}

	chapters, err := s.tutorialRepo.ListChapters(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list chapters: %w", err)
	}
	sort.SliceStable(chapters, func(i, j int) bool {
		return chapters[i].Order < chapters[j].Order
	})

	for _, chapter := range chapters {
		tutorials, err := s.tutorialRepo.ListTutorials(ctx, chapter.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list tutorials of chapter '%s': %w", chapter.ID, err)
		}
		sort.SliceStable(tutorials, func(i, j int) bool {
			return tutorials[i].Order < tutorials[j].Order
		})
		if !access {
			for _, tutorial := range tutorials {
				stripGated(tutorial)
			}
		}
		if tutorials == nil {
			tutorials = []*models.Tutorial{}
		}
		chapter.Tutorials = tutorials
	}

	return &models.TutorialTree{Chapters: chapters, HasAccess: access}, nil
}

// GetTutorial returns one tutorial with the gate applied.
func (s *tutorialService) GetTutorial(ctx context.Context, viewer Viewer, chapterID, tutorialID string) (*models.Tutorial, error) {
	tutorial, err := s.tutorialRepo.GetTutorial(ctx, chapterID, tutorialID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: '%s'", ErrTutorialNotFound, tutorialID)
		}
		return nil, fmt.Errorf("failed to get tutorial '%s': %w", tutorialID, err)
	}

	access, err := s.hasAccess(ctx, viewer)
	if err != nil {
		return nil, err
	}
	if !access {
		stripGated(tutorial)
	}
	return tutorial, nil
}

// CreateChapter adds a chapter to the content tree.
func (s *tutorialService) CreateChapter(ctx context.Context, req models.CreateChapterRequest) (*models.TutorialChapter, error) {
	chapter := &models.TutorialChapter{
		Title: req.Title,
		Order: req.Order,
	}
	id, err := s.tutorialRepo.CreateChapter(ctx, chapter)
	if err != nil {
		return nil, fmt.Errorf("failed to create chapter: %w", err)
	}
	chapter.ID = id
	return chapter, nil
}

// UpdateChapter applies the provided fields to a chapter.
func (s *tutorialService) UpdateChapter(ctx context.Context, chapterID string, req models.UpdateChapterRequest) (*models.TutorialChapter, error) {
	chapter, err := s.tutorialRepo.GetChapter(ctx, chapterID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: '%s'", ErrChapterNotFound, chapterID)
		}
		return nil, fmt.Errorf("failed to get chapter '%s': %w", chapterID, err)
	}

	if req.Title != nil {
		chapter.Title = *req.Title
	}
	if req.Order != nil {
		chapter.Order = *req.Order
	}

	if err := s.tutorialRepo.UpdateChapter(ctx, chapter); err != nil {
		return nil, fmt.Errorf("failed to update chapter '%s': %w", chapterID, err)
	}
	return chapter, nil
}

// DeleteChapter removes an empty chapter. A chapter that still contains
// tutorials is refused so content is never orphaned by accident; the
// tutorials must be deleted or moved first.
func (s *tutorialService) DeleteChapter(ctx context.Context, chapterID string) error {
	if _, err := s.tutorialRepo.GetChapter(ctx, chapterID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("%w: '%s'", ErrChapterNotFound, chapterID)
		}
		return fmt.Errorf("failed to get chapter '%s': %w", chapterID, err)
	}

	count, err := s.tutorialRepo.CountTutorials(ctx, chapterID)
	if err != nil {
		return fmt.Errorf("failed to count tutorials of chapter '%s': %w", chapterID, err)
	}
	if count > 0 {
		return fmt.Errorf("%w: '%s' has %d tutorial(s)", ErrChapterNotEmpty, chapterID, count)
	}

	if err := s.tutorialRepo.DeleteChapter(ctx, chapterID); err != nil {
		return fmt.Errorf("failed to delete chapter '%s': %w", chapterID, err)
	}
	return nil
}

// CreateTutorial adds a tutorial to a chapter.
func (s *tutorialService) CreateTutorial(ctx context.Context, chapterID string, req models.CreateTutorialRequest) (*models.Tutorial, error) {
	if !req.Level.Valid() {
		return nil, fmt.Errorf("%w: '%s'", ErrInvalidLevel, req.Level)
	}
	if _, err := s.tutorialRepo.GetChapter(ctx, chapterID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: '%s'", ErrChapterNotFound, chapterID)
		}
		return nil, fmt.Errorf("failed to get chapter '%s': %w", chapterID, err)
	}

	tutorial := &models.Tutorial{
		ChapterID:   chapterID,
		Title:       req.Title,
		Description: req.Description,
		Level:       req.Level,
		Duration:    req.Duration,
		ImageID:     req.ImageID,
		VideoID:     req.VideoID,
		Order:       req.Order,
		Code:        req.Code,
		Transcript:  req.Transcript,
		Notes:       req.Notes,
	}
	id, err := s.tutorialRepo.CreateTutorial(ctx, chapterID, tutorial)
	if err != nil {
		return nil, fmt.Errorf("failed to create tutorial in chapter '%s': %w", chapterID, err)
	}
	tutorial.ID = id
	return tutorial, nil
}

// UpdateTutorial applies the provided fields to a tutorial.
func (s *tutorialService) UpdateTutorial(ctx context.Context, chapterID, tutorialID string, req models.UpdateTutorialRequest) (*models.Tutorial, error) {
	tutorial, err := s.tutorialRepo.GetTutorial(ctx, chapterID, tutorialID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: '%s'", ErrTutorialNotFound, tutorialID)
		}
		return nil, fmt.Errorf("failed to get tutorial '%s': %w", tutorialID, err)
	}

	if req.Title != nil {
		tutorial.Title = *req.Title
	}
	if req.Description != nil {
		tutorial.Description = *req.Description
	}
	if req.Level != nil {
		if !req.Level.Valid() {
			return nil, fmt.Errorf("%w: '%s'", ErrInvalidLevel, *req.Level)
		}
		tutorial.Level = *req.Level
	}
	if req.Duration != nil {
		tutorial.Duration = *req.Duration
	}
	if req.ImageID != nil {
		tutorial.ImageID = *req.ImageID
	}
	if req.VideoID != nil {
		tutorial.VideoID = *req.VideoID
	}
	if req.Order != nil {
		tutorial.Order = *req.Order
	}
	if req.Code != nil {
		tutorial.Code = *req.Code
	}
	if req.Transcript != nil {
		tutorial.Transcript = *req.Transcript
	}
	if req.Notes != nil {
		tutorial.Notes = *req.Notes
	}

	if err := s.tutorialRepo.UpdateTutorial(ctx, chapterID, tutorial); err != nil {
		return nil, fmt.Errorf("failed to update tutorial '%s': %w", tutorialID, err)
	}
	return tutorial, nil
}

// DeleteTutorial removes a tutorial from a chapter.
func (s *tutorialService) DeleteTutorial(ctx context.Context, chapterID, tutorialID string) error {
	if _, err := s.tutorialRepo.GetTutorial(ctx, chapterID, tutorialID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("%w: '%s'", ErrTutorialNotFound, tutorialID)
		}
		return fmt.Errorf("failed to get tutorial '%s': %w", tutorialID, err)
	}
	if err := s.tutorialRepo.DeleteTutorial(ctx, chapterID, tutorialID); err != nil {
		return fmt.Errorf("failed to delete tutorial '%s': %w", tutorialID, err)
	}
	return nil
}
