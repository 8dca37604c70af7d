package db

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/crabstertechnology/EZCirkit/internal/models"
)

const (
	tutorialChaptersCollection = "tutorialChapters"
	tutorialsSubcollection     = "tutorials"
)

// firestoreTutorialRepository implements TutorialRepository on the
// tutorialChapters collection and its tutorials subcollections.
type firestoreTutorialRepository struct {
	client *firestore.Client
}

// NewFirestoreTutorialRepository creates a new instance of firestoreTutorialRepository.
func NewFirestoreTutorialRepository(client *firestore.Client) TutorialRepository {
	return &firestoreTutorialRepository{client: client}
}

func (r *firestoreTutorialRepository) tutorialsRef(chapterID string) *firestore.CollectionRef {
	return r.client.Collection(tutorialChaptersCollection).Doc(chapterID).Collection(tutorialsSubcollection)
}

func (r *firestoreTutorialRepository) ListChapters(ctx context.Context) ([]*models.TutorialChapter, error) {
	iter := r.client.Collection(tutorialChaptersCollection).OrderBy("order", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var chapters []*models.TutorialChapter
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate tutorial chapters: %w", err)
		}
		var chapter models.TutorialChapter
		if err := doc.DataTo(&chapter); err != nil {
			return nil, fmt.Errorf("failed to decode chapter (ID: %s): %w", doc.Ref.ID, err)
		}
		chapter.ID = doc.Ref.ID
		chapters = append(chapters, &chapter)
	}
	return chapters, nil
}

func (r *firestoreTutorialRepository) GetChapter(ctx context.Context, chapterID string) (*models.TutorialChapter, error) {
	if chapterID == "" {
		return nil, errors.New("chapterID cannot be empty")
	}
	docSnap, err := r.client.Collection(tutorialChaptersCollection).Doc(chapterID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("chapter '%s': %w", chapterID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get chapter '%s': %w", chapterID, err)
	}
	var chapter models.TutorialChapter
	if err := docSnap.DataTo(&chapter); err != nil {
		return nil, fmt.Errorf("failed to decode chapter '%s': %w", chapterID, err)
	}
	chapter.ID = docSnap.Ref.ID
	return &chapter, nil
}

func (r *firestoreTutorialRepository) CreateChapter(ctx context.Context, chapter *models.TutorialChapter) (string, error) {
	docRef := r.client.Collection(tutorialChaptersCollection).NewDoc()
	chapter.ID = docRef.ID
	if _, err := docRef.Create(ctx, chapter); err != nil {
		return "", fmt.Errorf("failed to create chapter: %w", err)
	}
	return docRef.ID, nil
}

func (r *firestoreTutorialRepository) UpdateChapter(ctx context.Context, chapter *models.TutorialChapter) error {
	if chapter.ID == "" {
		return errors.New("chapter ID cannot be empty for Update operation")
	}
	_, err := r.client.Collection(tutorialChaptersCollection).Doc(chapter.ID).Set(ctx, chapter, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to update chapter '%s': %w", chapter.ID, err)
	}
	return nil
}

// DeleteChapter removes the chapter document only. Callers must ensure the
// tutorials subcollection is empty first; Firestore does not cascade deletes.
func (r *firestoreTutorialRepository) DeleteChapter(ctx context.Context, chapterID string) error {
	if chapterID == "" {
		return errors.New("chapterID cannot be empty")
	}
	_, err := r.client.Collection(tutorialChaptersCollection).Doc(chapterID).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete chapter '%s': %w", chapterID, err)
	}
	return nil
}

func (r *firestoreTutorialRepository) CountTutorials(ctx context.Context, chapterID string) (int, error) {
	if chapterID == "" {
		return 0, errors.New("chapterID cannot be empty")
	}
	iter := r.tutorialsRef(chapterID).Documents(ctx)
	defer iter.Stop()

	count := 0
	for {
		_, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("failed to count tutorials in chapter '%s': %w", chapterID, err)
		}
		count++
	}
	return count, nil
}

func (r *firestoreTutorialRepository) ListTutorials(ctx context.Context, chapterID string) ([]*models.Tutorial, error) {
	if chapterID == "" {
		return nil, errors.New("chapterID cannot be empty")
	}
	iter := r.tutorialsRef(chapterID).OrderBy("order", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var tutorials []*models.Tutorial
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate tutorials in chapter '%s': %w", chapterID, err)
		}
		var tutorial models.Tutorial
		if err := doc.DataTo(&tutorial); err != nil {
			return nil, fmt.Errorf("failed to decode tutorial (ID: %s): %w", doc.Ref.ID, err)
		}
		tutorial.ID = doc.Ref.ID
		tutorials = append(tutorials, &tutorial)
	}
	return tutorials, nil
}

func (r *firestoreTutorialRepository) GetTutorial(ctx context.Context, chapterID, tutorialID string) (*models.Tutorial, error) {
	if chapterID == "" || tutorialID == "" {
		return nil, errors.New("chapterID and tutorialID cannot be empty")
	}
	docSnap, err := r.tutorialsRef(chapterID).Doc(tutorialID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("tutorial '%s': %w", tutorialID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get tutorial '%s': %w", tutorialID, err)
	}
	var tutorial models.Tutorial
	if err := docSnap.DataTo(&tutorial); err != nil {
		return nil, fmt.Errorf("failed to decode tutorial '%s': %w", tutorialID, err)
	}
	tutorial.ID = docSnap.Ref.ID
	return &tutorial, nil
}

func (r *firestoreTutorialRepository) CreateTutorial(ctx context.Context, chapterID string, tutorial *models.Tutorial) (string, error) {
	if chapterID == "" {
		return "", errors.New("chapterID cannot be empty")
	}
	docRef := r.tutorialsRef(chapterID).NewDoc()
	tutorial.ID = docRef.ID
	tutorial.ChapterID = chapterID
	if _, err := docRef.Create(ctx, tutorial); err != nil {
		return "", fmt.Errorf("failed to create tutorial in chapter '%s': %w", chapterID, err)
	}
	return docRef.ID, nil
}

func (r *firestoreTutorialRepository) UpdateTutorial(ctx context.Context, chapterID string, tutorial *models.Tutorial) error {
	if chapterID == "" || tutorial.ID == "" {
		return errors.New("chapterID and tutorial ID cannot be empty for Update operation")
	}
	_, err := r.tutorialsRef(chapterID).Doc(tutorial.ID).Set(ctx, tutorial, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to update tutorial '%s': %w", tutorial.ID, err)
	}
	return nil
}

func (r *firestoreTutorialRepository) DeleteTutorial(ctx context.Context, chapterID, tutorialID string) error {
	if chapterID == "" || tutorialID == "" {
		return errors.New("chapterID and tutorialID cannot be empty")
	}
	_, err := r.tutorialsRef(chapterID).Doc(tutorialID).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete tutorial '%s': %w", tutorialID, err)
	}
	return nil
}
