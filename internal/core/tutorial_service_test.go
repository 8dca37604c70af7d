package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crabstertechnology/EZCirkit/internal/models"
)

func newTutorialFixture(t *testing.T) (TutorialService, *fakeTutorialRepo, *fakeOrderRepo) {
	t.Helper()
	tutorialRepo := newFakeTutorialRepo()
	orderRepo := newFakeOrderRepo(nil, nil)
	svc := NewTutorialService(tutorialRepo, orderRepo)

	ctx := context.Background()
	chapter, err := svc.CreateChapter(ctx, models.CreateChapterRequest{Title: "Basics", Order: 1})
	require.NoError(t, err)
	_, err = svc.CreateTutorial(ctx, chapter.ID, models.CreateTutorialRequest{
		Title:      "Blinking an LED",
		Level:      models.TutorialLevelBeginner,
		VideoID:    "vid-1",
		Code:       "void loop() {}",
		Transcript: "welcome",
		Notes:      "use a resistor",
		Order:      1,
	})
	require.NoError(t, err)
	return svc, tutorialRepo, orderRepo
}

func paidViewer(orderRepo *fakeOrderRepo, userID string) Viewer {
	orderRepo.orders[userID] = append(orderRepo.orders[userID], &models.Order{
		ID: "order-1", UserID: userID, Status: models.OrderStatusPaid, CreatedAt: time.Now(),
	})
	return Viewer{UserID: userID, Authenticated: true}
}

func TestTutorialService_AnonymousViewerGetsStrippedTree(t *testing.T) {
	svc, _, _ := newTutorialFixture(t)

	tree, err := svc.Tree(context.Background(), Viewer{})
	require.NoError(t, err)
	assert.False(t, tree.HasAccess)
	require.Len(t, tree.Chapters, 1)
	require.Len(t, tree.Chapters[0].Tutorials, 1)

	tut := tree.Chapters[0].Tutorials[0]
	assert.Equal(t, "Blinking an LED", tut.Title)
	assert.Empty(t, tut.VideoID)
	assert.Empty(t, tut.Code)
	assert.Empty(t, tut.Transcript)
	assert.Empty(t, tut.Notes)
}

func TestTutorialService_UnpaidUserGetsStrippedTree(t *testing.T) {
	svc, _, _ := newTutorialFixture(t)

	tree, err := svc.Tree(context.Background(), Viewer{UserID: "user-1", Authenticated: true})
	require.NoError(t, err)
	assert.False(t, tree.HasAccess)
	assert.Empty(t, tree.Chapters[0].Tutorials[0].VideoID)
}

func TestTutorialService_PaidUserGetsFullTree(t *testing.T) {
	svc, _, orderRepo := newTutorialFixture(t)
	viewer := paidViewer(orderRepo, "user-1")

	tree, err := svc.Tree(context.Background(), viewer)
	require.NoError(t, err)
	assert.True(t, tree.HasAccess)

	tut := tree.Chapters[0].Tutorials[0]
	assert.Equal(t, "vid-1", tut.VideoID)
	assert.Equal(t, "void loop() {}", tut.Code)
	assert.Equal(t, "welcome", tut.Transcript)
	assert.Equal(t, "use a resistor", tut.Notes)
}

func TestTutorialService_AdminBypassesPurchaseGate(t *testing.T) {
	svc, _, _ := newTutorialFixture(t)

	tree, err := svc.Tree(context.Background(), Viewer{UserID: "admin-1", Authenticated: true, IsAdmin: true})
	require.NoError(t, err)
	assert.True(t, tree.HasAccess)
	assert.Equal(t, "vid-1", tree.Chapters[0].Tutorials[0].VideoID)
}

func TestTutorialService_TreeOrdering(t *testing.T) {
	svc, _, orderRepo := newTutorialFixture(t)
	ctx := context.Background()

	early, err := svc.CreateChapter(ctx, models.CreateChapterRequest{Title: "Welcome", Order: 0})
	require.NoError(t, err)
	_, err = svc.CreateTutorial(ctx, early.ID, models.CreateTutorialRequest{Title: "Second", Level: models.TutorialLevelBeginner, Order: 2})
	require.NoError(t, err)
	_, err = svc.CreateTutorial(ctx, early.ID, models.CreateTutorialRequest{Title: "First", Level: models.TutorialLevelBeginner, Order: 1})
	require.NoError(t, err)

	tree, err := svc.Tree(ctx, paidViewer(orderRepo, "user-1"))
	require.NoError(t, err)
	require.Len(t, tree.Chapters, 2)
	assert.Equal(t, "Welcome", tree.Chapters[0].Title)
	assert.Equal(t, "Basics", tree.Chapters[1].Title)
	assert.Equal(t, "First", tree.Chapters[0].Tutorials[0].Title)
	assert.Equal(t, "Second", tree.Chapters[0].Tutorials[1].Title)
}

func TestTutorialService_GetTutorialStripsForUnpaid(t *testing.T) {
	svc, repo, orderRepo := newTutorialFixture(t)
	ctx := context.Background()

	var chapterID, tutorialID string
	for cid, tuts := range repo.tutorials {
		for tid := range tuts {
			chapterID, tutorialID = cid, tid
		}
	}

	tut, err := svc.GetTutorial(ctx, Viewer{}, chapterID, tutorialID)
	require.NoError(t, err)
	assert.Empty(t, tut.Code)

	tut, err = svc.GetTutorial(ctx, paidViewer(orderRepo, "user-2"), chapterID, tutorialID)
	require.NoError(t, err)
	assert.NotEmpty(t, tut.Code)

	_, err = svc.GetTutorial(ctx, Viewer{}, chapterID, "no-such-tutorial")
	assert.ErrorIs(t, err, ErrTutorialNotFound)
}

func TestTutorialService_DeleteChapterRefusesNonEmpty(t *testing.T) {
	svc, repo, _ := newTutorialFixture(t)
	ctx := context.Background()

	var chapterID string
	for id := range repo.chapters {
		chapterID = id
	}

	err := svc.DeleteChapter(ctx, chapterID)
	assert.ErrorIs(t, err, ErrChapterNotEmpty)

	// Delete the tutorial first, then the chapter goes.
	var tutorialID string
	for id := range repo.tutorials[chapterID] {
		tutorialID = id
	}
	require.NoError(t, svc.DeleteTutorial(ctx, chapterID, tutorialID))
	require.NoError(t, svc.DeleteChapter(ctx, chapterID))

	err = svc.DeleteChapter(ctx, chapterID)
	assert.ErrorIs(t, err, ErrChapterNotFound)
}

func TestTutorialService_CreateTutorialValidatesLevel(t *testing.T) {
	svc, repo, _ := newTutorialFixture(t)

	var chapterID string
	for id := range repo.chapters {
		chapterID = id
	}

	_, err := svc.CreateTutorial(context.Background(), chapterID, models.CreateTutorialRequest{
		Title: "Bad", Level: models.TutorialLevel("Expert"),
	})
	assert.ErrorIs(t, err, ErrInvalidLevel)
}
