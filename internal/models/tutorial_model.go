package models

// TutorialLevel is the difficulty badge shown per tutorial.
type TutorialLevel string

const (
	TutorialLevelBeginner     TutorialLevel = "Beginner"
	TutorialLevelIntermediate TutorialLevel = "Intermediate"
	TutorialLevelAdvanced     TutorialLevel = "Advanced"
)

// Valid reports whether l is a known difficulty level.
func (l TutorialLevel) Valid() bool {
	switch l {
	case TutorialLevelBeginner, TutorialLevelIntermediate, TutorialLevelAdvanced:
		return true
	}
	return false
}

// TutorialChapter is a node of the tutorial content tree. Tutorials is filled
// by the fan-out read, not stored on the chapter document.
type TutorialChapter struct {
	ID        string      `json:"id" firestore:"-"`
	Title     string      `json:"title" firestore:"title"`
	Order     int64       `json:"order" firestore:"order"`
	Tutorials []*Tutorial `json:"tutorials" firestore:"-"`
}

// Tutorial lives in tutorialChapters/{id}/tutorials. VideoID, Code,
// Transcript and Notes are the gated content: they are stripped from
// responses when the viewer has not purchased.
type Tutorial struct {
	ID          string        `json:"id" firestore:"-"`
	ChapterID   string        `json:"chapterId" firestore:"chapterId"`
	Title       string        `json:"title" firestore:"title"`
	Description string        `json:"description" firestore:"description"`
	Level       TutorialLevel `json:"level" firestore:"level"`
	Duration    string        `json:"duration" firestore:"duration"`
	ImageID     string        `json:"imageId" firestore:"imageId"`
	VideoID     string        `json:"videoId,omitempty" firestore:"videoId,omitempty"`
	Order       int64         `json:"order" firestore:"order"`
	Code        string        `json:"code,omitempty" firestore:"code,omitempty"`
	Transcript  string        `json:"transcript,omitempty" firestore:"transcript,omitempty"`
	Notes       string        `json:"notes,omitempty" firestore:"notes,omitempty"`
}

// TutorialTree is the full customer-facing tutorials payload.
type TutorialTree struct {
	Chapters  []*TutorialChapter `json:"chapters"`
	HasAccess bool               `json:"hasAccess"`
}
