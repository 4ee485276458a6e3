package domain

import (
	"fmt"
	"time"
)

// Question is a single multiple-choice item. Options are position-significant.
type Question struct {
	ID            int      `json:"id" yaml:"id"`
	Category      string   `json:"category" yaml:"category"`
	Prompt        string   `json:"question" yaml:"question"`
	Options       []string `json:"options" yaml:"options"`
	CorrectAnswer int      `json:"correctAnswer" yaml:"correctAnswer"`
	Explanation   string   `json:"explanation" yaml:"explanation"`
}

// Catalog is the ordered, read-only list of questions for a quiz.
type Catalog struct {
	ID        string     `json:"id" yaml:"id"`
	Title     string     `json:"title" yaml:"title"`
	Questions []Question `json:"questions" yaml:"questions"`
}

// Len returns the number of questions.
func (c Catalog) Len() int {
	return len(c.Questions)
}

// Validate checks every question has options, a correct answer inside them and a unique ID.
func (c Catalog) Validate() error {
	seen := make(map[int]struct{}, len(c.Questions))
	for i, q := range c.Questions {
		if _, dup := seen[q.ID]; dup {
			return fmt.Errorf("%w: duplicate question id %d", ErrInvalidCatalog, q.ID)
		}
		seen[q.ID] = struct{}{}
		if len(q.Options) == 0 {
			return fmt.Errorf("%w: question %d (position %d) has no options", ErrInvalidCatalog, q.ID, i)
		}
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			return fmt.Errorf("%w: question %d correct answer %d not in [0,%d)", ErrInvalidCatalog, q.ID, q.CorrectAnswer, len(q.Options))
		}
	}
	return nil
}

// AnswerResult is the transient outcome of a recorded answer.
type AnswerResult struct {
	QuestionID  int    `json:"questionId"`
	Option      int    `json:"option"`
	Correct     bool   `json:"correct"`
	Explanation string `json:"explanation"`
}

// QuestionView is what the presentation layer renders for the current question.
// CorrectAnswer is only set once the question has been answered.
type QuestionView struct {
	ID            int      `json:"id"`
	Category      string   `json:"category"`
	Prompt        string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer *int     `json:"correctAnswer,omitempty"`
	Explanation   string   `json:"explanation,omitempty"`
}

// SessionView is a read-only snapshot of a session.
type SessionView struct {
	SessionID       string        `json:"sessionId"`
	CatalogID       string        `json:"catalogId"`
	Title           string        `json:"title"`
	Question        *QuestionView `json:"question,omitempty"`
	QuestionNumber  int           `json:"questionNumber"`
	TotalQuestions  int           `json:"totalQuestions"`
	SelectedAnswer  *int          `json:"selectedAnswer"`
	Answered        bool          `json:"answered"`
	IsLast          bool          `json:"isLast"`
	Score           int           `json:"score"`
	ProgressPercent int           `json:"progressPercent"`
	Finished        bool          `json:"finished"`
	FinalPercent    int           `json:"finalPercent"`
	ShareQR         string        `json:"shareQr,omitempty"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}
