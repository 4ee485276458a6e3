package domain

import (
	"math"
	"slices"
)

// State is the progress of one quiz attempt. Values are treated as immutable:
// transitions return a new State and never touch the receiver's slices.
type State struct {
	CurrentIndex   int   `json:"currentIndex"`
	SelectedAnswer *int  `json:"selectedAnswer"`
	Score          int   `json:"score"`
	Answered       []int `json:"answered"` // sorted ascending
	Finished       bool  `json:"finished"`
}

// NewState returns the initial state for a catalog of n questions.
// An empty catalog has nothing to ask, so it starts finished with a 0/0 score.
func NewState(n int) State {
	return State{Finished: n <= 0}
}

// IsAnswered reports whether the question at index has already been answered.
func (s State) IsAnswered(index int) bool {
	_, found := slices.BinarySearch(s.Answered, index)
	return found
}

// IsCurrentAnswered reports whether the current question has been answered.
func (s State) IsCurrentAnswered() bool {
	return s.IsAnswered(s.CurrentIndex)
}

// Submit records option as the answer to the current question.
//
// A question that was already answered is left alone: the returned result is nil
// and so is the error. Answers to a finished session or outside the option range
// are rejected with an error and the state is returned unchanged.
func (s State) Submit(c Catalog, option int) (State, *AnswerResult, error) {
	if s.Finished || s.CurrentIndex < 0 || s.CurrentIndex >= c.Len() {
		return s, nil, ErrSessionFinished
	}
	if s.IsCurrentAnswered() {
		return s, nil, nil
	}
	q := c.Questions[s.CurrentIndex]
	if option < 0 || option >= len(q.Options) {
		return s, nil, ErrOptionOutOfRange
	}

	next := s.Clone()
	selected := option
	next.SelectedAnswer = &selected
	correct := option == q.CorrectAnswer
	if correct {
		next.Score++
	}
	pos, _ := slices.BinarySearch(next.Answered, s.CurrentIndex)
	next.Answered = slices.Insert(next.Answered, pos, s.CurrentIndex)

	return next, &AnswerResult{
		QuestionID:  q.ID,
		Option:      option,
		Correct:     correct,
		Explanation: q.Explanation,
	}, nil
}

// Advance moves to the next question, or finishes the quiz when called on the last one.
// The current index is left unchanged by the finishing transition.
func (s State) Advance(c Catalog) State {
	if s.Finished {
		return s
	}
	next := s.Clone()
	if s.CurrentIndex < c.Len()-1 {
		next.CurrentIndex++
		next.SelectedAnswer = nil
		return next
	}
	next.Finished = true
	return next
}

// Reset discards all progress.
func (s State) Reset(c Catalog) State {
	return NewState(c.Len())
}

// ProgressPercent is the position of the current question as a rounded percentage.
func (s State) ProgressPercent(c Catalog) int {
	return percent(s.CurrentIndex+1, c.Len())
}

// FinalPercent is the share of correctly answered questions as a rounded percentage.
func (s State) FinalPercent(c Catalog) int {
	return percent(s.Score, c.Len())
}

// Clone returns a copy that shares no memory with s.
func (s State) Clone() State {
	out := s
	out.Answered = slices.Clone(s.Answered)
	if s.SelectedAnswer != nil {
		selected := *s.SelectedAnswer
		out.SelectedAnswer = &selected
	}
	return out
}

// percent rounds half up; 0 of 0 is 0.
func percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Floor(float64(part)*100/float64(whole) + 0.5))
}
