package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"probability-quiz-service/internal/domain"
)

func threeQuestions() domain.Catalog {
	return domain.Catalog{
		ID:    "probability",
		Title: "test",
		Questions: []domain.Question{
			{ID: 1, Options: []string{"0.15", "0.25", "0.30", "0.40"}, CorrectAnswer: 1, Explanation: "5/20"},
			{ID: 2, Options: []string{"0.4", "0.5", "0.6", "0.7"}, CorrectAnswer: 2, Explanation: "6/10"},
			{ID: 3, Options: []string{"0.17", "0.23", "0.30", "0.35"}, CorrectAnswer: 1, Explanation: "21/90"},
		},
	}
}

func submit(t *testing.T, s domain.State, c domain.Catalog, option int) (domain.State, *domain.AnswerResult) {
	t.Helper()
	next, res, err := s.Submit(c, option)
	require.NoError(t, err)
	return next, res
}

func TestScenarioThreeQuestions(t *testing.T) {
	c := threeQuestions()
	s := domain.NewState(c.Len())

	s, res := submit(t, s, c, 1)
	require.NotNil(t, res)
	assert.True(t, res.Correct)
	assert.Equal(t, "5/20", res.Explanation)
	assert.Equal(t, 1, s.Score)
	assert.Equal(t, []int{0}, s.Answered)

	s = s.Advance(c)
	assert.Equal(t, 1, s.CurrentIndex)
	assert.Nil(t, s.SelectedAnswer)

	s, res = submit(t, s, c, 0)
	require.NotNil(t, res)
	assert.False(t, res.Correct)
	assert.Equal(t, 1, s.Score)
	assert.Equal(t, []int{0, 1}, s.Answered)

	s = s.Advance(c)
	assert.Equal(t, 2, s.CurrentIndex)

	s, _ = submit(t, s, c, 1)
	assert.Equal(t, 2, s.Score)

	s = s.Advance(c)
	assert.True(t, s.Finished)
	assert.Equal(t, 2, s.CurrentIndex)
	assert.Equal(t, 67, s.FinalPercent(c))
}

func TestSubmitIsIdempotentPerQuestion(t *testing.T) {
	c := threeQuestions()
	for qi := range c.Questions {
		for first := 0; first < 4; first++ {
			for second := 0; second < 4; second++ {
				s := domain.NewState(c.Len())
				for i := 0; i < qi; i++ {
					s = s.Advance(c)
				}
				once, _ := submit(t, s, c, first)
				twice, res := submit(t, once, c, second)
				assert.Nil(t, res, "second submit must not produce a result")
				assert.Equal(t, once, twice)
				require.NotNil(t, twice.SelectedAnswer)
				assert.Equal(t, first, *twice.SelectedAnswer)
			}
		}
	}
}

func TestSubmitDoesNotMutateReceiver(t *testing.T) {
	c := threeQuestions()
	s := domain.NewState(c.Len())
	s, _ = submit(t, s, c, 1)
	s = s.Advance(c)
	before := s.Answered

	_, _ = submit(t, s, c, 2)
	assert.Equal(t, []int{0}, before)
	assert.Equal(t, []int{0}, s.Answered)
}

func TestSubmitRejectsOutOfRange(t *testing.T) {
	c := threeQuestions()
	s := domain.NewState(c.Len())

	for _, option := range []int{-1, 4, 100} {
		next, res, err := s.Submit(c, option)
		assert.ErrorIs(t, err, domain.ErrOptionOutOfRange)
		assert.Nil(t, res)
		assert.Equal(t, s, next)
	}
}

func TestSubmitRejectsFinishedSession(t *testing.T) {
	c := threeQuestions()
	s := domain.NewState(c.Len())
	for i := 0; i < c.Len(); i++ {
		s = s.Advance(c)
	}
	require.True(t, s.Finished)

	next, res, err := s.Submit(c, 1)
	assert.True(t, errors.Is(err, domain.ErrSessionFinished))
	assert.Nil(t, res)
	assert.Equal(t, s, next)
}

func TestAdvanceTransitions(t *testing.T) {
	c := threeQuestions()
	s := domain.NewState(c.Len())
	s, _ = submit(t, s, c, 3)

	next := s.Advance(c)
	assert.Equal(t, s.CurrentIndex+1, next.CurrentIndex)
	assert.Nil(t, next.SelectedAnswer)
	assert.False(t, next.Finished)

	last := next.Advance(c)
	require.Equal(t, c.Len()-1, last.CurrentIndex)
	selected := 2
	last.SelectedAnswer = &selected

	done := last.Advance(c)
	assert.True(t, done.Finished)
	assert.Equal(t, last.CurrentIndex, done.CurrentIndex)
	assert.Equal(t, &selected, done.SelectedAnswer)

	assert.Equal(t, done, done.Advance(c), "advance on a finished session is a no-op")
}

func TestScoreAndProgressInvariants(t *testing.T) {
	c := threeQuestions()
	s := domain.NewState(c.Len())
	ops := []func(domain.State) domain.State{
		func(s domain.State) domain.State { n, _, _ := s.Submit(c, 1); return n },
		func(s domain.State) domain.State { n, _, _ := s.Submit(c, 2); return n },
		func(s domain.State) domain.State { return s.Advance(c) },
		func(s domain.State) domain.State { n, _, _ := s.Submit(c, 0); return n },
		func(s domain.State) domain.State { return s.Advance(c) },
		func(s domain.State) domain.State { n, _, _ := s.Submit(c, 1); return n },
		func(s domain.State) domain.State { n, _, _ := s.Submit(c, 1); return n },
		func(s domain.State) domain.State { return s.Advance(c) },
		func(s domain.State) domain.State { return s.Advance(c) },
	}
	for i, op := range ops {
		next := op(s)
		assert.GreaterOrEqual(t, next.Score, s.Score, "step %d", i)
		assert.LessOrEqual(t, next.Score, c.Len(), "step %d", i)
		assert.GreaterOrEqual(t, next.CurrentIndex, s.CurrentIndex, "step %d", i)
		s = next
	}
	assert.True(t, s.Finished)
	assert.Equal(t, 2, s.Score)
}

func TestResetRestoresFreshState(t *testing.T) {
	c := threeQuestions()
	fresh := domain.NewState(c.Len())

	s := fresh
	assert.Equal(t, fresh, s.Reset(c))

	s, _ = submit(t, s, c, 1)
	assert.Equal(t, fresh, s.Reset(c))

	s = s.Advance(c)
	s, _ = submit(t, s, c, 0)
	assert.Equal(t, fresh, s.Reset(c))

	s = s.Advance(c).Advance(c)
	assert.True(t, s.Finished)
	reset := s.Reset(c)
	assert.Equal(t, fresh, reset)
	assert.Equal(t, 0, reset.CurrentIndex)
	assert.Equal(t, 0, reset.Score)
	assert.Empty(t, reset.Answered)
	assert.False(t, reset.Finished)
}

func TestPercentages(t *testing.T) {
	c := threeQuestions()
	s := domain.NewState(c.Len())
	assert.Equal(t, 33, s.ProgressPercent(c))
	assert.Equal(t, 0, s.FinalPercent(c))

	s = s.Advance(c)
	assert.Equal(t, 67, s.ProgressPercent(c))
	s = s.Advance(c)
	assert.Equal(t, 100, s.ProgressPercent(c))

	s.Score = 1
	assert.Equal(t, 33, s.FinalPercent(c))
	s.Score = 3
	assert.Equal(t, 100, s.FinalPercent(c))

	two := domain.Catalog{Questions: c.Questions[:2]}
	half := domain.State{Score: 1}
	assert.Equal(t, 50, half.FinalPercent(two))
}

func TestEmptyCatalogStartsFinished(t *testing.T) {
	var c domain.Catalog
	s := domain.NewState(c.Len())

	assert.True(t, s.Finished)
	assert.Equal(t, 0, s.FinalPercent(c))
	assert.Equal(t, 0, s.ProgressPercent(c))

	_, _, err := s.Submit(c, 0)
	assert.ErrorIs(t, err, domain.ErrSessionFinished)
	assert.Equal(t, s, s.Advance(c))
	assert.Equal(t, s, s.Reset(c))
}

func TestCatalogValidate(t *testing.T) {
	require.NoError(t, threeQuestions().Validate())

	bad := threeQuestions()
	bad.Questions[1].CorrectAnswer = 4
	assert.ErrorIs(t, bad.Validate(), domain.ErrInvalidCatalog)

	dup := threeQuestions()
	dup.Questions[2].ID = 1
	assert.ErrorIs(t, dup.Validate(), domain.ErrInvalidCatalog)

	empty := domain.Catalog{Questions: []domain.Question{{ID: 9}}}
	assert.ErrorIs(t, empty.Validate(), domain.ErrInvalidCatalog)
}
