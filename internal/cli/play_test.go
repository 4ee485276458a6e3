package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"probability-quiz-service/internal/app"
	"probability-quiz-service/internal/infra/memory"
)

func newPlayService(store *memory.SessionStore) *app.QuizService {
	catalogs := memory.NewCatalogRepository(memory.NewStaticCatalogLoader(memory.BuiltinCatalogs()), time.Minute)
	return app.NewQuizService(store, catalogs, app.WithShareQRURL("https://qr.test/img"))
}

func TestPlayFullRun(t *testing.T) {
	store := memory.NewSessionStore()
	var out bytes.Buffer
	// Q1 correct, Q2 wrong, Q3 correct, then quit on the result screen.
	in := strings.NewReader("2\n\n1\n\n2\n\nq\n")

	require.NoError(t, runPlay(context.Background(), newPlayService(store), in, &out))

	got := out.String()
	assert.Equal(t, 2, strings.Count(got, "Правильно!"))
	assert.Equal(t, 1, strings.Count(got, "Неверно."))
	assert.Contains(t, got, "5/20 = 0.25")
	assert.Contains(t, got, "Вопрос 3 из 3  100%")
	assert.Contains(t, got, "завершить тест")
	assert.Contains(t, got, "Тест завершён!")
	assert.Contains(t, got, "2/3")
	assert.Contains(t, got, "Правильных ответов: 67%")
	assert.Contains(t, got, "Поделиться тестом: https://qr.test/img")
	assert.Equal(t, 0, store.Len(), "session is ended when play returns")
}

func TestPlayRejectsBadInputAndRestarts(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("abc\n9\n2\n\n1\n\n1\n\nr\n")

	require.NoError(t, runPlay(context.Background(), newPlayService(memory.NewSessionStore()), in, &out))

	got := out.String()
	assert.Contains(t, got, "Введите номер варианта.")
	assert.Contains(t, got, "Нет такого варианта: 9")
	assert.Contains(t, got, "Правильных ответов: 33%")
	// Question 1 is redrawn after each bad input and after answering, then once more after restart.
	assert.Equal(t, 5, strings.Count(got, "Вопрос 1 из 3"))
}

func TestPlayMarksAnswers(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("1\nq\n")

	require.NoError(t, runPlay(context.Background(), newPlayService(memory.NewSessionStore()), in, &out))

	got := out.String()
	assert.Contains(t, got, "✗ 1) 0.15")
	assert.Contains(t, got, "✓ 2) 0.25")
}
