package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"probability-quiz-service/internal/domain"
)

func TestCatalogRepositoryCaches(t *testing.T) {
	loader := &countingLoader{CatalogLoader: NewStaticCatalogLoader(BuiltinCatalogs())}
	repo := NewCatalogRepository(loader, time.Minute)

	c, err := repo.GetCatalog(context.Background(), "probability")
	if err != nil {
		t.Fatalf("get catalog: %v", err)
	}
	if c.Len() != 3 {
		t.Fatalf("expected 3 questions, got %d", c.Len())
	}
	if loader.count() != 1 {
		t.Fatalf("expected loader once, got %d", loader.count())
	}

	if _, err := repo.GetCatalog(context.Background(), "probability"); err != nil {
		t.Fatalf("get catalog 2: %v", err)
	}
	if loader.count() != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.count())
	}
}

func TestCatalogRepositoryExpires(t *testing.T) {
	loader := &countingLoader{CatalogLoader: NewStaticCatalogLoader(BuiltinCatalogs())}
	repo := NewCatalogRepository(loader, time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	repo.clock = func() time.Time { return now }

	if _, err := repo.GetCatalog(context.Background(), "probability"); err != nil {
		t.Fatalf("get catalog: %v", err)
	}
	now = now.Add(2 * time.Minute)
	if _, err := repo.GetCatalog(context.Background(), "probability"); err != nil {
		t.Fatalf("get catalog after expiry: %v", err)
	}
	if loader.count() != 2 {
		t.Fatalf("expected reload after ttl, loader calls %d", loader.count())
	}
}

func TestCatalogRepositoryUnknown(t *testing.T) {
	repo := NewCatalogRepository(NewStaticCatalogLoader(BuiltinCatalogs()), time.Minute)
	if _, err := repo.GetCatalog(context.Background(), "nope"); err != domain.ErrCatalogNotFound {
		t.Fatalf("expected catalog not found, got %v", err)
	}
}

func TestBuiltinCatalogIsValid(t *testing.T) {
	c := ProbabilityCatalog()
	if err := c.Validate(); err != nil {
		t.Fatalf("builtin catalog invalid: %v", err)
	}
	want := []int{1, 2, 1}
	for i, q := range c.Questions {
		if q.CorrectAnswer != want[i] {
			t.Fatalf("question %d: expected correct %d, got %d", q.ID, want[i], q.CorrectAnswer)
		}
	}
}

type countingLoader struct {
	CatalogLoader
	mu    sync.Mutex
	calls int
}

func (l *countingLoader) LoadCatalog(ctx context.Context, catalogID string) (domain.Catalog, error) {
	l.mu.Lock()
	l.calls++
	l.mu.Unlock()
	return l.CatalogLoader.LoadCatalog(ctx, catalogID)
}

func (l *countingLoader) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}
