package file

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"probability-quiz-service/internal/domain"
)

// CatalogLoader reads catalogs from a YAML (or JSON) document on disk.
//
// The document is either a single catalog or a {catalogs: [...]} list. A single
// catalog without an id answers to whatever ID is requested.
type CatalogLoader struct {
	path string
}

func NewCatalogLoader(path string) *CatalogLoader {
	return &CatalogLoader{path: path}
}

type document struct {
	domain.Catalog `yaml:",inline"`
	Catalogs       []domain.Catalog `yaml:"catalogs"`
}

func (l *CatalogLoader) LoadCatalog(_ context.Context, catalogID string) (domain.Catalog, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("read catalog file: %w", err)
	}
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return domain.Catalog{}, fmt.Errorf("parse catalog file %s: %w", l.path, err)
	}

	candidates := doc.Catalogs
	if len(candidates) == 0 && len(doc.Questions) > 0 {
		single := doc.Catalog
		if single.ID == "" {
			single.ID = catalogID
		}
		candidates = []domain.Catalog{single}
	}

	for _, c := range candidates {
		if c.ID != catalogID {
			continue
		}
		if err := c.Validate(); err != nil {
			return domain.Catalog{}, fmt.Errorf("catalog %s in %s: %w", catalogID, l.path, err)
		}
		return c, nil
	}
	return domain.Catalog{}, domain.ErrCatalogNotFound
}
