package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/hankjoberg-netizen/voltstore/internal/domain"
)

var (
	// ErrCatalogLoad wraps start-up load failures. Callers log it and keep
	// serving with an empty catalog.
	ErrCatalogLoad = errors.New("catalog load failed")

	ErrProductNotFound = errors.New("product not found")
)

// Store holds the product catalog. Products are loaded once and never
// mutated, so the store is safe for concurrent reads without locking.
type Store struct {
	products []domain.Product
	byID     map[string]*domain.Product
}

func New(products []domain.Product) *Store {
	s := &Store{
		products: products,
		byID:     make(map[string]*domain.Product, len(products)),
	}
	for i := range s.products {
		s.byID[s.products[i].ID] = &s.products[i]
	}
	return s
}

// Load reads a JSON array of products from path. A missing, empty or
// malformed file yields a usable empty store together with an error wrapping
// ErrCatalogLoad; an empty catalog is a normal serving state, not a fatal one.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return New(nil), fmt.Errorf("%w: read %s: %w", ErrCatalogLoad, path, err)
	}

	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return New(nil), fmt.Errorf("%w: parse %s: %w", ErrCatalogLoad, path, err)
	}

	return New(products), nil
}

func (s *Store) FindByID(id string) (*domain.Product, error) {
	p, ok := s.byID[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return p, nil
}

// Search does a case-insensitive substring match over name and description.
// An empty query returns the full catalog in load order.
func (s *Store) Search(query string) []domain.Product {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return s.products
	}

	var matched []domain.Product
	for _, p := range s.products {
		haystack := strings.ToLower(p.Name + " " + p.Description)
		if strings.Contains(haystack, q) {
			matched = append(matched, p)
		}
	}
	return matched
}

func (s *Store) Len() int {
	return len(s.products)
}
