package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/BradenHooton/ideabox/internal/models"
)

// CategoryStore is the in-memory category registry. It shares the idea store
// so renames and deletes can see which ideas reference a name.
type CategoryStore struct {
	mu         sync.Mutex
	ideas      *IdeaStore
	categories []models.Category
	position   int
}

// NewCategoryStore attaches a registry to ideas. From then on ideas only
// accepts registered categories.
func NewCategoryStore(ideas *IdeaStore) *CategoryStore {
	s := &CategoryStore{ideas: ideas}
	ideas.categories = s
	return s
}

func (s *CategoryStore) indexOf(name string) int {
	for i, c := range s.categories {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// taken reports whether another category already uses name, ignoring case.
func (s *CategoryStore) taken(name string, except int) bool {
	for i, c := range s.categories {
		if i != except && strings.EqualFold(c.Name, name) {
			return true
		}
	}
	return false
}

func (s *CategoryStore) List(_ context.Context) ([]models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Category, len(s.categories))
	copy(out, s.categories)
	return out, nil
}

func (s *CategoryStore) Exists(_ context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOf(name) >= 0, nil
}

func (s *CategoryStore) Create(_ context.Context, name string) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.taken(name, -1) {
		return nil, fmt.Errorf("%w: category %q already exists", models.ErrConflict, name)
	}

	s.position++
	c := models.Category{Name: name, Position: s.position, CreatedAt: time.Now().UTC()}
	s.categories = append(s.categories, c)
	return &c, nil
}

func (s *CategoryStore) Rename(_ context.Context, oldName, newName string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(oldName)
	if i < 0 {
		return 0, models.ErrNotFound
	}
	if s.taken(newName, i) {
		return 0, fmt.Errorf("%w: category %q already exists", models.ErrConflict, newName)
	}

	s.categories[i].Name = newName
	return s.ideas.renameCategory(oldName, newName), nil
}

func (s *CategoryStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(name)
	if i < 0 {
		return models.ErrNotFound
	}
	if s.ideas.usesCategory(name) {
		return fmt.Errorf("%w: category %q is still used by ideas", models.ErrConflict, name)
	}

	s.categories = append(s.categories[:i], s.categories[i+1:]...)
	return nil
}
