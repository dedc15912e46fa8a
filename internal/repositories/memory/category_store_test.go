package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/BradenHooton/ideabox/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStores(t *testing.T, names ...string) (*IdeaStore, *CategoryStore) {
	t.Helper()
	ideas := NewIdeaStore()
	categories := NewCategoryStore(ideas)
	for _, name := range names {
		_, err := categories.Create(context.Background(), name)
		require.NoError(t, err)
	}
	return ideas, categories
}

func TestCategoryStore_List_KeepsRegistryOrder(t *testing.T) {
	_, categories := newStores(t, "IT", "Paperwork", "HR")

	list, err := categories.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "IT", list[0].Name)
	assert.Equal(t, "Paperwork", list[1].Name)
	assert.Equal(t, "HR", list[2].Name)
}

func TestCategoryStore_Create_Duplicate(t *testing.T) {
	_, categories := newStores(t, "IT")

	_, err := categories.Create(context.Background(), "IT")
	assert.ErrorIs(t, err, models.ErrConflict)

	_, err = categories.Create(context.Background(), "it")
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestCategoryStore_Rename_RewritesIdeas(t *testing.T) {
	ideas, categories := newStores(t, "IT", "HR")
	seedIdea(t, ideas, "IT")
	seedIdea(t, ideas, "HR")
	seedIdea(t, ideas, "IT")

	n, err := categories.Rename(context.Background(), "IT", "Technology")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	all, _ := ideas.List(context.Background())
	assert.Equal(t, "Technology", all[0].Category)
	assert.Equal(t, "HR", all[1].Category)
	assert.Equal(t, "Technology", all[2].Category)

	exists, _ := categories.Exists(context.Background(), "IT")
	assert.False(t, exists)
	list, _ := categories.List(context.Background())
	assert.Equal(t, "Technology", list[0].Name)
}

func TestCategoryStore_Rename_Errors(t *testing.T) {
	_, categories := newStores(t, "IT", "HR")

	_, err := categories.Rename(context.Background(), "Missing", "X")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = categories.Rename(context.Background(), "IT", "HR")
	assert.ErrorIs(t, err, models.ErrConflict)

	_, err = categories.Rename(context.Background(), "IT", "hr")
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestCategoryStore_Rename_ChangesCase(t *testing.T) {
	ideas, categories := newStores(t, "It")
	seedIdea(t, ideas, "It")

	n, err := categories.Rename(context.Background(), "It", "IT")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	exists, _ := categories.Exists(context.Background(), "IT")
	assert.True(t, exists)
}

func TestCategoryStore_Delete(t *testing.T) {
	ideas, categories := newStores(t, "IT", "HR")
	seedIdea(t, ideas, "IT")

	err := categories.Delete(context.Background(), "IT")
	assert.ErrorIs(t, err, models.ErrConflict)

	require.NoError(t, categories.Delete(context.Background(), "HR"))
	exists, _ := categories.Exists(context.Background(), "HR")
	assert.False(t, exists)

	assert.ErrorIs(t, categories.Delete(context.Background(), "HR"), models.ErrNotFound)
}

func TestIdeaStore_Create_RequiresRegisteredCategory(t *testing.T) {
	ideas, _ := newStores(t, "IT")

	_, err := ideas.Create(context.Background(), &models.Idea{Title: "x", Category: "HR", AuthorID: 1})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = ideas.Create(context.Background(), &models.Idea{Title: "x", Category: "IT", AuthorID: 1})
	assert.NoError(t, err)
}

func TestCategoryStore_RenameRacingCreate(t *testing.T) {
	ideas, categories := newStores(t, "IT")
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Creates that land after the rename fail; the rest must be rewritten.
			_, _ = ideas.Create(ctx, &models.Idea{Title: "x", Category: "IT", AuthorID: 1})
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := categories.Rename(ctx, "IT", "Tech")
		assert.NoError(t, err)
	}()
	wg.Wait()

	all, err := ideas.List(ctx)
	require.NoError(t, err)
	for _, idea := range all {
		assert.Equal(t, "Tech", idea.Category)
	}
}
