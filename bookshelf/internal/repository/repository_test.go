package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/Astemirdum/bookshelf-service/bookshelf/internal/errs"
	"github.com/Astemirdum/bookshelf-service/bookshelf/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func seed(t *testing.T, books ...model.Book) *repository {
	t.Helper()
	r := NewRepository(zap.NewNop())
	for _, b := range books {
		require.NoError(t, r.Create(context.Background(), b))
	}
	return r
}

var (
	warAndPeace = model.Book{ID: "1", Name: "War and Peace", Publisher: "Penguin", Reading: true, PageCount: 1225, ReadPage: 10}
	hobbit      = model.Book{ID: "2", Name: "The Hobbit", Publisher: "Allen & Unwin", PageCount: 310, ReadPage: 310, Finished: true}
	warOfWorlds = model.Book{ID: "3", Name: "The WAR of the Worlds", Publisher: "Heinemann", Reading: true, PageCount: 192, ReadPage: 192, Finished: true}
	uber        = model.Book{ID: "4", Name: "Über Menschen", Publisher: "Suhrkamp"}
)

func ids(list []model.BookSummary) []string {
	out := make([]string, 0, len(list))
	for _, b := range list {
		out = append(out, b.ID)
	}
	return out
}

func TestRepository_List(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		filter model.BookFilter
		want   []string
	}{
		{name: "no filters", filter: model.BookFilter{}, want: []string{"1", "2", "3", "4"}},
		{name: "name case-insensitive", filter: model.BookFilter{Name: "war"}, want: []string{"1", "3"}},
		{name: "name non-ascii", filter: model.BookFilter{Name: "üBER"}, want: []string{"4"}},
		{name: "name no match", filter: model.BookFilter{Name: "dune"}, want: []string{}},
		{name: "reading true", filter: model.BookFilter{Reading: model.FlagTrue}, want: []string{"1", "3"}},
		{name: "reading false", filter: model.BookFilter{Reading: model.FlagFalse}, want: []string{"2", "4"}},
		{name: "finished true", filter: model.BookFilter{Finished: model.FlagTrue}, want: []string{"2", "3"}},
		{
			name:   "combined",
			filter: model.BookFilter{Name: "the", Reading: model.FlagTrue, Finished: model.FlagTrue},
			want:   []string{"3"},
		},
	}
	r := seed(t, warAndPeace, hobbit, warOfWorlds, uber)
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := r.List(context.Background(), tt.filter)
			require.NoError(t, err)
			require.NotNil(t, got)
			require.Equal(t, tt.want, ids(got))
		})
	}
}

func TestRepository_ListProjection(t *testing.T) {
	t.Parallel()
	r := seed(t, warAndPeace)
	got, err := r.List(context.Background(), model.BookFilter{})
	require.NoError(t, err)
	require.Equal(t, []model.BookSummary{{ID: "1", Name: "War and Peace", Publisher: "Penguin"}}, got)
}

func TestRepository_Create(t *testing.T) {
	t.Parallel()
	r := seed(t, warAndPeace)

	err := r.Create(context.Background(), model.Book{ID: "1", Name: "dup"})
	require.ErrorIs(t, err, errs.ErrInsertFailure)
	require.Equal(t, 1, r.Len())

	got, err := r.Get(context.Background(), "1")
	require.NoError(t, err)
	require.Equal(t, warAndPeace, got)
}

func TestRepository_Get(t *testing.T) {
	t.Parallel()
	r := seed(t, warAndPeace, hobbit)

	got, err := r.Get(context.Background(), "2")
	require.NoError(t, err)
	require.Equal(t, hobbit, got)

	_, err = r.Get(context.Background(), "missing")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestRepository_Update(t *testing.T) {
	t.Parallel()
	r := seed(t, warAndPeace, hobbit)

	got, err := r.Update(context.Background(), "1", func(b *model.Book) {
		b.ReadPage = b.PageCount
		b.Finished = true
	})
	require.NoError(t, err)
	require.True(t, got.Finished)

	stored, err := r.Get(context.Background(), "1")
	require.NoError(t, err)
	require.Equal(t, got, stored)

	called := false
	_, err = r.Update(context.Background(), "missing", func(*model.Book) { called = true })
	require.ErrorIs(t, err, errs.ErrNotFound)
	require.False(t, called)
}

func TestRepository_Delete(t *testing.T) {
	t.Parallel()
	r := seed(t, warAndPeace, hobbit, warOfWorlds, uber)

	require.NoError(t, r.Delete(context.Background(), "2"))
	_, err := r.Get(context.Background(), "2")
	require.ErrorIs(t, err, errs.ErrNotFound)

	got, err := r.List(context.Background(), model.BookFilter{})
	require.NoError(t, err)
	require.Equal(t, []string{"1", "3", "4"}, ids(got))

	require.ErrorIs(t, r.Delete(context.Background(), "2"), errs.ErrNotFound)
	require.Equal(t, 3, r.Len())
}

func TestRepository_Concurrent(t *testing.T) {
	t.Parallel()
	r := NewRepository(zap.NewNop())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("book-%d", i)
			assert.NoError(t, r.Create(ctx, model.Book{ID: id, Name: id}))
			_, _ = r.List(ctx, model.BookFilter{Name: "book"})
			_, err := r.Update(ctx, id, func(b *model.Book) { b.Reading = true })
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, err := r.List(ctx, model.BookFilter{Reading: model.FlagTrue})
	require.NoError(t, err)
	require.Len(t, got, 50)
}
