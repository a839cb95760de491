package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/Astemirdum/bookshelf-service/bookshelf/internal/errs"
	"github.com/Astemirdum/bookshelf-service/bookshelf/internal/model"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type Repository interface {
	Create(ctx context.Context, book model.Book) error
	List(ctx context.Context, filter model.BookFilter) ([]model.BookSummary, error)
	Get(ctx context.Context, id string) (model.Book, error)
	Update(ctx context.Context, id string, fn func(*model.Book)) (model.Book, error)
	Delete(ctx context.Context, id string) error
	Len() int
}

// repository keeps books in insertion order. Every operation holds mu for
// its whole scan so callers observe it as atomic.
type repository struct {
	mu    sync.RWMutex
	books []model.Book
	log   *zap.Logger
}

func NewRepository(log *zap.Logger) *repository {
	return &repository{
		books: make([]model.Book, 0),
		log:   log.Named("repo"),
	}
}

func (r *repository) Create(_ context.Context, book model.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(book.ID) != -1 {
		return errors.Wrapf(errs.ErrInsertFailure, "duplicate id %s", book.ID)
	}
	r.books = append(r.books, book)
	r.log.Debug("Create", zap.String("id", book.ID), zap.Int("total", len(r.books)))
	return nil
}

func (r *repository) List(_ context.Context, filter model.BookFilter) ([]model.BookSummary, error) {
	lower := cases.Lower(language.Und)
	name := lower.String(filter.Name)

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.BookSummary, 0, len(r.books))
	for _, b := range r.books {
		if name != "" && !strings.Contains(lower.String(b.Name), name) {
			continue
		}
		if !filter.Reading.Match(b.Reading) || !filter.Finished.Match(b.Finished) {
			continue
		}
		out = append(out, b.Summarize())
	}
	return out, nil
}

func (r *repository) Get(_ context.Context, id string) (model.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i == -1 {
		return model.Book{}, errs.ErrNotFound
	}
	return r.books[i], nil
}

func (r *repository) Update(_ context.Context, id string, fn func(*model.Book)) (model.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i == -1 {
		return model.Book{}, errs.ErrNotFound
	}
	fn(&r.books[i])
	return r.books[i], nil
}

func (r *repository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i == -1 {
		return errs.ErrNotFound
	}
	r.books = append(r.books[:i], r.books[i+1:]...)
	r.log.Debug("Delete", zap.String("id", id), zap.Int("total", len(r.books)))
	return nil
}

func (r *repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.books)
}

func (r *repository) indexOf(id string) int {
	for i := range r.books {
		if r.books[i].ID == id {
			return i
		}
	}
	return -1
}
