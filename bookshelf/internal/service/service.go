package service

import (
	"context"
	"time"

	"github.com/Astemirdum/bookshelf-service/bookshelf/internal/errs"
	"github.com/Astemirdum/bookshelf-service/bookshelf/internal/model"
	"github.com/Astemirdum/bookshelf-service/bookshelf/internal/repository"
	"github.com/Astemirdum/bookshelf-service/pkg/kafka"
	"github.com/Astemirdum/bookshelf-service/pkg/validate"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type Notifier interface {
	Notify(ctx context.Context, event kafka.EventBook)
}

type Service struct {
	log       *zap.Logger
	repo      repository.Repository
	notifier  Notifier
	validator *validate.CustomValidator
	newID     func() string
	now       func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		s.newID = newID
	}
}

func NewService(repo repository.Repository, notifier Notifier, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		log:       log.Named("service"),
		repo:      repo,
		notifier:  notifier,
		validator: validate.NewCustomValidator(),
		newID:     uuid.NewString,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) CreateBook(ctx context.Context, req model.BookRequest) (string, error) {
	if err := s.validate(req); err != nil {
		return "", err
	}
	now := s.now().UTC()
	book := model.Book{
		ID:         s.newID(),
		InsertedAt: now,
		UpdatedAt:  now,
	}
	book.Apply(req)

	if err := s.repo.Create(ctx, book); err != nil {
		s.log.Error("CreateBook", zap.String("id", book.ID), zap.Error(err))
		return "", err
	}
	s.notify(ctx, kafka.EventBookCreated, book)
	return book.ID, nil
}

func (s *Service) ListBooks(ctx context.Context, filter model.BookFilter) ([]model.BookSummary, error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) GetBook(ctx context.Context, id string) (model.Book, error) {
	return s.repo.Get(ctx, id)
}

// UpdateBook validates before looking the book up, so a bad payload is
// reported even for an unknown id.
func (s *Service) UpdateBook(ctx context.Context, id string, req model.BookRequest) error {
	if err := s.validate(req); err != nil {
		return err
	}
	now := s.now().UTC()
	book, err := s.repo.Update(ctx, id, func(b *model.Book) {
		b.Apply(req)
		b.UpdatedAt = now
	})
	if err != nil {
		return err
	}
	s.notify(ctx, kafka.EventBookUpdated, book)
	return nil
}

func (s *Service) DeleteBook(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.notify(ctx, kafka.EventBookDeleted, model.Book{ID: id})
	return nil
}

// validate reports the first failing rule, name before readPage.
func (s *Service) validate(req model.BookRequest) error {
	err := s.validator.Validate(req)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	failed := make(map[string]bool, len(ve))
	for _, fe := range ve {
		failed[fe.StructField()] = true
	}
	switch {
	case failed["Name"]:
		return errs.ErrMissingName
	case failed["ReadPage"]:
		return errs.ErrReadPageExceedsPageCount
	}
	return err
}

func (s *Service) notify(ctx context.Context, typ kafka.EventType, book model.Book) {
	s.notifier.Notify(ctx, kafka.EventBook{
		Type:      typ,
		BookID:    book.ID,
		Name:      book.Name,
		Finished:  book.Finished,
		Timestamp: s.now().UTC(),
	})
}
