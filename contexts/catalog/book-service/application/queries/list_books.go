package queries

import (
	"context"
	"log/slog"

	application "bookshelf/contexts/catalog/book-service/application"
	"bookshelf/contexts/catalog/book-service/domain/entities"
	domainerrors "bookshelf/contexts/catalog/book-service/domain/errors"
	"bookshelf/contexts/catalog/book-service/ports"
)

const (
	DefaultListLimit = 10
	MaxListLimit     = 100
)

type ListBooksQuery struct {
	Skip  int
	Limit int
}

type ListBooksResult struct {
	Items []entities.Book
	Total int64
	Skip  int
	Limit int
}

type ListBooksUseCase struct {
	Books  ports.BookRepository
	Logger *slog.Logger
}

func (u ListBooksUseCase) Execute(ctx context.Context, query ListBooksQuery) (ListBooksResult, error) {
	logger := application.ResolveLogger(u.Logger)
	if query.Skip < 0 || query.Limit < 1 {
		return ListBooksResult{}, domainerrors.ErrInvalidPagination
	}
	limit := query.Limit
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	items, total, err := u.Books.ListBooks(ctx, query.Skip, limit)
	if err != nil {
		logger.Error("list books failed",
			"event", "list_books_failed",
			"module", "catalog/book-service",
			"layer", "application",
			"error", err.Error(),
		)
		return ListBooksResult{}, err
	}

	logger.Debug("list books completed",
		"event", "list_books_completed",
		"module", "catalog/book-service",
		"layer", "application",
		"items_count", len(items),
		"total", total,
	)

	return ListBooksResult{
		Items: items,
		Total: total,
		Skip:  query.Skip,
		Limit: limit,
	}, nil
}
