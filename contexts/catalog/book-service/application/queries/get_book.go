package queries

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	application "bookshelf/contexts/catalog/book-service/application"
	"bookshelf/contexts/catalog/book-service/domain/entities"
	domainerrors "bookshelf/contexts/catalog/book-service/domain/errors"
	"bookshelf/contexts/catalog/book-service/ports"
)

type GetBookQuery struct {
	BookID int64
}

type GetBookResult struct {
	Book entities.Book
}

type GetBookUseCase struct {
	Books  ports.BookRepository
	Events ports.EventPublisher
	Logger *slog.Logger
}

func (u GetBookUseCase) Execute(ctx context.Context, query GetBookQuery) (GetBookResult, error) {
	logger := application.ResolveLogger(u.Logger)
	if query.BookID <= 0 {
		return GetBookResult{}, domainerrors.ErrInvalidBookID
	}

	book, err := u.Books.GetBook(ctx, query.BookID)
	if err != nil {
		logger.Error("get book failed",
			"event", "get_book_failed",
			"module", "catalog/book-service",
			"layer", "application",
			"book_id", query.BookID,
			"error", err.Error(),
		)
		if errors.Is(err, domainerrors.ErrBookNotFound) {
			application.PublishNotFound(ctx, u.Events, query.BookID)
		} else {
			application.PublishFailure(ctx, u.Events, fmt.Sprintf("Error retrieving book with ID %d", query.BookID), query.BookID, err)
		}
		return GetBookResult{}, err
	}

	logger.Debug("get book completed",
		"event", "get_book_completed",
		"module", "catalog/book-service",
		"layer", "application",
		"book_id", query.BookID,
	)

	return GetBookResult{Book: book}, nil
}
