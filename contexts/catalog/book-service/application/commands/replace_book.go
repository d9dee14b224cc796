package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	application "bookshelf/contexts/catalog/book-service/application"
	"bookshelf/contexts/catalog/book-service/domain/entities"
	domainerrors "bookshelf/contexts/catalog/book-service/domain/errors"
	"bookshelf/contexts/catalog/book-service/domain/services"
	"bookshelf/contexts/catalog/book-service/ports"
)

type ReplaceBookCommand struct {
	BookID int64
	Input  entities.BookInput
}

type ReplaceBookResult struct {
	Book entities.Book
}

type ReplaceBookUseCase struct {
	Books  ports.BookRepository
	Events ports.EventPublisher
	Logger *slog.Logger
}

func (u ReplaceBookUseCase) Execute(ctx context.Context, cmd ReplaceBookCommand) (ReplaceBookResult, error) {
	logger := application.ResolveLogger(u.Logger)
	if cmd.BookID <= 0 {
		return ReplaceBookResult{}, domainerrors.ErrInvalidBookID
	}

	book, err := services.BuildBook(cmd.BookID, cmd.Input)
	if err != nil {
		logger.Warn("replace book rejected",
			"event", "replace_book_rejected",
			"module", "catalog/book-service",
			"layer", "application",
			"book_id", cmd.BookID,
			"error", err.Error(),
		)
		return ReplaceBookResult{}, err
	}

	logger.Info("replace book started",
		"event", "replace_book_started",
		"module", "catalog/book-service",
		"layer", "application",
		"book_id", cmd.BookID,
	)

	updated, err := u.Books.UpdateBook(ctx, book)
	if err != nil {
		logger.Error("replace book failed",
			"event", "replace_book_failed",
			"module", "catalog/book-service",
			"layer", "application",
			"book_id", cmd.BookID,
			"error", err.Error(),
		)
		if errors.Is(err, domainerrors.ErrBookNotFound) {
			application.PublishNotFound(ctx, u.Events, cmd.BookID)
		} else {
			application.PublishFailure(ctx, u.Events, fmt.Sprintf("Failed to update book with ID %d", cmd.BookID), cmd.BookID, err)
		}
		return ReplaceBookResult{}, err
	}

	application.Publish(ctx, u.Events, application.EventBookUpdated, fmt.Sprintf("Book updated: %s", updated.Title), map[string]any{
		"id":     updated.ID,
		"title":  updated.Title,
		"author": updated.Author,
	})

	logger.Info("replace book completed",
		"event", "replace_book_completed",
		"module", "catalog/book-service",
		"layer", "application",
		"book_id", updated.ID,
	)

	return ReplaceBookResult{Book: updated}, nil
}
