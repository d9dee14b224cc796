package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	application "bookshelf/contexts/catalog/book-service/application"
	domainerrors "bookshelf/contexts/catalog/book-service/domain/errors"
	"bookshelf/contexts/catalog/book-service/ports"
)

type DeleteBookCommand struct {
	BookID int64
}

type DeleteBookUseCase struct {
	Books  ports.BookRepository
	Events ports.EventPublisher
	Logger *slog.Logger
}

func (u DeleteBookUseCase) Execute(ctx context.Context, cmd DeleteBookCommand) error {
	logger := application.ResolveLogger(u.Logger)
	if cmd.BookID <= 0 {
		return domainerrors.ErrInvalidBookID
	}

	logger.Info("delete book started",
		"event", "delete_book_started",
		"module", "catalog/book-service",
		"layer", "application",
		"book_id", cmd.BookID,
	)

	if err := u.Books.DeleteBook(ctx, cmd.BookID); err != nil {
		logger.Error("delete book failed",
			"event", "delete_book_failed",
			"module", "catalog/book-service",
			"layer", "application",
			"book_id", cmd.BookID,
			"error", err.Error(),
		)
		if errors.Is(err, domainerrors.ErrBookNotFound) {
			application.PublishNotFound(ctx, u.Events, cmd.BookID)
		} else {
			application.PublishFailure(ctx, u.Events, fmt.Sprintf("Failed to delete book with ID %d", cmd.BookID), cmd.BookID, err)
		}
		return err
	}

	application.Publish(ctx, u.Events, application.EventBookDeleted, fmt.Sprintf("Book deleted with ID %d", cmd.BookID), map[string]any{
		"id": cmd.BookID,
	})

	logger.Info("delete book completed",
		"event", "delete_book_completed",
		"module", "catalog/book-service",
		"layer", "application",
		"book_id", cmd.BookID,
	)
	return nil
}
