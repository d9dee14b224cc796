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

type PatchBookCommand struct {
	BookID int64
	Input  entities.BookInput
}

type PatchBookResult struct {
	Book entities.Book
}

type PatchBookUseCase struct {
	Books  ports.BookRepository
	Events ports.EventPublisher
	Logger *slog.Logger
}

func (u PatchBookUseCase) Execute(ctx context.Context, cmd PatchBookCommand) (PatchBookResult, error) {
	logger := application.ResolveLogger(u.Logger)
	if cmd.BookID <= 0 {
		return PatchBookResult{}, domainerrors.ErrInvalidBookID
	}

	logger.Info("patch book started",
		"event", "patch_book_started",
		"module", "catalog/book-service",
		"layer", "application",
		"book_id", cmd.BookID,
	)

	current, err := u.Books.GetBook(ctx, cmd.BookID)
	if err != nil {
		return PatchBookResult{}, u.fail(ctx, logger, cmd.BookID, err)
	}

	book, err := services.ApplyPatch(current, cmd.Input)
	if err != nil {
		logger.Warn("patch book rejected",
			"event", "patch_book_rejected",
			"module", "catalog/book-service",
			"layer", "application",
			"book_id", cmd.BookID,
			"error", err.Error(),
		)
		return PatchBookResult{}, err
	}

	updated, err := u.Books.UpdateBook(ctx, book)
	if err != nil {
		return PatchBookResult{}, u.fail(ctx, logger, cmd.BookID, err)
	}

	application.Publish(ctx, u.Events, application.EventBookPartiallyUpdated, fmt.Sprintf("Book partially updated: %s", updated.Title), map[string]any{
		"id":    updated.ID,
		"title": updated.Title,
	})

	logger.Info("patch book completed",
		"event", "patch_book_completed",
		"module", "catalog/book-service",
		"layer", "application",
		"book_id", updated.ID,
	)

	return PatchBookResult{Book: updated}, nil
}

func (u PatchBookUseCase) fail(ctx context.Context, logger *slog.Logger, bookID int64, err error) error {
	logger.Error("patch book failed",
		"event", "patch_book_failed",
		"module", "catalog/book-service",
		"layer", "application",
		"book_id", bookID,
		"error", err.Error(),
	)
	if errors.Is(err, domainerrors.ErrBookNotFound) {
		application.PublishNotFound(ctx, u.Events, bookID)
	} else {
		application.PublishFailure(ctx, u.Events, fmt.Sprintf("Failed to partially update book with ID %d", bookID), bookID, err)
	}
	return err
}
