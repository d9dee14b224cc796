package commands

import (
	"context"
	"fmt"
	"log/slog"

	application "bookshelf/contexts/catalog/book-service/application"
	"bookshelf/contexts/catalog/book-service/domain/entities"
	"bookshelf/contexts/catalog/book-service/domain/services"
	"bookshelf/contexts/catalog/book-service/ports"
)

type CreateBookCommand struct {
	Input entities.BookInput
}

type CreateBookResult struct {
	Book entities.Book
}

type CreateBookUseCase struct {
	Books  ports.BookRepository
	Events ports.EventPublisher
	Logger *slog.Logger
}

func (u CreateBookUseCase) Execute(ctx context.Context, cmd CreateBookCommand) (CreateBookResult, error) {
	logger := application.ResolveLogger(u.Logger)

	book, err := services.BuildBook(0, cmd.Input)
	if err != nil {
		logger.Warn("create book rejected",
			"event", "create_book_rejected",
			"module", "catalog/book-service",
			"layer", "application",
			"error", err.Error(),
		)
		return CreateBookResult{}, err
	}

	logger.Info("create book started",
		"event", "create_book_started",
		"module", "catalog/book-service",
		"layer", "application",
		"title", book.Title,
	)

	created, err := u.Books.CreateBook(ctx, book)
	if err != nil {
		logger.Error("create book failed",
			"event", "create_book_failed",
			"module", "catalog/book-service",
			"layer", "application",
			"error", err.Error(),
		)
		application.Publish(ctx, u.Events, application.EventError, "Failed to create book", map[string]any{
			"error": err.Error(),
		})
		return CreateBookResult{}, err
	}

	application.Publish(ctx, u.Events, application.EventBookCreated, fmt.Sprintf("Book created: %s", created.Title), map[string]any{
		"id":     created.ID,
		"title":  created.Title,
		"author": created.Author,
	})

	logger.Info("create book completed",
		"event", "create_book_completed",
		"module", "catalog/book-service",
		"layer", "application",
		"book_id", created.ID,
	)

	return CreateBookResult{Book: created}, nil
}
