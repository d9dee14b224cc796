package ports

import (
	"context"

	"bookshelf/contexts/catalog/book-service/domain/entities"
)

// BookRepository owns book persistence. Implementations return
// domainerrors.ErrBookNotFound for unknown ids.
type BookRepository interface {
	// CreateBook stores book and returns it with the assigned id.
	CreateBook(ctx context.Context, book entities.Book) (entities.Book, error)
	// ListBooks returns one page ordered by id plus the total row count.
	ListBooks(ctx context.Context, skip int, limit int) ([]entities.Book, int64, error)
	GetBook(ctx context.Context, bookID int64) (entities.Book, error)
	// UpdateBook overwrites every column of an existing book.
	UpdateBook(ctx context.Context, book entities.Book) (entities.Book, error)
	DeleteBook(ctx context.Context, bookID int64) error
}

// EventPublisher is the fire-and-forget notification sink.
type EventPublisher interface {
	Publish(ctx context.Context, kind string, message string, payload map[string]any)
}
