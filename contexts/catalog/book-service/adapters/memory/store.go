package memory

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	application "bookshelf/contexts/catalog/book-service/application"
	"bookshelf/contexts/catalog/book-service/domain/entities"
	domainerrors "bookshelf/contexts/catalog/book-service/domain/errors"
)

// Store is an in-memory BookRepository for local runtime and tests.
// It is not intended as production persistence.
type Store struct {
	mu       sync.RWMutex
	books    map[int64]entities.Book
	sequence int64
	logger   *slog.Logger
}

func NewStore(seed []entities.Book, logger *slog.Logger) *Store {
	store := &Store{
		books:  make(map[int64]entities.Book, len(seed)),
		logger: application.ResolveLogger(logger),
	}
	for _, book := range seed {
		if book.ID <= 0 {
			store.sequence++
			book.ID = store.sequence
		}
		if book.ID > store.sequence {
			store.sequence = book.ID
		}
		store.books[book.ID] = cloneBook(book)
	}
	return store
}

func (s *Store) CreateBook(_ context.Context, book entities.Book) (entities.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sequence++
	book.ID = s.sequence
	s.books[book.ID] = cloneBook(book)
	s.logger.Debug("book stored",
		"event", "memory_book_created",
		"module", "catalog/book-service",
		"layer", "adapter",
		"book_id", book.ID,
	)
	return cloneBook(book), nil
}

func (s *Store) ListBooks(_ context.Context, skip int, limit int) ([]entities.Book, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int64, 0, len(s.books))
	for id := range s.books {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	total := int64(len(ids))
	if skip >= len(ids) {
		return []entities.Book{}, total, nil
	}
	end := len(ids)
	if limit > 0 && skip+limit < end {
		end = skip + limit
	}

	items := make([]entities.Book, 0, end-skip)
	for _, id := range ids[skip:end] {
		items = append(items, cloneBook(s.books[id]))
	}
	return items, total, nil
}

func (s *Store) GetBook(_ context.Context, bookID int64) (entities.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	book, ok := s.books[bookID]
	if !ok {
		return entities.Book{}, domainerrors.ErrBookNotFound
	}
	return cloneBook(book), nil
}

func (s *Store) UpdateBook(_ context.Context, book entities.Book) (entities.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.books[book.ID]; !ok {
		return entities.Book{}, domainerrors.ErrBookNotFound
	}
	s.books[book.ID] = cloneBook(book)
	return cloneBook(book), nil
}

func (s *Store) DeleteBook(_ context.Context, bookID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.books[bookID]; !ok {
		return domainerrors.ErrBookNotFound
	}
	delete(s.books, bookID)
	return nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.books)
}

func cloneBook(book entities.Book) entities.Book {
	out := book
	if book.PublishedDate != nil {
		date := *book.PublishedDate
		out.PublishedDate = &date
	}
	if book.Summary != nil {
		summary := *book.Summary
		out.Summary = &summary
	}
	return out
}
