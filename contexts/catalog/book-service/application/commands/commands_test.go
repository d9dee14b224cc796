package commands

import (
	"context"
	"errors"
	"testing"

	"bookshelf/contexts/catalog/book-service/domain/entities"
)

type faultyRepository struct {
	err  error
	book entities.Book
}

func (r faultyRepository) CreateBook(context.Context, entities.Book) (entities.Book, error) {
	return entities.Book{}, r.err
}

func (r faultyRepository) ListBooks(context.Context, int, int) ([]entities.Book, int64, error) {
	return nil, 0, r.err
}

func (r faultyRepository) GetBook(context.Context, int64) (entities.Book, error) {
	return r.book, nil
}

func (r faultyRepository) UpdateBook(context.Context, entities.Book) (entities.Book, error) {
	return entities.Book{}, r.err
}

func (r faultyRepository) DeleteBook(context.Context, int64) error {
	return r.err
}

type captured struct {
	kind    string
	message string
	payload map[string]any
}

type capturePublisher struct {
	events []captured
}

func (p *capturePublisher) Publish(_ context.Context, kind string, message string, payload map[string]any) {
	p.events = append(p.events, captured{kind: kind, message: message, payload: payload})
}

func validInput() entities.BookInput {
	return entities.BookInput{
		Title:  entities.Value("Dune"),
		Author: entities.Value("Frank Herbert"),
		Genre:  entities.Value("Science Fiction"),
	}
}

func TestStoreFaultsPublishErrorEvents(t *testing.T) {
	storeErr := errors.New("disk full")
	repo := faultyRepository{err: storeErr, book: entities.Book{ID: 9, Title: "Dune", Author: "Frank Herbert", Genre: "Science Fiction"}}

	cases := []struct {
		name    string
		run     func(events *capturePublisher) error
		message string
	}{
		{
			name: "create",
			run: func(events *capturePublisher) error {
				_, err := CreateBookUseCase{Books: repo, Events: events}.Execute(context.Background(), CreateBookCommand{Input: validInput()})
				return err
			},
			message: "Failed to create book",
		},
		{
			name: "replace",
			run: func(events *capturePublisher) error {
				_, err := ReplaceBookUseCase{Books: repo, Events: events}.Execute(context.Background(), ReplaceBookCommand{BookID: 9, Input: validInput()})
				return err
			},
			message: "Failed to update book with ID 9",
		},
		{
			name: "patch",
			run: func(events *capturePublisher) error {
				_, err := PatchBookUseCase{Books: repo, Events: events}.Execute(context.Background(), PatchBookCommand{BookID: 9})
				return err
			},
			message: "Failed to partially update book with ID 9",
		},
		{
			name: "delete",
			run: func(events *capturePublisher) error {
				return DeleteBookUseCase{Books: repo, Events: events}.Execute(context.Background(), DeleteBookCommand{BookID: 9})
			},
			message: "Failed to delete book with ID 9",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			events := &capturePublisher{}
			if err := tc.run(events); !errors.Is(err, storeErr) {
				t.Fatalf("expected store error, got %v", err)
			}
			if len(events.events) != 1 {
				t.Fatalf("expected one event, got %d", len(events.events))
			}
			ev := events.events[0]
			if ev.kind != "error" || ev.message != tc.message {
				t.Fatalf("unexpected event %+v", ev)
			}
			if ev.payload["error"] != "disk full" {
				t.Fatalf("expected error text in payload, got %+v", ev.payload)
			}
		})
	}
}

func TestUseCasesTolerateNilPublisher(t *testing.T) {
	repo := faultyRepository{err: errors.New("boom")}
	_, err := CreateBookUseCase{Books: repo}.Execute(context.Background(), CreateBookCommand{Input: validInput()})
	if err == nil {
		t.Fatal("expected store error")
	}
}
