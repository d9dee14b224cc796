package services

import (
	"errors"
	"testing"
	"time"

	"bookshelf/contexts/catalog/book-service/domain/entities"
	domainerrors "bookshelf/contexts/catalog/book-service/domain/errors"
)

func TestBuildBookParsesOptionalFields(t *testing.T) {
	book, err := BuildBook(4, entities.BookInput{
		Title:         entities.Value("Emma"),
		Author:        entities.Value("Jane Austen"),
		PublishedDate: entities.Value("1815-12-23"),
		Summary:       entities.Value("Matchmaking."),
		Genre:         entities.Value("Novel"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(1815, time.December, 23, 0, 0, 0, 0, time.UTC)
	if book.ID != 4 || book.PublishedDate == nil || !book.PublishedDate.Equal(want) {
		t.Fatalf("unexpected book %+v", book)
	}
	if book.Summary == nil || *book.Summary != "Matchmaking." {
		t.Fatalf("unexpected summary %v", book.Summary)
	}
}

func TestBuildBookAllowsNullOptionalFields(t *testing.T) {
	book, err := BuildBook(0, entities.BookInput{
		Title:         entities.Value("Emma"),
		Author:        entities.Value("Jane Austen"),
		PublishedDate: entities.Null(),
		Summary:       entities.Null(),
		Genre:         entities.Value("Novel"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if book.PublishedDate != nil || book.Summary != nil {
		t.Fatalf("expected optional fields to stay empty, got %+v", book)
	}
}

func TestBuildBookRejectsImpossibleDate(t *testing.T) {
	_, err := BuildBook(0, entities.BookInput{
		Title:         entities.Value("Emma"),
		Author:        entities.Value("Jane Austen"),
		PublishedDate: entities.Value("2021-02-30"),
		Genre:         entities.Value("Novel"),
	})
	var verr *domainerrors.ValidationError
	if !errors.As(err, &verr) || len(verr.Violations) != 1 || verr.Violations[0].Field != "published_date" {
		t.Fatalf("expected single published_date violation, got %v", err)
	}
}

func TestApplyPatchKeepsOmittedFields(t *testing.T) {
	date := time.Date(1815, time.December, 23, 0, 0, 0, 0, time.UTC)
	current := entities.Book{ID: 1, Title: "Emma", Author: "Jane Austen", PublishedDate: &date, Genre: "Novel"}

	patched, err := ApplyPatch(current, entities.BookInput{
		Genre:         entities.Value("Classic"),
		PublishedDate: entities.Null(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if patched.Title != "Emma" || patched.Genre != "Classic" || patched.PublishedDate != nil {
		t.Fatalf("unexpected patched book %+v", patched)
	}
}

func TestApplyPatchRejectsBlankTitle(t *testing.T) {
	_, err := ApplyPatch(entities.Book{ID: 1, Title: "Emma"}, entities.BookInput{Title: entities.Value("")})
	if !errors.Is(err, domainerrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
