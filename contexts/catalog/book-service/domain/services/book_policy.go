package services

import (
	"strings"
	"time"

	"bookshelf/contexts/catalog/book-service/domain/entities"
	domainerrors "bookshelf/contexts/catalog/book-service/domain/errors"
)

const (
	codeMissing = "value_error.missing"
	codeBlank   = "value_error.blank"
	codeNull    = "type_error.none.not_allowed"
	codeBadDate = "value_error.date"
	msgMissing  = "field required"
	msgBlank    = "field must not be blank"
	msgNull     = "none is not an allowed value"
	msgBadDate  = "invalid date format, expected YYYY-MM-DD"
	fieldTitle  = "title"
	fieldAuthor = "author"
	fieldGenre  = "genre"
	fieldDate   = "published_date"
)

// BuildBook validates a full input for create or replace. Title, author and
// genre are required; published date and summary may be omitted or null.
func BuildBook(id int64, input entities.BookInput) (entities.Book, error) {
	verr := &domainerrors.ValidationError{}
	book := entities.Book{ID: id}

	book.Title = required(verr, fieldTitle, input.Title)
	book.Author = required(verr, fieldAuthor, input.Author)
	book.PublishedDate = optionalDate(verr, input.PublishedDate)
	book.Summary = optionalText(input.Summary)
	book.Genre = required(verr, fieldGenre, input.Genre)

	if err := verr.Err(); err != nil {
		return entities.Book{}, err
	}
	return book, nil
}

// ApplyPatch overlays the fields present in input onto book. Omitted fields
// keep their value; null clears optional fields and is rejected for required
// ones.
func ApplyPatch(book entities.Book, input entities.BookInput) (entities.Book, error) {
	verr := &domainerrors.ValidationError{}

	if input.Title.Set {
		book.Title = required(verr, fieldTitle, input.Title)
	}
	if input.Author.Set {
		book.Author = required(verr, fieldAuthor, input.Author)
	}
	if input.PublishedDate.Set {
		book.PublishedDate = optionalDate(verr, input.PublishedDate)
	}
	if input.Summary.Set {
		book.Summary = optionalText(input.Summary)
	}
	if input.Genre.Set {
		book.Genre = required(verr, fieldGenre, input.Genre)
	}

	if err := verr.Err(); err != nil {
		return entities.Book{}, err
	}
	return book, nil
}

// ParseDate parses a YYYY-MM-DD value as a UTC calendar date.
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(entities.DateLayout, strings.TrimSpace(value), time.UTC)
}

func required(verr *domainerrors.ValidationError, name string, field entities.Field) string {
	switch {
	case !field.Set:
		verr.Add(name, msgMissing, codeMissing)
		return ""
	case field.Null:
		verr.Add(name, msgNull, codeNull)
		return ""
	case strings.TrimSpace(field.Value) == "":
		verr.Add(name, msgBlank, codeBlank)
		return ""
	}
	return field.Value
}

func optionalDate(verr *domainerrors.ValidationError, field entities.Field) *time.Time {
	if !field.Present() {
		return nil
	}
	parsed, err := ParseDate(field.Value)
	if err != nil {
		verr.Add(fieldDate, msgBadDate, codeBadDate)
		return nil
	}
	return &parsed
}

func optionalText(field entities.Field) *string {
	if !field.Present() {
		return nil
	}
	value := field.Value
	return &value
}
