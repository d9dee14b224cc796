package httpadapter

import (
	"context"
	"log/slog"

	application "bookshelf/contexts/catalog/book-service/application"
	"bookshelf/contexts/catalog/book-service/application/commands"
	"bookshelf/contexts/catalog/book-service/application/queries"
	"bookshelf/contexts/catalog/book-service/domain/entities"
	httptransport "bookshelf/contexts/catalog/book-service/transport/http"
)

type Handler struct {
	CreateBook  commands.CreateBookUseCase
	ListBooks   queries.ListBooksUseCase
	GetBook     queries.GetBookUseCase
	ReplaceBook commands.ReplaceBookUseCase
	PatchBook   commands.PatchBookUseCase
	DeleteBook  commands.DeleteBookUseCase
	Logger      *slog.Logger
}

// CreateBookHandler godoc
// @Summary Create a book
// @Description Stores a new book and broadcasts a book-created event.
// @Tags books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body httptransport.BookRequest true "Book"
// @Success 200 {object} httptransport.CreateBookResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 422 {object} httptransport.ValidationErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /books/ [post]
func (h Handler) CreateBookHandler(ctx context.Context, req httptransport.BookRequest) (httptransport.CreateBookResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Info("create book request received",
		"event", "http_create_book_received",
		"module", "catalog/book-service",
		"layer", "transport",
	)

	result, err := h.CreateBook.Execute(ctx, commands.CreateBookCommand{
		Input: toInput(req.Title, req.Author, req.PublishedDate, req.Summary, req.Genre),
	})
	if err != nil {
		return httptransport.CreateBookResponse{}, err
	}
	return httptransport.CreateBookResponse{Book: mapBook(result.Book)}, nil
}

// ListBooksHandler godoc
// @Summary List books
// @Description Returns a page of books ordered by id.
// @Tags books
// @Produce json
// @Security BearerAuth
// @Param skip query int false "Rows to skip" default(0)
// @Param limit query int false "Page size (max 100)" default(10)
// @Success 200 {object} httptransport.ListBooksResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /books/ [get]
func (h Handler) ListBooksHandler(ctx context.Context, req httptransport.ListBooksRequest) (httptransport.ListBooksResponse, error) {
	result, err := h.ListBooks.Execute(ctx, queries.ListBooksQuery{
		Skip:  req.Skip,
		Limit: req.Limit,
	})
	if err != nil {
		return httptransport.ListBooksResponse{}, err
	}
	return httptransport.ListBooksResponse{
		Items: mapBooks(result.Items),
		Total: result.Total,
		Skip:  result.Skip,
		Limit: result.Limit,
	}, nil
}

// GetBookHandler godoc
// @Summary Get a book
// @Tags books
// @Produce json
// @Security BearerAuth
// @Param book_id path int true "Book id"
// @Success 200 {object} httptransport.BookDTO
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /books/{book_id} [get]
func (h Handler) GetBookHandler(ctx context.Context, bookID int64) (httptransport.BookDTO, error) {
	result, err := h.GetBook.Execute(ctx, queries.GetBookQuery{BookID: bookID})
	if err != nil {
		return httptransport.BookDTO{}, err
	}
	return mapBook(result.Book), nil
}

// ReplaceBookHandler godoc
// @Summary Replace a book
// @Description Overwrites every field of an existing book.
// @Tags books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param book_id path int true "Book id"
// @Param request body httptransport.BookRequest true "Book"
// @Success 200 {object} httptransport.BookDTO
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 422 {object} httptransport.ValidationErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /books/{book_id} [put]
func (h Handler) ReplaceBookHandler(ctx context.Context, bookID int64, req httptransport.BookRequest) (httptransport.BookDTO, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Info("replace book request received",
		"event", "http_replace_book_received",
		"module", "catalog/book-service",
		"layer", "transport",
		"book_id", bookID,
	)

	result, err := h.ReplaceBook.Execute(ctx, commands.ReplaceBookCommand{
		BookID: bookID,
		Input:  toInput(req.Title, req.Author, req.PublishedDate, req.Summary, req.Genre),
	})
	if err != nil {
		return httptransport.BookDTO{}, err
	}
	return mapBook(result.Book), nil
}

// PatchBookHandler godoc
// @Summary Partially update a book
// @Description Applies only the fields present in the body. Null clears summary or published_date.
// @Tags books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param book_id path int true "Book id"
// @Param request body httptransport.PatchBookRequest true "Fields to change"
// @Success 200 {object} httptransport.BookDTO
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 422 {object} httptransport.ValidationErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /books/{book_id} [patch]
func (h Handler) PatchBookHandler(ctx context.Context, bookID int64, req httptransport.PatchBookRequest) (httptransport.BookDTO, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Info("patch book request received",
		"event", "http_patch_book_received",
		"module", "catalog/book-service",
		"layer", "transport",
		"book_id", bookID,
	)

	result, err := h.PatchBook.Execute(ctx, commands.PatchBookCommand{
		BookID: bookID,
		Input:  toInput(req.Title, req.Author, req.PublishedDate, req.Summary, req.Genre),
	})
	if err != nil {
		return httptransport.BookDTO{}, err
	}
	return mapBook(result.Book), nil
}

// DeleteBookHandler godoc
// @Summary Delete a book
// @Tags books
// @Produce json
// @Security BearerAuth
// @Param book_id path int true "Book id"
// @Success 200 {object} httptransport.MessageResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /books/{book_id} [delete]
func (h Handler) DeleteBookHandler(ctx context.Context, bookID int64) (httptransport.MessageResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Info("delete book request received",
		"event", "http_delete_book_received",
		"module", "catalog/book-service",
		"layer", "transport",
		"book_id", bookID,
	)

	if err := h.DeleteBook.Execute(ctx, commands.DeleteBookCommand{BookID: bookID}); err != nil {
		return httptransport.MessageResponse{}, err
	}
	return httptransport.MessageResponse{Message: "Book deleted successfully"}, nil
}

func toInput(title, author, publishedDate, summary, genre httptransport.Nullable[string]) entities.BookInput {
	return entities.BookInput{
		Title:         toField(title),
		Author:        toField(author),
		PublishedDate: toField(publishedDate),
		Summary:       toField(summary),
		Genre:         toField(genre),
	}
}

func toField(value httptransport.Nullable[string]) entities.Field {
	return entities.Field{
		Set:   value.Set,
		Null:  value.Null,
		Value: value.Value,
	}
}

func mapBooks(items []entities.Book) []httptransport.BookDTO {
	out := make([]httptransport.BookDTO, 0, len(items))
	for _, item := range items {
		out = append(out, mapBook(item))
	}
	return out
}

func mapBook(book entities.Book) httptransport.BookDTO {
	dto := httptransport.BookDTO{
		ID:      book.ID,
		Title:   book.Title,
		Author:  book.Author,
		Summary: book.Summary,
		Genre:   book.Genre,
	}
	if book.PublishedDate != nil {
		value := book.PublishedDate.Format(entities.DateLayout)
		dto.PublishedDate = &value
	}
	return dto
}
