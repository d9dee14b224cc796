package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"bookshelf/contexts/catalog/book-service/application/queries"
	bookerrors "bookshelf/contexts/catalog/book-service/domain/errors"
	bookhttp "bookshelf/contexts/catalog/book-service/transport/http"
)

const (
	maxBodyBytes = 1 << 20

	detailInternal          = "An internal server error occurred."
	detailInvalidBookID     = "Book ID must be a positive integer."
	detailInvalidPagination = "Query parameters 'skip' must be >= 0 and 'limit' must be > 0."
)

func (s *Server) handleCreateBook(w http.ResponseWriter, r *http.Request) {
	var req bookhttp.BookRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.books.Handler.CreateBookHandler(r.Context(), req)
	if err != nil {
		writeBookError(w, err, 0)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListBooks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := bookhttp.ListBooksRequest{Skip: 0, Limit: queries.DefaultListLimit}

	var issues []bookhttp.ValidationIssue
	if raw := query.Get("skip"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			issues = append(issues, integerIssue("query", "skip"))
		}
		req.Skip = value
	}
	if raw := query.Get("limit"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			issues = append(issues, integerIssue("query", "limit"))
		}
		req.Limit = value
	}
	if len(issues) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, bookhttp.ValidationErrorResponse{Detail: issues})
		return
	}

	resp, err := s.books.Handler.ListBooksHandler(r.Context(), req)
	if err != nil {
		writeBookError(w, err, 0)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetBook(w http.ResponseWriter, r *http.Request) {
	bookID, ok := parseBookID(w, r)
	if !ok {
		return
	}
	resp, err := s.books.Handler.GetBookHandler(r.Context(), bookID)
	if err != nil {
		writeBookError(w, err, bookID)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReplaceBook(w http.ResponseWriter, r *http.Request) {
	bookID, ok := parseBookID(w, r)
	if !ok {
		return
	}
	var req bookhttp.BookRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.books.Handler.ReplaceBookHandler(r.Context(), bookID, req)
	if err != nil {
		writeBookError(w, err, bookID)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePatchBook(w http.ResponseWriter, r *http.Request) {
	bookID, ok := parseBookID(w, r)
	if !ok {
		return
	}
	var req bookhttp.PatchBookRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.books.Handler.PatchBookHandler(r.Context(), bookID, req)
	if err != nil {
		writeBookError(w, err, bookID)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteBook(w http.ResponseWriter, r *http.Request) {
	bookID, ok := parseBookID(w, r)
	if !ok {
		return
	}
	resp, err := s.books.Handler.DeleteBookHandler(r.Context(), bookID)
	if err != nil {
		writeBookError(w, err, bookID)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func parseBookID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	bookID, err := strconv.ParseInt(r.PathValue("book_id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, bookhttp.ValidationErrorResponse{
			Detail: []bookhttp.ValidationIssue{integerIssue("path", "book_id")},
		})
		return 0, false
	}
	return bookID, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		issue := bookhttp.ValidationIssue{
			Loc:  []string{"body"},
			Msg:  "request body must be a valid JSON object",
			Type: "value_error.jsondecode",
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			issue = bookhttp.ValidationIssue{
				Loc:  []string{"body", typeErr.Field},
				Msg:  fmt.Sprintf("value must be a %s", typeErr.Type),
				Type: "type_error",
			}
		}
		writeJSON(w, http.StatusUnprocessableEntity, bookhttp.ValidationErrorResponse{
			Detail: []bookhttp.ValidationIssue{issue},
		})
		return false
	}
	return true
}

func integerIssue(location string, field string) bookhttp.ValidationIssue {
	return bookhttp.ValidationIssue{
		Loc:  []string{location, field},
		Msg:  "value is not a valid integer",
		Type: "type_error.integer",
	}
}

func writeBookError(w http.ResponseWriter, err error, bookID int64) {
	var verr *bookerrors.ValidationError
	switch {
	case errors.As(err, &verr):
		issues := make([]bookhttp.ValidationIssue, 0, len(verr.Violations))
		for _, v := range verr.Violations {
			issues = append(issues, bookhttp.ValidationIssue{
				Loc:  []string{"body", v.Field},
				Msg:  v.Message,
				Type: v.Code,
			})
		}
		writeJSON(w, http.StatusUnprocessableEntity, bookhttp.ValidationErrorResponse{Detail: issues})
	case errors.Is(err, bookerrors.ErrInvalidBookID):
		writeDetail(w, http.StatusBadRequest, detailInvalidBookID)
	case errors.Is(err, bookerrors.ErrInvalidPagination):
		writeDetail(w, http.StatusBadRequest, detailInvalidPagination)
	case errors.Is(err, bookerrors.ErrBookNotFound):
		writeDetail(w, http.StatusNotFound, fmt.Sprintf("Book with ID %d not found", bookID))
	default:
		writeDetail(w, http.StatusInternalServerError, detailInternal)
	}
}
