package httptransport

import (
	"bytes"
	"encoding/json"
)

// Nullable tells an omitted JSON field apart from an explicit null.
type Nullable[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Null = true
		return nil
	}
	return json.Unmarshal(data, &n.Value)
}

type BookRequest struct {
	Title         Nullable[string] `json:"title" swaggertype:"string" example:"To Kill a Mockingbird"`
	Author        Nullable[string] `json:"author" swaggertype:"string" example:"Harper Lee"`
	PublishedDate Nullable[string] `json:"published_date" swaggertype:"string" example:"1960-07-11"`
	Summary       Nullable[string] `json:"summary" swaggertype:"string" example:"A novel about racism and injustice."`
	Genre         Nullable[string] `json:"genre" swaggertype:"string" example:"Fiction"`
}

type PatchBookRequest struct {
	Title         Nullable[string] `json:"title" swaggertype:"string" example:"Animal Farm"`
	Author        Nullable[string] `json:"author" swaggertype:"string"`
	PublishedDate Nullable[string] `json:"published_date" swaggertype:"string"`
	Summary       Nullable[string] `json:"summary" swaggertype:"string" example:"A satirical novella about farm animals rebelling against humans."`
	Genre         Nullable[string] `json:"genre" swaggertype:"string"`
}

type BookDTO struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	PublishedDate *string `json:"published_date"`
	Summary       *string `json:"summary"`
	Genre         string  `json:"genre"`
}

type CreateBookResponse struct {
	Book BookDTO `json:"book"`
}

type ListBooksRequest struct {
	Skip  int `json:"skip"`
	Limit int `json:"limit"`
}

type ListBooksResponse struct {
	Items []BookDTO `json:"items"`
	Total int64     `json:"total"`
	Skip  int       `json:"skip"`
	Limit int       `json:"limit"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}

type ValidationIssue struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

type ValidationErrorResponse struct {
	Detail []ValidationIssue `json:"detail"`
}
