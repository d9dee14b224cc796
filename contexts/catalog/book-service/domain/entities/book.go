package entities

import "time"

// DateLayout is the wire and storage format of PublishedDate.
const DateLayout = "2006-01-02"

type Book struct {
	ID            int64
	Title         string
	Author        string
	PublishedDate *time.Time
	Summary       *string
	Genre         string
}

// Field is one optional input value. Set is false when the caller omitted
// the field; Null is true when the caller sent an explicit null.
type Field struct {
	Set   bool
	Null  bool
	Value string
}

func Value(v string) Field {
	return Field{Set: true, Value: v}
}

func Null() Field {
	return Field{Set: true, Null: true}
}

func (f Field) Present() bool {
	return f.Set && !f.Null
}

// BookInput carries raw book fields for create, replace and patch.
type BookInput struct {
	Title         Field
	Author        Field
	PublishedDate Field
	Summary       Field
	Genre         Field
}
