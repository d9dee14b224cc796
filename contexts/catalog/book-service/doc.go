// Package bookservice contains the bookshelf book catalog.
//
// Use cases publish notifications through ports.EventPublisher after every
// mutation or lookup failure; persistence is reached only through
// ports.BookRepository.
package bookservice
