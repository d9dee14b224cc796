package gormadapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"bookshelf/contexts/catalog/book-service/domain/entities"
	domainerrors "bookshelf/contexts/catalog/book-service/domain/errors"

	"gorm.io/gorm"
)

// Repository persists books through gorm. It works against any dialect
// opened by internal/platform/db.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CreateBook(ctx context.Context, book entities.Book) (entities.Book, error) {
	row := fromEntity(book)
	row.ID = 0
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return entities.Book{}, fmt.Errorf("insert book: %w", err)
	}
	r.logger.Debug("book inserted",
		"event", "gorm_book_created",
		"module", "catalog/book-service",
		"layer", "adapter",
		"book_id", row.ID,
	)
	return row.toEntity(), nil
}

func (r *Repository) ListBooks(ctx context.Context, skip int, limit int) ([]entities.Book, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&bookModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}

	var rows []bookModel
	if err := r.db.WithContext(ctx).
		Order("id ASC").
		Offset(skip).
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, 0, fmt.Errorf("list books: %w", err)
	}

	items := make([]entities.Book, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, total, nil
}

func (r *Repository) GetBook(ctx context.Context, bookID int64) (entities.Book, error) {
	var row bookModel
	err := r.db.WithContext(ctx).
		Where("id = ?", bookID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Book{}, domainerrors.ErrBookNotFound
		}
		return entities.Book{}, fmt.Errorf("get book %d: %w", bookID, err)
	}
	return row.toEntity(), nil
}

func (r *Repository) UpdateBook(ctx context.Context, book entities.Book) (entities.Book, error) {
	var updated bookModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing bookModel
		if err := tx.Where("id = ?", book.ID).First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrBookNotFound
			}
			return err
		}

		row := fromEntity(book)
		if err := tx.Model(&existing).
			Select("title", "author", "published_date", "summary", "genre").
			Updates(&row).
			Error; err != nil {
			return err
		}
		updated = row
		return nil
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrBookNotFound) {
			return entities.Book{}, err
		}
		return entities.Book{}, fmt.Errorf("update book %d: %w", book.ID, err)
	}
	return updated.toEntity(), nil
}

func (r *Repository) DeleteBook(ctx context.Context, bookID int64) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", bookID).
		Delete(&bookModel{})
	if result.Error != nil {
		return fmt.Errorf("delete book %d: %w", bookID, result.Error)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrBookNotFound
	}
	return nil
}

type bookModel struct {
	ID            int64      `gorm:"column:id;primaryKey;autoIncrement"`
	Title         string     `gorm:"column:title"`
	Author        string     `gorm:"column:author"`
	PublishedDate *time.Time `gorm:"column:published_date"`
	Summary       *string    `gorm:"column:summary"`
	Genre         string     `gorm:"column:genre"`
}

func (bookModel) TableName() string {
	return "books"
}

func fromEntity(book entities.Book) bookModel {
	return bookModel{
		ID:            book.ID,
		Title:         book.Title,
		Author:        book.Author,
		PublishedDate: book.PublishedDate,
		Summary:       book.Summary,
		Genre:         book.Genre,
	}
}

func (m bookModel) toEntity() entities.Book {
	var published *time.Time
	if m.PublishedDate != nil {
		y, mo, d := m.PublishedDate.Date()
		date := time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
		published = &date
	}
	return entities.Book{
		ID:            m.ID,
		Title:         m.Title,
		Author:        m.Author,
		PublishedDate: published,
		Summary:       m.Summary,
		Genre:         m.Genre,
	}
}
