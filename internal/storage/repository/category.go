package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/subscription-tracker/internal/models"
	"github.com/magabrotheeeer/subscription-tracker/internal/storage"
)

func scanCategory(row rowScanner) (models.Category, error) {
	var c models.Category
	var color, icon sql.NullString
	if err := row.Scan(&c.ID, &c.Name, &color, &icon, &c.CreatedAt); err != nil {
		return models.Category{}, err
	}
	c.Color = nullString(color)
	c.Icon = nullString(icon)
	return c, nil
}

// ListCategories возвращает справочник категорий по алфавиту.
func (s *Storage) ListCategories(ctx context.Context) ([]models.Category, error) {
	const op = "storage.ListCategories"

	rows, err := s.DB.QueryContext(ctx, `SELECT id, name, color, icon, created_at FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	result := make([]models.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CreateCategory добавляет категорию. Занятое имя даёт storage.ErrCategoryExists.
func (s *Storage) CreateCategory(ctx context.Context, c models.Category) (*models.Category, error) {
	const op = "storage.CreateCategory"

	query := `INSERT INTO categories (name, color, icon)
			  VALUES ($1, $2, $3)
			  RETURNING id, name, color, icon, created_at`
	created, err := scanCategory(s.DB.QueryRowContext(ctx, query, c.Name, c.Color, c.Icon))
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrCategoryExists)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &created, nil
}
