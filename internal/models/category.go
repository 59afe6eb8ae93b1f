package models

import "time"

// Category — общий справочник категорий, не привязан к пользователю.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     *string   `json:"color"`
	Icon      *string   `json:"icon"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateCategoryRequest — тело запроса на создание категории.
type CreateCategoryRequest struct {
	Name  string  `json:"name" validate:"required"`
	Color *string `json:"color"`
	Icon  *string `json:"icon"`
}
