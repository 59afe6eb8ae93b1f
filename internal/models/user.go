package models

import "time"

// Role — роль пользователя системы.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// Valid сообщает, входит ли роль в перечисление.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User представляет пользователя, пришедшего через внешний провайдер идентификации.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      *string   `json:"name"`
	Avatar    *string   `json:"avatar"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// Identity — подтверждённые провайдером данные пользователя.
type Identity struct {
	Email  string
	Name   *string
	Avatar *string
}

// UpdateRoleRequest — тело запроса на смену роли.
type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required"`
}
