package models

// SortField — поле сортировки списка подписок.
type SortField string

const (
	SortByName            SortField = "name"
	SortByAmount          SortField = "amount"
	SortByNextBillingDate SortField = "nextBillingDate"
	SortByCreatedAt       SortField = "createdAt"
	SortByCategory        SortField = "category"
)

// SortOrder — направление сортировки.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ListParams — сырые параметры строки запроса до нормализации.
type ListParams struct {
	Page         string
	Limit        string
	Search       string
	Status       string
	Category     string
	BillingCycle string
	SortBy       string
	SortOrder    string
}

// SubscriptionFilter — предикат выборки. UserID применяется всегда,
// пустые поля означают отсутствие соответствующего условия.
type SubscriptionFilter struct {
	UserID       string
	Search       string
	Status       SubscriptionStatus
	Category     string
	BillingCycle BillingCycle
}

// SubscriptionQuery — нормализованный запрос списка: фильтр, сортировка и страница.
type SubscriptionQuery struct {
	SubscriptionFilter
	SortBy    SortField
	SortOrder SortOrder
	Page      int
	Limit     int
}

// Offset возвращает число пропускаемых записей.
func (q SubscriptionQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// Pagination — конверт пагинации.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// PaginationResult — страница данных вместе с конвертом пагинации.
type PaginationResult[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}
