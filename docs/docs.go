// Package docs регистрирует OpenAPI-описание API для http-swagger.
// Обновляется командой swag init -g cmd/subscription-tracker/main.go.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "termsOfService": "http://swagger.io/terms/",
        "contact": {
            "name": "API Support",
            "url": "http://www.swagger.io/support",
            "email": "support@swagger.io"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Проверка доступности",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "503": {"description": "База недоступна", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/categories": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Categories"],
                "summary": "Список категорий",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Categories"],
                "summary": "Создать категорию",
                "parameters": [
                    {"description": "Новая категория", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.CreateCategoryRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Пустое или занятое имя", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "403": {"description": "Нужна роль ADMIN", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Текущий пользователь",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "401": {"description": "Пользователь не авторизован", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/subscriptions": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Subscriptions"],
                "summary": "Список подписок с фильтрами и пагинацией",
                "parameters": [
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"},
                    {"type": "string", "name": "search", "in": "query"},
                    {"enum": ["ACTIVE", "CANCELLED", "PAUSED"], "type": "string", "name": "status", "in": "query"},
                    {"type": "string", "name": "category", "in": "query"},
                    {"enum": ["WEEKLY", "MONTHLY", "YEARLY"], "type": "string", "name": "billingCycle", "in": "query"},
                    {"enum": ["name", "amount", "nextBillingDate", "createdAt", "category"], "type": "string", "name": "sortBy", "in": "query"},
                    {"enum": ["asc", "desc"], "type": "string", "name": "sortOrder", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Недопустимый фильтр", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "401": {"description": "Пользователь не авторизован", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Subscriptions"],
                "summary": "Создать подписку",
                "parameters": [
                    {"description": "Новая подписка", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.CreateSubscriptionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Ошибка валидации", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/subscriptions/stats": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Subscriptions"],
                "summary": "Статистика по активным подпискам",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/subscriptions/upcoming": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Subscriptions"],
                "summary": "Ближайшие списания",
                "parameters": [
                    {"type": "integer", "default": 30, "name": "days", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/subscriptions/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Subscriptions"],
                "summary": "Получить подписку",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Подписка не найдена", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Subscriptions"],
                "summary": "Изменить подписку",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"description": "Изменяемые поля", "name": "request", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Ошибка валидации", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "404": {"description": "Подписка не найдена", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Subscriptions"],
                "summary": "Удалить подписку",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Подписка не найдена", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/users": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Список пользователей",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "403": {"description": "Нужна роль ADMIN", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/users/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Получить пользователя",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Пользователь не найден", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Удалить пользователя",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Пользователь не найден", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/users/{id}/role": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Сменить роль пользователя",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"description": "ADMIN или USER", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.UpdateRoleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Недопустимая роль", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "models.CreateCategoryRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "name": {"type": "string"},
                "color": {"type": "string"},
                "icon": {"type": "string"}
            }
        },
        "models.CreateSubscriptionRequest": {
            "type": "object",
            "required": ["name", "amount", "billingCycle", "nextBillingDate", "category"],
            "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"},
                "amount": {"type": "number"},
                "currency": {"type": "string", "example": "USD"},
                "billingCycle": {"type": "string", "enum": ["WEEKLY", "MONTHLY", "YEARLY"]},
                "nextBillingDate": {"type": "string", "example": "2025-01-15"},
                "category": {"type": "string"},
                "status": {"type": "string", "enum": ["ACTIVE", "CANCELLED", "PAUSED"]},
                "lastBillingDate": {"type": "string"},
                "notes": {"type": "string"},
                "isTrial": {"type": "boolean"},
                "trialEndDate": {"type": "string"}
            }
        },
        "models.UpdateRoleRequest": {
            "type": "object",
            "required": ["role"],
            "properties": {
                "role": {"type": "string", "enum": ["ADMIN", "USER"]}
            }
        },
        "response.ErrorResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "Error"},
                "error": {"type": "string", "example": "invalid request body"}
            }
        },
        "response.Response": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "error": {"type": "string"},
                "data": {}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Subscription Tracker API",
	Description:      "API для учёта подписок: фильтры, пагинация, статистика и ближайшие списания",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
