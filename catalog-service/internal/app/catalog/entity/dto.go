package entity

import "time"

// CreateProductRequest - запрос на создание продукта
// Пустое nombre и неположительный precio отклоняются с 400
type CreateProductRequest struct {
	Nombre    string     `json:"nombre" validate:"required"`
	Precio    float64    `json:"precio" validate:"gt=0"`
	CreateAt  *time.Time `json:"createAt,omitempty"`
	Categoria *Category  `json:"categoria,omitempty"`
}

// UpdateProductRequest - запрос на обновление продукта
// Накладываются только nombre, precio и categoria;
// id, createAt и foto существующего документа не меняются
type UpdateProductRequest struct {
	Nombre    string    `json:"nombre"`
	Precio    float64   `json:"precio"`
	Categoria *Category `json:"categoria,omitempty"`
}

// CreateCategoryRequest - запрос на создание категории
type CreateCategoryRequest struct {
	Nombre string `json:"nombre" validate:"required"`
}

// ErrorResponse - стандартный ответ об ошибке
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ValidationErrorResponse - тело ответа 400 при ошибках валидации
// errors содержит по одному сообщению на каждое невалидное поле
type ValidationErrorResponse struct {
	Errors    []string  `json:"errors"`
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
}
