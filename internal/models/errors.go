package models

// FieldError — одна ошибка валидации, привязанная к полю тела запроса.
// Отдаётся списком со статусом 422.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
