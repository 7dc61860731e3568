package apperrors

import (
	"net/http"
)

/*
Фабрики для общих ошибок бизнес-логики.
Предопределенных переменных нет: WithDetails мутирует ошибку.
*/

// ErrNotFound - ошибка репозитория (gorm.ErrRecordNotFound и т.п.) -> 404
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists - 409 с общим сообщением
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrConflict - 409 с доменным сообщением (дубли slug/email)
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidOperation - 400
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// ErrInvalidStatus - 400
func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusBadRequest)
}

// --- Uploads ---

func ErrFileTooLarge(maxBytes int64) *AppError {
	return New(CodeValidationFailed, "upload", "File too large", http.StatusBadRequest).
		WithDetails(map[string]int64{"maxBytes": maxBytes})
}

func ErrUnsupportedFileType(contentType string) *AppError {
	return New(CodeValidationFailed, "upload", "Only JPEG, PNG, GIF and WebP images are allowed", http.StatusBadRequest).
		WithDetails(map[string]string{"contentType": contentType})
}
