package domain

import "errors"

// Ошибки, общие для сервисов и обработчиков.
// Сервисы оборачивают их с подробностями, обработчики превращают в HTTP-статусы через errors.Is.
var (
	ErrValidation          = errors.New("invalid request")
	ErrUnsupportedEncoding = errors.New("unsupported content type")
	ErrNotFound            = errors.New("not found")
	ErrForbidden           = errors.New("forbidden")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrPayloadTooLarge     = errors.New("attachment too large to download")
	ErrTooManyAttempts     = errors.New("too many attempts")
)
