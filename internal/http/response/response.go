// Package response содержит вспомогательные типы и функции для формирования
// JSON-ответов HTTP-обработчиков в едином формате.
package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"
)

const (
	// StatusOK значение статуса для успешного ответа.
	StatusOK = "OK"
	// StatusError значение статуса для ответа с ошибкой.
	StatusError = "Error"
)

// Общие сообщения об ошибках.
const (
	MsgInvalidBody = "Dados inválidos!"
	MsgInternal    = "Erro interno do servidor!"
)

// ErrorResponse тело ответа с ошибкой. Используется и в аннотациях @Failure.
type ErrorResponse struct {
	Status  string `json:"status" example:"Error"`
	Message string `json:"message" example:"Dados inválidos!"`
}

// MessageResponse тело ответа, состоящее из одного сообщения.
type MessageResponse struct {
	Message string `json:"message" example:"Usuário criado com sucesso!"`
}

// Error возвращает ErrorResponse с переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{
		Status:  StatusError,
		Message: msg,
	}
}

// Message возвращает MessageResponse.
func Message(msg string) MessageResponse {
	return MessageResponse{Message: msg}
}

// WriteError выставляет статус и пишет тело ошибки.
func WriteError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, Error(msg))
}

// ValidationError формирует ErrorResponse из ошибок валидатора.
// Нарушения перечисляются через запятую.
func ValidationError(err error) ErrorResponse {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return Error(MsgInvalidBody)
	}

	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		switch e.ActualTag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("field %s is a required field", e.Field()))
		case "email":
			msgs = append(msgs, fmt.Sprintf("field %s must be a valid email", e.Field()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("field %s must be at most %s characters", e.Field(), e.Param()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("field %s must be at least %s", e.Field(), e.Param()))
		case "gte":
			msgs = append(msgs, fmt.Sprintf("field %s must be greater than or equal to %s", e.Field(), e.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("field %s is not a valid", e.Field()))
		}
	}
	return Error(strings.Join(msgs, ", "))
}
