// Package home отдаёт приветственный ответ корня API.
package home

import (
	"net/http"

	"github.com/go-chi/render"
)

// Version версия HTTP API.
const Version = "1.0.0"

// Response тело ответа GET /.
type Response struct {
	Message string `json:"message" example:"API do Marido de Aluguel funcionando!"`
	Version string `json:"version" example:"1.0.0"`
}

// ServeHTTP godoc
// @Summary Проверка работоспособности
// @Tags Home
// @Produce json
// @Success 200 {object} Response
// @Router / [get]
func ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, Response{
		Message: "API do Marido de Aluguel funcionando!",
		Version: Version,
	})
}
