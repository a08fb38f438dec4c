package middlewarectx

import (
	"net/http"
)

// RequestSize ограничивает тело запроса maxBytes байтами. Чтение сверх
// лимита возвращает *http.MaxBytesError, который обработчик переводит в 413.
func RequestSize(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
