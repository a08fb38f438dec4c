// Package sl содержит помощники для формирования атрибутов slog.
package sl

import "log/slog"

// Err возвращает атрибут "error" с текстом ошибки.
// Для nil возвращается пустая строка, чтобы логирование не паниковало.
//
//	log.Error("failed to save listing", sl.Err(err))
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

// Op возвращает атрибут "op" с именем операции.
func Op(op string) slog.Attr {
	return slog.String("op", op)
}
