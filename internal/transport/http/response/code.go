package response

import (
	"net/http"

	"cardlink/internal/apperr"
)

// Business codes follow HTTP semantics directly.
const (
	CodeOK            = 0
	CodeBadRequest    = 400
	CodeUnauthorized  = 401
	CodeForbidden     = 403
	CodeNotFound      = 404
	CodeQuotaExceeded = 403
	CodeServerError   = 500
)

var CodeMsgMap = map[int]string{
	CodeOK:           "OK",
	CodeBadRequest:   "Bad Request",
	CodeUnauthorized: "Unauthorized",
	CodeForbidden:    "Forbidden",
	CodeNotFound:     "Not Found",
	CodeServerError:  "Internal Server Error",
}

// CodeOf maps a taxonomy kind to the business/HTTP code.
func CodeOf(k apperr.Kind) int {
	switch k {
	case apperr.KindInvalidArgument:
		return CodeBadRequest
	case apperr.KindUnauthenticated:
		return CodeUnauthorized
	case apperr.KindPermissionDenied, apperr.KindQuotaExceeded:
		return CodeForbidden
	case apperr.KindNotFound:
		return CodeNotFound
	default:
		return CodeServerError
	}
}

// StatusOf is CodeOf for the plain HTTP surface.
func StatusOf(k apperr.Kind) int {
	switch c := CodeOf(k); c {
	case CodeOK:
		return http.StatusOK
	default:
		return c
	}
}
