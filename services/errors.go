package services

import "net/http"

// StatusError carries the HTTP status a service-layer failure should map
// to, keeping handlers free of business rules.
type StatusError struct {
	Code   int
	Detail string
}

func (e *StatusError) Error() string { return e.Detail }

func badRequest(detail string) error {
	return &StatusError{Code: http.StatusBadRequest, Detail: detail}
}

func forbidden(detail string) error {
	return &StatusError{Code: http.StatusForbidden, Detail: detail}
}

func notFound(detail string) error {
	return &StatusError{Code: http.StatusNotFound, Detail: detail}
}
