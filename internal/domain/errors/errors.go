package errors

import "errors"

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrNotFound        = errors.New("not found")
	ErrAlreadyExists   = errors.New("already exists")
	ErrEmptyOrder      = errors.New("order has no items")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrAlreadyFinal    = errors.New("purchase already finalized")
)
