package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound = errors.New("not found")
	ErrExists   = errors.New("already exists")

	// ErrUnauthenticated means the request carried no session token at all.
	ErrUnauthenticated = errors.New("missing session")

	// ErrNotPermitted covers both "meal does not exist" and "meal is owned by
	// someone else". The two cases are deliberately indistinguishable so that
	// callers cannot probe for meals they do not own.
	ErrNotPermitted = errors.New("not found or not permitted")
)

func NewError(model string, err error) error {
	return fmt.Errorf("%s: %w", strings.ToLower(model), err)
}
