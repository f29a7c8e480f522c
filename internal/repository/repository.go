// Package repository contains the data access layer. Queries are scoped
// by owner where ownership applies; callers never filter in memory.
package repository

import "errors"

var (
	// ErrNotFound covers both an absent row and an ownership mismatch;
	// the two are deliberately indistinguishable.
	ErrNotFound = errors.New("repository: not found")
	// ErrDuplicateUser is a unique-constraint violation on email/username.
	ErrDuplicateUser = errors.New("repository: user already exists")
)
