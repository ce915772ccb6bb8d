package usecase

import "github.com/cockroachdb/errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("resource not found")
	ErrAlreadyProvisioned = errors.New("already provisioned")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrResourceMissing    = errors.New("platform resource missing")
	ErrExternalService    = errors.New("league service failure")
)
