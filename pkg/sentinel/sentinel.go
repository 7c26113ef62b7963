package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and lookup layers return
// these (optionally wrapped) so callers can translate them into findings.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: entry does not exist in the store or registry
// - ErrExpired: cached entry has outlived its TTL
// - ErrUnavailable: service or resource temporarily unreachable
// - ErrInvalidState: entity in wrong state for requested operation
var (
	ErrNotFound     = errors.New("not found")
	ErrExpired      = errors.New("expired")
	ErrUnavailable  = errors.New("unavailable")
	ErrInvalidState = errors.New("invalid state")
)
