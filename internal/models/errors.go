package models

import "errors"

// Sentinel errors
var (
	ErrNotFound       = errors.New("record not found")
	ErrUnknownEngine  = errors.New("unknown engine")
	ErrEmptyParlay    = errors.New("parlay has no legs")
	ErrInvalidParlay  = errors.New("invalid parlay")
	ErrInvalidOutcome = errors.New("invalid verified outcome")
)
