// Package repository contains data access logic separated from HTTP handlers.
// Sentinel errors defined here let handlers map storage outcomes onto HTTP
// statuses without inspecting driver errors.
package repository

import "errors"

// ErrPinNotFound is returned when no pin matches the requested id.
// Handlers translate it into a 404.
var ErrPinNotFound = errors.New("pin not found")

// ErrInvalidID is returned for ids that cannot name a row (non-numeric,
// zero).  Handlers translate it into a 400.
var ErrInvalidID = errors.New("invalid pin id")
