package models

import (
	"errors"
	"fmt"
)

// ErrorType represents different categories of errors
type ErrorType int

const (
	ErrMetadataUnavailable ErrorType = iota
	ErrMalformedMetadata
	ErrVerification
	ErrInvalidConfig
)

// String returns the string representation of ErrorType
func (e ErrorType) String() string {
	switch e {
	case ErrMetadataUnavailable:
		return "MetadataUnavailable"
	case ErrMalformedMetadata:
		return "MalformedMetadata"
	case ErrVerification:
		return "Verification"
	case ErrInvalidConfig:
		return "InvalidConfig"
	default:
		return "Unknown"
	}
}

// Sentinel causes carried inside a PipscoutError
var (
	ErrNotFound    = errors.New("package not found")
	ErrMissingName = errors.New("metadata has no package name")
)

// PipscoutError represents a classified error with the package it concerns
type PipscoutError struct {
	Type    ErrorType
	Package string
	Err     error
}

// Error implements the error interface
func (e *PipscoutError) Error() string {
	if e.Package != "" {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Package, e.Err)
	}
	return fmt.Sprintf("[%s] %v", e.Type, e.Err)
}

// Unwrap returns the wrapped error
func (e *PipscoutError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err denotes a missing package or version
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
