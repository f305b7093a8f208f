// Package faults defines the sentinel errors shared across the organizer and
// the helpers that attach run context to them. Commands classify failures with
// errors.Is against the exported markers to pick exit codes and messages.
package faults

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrConfiguration = errors.New("configuration error")
	ErrParse         = errors.New("parse error")
	ErrIO            = errors.New("io error")
	ErrLocked        = errors.New("locked")
)

var markers = []error{ErrNotFound, ErrConfiguration, ErrParse, ErrIO, ErrLocked}

// Wrap tags err with marker and a stage/operation/message detail chain so
// callers can classify the failure with errors.Is while keeping the full
// context in the message. The marker should be one of the exported sentinels;
// a nil marker falls back to ErrIO.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrIO
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Tagged reports whether err already carries one of the package sentinels, so
// callers avoid stacking a second marker on an error wrapped further down.
func Tagged(err error) bool {
	if err == nil {
		return false
	}
	for _, marker := range markers {
		if errors.Is(err, marker) {
			return true
		}
	}
	return false
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "run failure"
	}
	return strings.Join(parts, ": ")
}
