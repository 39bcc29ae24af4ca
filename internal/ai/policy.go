package ai

import (
	"fmt"
	"net/http"
)

// Class is the fallback decision for one failed attempt.
type Class int

const (
	// ClassRetryable failures move the chain on to the next provider.
	ClassRetryable Class = iota
	// ClassFatal failures stop the chain.
	ClassFatal
)

func (c Class) String() string {
	if c == ClassRetryable {
		return "retryable"
	}
	return "fatal"
}

// StatusSiteOverloaded is the non-standard 529 some vendors return when
// their capacity is exhausted.
const StatusSiteOverloaded = 529

// StatusPolicy maps non-2xx HTTP statuses to a Class. Statuses absent from
// Retryable are fatal.
type StatusPolicy struct {
	Retryable map[int]bool
}

// DefaultPolicy treats rate limiting, quota exhaustion and upstream
// unavailability as retryable; everything else, including 400 and auth
// failures, stops the chain.
func DefaultPolicy() StatusPolicy {
	return StatusPolicy{Retryable: map[int]bool{
		http.StatusTooManyRequests:     true,
		http.StatusPaymentRequired:     true,
		http.StatusInternalServerError: true,
		http.StatusServiceUnavailable:  true,
		StatusSiteOverloaded:           true,
	}}
}

// Classify returns the Class for a non-2xx status.
func (p StatusPolicy) Classify(status int) Class {
	if p.Retryable[status] {
		return ClassRetryable
	}
	return ClassFatal
}

// ProviderError describes one failed provider attempt.
type ProviderError struct {
	Provider  string
	Status    int // 0 when no HTTP response was received
	Message   string
	Retryable bool
}

func (e *ProviderError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s: status %d: %s", e.Provider, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}
