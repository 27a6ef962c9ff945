// In file: internal/agent/errors.go
package agent

import (
	"errors"
	"fmt"

	"github.com/dileep-u-k/taskmaster-agent/internal/weather"
)

// Kind classifies every failure the agent can report. Each error leaving the
// orchestrator carries exactly one Kind.
type Kind int

const (
	KindInvalidRequest Kind = iota + 1
	KindLocationNotFound
	KindProviderUnavailable
	KindInvalidCredentials
	KindModelUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindInvalidRequest:
		return "InvalidRequest"
	case KindLocationNotFound:
		return "LocationNotFound"
	case KindProviderUnavailable:
		return "ProviderUnavailable"
	case KindInvalidCredentials:
		return "InvalidCredentials"
	case KindModelUnavailable:
		return "ModelUnavailable"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is a classified agent failure. Message is safe to show to users; Err
// holds the underlying cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the Kind from err. Unclassified errors report ModelUnavailable,
// the catch-all for upstream failures.
func KindOf(err error) Kind {
	var agentErr *Error
	if errors.As(err, &agentErr) {
		return agentErr.Kind
	}
	return KindModelUnavailable
}

// classifyWeatherError maps a weather provider error to an agent Error together
// with the sentence returned to the user in place of an answer.
func classifyWeatherError(location string, err error) *Error {
	switch {
	case errors.Is(err, weather.ErrLocationNotFound):
		return newError(KindLocationNotFound,
			fmt.Sprintf("Sorry, I couldn't find weather data for '%s'. Please check the spelling.", location), err)
	case errors.Is(err, weather.ErrInvalidCredentials):
		return newError(KindInvalidCredentials,
			"Sorry, the weather service is misconfigured on our side, so I can't look that up right now.", err)
	default:
		return newError(KindProviderUnavailable,
			"Sorry, I couldn't reach the weather service. Please try again later.", err)
	}
}
