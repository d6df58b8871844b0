package types

import (
	"errors"
	"fmt"
	"time"
)

// Outcome is the result of one request to one endpoint.
type Outcome struct {
	Builder    string
	URL        string
	Succeeded  bool
	StatusCode int
	// Result is the bundle hash or transaction hash, if the endpoint returned one.
	Result string
	// Response holds the raw response body, truncated.
	Response string
	Err      error
	Duration time.Duration
}

func (o Outcome) String() string {
	if o.Succeeded {
		return fmt.Sprintf("%s: ok %s", o.URL, o.Result)
	}
	return fmt.Sprintf("%s: failed: %v", o.URL, o.Err)
}

// Outcomes is the per-endpoint result of a broadcast, in dispatch order.
type Outcomes []Outcome

// Succeeded returns the outcomes of the endpoints that accepted the request.
func (o Outcomes) Succeeded() Outcomes {
	var out Outcomes
	for _, outcome := range o {
		if outcome.Succeeded {
			out = append(out, outcome)
		}
	}
	return out
}

// Failed returns the outcomes of the endpoints that did not accept the request.
func (o Outcomes) Failed() Outcomes {
	var out Outcomes
	for _, outcome := range o {
		if !outcome.Succeeded {
			out = append(out, outcome)
		}
	}
	return out
}

// AnySucceeded reports whether at least one endpoint accepted the request.
func (o Outcomes) AnySucceeded() bool {
	for _, outcome := range o {
		if outcome.Succeeded {
			return true
		}
	}
	return false
}

// Err joins the errors of all failed endpoints, or returns nil if none failed.
func (o Outcomes) Err() error {
	var errs []error
	for _, outcome := range o.Failed() {
		errs = append(errs, fmt.Errorf("%s: %w", outcome.URL, outcome.Err))
	}
	return errors.Join(errs...)
}
