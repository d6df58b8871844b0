package relay

import (
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalidRelayURL is returned if a new Entry has a malformed relayURL.
var ErrInvalidRelayURL = fmt.Errorf("invalid relay url")

// Entry is a single bundle endpoint of a builder.
type Entry struct {
	builder  Builder
	relayURL *url.URL
}

func (r Entry) String() string {
	return r.relayURL.String()
}

func (r Entry) Builder() Builder {
	return r.builder
}

// RelayURL returns a copy of the endpoint URL.
func (r Entry) RelayURL() *url.URL {
	u := *r.relayURL
	return &u
}

// NewRelayEntry creates a new instance based on an input string.
// relayURL can be host/path or a full http(s) URL; https is assumed if no scheme is given.
func NewRelayEntry(builder Builder, relayURL string) (Entry, error) {
	relayURL = strings.TrimSpace(relayURL)

	// Add protocol scheme prefix if it does not exist.
	if !strings.HasPrefix(relayURL, "http") {
		relayURL = "https://" + relayURL
	}

	parsedURL, err := url.ParseRequestURI(relayURL)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: %w: %s", ErrInvalidRelayURL, err, relayURL)
	}
	if parsedURL.Host == "" {
		return Entry{}, fmt.Errorf("%w: missing host: %s", ErrInvalidRelayURL, relayURL)
	}
	if parsedURL.User != nil {
		return Entry{}, fmt.Errorf("%w: credentials are not allowed in relay urls: %s", ErrInvalidRelayURL, parsedURL.Redacted())
	}

	return Entry{
		builder:  builder,
		relayURL: parsedURL,
	}, nil
}
