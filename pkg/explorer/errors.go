package explorer

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindNetwork ErrorKind = "network_error"
	KindTimeout ErrorKind = "timeout"
	KindHTTP    ErrorKind = "http_error"
	KindParse   ErrorKind = "parse_error"
	KindHTML    ErrorKind = "html_response"
)

// FetchError is returned for every failed explorer request.
type FetchError struct {
	Kind    ErrorKind
	URL     string
	Status  int    // KindHTTP
	Preview string // KindHTML, first 100 bytes of the body
	Err     error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case KindHTTP:
		return fmt.Sprintf("HTTP %d from %s", e.Status, e.URL)
	case KindHTML:
		return fmt.Sprintf("HTML response from %s: %q", e.URL, e.Preview)
	case KindTimeout:
		return fmt.Sprintf("request timeout: %s", e.URL)
	case KindParse:
		return fmt.Sprintf("JSON parse failed: %v", e.Err)
	default:
		return fmt.Sprintf("request %s: %v", e.URL, e.Err)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsKind reports whether err is a *FetchError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == kind
}

// KindOf returns the kind of a *FetchError, or KindNetwork for anything else.
func KindOf(err error) ErrorKind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindNetwork
}
