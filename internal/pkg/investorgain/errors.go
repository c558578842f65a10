package investorgain

import (
	"errors"
	"fmt"
)

type FetchErrorKind string

const (
	KindTransport FetchErrorKind = "transport"
	KindTimeout   FetchErrorKind = "timeout"
	KindStatus    FetchErrorKind = "status"
	KindRead      FetchErrorKind = "read"
)

var (
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrBodyTooLarge     = errors.New("response body too large")
)

// FetchError is returned by Client.Fetch for every failed attempt.
type FetchError struct {
	Kind       FetchErrorKind
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Kind == KindStatus {
		return fmt.Sprintf("investorgain %s: %s %d", e.Kind, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("investorgain %s: %s: %v", e.Kind, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Timeout() bool { return e.Kind == KindTimeout }

// Parse failures. None of them leave the package through Extract; Parse
// returns them so callers can log why a page produced no rows.
var (
	ErrMalformedMarkup   = errors.New("malformed markup")
	ErrTableNotFound     = errors.New("gmp table not found")
	ErrNoHeader          = errors.New("gmp table has no header row")
	ErrNameColumnMissing = errors.New("gmp table has no IPO column")
	ErrColumnMismatch    = errors.New("row has more cells than the header")
)
