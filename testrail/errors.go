package testrail

import (
	"errors"
	"fmt"
)

// FetchError describes failed request: transport error, timeout or
// unsuccessful HTTP status.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("unable to fetch %s: http status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("unable to fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsFetchError reports whether err has FetchError in its chain.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}
