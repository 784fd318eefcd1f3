package httpcache

import (
	"fmt"
)

// Response is the result of a successful fetch, either from the network or
// from the cache. It is never mutated after being returned.
type Response struct {
	// URL is the url that was requested.
	URL         string
	StatusCode  int
	ContentType string
	Body        []byte
	FromCache   bool
}

// Text returns the body as a string.
func (r *Response) Text() string {
	return string(r.Body)
}

// StatusError is returned when the server responds with a non-2xx status.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %s", e.URL, e.Status)
}
