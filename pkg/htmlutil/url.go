package htmlutil

import (
	"fmt"
	"net/url"
)

// ResolveHref resolves `href` as found on the page at `base` into an
// absolute url.
func ResolveHref(base, href string) (string, error) {
	baseUrl, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base url %q: %w", base, err)
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("invalid href %q: %w", href, err)
	}
	return baseUrl.ResolveReference(ref).String(), nil
}
