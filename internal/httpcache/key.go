package httpcache

import (
	"github.com/PuerkitoBio/purell"
)

const keyFlags = purell.FlagsSafe |
	purell.FlagRemoveFragment |
	purell.FlagRemoveDuplicateSlashes |
	purell.FlagSortQuery

// key normalizes a url so that equivalent links share a cache entry,
// "https://Docs.python.org:443/3/whatsnew/3.12.html#summary" and
// "https://docs.python.org/3/whatsnew/3.12.html" map to the same key.
func key(link string) (string, error) {
	return purell.NormalizeURLString(link, keyFlags)
}
