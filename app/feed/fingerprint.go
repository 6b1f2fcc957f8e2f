package feed

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// NormalizeLink trims and lowercases the link and drops the query string and
// fragment.
func NormalizeLink(link string) string {
	link = strings.ToLower(strings.TrimSpace(link))
	if i := strings.IndexAny(link, "?#"); i >= 0 {
		link = link[:i]
	}
	return link
}

// Fingerprint is the hex md5 of the normalized link.
func Fingerprint(link string) string {
	sum := md5.Sum([]byte(NormalizeLink(link)))
	return hex.EncodeToString(sum[:])
}
