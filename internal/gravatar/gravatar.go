// Package gravatar maps email addresses to Gravatar image URLs.
package gravatar

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
)

const baseURL = "http://www.gravatar.com/avatar/"

// URL returns the avatar URL for email at size pixels. Users without a
// Gravatar get the "mystery man" placeholder (d=mm).
func URL(email string, size int) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return fmt.Sprintf("%s%s?d=mm&s=%d", baseURL, hex.EncodeToString(sum[:]), size)
}
