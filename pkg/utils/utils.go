// Package utils provides small shared helpers. All functions are pure,
// stateless and thread-safe.
package utils

import "strings"

// MaskEmail masks the local part of an email address for log output,
// keeping the first and last character:
//
//	MaskEmail("john@example.com") // "j**n@example.com"
//	MaskEmail("ab@example.com")   // "ab@example.com"
//
// Addresses without an @ or with a short local part are returned as is.
func MaskEmail(email string) string {
	at := strings.Index(email, "@")
	if at <= 2 {
		return email
	}
	local := email[:at]
	return local[:1] + strings.Repeat("*", len(local)-2) + local[len(local)-1:] + email[at:]
}
