package auth

import "strings"

// NormalizeEmail lowercases the domain portion of an email address. The
// local part is left untouched since it is case-sensitive per RFC 5321.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}
