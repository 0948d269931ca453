package validate

import "regexp"

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,50}$`)
	emailRe    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

func IsUsername(s string) bool {
	return usernameRe.MatchString(s)
}

func IsEmail(s string) bool {
	return len(s) <= 254 && emailRe.MatchString(s)
}

// IsPassword enforces the minimum secret length; complexity rules live with
// the clients, not here.
func IsPassword(s string) bool {
	return len(s) >= 8
}
