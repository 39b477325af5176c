package crypto

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

var commonPasswords = map[string]struct{}{
	"password": {}, "password1": {}, "password123": {}, "12345678": {}, "123456789": {},
	"1234567890": {}, "qwerty123": {}, "qwertyuiop": {}, "11111111": {}, "iloveyou": {},
	"sunshine1": {}, "football": {}, "baseball": {}, "welcome1": {}, "admin123": {},
	"letmein1": {}, "passw0rd": {}, "abc12345": {}, "princess": {}, "trustno1": {},
}

// CheckPassword returns the policy violations of password; nil means acceptable.
// email is used to reject passwords equal to the mailbox name.
func CheckPassword(password, email string) []string {
	var problems []string

	if utf8.RuneCountInString(password) < MinPasswordLength {
		problems = append(problems, "This password is too short. It must contain at least 8 characters.")
	}
	if password != "" && strings.IndexFunc(password, func(r rune) bool { return !unicode.IsDigit(r) }) < 0 {
		problems = append(problems, "This password is entirely numeric.")
	}
	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		problems = append(problems, "This password is too common.")
	}
	if local, _, ok := strings.Cut(email, "@"); ok && local != "" && strings.EqualFold(local, password) {
		problems = append(problems, "The password is too similar to the email.")
	}

	return problems
}
