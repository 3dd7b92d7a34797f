// Package keyutil validates the names users type on the command line:
// issue keys, attribute keys and logins.
package keyutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/issuekit/issuekit/pkg/errclass"
)

var (
	issueKeyRegex     = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	attributeKeyRegex = regexp.MustCompile(`^[\p{L}\p{N}._:-]+$`)
)

// ValidateIssueKey checks that key is safe to use as a file name.
func ValidateIssueKey(key string) error {
	if key == "" {
		return errclass.ErrNameInvalid.WithMessage("issue key must not be empty")
	}
	if !issueKeyRegex.MatchString(key) {
		return errclass.ErrNameInvalid.WithMessagef("issue key must match [a-zA-Z0-9_-]+: %q", key)
	}
	return nil
}

// NormalizeAttributeKey returns the NFC form of an attribute key, or an
// error when the key is empty or contains anything but letters, digits and
// "._:-".
func NormalizeAttributeKey(key string) (string, error) {
	key = norm.NFC.String(strings.TrimSpace(key))
	if key == "" {
		return "", errclass.ErrNameInvalid.WithMessage("attribute key must not be empty")
	}
	if !attributeKeyRegex.MatchString(key) {
		return "", errclass.ErrNameInvalid.WithMessagef("attribute key contains invalid characters: %q", key)
	}
	return key, nil
}

// NormalizeLogin returns the NFC form of a login. An empty login is allowed
// and means "nobody".
func NormalizeLogin(login string) (string, error) {
	login = norm.NFC.String(strings.TrimSpace(login))
	for _, r := range login {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return "", errclass.ErrNameInvalid.WithMessagef("login must not contain spaces or control characters: %q", login)
		}
	}
	return login, nil
}
