package services

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	customerrors "github.com/axellelanca/linkbio/internal/errors"
)

const (
	maxTitleLen       = 120
	maxIconRunes      = 8
	maxBioLen         = 500
	minPasswordLen    = 8
	maxDomainNameLen  = 253
	maxDescriptionLen = 1000
)

var (
	usernameRe = regexp.MustCompile(`^[a-z0-9_.-]{3,30}$`)
	// hostname labels, at least one dot, no scheme or path
	domainNameRe = regexp.MustCompile(`^(?:[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?\.)+[a-z][a-z0-9-]{1,62}$`)
)

// reservedUsernames collide with top-level routes.
var reservedUsernames = map[string]struct{}{
	"api":     {},
	"health":  {},
	"metrics": {},
	"avatars": {},
	"l":       {},
	"d":       {},
}

// ValidateURL requires an absolute http(s) URL with a host.
func ValidateURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return customerrors.ErrInvalidURL
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return customerrors.ErrInvalidURL
	}
	if strings.TrimSpace(u.Host) == "" {
		return customerrors.ErrInvalidURL
	}
	return nil
}

// NormalizeUsername lowercases and validates a username.
func NormalizeUsername(raw string) (string, error) {
	username := strings.ToLower(strings.TrimSpace(raw))
	if !usernameRe.MatchString(username) {
		return "", customerrors.ValidationError{Field: "username", Reason: "must be 3-30 characters of a-z, 0-9, '_', '.', '-'"}
	}
	if _, ok := reservedUsernames[username]; ok {
		return "", customerrors.ValidationError{Field: "username", Reason: "is reserved"}
	}
	return username, nil
}

// NormalizeDomainName lowercases and validates a bare domain name such as "example.io".
func NormalizeDomainName(raw string) (string, error) {
	name := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(raw)), ".")
	if len(name) == 0 || len(name) > maxDomainNameLen || !domainNameRe.MatchString(name) {
		return "", customerrors.ValidationError{Field: "domain_name", Reason: fmt.Sprintf("%q is not a domain name", raw)}
	}
	return name, nil
}

func requireText(field, value string, maxLen int) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", customerrors.ValidationError{Field: field, Reason: "is required"}
	}
	if utf8.RuneCountInString(value) > maxLen {
		return "", customerrors.ValidationError{Field: field, Reason: fmt.Sprintf("must be at most %d characters", maxLen)}
	}
	return value, nil
}

// optionalText trims value and returns nil for an empty string.
func optionalText(field, value string, maxLen int) (*string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(value) > maxLen {
		return nil, customerrors.ValidationError{Field: field, Reason: fmt.Sprintf("must be at most %d characters", maxLen)}
	}
	return &value, nil
}

// optionalURL returns nil for an empty string and validates anything else.
func optionalURL(value string) (*string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if err := ValidateURL(value); err != nil {
		return nil, err
	}
	return &value, nil
}
