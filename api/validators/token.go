package validators

import (
	"errors"
	"strings"
)

var ErrMissingBearerToken = errors.New("missing bearer token")

// ExtractBearerToken pulls the raw JWT out of an Authorization header value.
func ExtractBearerToken(raw string) (string, error) {
	token := strings.TrimSpace(raw)
	if token == "" {
		return "", ErrMissingBearerToken
	}
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	if token == "" {
		return "", ErrMissingBearerToken
	}
	return token, nil
}
