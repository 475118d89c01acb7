package http

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
)

var (
	// ErrAuthHeaderMissing is returned when the request has no Authorization header.
	ErrAuthHeaderMissing = errors.New("authorization header missing")
	// ErrAuthHeaderMalformed is returned when the Authorization header is not
	// valid basic auth.
	ErrAuthHeaderMalformed = errors.New("authorization header malformed")
	// ErrCredentialsUnbound is returned when a handler asks for credentials
	// that no filter has bound.
	ErrCredentialsUnbound = errors.New("credentials not bound")
)

// Credentials is a basic auth user and password pair.
type Credentials struct {
	User     string
	Password string
}

// BindCredentials extracts basic auth credentials from r and stores them on
// the request's RequestContext. Once bound, later calls for the same request
// return the stored value without looking at the header again.
func BindCredentials(r *http.Request) (Credentials, error) {
	rc := RequestContextFrom(r.Context())
	if rc != nil && rc.credentials != nil {
		return *rc.credentials, nil
	}

	creds, err := parseBasicAuth(r.Header.Get("Authorization"))
	if err != nil {
		return Credentials{}, err
	}

	if rc != nil {
		rc.credentials = &creds
	}
	return creds, nil
}

// CredentialsFrom returns the credentials bound for the request carrying ctx.
func CredentialsFrom(ctx context.Context) (Credentials, bool) {
	rc := RequestContextFrom(ctx)
	if rc == nil || rc.credentials == nil {
		return Credentials{}, false
	}
	return *rc.credentials, true
}

// MustCredentials is CredentialsFrom for handlers mounted behind BasicAuth.
func MustCredentials(ctx context.Context) (Credentials, error) {
	creds, ok := CredentialsFrom(ctx)
	if !ok {
		return Credentials{}, ErrCredentialsUnbound
	}
	return creds, nil
}

func parseBasicAuth(header string) (Credentials, error) {
	if header == "" {
		return Credentials{}, ErrAuthHeaderMissing
	}

	const prefix = "basic "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return Credentials{}, ErrAuthHeaderMalformed
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(header[len(prefix):]))
	if err != nil {
		return Credentials{}, ErrAuthHeaderMalformed
	}

	user, password, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return Credentials{}, ErrAuthHeaderMalformed
	}

	return Credentials{User: user, Password: password}, nil
}
