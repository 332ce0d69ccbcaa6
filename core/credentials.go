package core

import "context"

// CredentialProvider supplies the bearer credential attached to remote calls.
// The core never reads ambient global state; callers inject a provider.
type CredentialProvider interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a CredentialProvider backed by a fixed string. An empty
// token means unauthenticated requests.
type StaticToken string

func (t StaticToken) Token(ctx context.Context) (string, error) {
	return string(t), nil
}
