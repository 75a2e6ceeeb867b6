package core

import (
	"context"

	"github.com/git-pkgs/updatecheck/client"
)

// Type aliases so repository implementations only import core.
type (
	URLBuilder = client.URLBuilder
	BaseURLs   = client.BaseURLs
)

// DefaultClient aliases client.DefaultClient.
var DefaultClient = client.DefaultClient

// Transport fetches the bytes at a location. *client.Client satisfies it;
// tests substitute fakes.
type Transport interface {
	GetBody(ctx context.Context, url string) ([]byte, error)
}

var _ Transport = (*client.Client)(nil)
