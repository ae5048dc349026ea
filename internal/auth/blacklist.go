package auth

import (
	"context"
	"time"
)

// TokenBlacklist records revoked JWT IDs until their natural expiry.
// The interface lives here so auth does not depend on the redis package.
type TokenBlacklist interface {
	// Add revokes the given jti. originalTokenExpTime bounds how long the
	// entry needs to be kept.
	Add(ctx context.Context, jti string, originalTokenExpTime time.Time) error

	// IsBlacklisted reports whether the jti has been revoked.
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}
