package auth

import (
	"context"
	"testing"
	"time"

	"vestiaire/internal/config"
)

type fakeBlacklist struct {
	revoked map[string]bool
	err     error
}

func (b *fakeBlacklist) Add(ctx context.Context, jti string, exp time.Time) error {
	if b.revoked == nil {
		b.revoked = make(map[string]bool)
	}
	b.revoked[jti] = true
	return nil
}

func (b *fakeBlacklist) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	if b.err != nil {
		return false, b.err
	}
	return b.revoked[jti], nil
}

var testAuthCfg = config.AuthConfig{
	JWTSecretKey: "unit-test-secret",
	JWTExpiry:    time.Hour,
}

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken(7, "antoine", testAuthCfg)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	claims, err := ValidateToken(context.Background(), token, testAuthCfg.JWTSecretKey, nil)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.UserID != 7 || claims.Username != "antoine" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.ID == "" {
		t.Fatal("expected a jti claim")
	}
}

func TestValidateTokenWrongKey(t *testing.T) {
	token, err := GenerateToken(7, "antoine", testAuthCfg)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := ValidateToken(context.Background(), token, "another-secret", nil); err == nil {
		t.Fatal("expected validation to fail with the wrong key")
	}
}

func TestValidateTokenRevoked(t *testing.T) {
	token, err := GenerateToken(7, "antoine", testAuthCfg)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	blacklist := &fakeBlacklist{}
	claims, err := ValidateToken(context.Background(), token, testAuthCfg.JWTSecretKey, blacklist)
	if err != nil {
		t.Fatalf("ValidateToken failed before revocation: %v", err)
	}

	if err := blacklist.Add(context.Background(), claims.ID, claims.ExpiresAt.Time); err != nil {
		t.Fatalf("blacklist add failed: %v", err)
	}

	if _, err := ValidateToken(context.Background(), token, testAuthCfg.JWTSecretKey, blacklist); err == nil {
		t.Fatal("expected revoked token to be rejected")
	}
}

func TestValidateTokenBlacklistUnavailableFailsClosed(t *testing.T) {
	token, err := GenerateToken(7, "antoine", testAuthCfg)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	blacklist := &fakeBlacklist{err: context.DeadlineExceeded}
	if _, err := ValidateToken(context.Background(), token, testAuthCfg.JWTSecretKey, blacklist); err == nil {
		t.Fatal("expected validation to fail when the blacklist is unreadable")
	}
}
