package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func newTestTokenService(t *testing.T, opts ...TokenOption) *TokenService {
	t.Helper()
	svc, err := NewTokenService("test-secret", opts...)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return svc
}

func TestIssueAndVerifyAccess(t *testing.T) {
	svc := newTestTokenService(t)

	token, err := svc.IssueAccess("user-1", RoleResponder)
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Fatalf("unexpected subject: %s", claims.Subject)
	}
	if claims.Role != RoleResponder {
		t.Fatalf("unexpected role claim: %s", claims.Role)
	}
}

func TestRefreshTokenOmitsRole(t *testing.T) {
	svc := newTestTokenService(t)

	token, err := svc.IssueRefresh("user-1")
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}
	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Role != "" {
		t.Fatalf("refresh token must not carry a role, got %q", claims.Role)
	}
}

func TestVerifyExpiredVsInvalid(t *testing.T) {
	now := time.Now().UTC()
	svc := newTestTokenService(t, WithAccessTTL(time.Minute), WithClock(func() time.Time { return now }))

	token, err := svc.IssueAccess("user-1", RoleCitizen)
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}

	// Fast-forward past expiry: must be ErrTokenExpired, not ErrTokenInvalid.
	now = now.Add(2 * time.Minute)
	if _, err := svc.Verify(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}

	now = now.Add(-2 * time.Minute)
	if _, err := svc.Verify(token + "x"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for tampered token, got %v", err)
	}
	if _, err := svc.Verify("not-a-token"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for garbage, got %v", err)
	}
	if _, err := svc.Verify("   "); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for blank input, got %v", err)
	}
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	svc := newTestTokenService(t)
	other, err := NewTokenService("other-secret")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	token, err := other.IssueAccess("user-1", RoleCitizen)
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	if _, err := svc.Verify(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid across secrets, got %v", err)
	}
}

func TestVerifyRejectsUnexpectedAlgorithm(t *testing.T) {
	svc := newTestTokenService(t)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Issuer:    "crisisgrid",
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := svc.Verify(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for alg=none, got %v", err)
	}
}

func TestNewTokenServiceRequiresSecret(t *testing.T) {
	if _, err := NewTokenService("   "); err == nil {
		t.Fatal("expected error for blank secret")
	}
}

func TestIssueRequiresSubject(t *testing.T) {
	svc := newTestTokenService(t)
	if _, err := svc.IssueAccess("  ", RoleCitizen); err == nil || !strings.Contains(err.Error(), "subject") {
		t.Fatalf("expected subject error, got %v", err)
	}
}
