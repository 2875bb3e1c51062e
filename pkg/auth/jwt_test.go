package auth

import (
	"errors"
	"testing"
	"time"

	"ambulink/pkg/model"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "0123456789abcdef0123"

func TestIssueAndParse(t *testing.T) {
	token, err := Issue(testSecret, "65f0c0ffee0000000000abcd", model.RoleDriver, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := Parse(testSecret, token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	caller := claims.Caller()
	if caller.UserID != "65f0c0ffee0000000000abcd" || caller.Role != model.RoleDriver {
		t.Errorf("unexpected caller: %+v", caller)
	}
	if caller.IsAdmin() {
		t.Error("driver should not be admin")
	}
}

func TestParse_Rejects(t *testing.T) {
	valid, err := Issue(testSecret, "u1", model.RoleUser, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	expired, err := Issue(testSecret, "u1", model.RoleUser, -time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserID: "u1",
		Role:   model.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}

	tests := []struct {
		name    string
		secret  string
		token   string
		wantErr error
	}{
		{"empty token", testSecret, "", ErrMissingToken},
		{"wrong secret", "another-secret-value-xx", valid, ErrInvalidToken},
		{"expired", testSecret, expired, ErrInvalidToken},
		{"alg none", testSecret, unsigned, ErrInvalidToken},
		{"garbage", testSecret, "not.a.jwt", ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.secret, tt.token)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Parse() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestIssue_UnknownRole(t *testing.T) {
	if _, err := Issue(testSecret, "u1", "superuser", time.Hour); !errors.Is(err, ErrInvalidRole) {
		t.Errorf("Issue() error = %v, want ErrInvalidRole", err)
	}
}
