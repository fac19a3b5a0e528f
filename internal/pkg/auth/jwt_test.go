package auth_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/skillkhoj/backend/internal/pkg/auth"
)

func newService(now time.Time) *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SecretKey:   "test-secret",
		TokenExp:    3 * time.Hour,
		TokenIssuer: "skillkhoj.test",
	}).WithClock(func() time.Time { return now })
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	issued := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	token, err := newService(issued).Issue("user-1", "Student")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	claims, err := newService(issued.Add(2*time.Hour + 59*time.Minute)).Verify(token)
	if err != nil {
		t.Fatalf("Verify within lifetime returned error: %v", err)
	}
	if claims.UserID != "user-1" || claims.Role != "Student" {
		t.Errorf("claims = {%s %s}, want {user-1 Student}", claims.UserID, claims.Role)
	}
	if claims.Issuer != "skillkhoj.test" {
		t.Errorf("issuer = %q, want skillkhoj.test", claims.Issuer)
	}
}

func TestVerify_Expired(t *testing.T) {
	issued := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	token, err := newService(issued).Issue("user-1", "Recruiter")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	_, err = newService(issued.Add(3*time.Hour + time.Second)).Verify(token)
	if !errors.Is(err, auth.ErrExpiredToken) {
		t.Fatalf("Verify after 3h error = %v, want ErrExpiredToken", err)
	}
	if !errors.Is(err, auth.ErrInvalidToken) {
		t.Error("expired token error should also match ErrInvalidToken")
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	now := time.Now()
	token, err := newService(now).Issue("user-1", "Admin")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	other := auth.NewJWTService(auth.JWTConfig{SecretKey: "another-secret"})
	if _, err := other.Verify(token); !errors.Is(err, auth.ErrInvalidToken) {
		t.Errorf("Verify with wrong secret error = %v, want ErrInvalidToken", err)
	}
}

func TestVerify_Malformed(t *testing.T) {
	svc := newService(time.Now())
	for _, token := range []string{"", "   ", "abc", "a.b.c"} {
		if _, err := svc.Verify(token); !errors.Is(err, auth.ErrInvalidToken) {
			t.Errorf("Verify(%q) error = %v, want ErrInvalidToken", token, err)
		}
	}
}

func TestVerify_TamperedPayload(t *testing.T) {
	now := time.Now()
	svc := newService(now)
	token, err := svc.Issue("user-1", "Student")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	parts := strings.Split(token, ".")
	other, _ := svc.Issue("user-2", "Admin")
	forged := parts[0] + "." + strings.Split(other, ".")[1] + "." + parts[2]

	if _, err := svc.Verify(forged); !errors.Is(err, auth.ErrInvalidToken) {
		t.Errorf("Verify(forged) error = %v, want ErrInvalidToken", err)
	}
}

func TestIssue_RequiresIdentity(t *testing.T) {
	svc := newService(time.Now())
	if _, err := svc.Issue("", "Student"); err == nil {
		t.Error("Issue with empty identity should fail")
	}
	if _, err := svc.Issue("user-1", ""); err == nil {
		t.Error("Issue with empty role should fail")
	}
}

func TestNewJWTService_DefaultExpiration(t *testing.T) {
	svc := auth.NewJWTService(auth.JWTConfig{SecretKey: "s"})
	if svc.Expiration() != auth.DefaultTokenExpiration {
		t.Errorf("Expiration() = %v, want %v", svc.Expiration(), auth.DefaultTokenExpiration)
	}
}

func TestExtractBearerToken(t *testing.T) {
	cases := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", false},
		{"Bearer", "", true},
		{"Bearer   ", "", true},
		{"Token abc", "", true},
		{"", "", true},
	}
	for _, c := range cases {
		got, err := auth.ExtractBearerToken(c.header)
		if c.wantErr {
			if err == nil {
				t.Errorf("ExtractBearerToken(%q) expected error, got %q", c.header, got)
			}
			continue
		}
		if err != nil || got != c.want {
			t.Errorf("ExtractBearerToken(%q) = %q, %v; want %q", c.header, got, err, c.want)
		}
	}
}

func TestHasher(t *testing.T) {
	h := auth.NewHasher(4)
	hash, err := h.Hash("pw123456")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if hash == "pw123456" {
		t.Fatal("Hash returned the plaintext")
	}
	if !h.Check(hash, "pw123456") {
		t.Error("Check rejected the right password")
	}
	if h.Check(hash, "wrong-password") {
		t.Error("Check accepted a wrong password")
	}
}
