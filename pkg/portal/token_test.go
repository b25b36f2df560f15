package portal

import (
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"
)

// fakeToken builds a structurally valid, unsigned JWT. ParseUnverified
// never checks the signature, so "sig" is fine.
func fakeToken(t *testing.T, claims map[string]any) string {
	t.Helper()
	enc := func(v any) string {
		raw, err := json.Marshal(v)
		if err != nil {
			t.Fatal(err)
		}
		return base64.RawURLEncoding.EncodeToString(raw)
	}
	header := map[string]string{"alg": "HS256", "typ": "JWT"}
	return enc(header) + "." + enc(claims) + "." + base64.RawURLEncoding.EncodeToString([]byte("sig"))
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	token := fakeToken(t, map[string]any{"sub": "user-1", "exp": exp.Unix()})

	got, err := TokenExpiry(token)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(exp) {
		t.Errorf("expiry = %s, want %s", got, exp)
	}
}

func TestTokenExpiryMissingClaim(t *testing.T) {
	token := fakeToken(t, map[string]any{"sub": "user-1"})
	if _, err := TokenExpiry(token); err == nil {
		t.Error("expected error for token without exp")
	}
}

func TestTokenExpiresWithin(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"expires tomorrow, one-day horizon", fakeToken(t, map[string]any{"exp": now.Add(12 * time.Hour).Unix()}), true},
		{"expires next week", fakeToken(t, map[string]any{"exp": now.Add(7 * 24 * time.Hour).Unix()}), false},
		{"garbage token", "not-a-jwt", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TokenExpiresWithin(tt.token, now, 24*time.Hour); got != tt.want {
				t.Errorf("TokenExpiresWithin = %v, want %v", got, tt.want)
			}
		})
	}
}
