package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"
)

func protectedEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, ok := UserID(r.Context())
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("X-User", strconv.FormatInt(uid, 10))
		w.WriteHeader(http.StatusOK)
	})
}

func TestIssueAndParse(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	raw, err := tokens.Issue(42)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	uid, err := tokens.Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if uid != 42 {
		t.Errorf("uid = %d, want 42", uid)
	}
}

func TestParseRejectsWrongSecretAndExpiry(t *testing.T) {
	issuer := NewTokens("secret", time.Hour)
	raw, err := issuer.Issue(7)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := NewTokens("other", time.Hour).Parse(raw); err == nil {
		t.Error("expected signature error")
	}

	later := NewTokens("secret", time.Hour)
	later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := later.Parse(raw); err == nil {
		t.Error("expected expiry error")
	}
}

func TestAuthMiddleware(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	valid, _ := tokens.Issue(5)
	handler := Auth(tokens)(protectedEcho())

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage", "Bearer not-a-token", http.StatusUnauthorized},
		{"valid", "Bearer " + valid, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/points", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.want == http.StatusOK && rec.Header().Get("X-User") != "5" {
				t.Errorf("user header = %q", rec.Header().Get("X-User"))
			}
		})
	}
}
