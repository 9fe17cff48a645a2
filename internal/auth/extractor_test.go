package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mehmetcc/bearer/internal/config"
	"github.com/mehmetcc/bearer/internal/token"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

var issuedAt = time.Unix(1_700_000_000, 0)

func newTokens(t *testing.T, at time.Time) token.TokenService {
	t.Helper()
	s, err := token.NewTokenService(zap.NewNop(),
		&config.JWTConfig{Secret: []byte("extractor-test-secret"), TTL: time.Hour},
		token.WithClock(func() time.Time { return at }))
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return s
}

func mustIssue(t *testing.T, s token.TokenService, id int64) string {
	t.Helper()
	bearer, err := s.Issue(id)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return bearer
}

func requestWith(header *string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/info", nil)
	if header != nil {
		r.Header.Set("Authorization", *header)
	}
	return r
}

func ptr(s string) *string { return &s }

// tamper changes the first character of the signature segment.
func tamper(bearer string) string {
	i := strings.LastIndex(bearer, ".") + 1
	c := byte('A')
	if bearer[i] == 'A' {
		c = 'B'
	}
	return bearer[:i] + string(c) + bearer[i+1:]
}

func TestParseBearer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{name: "valid", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "empty", header: "", wantErr: true},
		{name: "prefix only", header: "Bearer ", wantErr: true},
		{name: "prefix and spaces", header: "Bearer    ", wantErr: true},
		{name: "no prefix", header: "abc.def.ghi", wantErr: true},
		{name: "lower case scheme", header: "bearer abc", wantErr: true},
		{name: "other scheme", header: "Basic dXNlcjpwYXNz", wantErr: true},
		{name: "prefix not leading", header: "Token Bearer abc", wantErr: true},
		{name: "missing space", header: "Bearerabc", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseBearer(tt.header)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedToken) {
					t.Fatalf("ParseBearer(%q) error = %v, want ErrMalformedToken", tt.header, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseBearer(%q): %v", tt.header, err)
			}
			if got != tt.want {
				t.Errorf("ParseBearer(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}

func TestExtract(t *testing.T) {
	t.Parallel()

	tokens := newTokens(t, issuedAt)
	valid := mustIssue(t, tokens, 42)
	expired := mustIssue(t, newTokens(t, issuedAt.Add(-2*time.Hour)), 42)
	ex := NewExtractor(tokens, zaptest.NewLogger(t))

	tests := []struct {
		name    string
		header  *string
		wantID  int64
		wantErr []error
	}{
		{name: "valid", header: ptr(valid), wantID: 42},
		{name: "missing header", header: nil, wantErr: []error{ErrMissingCredential}},
		{name: "empty header", header: ptr(""), wantErr: []error{ErrInvalidToken, ErrMalformedToken}},
		{name: "no bearer prefix", header: ptr(valid[len("Bearer "):]), wantErr: []error{ErrInvalidToken, ErrMalformedToken}},
		{name: "garbage token", header: ptr("Bearer not-a-token"), wantErr: []error{ErrInvalidToken, token.ErrMalformed}},
		{name: "expired token", header: ptr(expired), wantErr: []error{ErrInvalidToken, token.ErrExpired}},
		{name: "tampered signature", header: ptr(tamper(valid)), wantErr: []error{ErrInvalidToken, token.ErrBadSignature}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			id, err := ex.Extract(requestWith(tt.header))
			if len(tt.wantErr) == 0 {
				if err != nil {
					t.Fatalf("Extract: %v", err)
				}
				if id.ID != tt.wantID {
					t.Errorf("ID = %d, want %d", id.ID, tt.wantID)
				}
				return
			}
			for _, want := range tt.wantErr {
				if !errors.Is(err, want) {
					t.Errorf("Extract error = %v, want it to match %v", err, want)
				}
			}
		})
	}
}

func TestExtractOptional(t *testing.T) {
	t.Parallel()

	tokens := newTokens(t, issuedAt)
	ex := NewExtractor(tokens, zaptest.NewLogger(t))

	t.Run("no header", func(t *testing.T) {
		t.Parallel()
		id, err := ex.ExtractOptional(requestWith(nil))
		if err != nil || id != nil {
			t.Fatalf("ExtractOptional = %v, %v; want nil, nil", id, err)
		}
	})

	t.Run("valid header", func(t *testing.T) {
		t.Parallel()
		id, err := ex.ExtractOptional(requestWith(ptr(mustIssue(t, tokens, 7))))
		if err != nil {
			t.Fatalf("ExtractOptional: %v", err)
		}
		if id == nil || id.ID != 7 {
			t.Fatalf("identity = %+v, want ID 7", id)
		}
	})

	t.Run("invalid header is still rejected", func(t *testing.T) {
		t.Parallel()
		id, err := ex.ExtractOptional(requestWith(ptr("Bearer x.y.z")))
		if !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("error = %v, want ErrInvalidToken", err)
		}
		if id != nil {
			t.Errorf("identity = %+v, want nil", id)
		}
	})
}
