package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tendant/nexuspoint/pkg/domain"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name            string
		email           string
		strict          bool
		blockDisposable bool
		wantErr         bool
	}{
		{name: "valid email", email: "test@example.com"},
		{name: "valid email with subdomain", email: "test@mail.example.com"},
		{name: "valid email with plus", email: "test+tag@example.com"},
		{name: "mixed case is normalized", email: "Owner@GoldenPadThai.co"},
		{name: "empty email", email: "", wantErr: true},
		{name: "invalid - no @", email: "invalid.com", wantErr: true},
		{name: "invalid - no domain", email: "test@", wantErr: true},
		{name: "invalid - no local part", email: "@example.com", wantErr: true},
		{name: "display name form rejected", email: "Somchai <somchai@example.com>", wantErr: true},
		{name: "too long", email: strings.Repeat("a", 250) + "@example.com", wantErr: true},
		{name: "disposable email - blocked", email: "test@tempmail.com", blockDisposable: true, wantErr: true},
		{name: "disposable email - allowed", email: "test@tempmail.com"},
		{name: "strict mode - valid", email: "test@example.com", strict: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email, tt.strict, tt.blockDisposable)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidEmail)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  string
	}{
		{name: "lowercase", email: "Test@Example.COM", want: "test@example.com"},
		{name: "trim spaces", email: "  test@example.com  ", want: "test@example.com"},
		{name: "both", email: "  Test@Example.COM  ", want: "test@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeEmail(tt.email))
		})
	}
}
