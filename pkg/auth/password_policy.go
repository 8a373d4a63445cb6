package auth

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/tendant/nexuspoint/internal/config"
	"github.com/tendant/nexuspoint/pkg/domain"
)

// PasswordPolicy is the set of rules a new password must satisfy. The zero
// value accepts any non-empty password.
type PasswordPolicy struct {
	MinLength        int
	RequireUppercase bool
	RequireLowercase bool
	RequireNumber    bool
	RequireSpecial   bool
}

func NewPasswordPolicy(cfg config.PasswordPolicyConfig) *PasswordPolicy {
	return &PasswordPolicy{
		MinLength:        cfg.MinLength,
		RequireUppercase: cfg.RequireUppercase,
		RequireLowercase: cfg.RequireLowercase,
		RequireNumber:    cfg.RequireNumber,
		RequireSpecial:   cfg.RequireSpecial,
	}
}

// charClass is one "must contain" rule.
type charClass struct {
	label string
	match func(rune) bool
}

var (
	upperClass   = charClass{"an uppercase letter", unicode.IsUpper}
	lowerClass   = charClass{"a lowercase letter", unicode.IsLower}
	digitClass   = charClass{"a number", unicode.IsDigit}
	specialClass = charClass{"a special character", func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r)
	}}
)

func (p *PasswordPolicy) classes() []charClass {
	var out []charClass
	if p.RequireUppercase {
		out = append(out, upperClass)
	}
	if p.RequireLowercase {
		out = append(out, lowerClass)
	}
	if p.RequireNumber {
		out = append(out, digitClass)
	}
	if p.RequireSpecial {
		out = append(out, specialClass)
	}
	return out
}

// ValidatePassword reports the first rule the password breaks, wrapped in
// domain.ErrWeakPassword. Length is counted in bytes.
func (p *PasswordPolicy) ValidatePassword(password string) error {
	if p.MinLength > 0 && len(password) < p.MinLength {
		return fmt.Errorf("%w: must be at least %d characters", domain.ErrWeakPassword, p.MinLength)
	}
	for _, c := range p.classes() {
		if strings.IndexFunc(password, c.match) < 0 {
			return fmt.Errorf("%w: must contain %s", domain.ErrWeakPassword, c.label)
		}
	}
	return nil
}

// Describe renders the policy for sign-up forms, e.g.
// "At least 8 characters, including a number".
func (p *PasswordPolicy) Describe() string {
	classes := p.classes()
	if p.MinLength <= 0 && len(classes) == 0 {
		return "Any password"
	}

	labels := make([]string, len(classes))
	for i, c := range classes {
		labels[i] = c.label
	}

	var b strings.Builder
	if p.MinLength > 0 {
		fmt.Fprintf(&b, "At least %d characters", p.MinLength)
		if len(labels) > 0 {
			b.WriteString(", including ")
		}
	} else {
		b.WriteString("Must include ")
	}
	b.WriteString(strings.Join(labels, ", "))
	return b.String()
}
