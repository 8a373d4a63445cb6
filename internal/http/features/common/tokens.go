package common

import (
	"net/http"
	"time"

	"github.com/tendant/nexuspoint/internal/httputil"
	"github.com/tendant/nexuspoint/pkg/domain"
)

// TokenResponse represents a token response. Tokens are only included for
// mobile clients; web clients receive them as cookies.
type TokenResponse struct {
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// TokenTTLs exposes the lifetimes used for auth cookies.
type TokenTTLs interface {
	AccessTokenTTL() time.Duration
	RefreshTokenTTL() time.Duration
}

// WriteTokens writes tokens as cookies (web) or JSON (mobile, X-Client-Type: mobile).
func WriteTokens(w http.ResponseWriter, r *http.Request, status int, tokens *domain.TokenPair, ttls TokenTTLs, cookies httputil.CookieConfig) {
	if httputil.IsMobileClient(r) {
		httputil.JSON(w, status, TokenResponse{
			AccessToken:  tokens.AccessToken,
			RefreshToken: tokens.RefreshToken,
			TokenType:    tokens.TokenType,
			ExpiresIn:    tokens.ExpiresIn,
		})
		return
	}

	httputil.SetAuthCookies(w, tokens.AccessToken, tokens.RefreshToken, ttls.AccessTokenTTL(), ttls.RefreshTokenTTL(), cookies)
	httputil.JSON(w, status, TokenResponse{
		TokenType: tokens.TokenType,
		ExpiresIn: tokens.ExpiresIn,
	})
}
