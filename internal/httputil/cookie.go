package httputil

import (
	"net/http"
	"time"
)

const (
	AccessCookie  = "access_token"
	RefreshCookie = "refresh_token"

	// The refresh token is only sent to the auth endpoints.
	refreshCookiePath = "/v1/auth"
)

// CookieConfig controls the attributes of the auth cookies set for browser
// clients.
type CookieConfig struct {
	Domain   string
	Path     string
	Secure   bool
	SameSite http.SameSite
}

func DefaultCookieConfig(secure bool) CookieConfig {
	return CookieConfig{
		Path:     "/",
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (c CookieConfig) cookie(name, value, path string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Domain:   c.Domain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: c.SameSite,
	}
}

// SetAuthCookies stores both tokens as HttpOnly cookies that expire with the
// tokens themselves.
func SetAuthCookies(w http.ResponseWriter, accessToken, refreshToken string, accessTTL, refreshTTL time.Duration, cfg CookieConfig) {
	http.SetCookie(w, cfg.cookie(AccessCookie, accessToken, cfg.Path, int(accessTTL.Seconds())))
	http.SetCookie(w, cfg.cookie(RefreshCookie, refreshToken, refreshCookiePath, int(refreshTTL.Seconds())))
}

// ClearAuthCookies expires both auth cookies. Called on logout and when a
// cookie refresh fails.
func ClearAuthCookies(w http.ResponseWriter, cfg CookieConfig) {
	http.SetCookie(w, cfg.cookie(AccessCookie, "", cfg.Path, -1))
	http.SetCookie(w, cfg.cookie(RefreshCookie, "", refreshCookiePath, -1))
}

func cookieValue(r *http.Request, name string) (string, bool) {
	c, err := r.Cookie(name)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

func GetRefreshTokenFromCookie(r *http.Request) (string, bool) {
	return cookieValue(r, RefreshCookie)
}

func GetAccessTokenFromCookie(r *http.Request) (string, bool) {
	return cookieValue(r, AccessCookie)
}

// IsMobileClient reports whether the caller asked for tokens in the response
// body instead of cookies (X-Client-Type: mobile).
func IsMobileClient(r *http.Request) bool {
	return r.Header.Get("X-Client-Type") == "mobile"
}
