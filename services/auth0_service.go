package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/kendall-kelly/renovation-quotes-api/config"
)

// ErrUserInfoRejected is returned when Auth0 refuses the access token
var ErrUserInfoRejected = errors.New("auth0 rejected the access token")

// Auth0UserInfo is the subset of the /userinfo profile used to create accounts
type Auth0UserInfo struct {
	Sub    string `json:"sub"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Locale string `json:"locale"`
}

// PreferredLanguage maps the Auth0 locale onto a template language, or "" to
// use the platform default
func (u Auth0UserInfo) PreferredLanguage() string {
	if strings.HasPrefix(strings.ToLower(u.Locale), "ko") {
		return "ko"
	}
	return ""
}

// Auth0Service looks up profiles on the tenant's /userinfo endpoint
type Auth0Service struct {
	userInfoURL string
	httpClient  *http.Client
}

// NewAuth0Service creates a client for cfg.Auth0Domain. A domain that already
// carries a scheme is used as is, which lets tests point at an httptest server.
func NewAuth0Service(cfg *config.Config) *Auth0Service {
	base := cfg.Auth0Domain
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "https://" + base
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Auth0Service{
		userInfoURL: strings.TrimSuffix(base, "/") + "/userinfo",
		httpClient:  &http.Client{Timeout: timeout},
	}
}

// GetUserInfo fetches the profile behind accessToken
func (s *Auth0Service) GetUserInfo(ctx context.Context, accessToken string) (*Auth0UserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call userinfo endpoint: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Printf("warning: failed to close userinfo response: %v", closeErr)
		}
	}()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("userinfo endpoint returned status %d: %w", resp.StatusCode, ErrUserInfoRejected)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("userinfo endpoint returned status %d: %s", resp.StatusCode, string(body))
	}

	var userInfo Auth0UserInfo
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		return nil, fmt.Errorf("failed to decode userinfo response: %w", err)
	}
	if userInfo.Sub == "" {
		return nil, errors.New("userinfo response has no subject")
	}

	return &userInfo, nil
}
