// Package oauth relays the OAuth 2.0 authorization-code and refresh-token
// flows to an upstream OpenEMR authorization server. The gateway validates
// only what it must (required grant fields, client id availability); the
// upstream server stays authoritative for everything else.
package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/openemr/gateway/internal/config"
	"github.com/openemr/gateway/internal/platform/tokenstore"
	"github.com/openemr/gateway/internal/platform/upstream"
)

// DefaultScope is requested when an authorization request carries no scope.
const DefaultScope = "openid api:fhir patient/Patient.rs user/Patient.rs"

const defaultTokenTTL = 3600 * time.Second

// ValidationError marks a client-input failure that must be reported locally
// (HTTP 400) and never forwarded upstream.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func validationErrorf(format string, args ...interface{}) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// Service implements the token relay: authorize-redirect construction, grant
// exchanges, callback handling, and dynamic client registration.
type Service struct {
	oauthBase    string
	clientID     string
	clientSecret string
	redirectURI  string
	store        tokenstore.Store
	client       *upstream.Client
	logger       zerolog.Logger
}

func NewService(cfg *config.Config, store tokenstore.Store, client *upstream.Client, logger zerolog.Logger) *Service {
	return &Service{
		oauthBase:    cfg.OAuthBase(),
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		redirectURI:  cfg.RedirectURI,
		store:        store,
		client:       client,
		logger:       logger,
	}
}

// AuthorizeURL builds the redirect target for the upstream authorize
// endpoint. Missing parameters fall back to configured values; a missing
// scope falls back to DefaultScope. When the caller supplies no state, a
// random one is generated and recorded so the callback could correlate it.
func (s *Service) AuthorizeURL(req AuthorizeRequest) (string, error) {
	clientID := req.ClientID
	if clientID == "" {
		clientID = s.clientID
	}
	if clientID == "" {
		return "", validationErrorf("client_id is required")
	}

	redirect := req.RedirectURI
	if redirect == "" {
		redirect = s.redirectURI
	}
	scope := req.Scope
	if scope == "" {
		scope = DefaultScope
	}
	responseType := req.ResponseType
	if responseType == "" {
		responseType = "code"
	}
	state := req.State
	if state == "" {
		generated, err := newState()
		if err != nil {
			return "", fmt.Errorf("generate state: %w", err)
		}
		state = generated
		s.store.PutState(state)
	}

	q := url.Values{
		"response_type": {responseType},
		"client_id":     {clientID},
		"redirect_uri":  {redirect},
		"scope":         {scope},
		"state":         {state},
	}
	return s.oauthBase + "/authorize?" + q.Encode(), nil
}

// Exchange performs one grant exchange against the upstream token endpoint.
// authorization_code requires code (redirect_uri defaults to the configured
// callback, code_verifier is included only when present); refresh_token
// requires refresh_token. Other grant types are forwarded untouched. Client
// credentials are appended only when configured.
func (s *Service) Exchange(ctx context.Context, req TokenRequest) (map[string]interface{}, error) {
	form := url.Values{"grant_type": {req.GrantType}}

	switch req.GrantType {
	case "authorization_code":
		if req.Code == "" {
			return nil, validationErrorf("code is required for authorization_code grant")
		}
		form.Set("code", req.Code)
		redirect := req.RedirectURI
		if redirect == "" {
			redirect = s.redirectURI
		}
		form.Set("redirect_uri", redirect)
		if req.CodeVerifier != "" {
			form.Set("code_verifier", req.CodeVerifier)
		}
	case "refresh_token":
		if req.RefreshToken == "" {
			return nil, validationErrorf("refresh_token is required for refresh_token grant")
		}
		form.Set("refresh_token", req.RefreshToken)
	}

	if s.clientID != "" {
		form.Set("client_id", s.clientID)
	}
	if s.clientSecret != "" {
		form.Set("client_secret", s.clientSecret)
	}

	return s.client.PostForm(ctx, s.oauthBase+"/token", form)
}

// HandleCallback exchanges the authorization code delivered to the redirect
// URI and records the issued token in the store, keyed by access token.
//
// TODO: verify state against a previously recorded marker before exchanging;
// any state value is currently accepted, which leaves the CSRF protection
// set up by AuthorizeURL unenforced.
func (s *Service) HandleCallback(ctx context.Context, code, state string) (map[string]interface{}, error) {
	if code == "" {
		return nil, validationErrorf("code is required")
	}

	form := url.Values{
		"grant_type":   {"authorization_code"},
		"code":         {code},
		"redirect_uri": {s.redirectURI},
	}
	if s.clientID != "" {
		form.Set("client_id", s.clientID)
	}
	if s.clientSecret != "" {
		form.Set("client_secret", s.clientSecret)
	}

	tok, err := s.client.PostForm(ctx, s.oauthBase+"/token", form)
	if err != nil {
		return nil, err
	}

	if accessToken, ok := tok["access_token"].(string); ok && accessToken != "" {
		expiresAt := time.Now().Add(tokenTTL(tok, accessToken))
		s.store.PutToken(accessToken, tokenstore.TokenRecord{
			Data:      tok,
			ExpiresAt: expiresAt,
		})
		s.logger.Info().Time("expires_at", expiresAt).Msg("recorded issued token")
	}
	return tok, nil
}

// Register forwards a dynamic client registration to the upstream
// registration endpoint. token_endpoint_auth_method defaults to
// client_secret_basic when omitted.
func (s *Service) Register(ctx context.Context, reg ClientRegistration) (map[string]interface{}, error) {
	if reg.TokenEndpointAuthMethod == "" {
		reg.TokenEndpointAuthMethod = "client_secret_basic"
	}
	return s.client.PostJSON(ctx, s.oauthBase+"/registration", reg)
}

// tokenTTL derives how long an issued token stays valid: expires_in when the
// upstream supplies it, otherwise the exp claim of the access token (OpenEMR
// issues JWTs), otherwise one hour.
func tokenTTL(tok map[string]interface{}, accessToken string) time.Duration {
	switch v := tok["expires_in"].(type) {
	case float64:
		return time.Duration(v) * time.Second
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return time.Duration(n) * time.Second
		}
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			if d := time.Until(exp.Time); d > 0 {
				return d
			}
		}
	}
	return defaultTokenTTL
}

// newState produces a 32-byte URL-safe random state value.
func newState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
