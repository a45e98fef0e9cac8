package oauth

// TokenRequest is the body of POST /oauth/token. Which fields are required
// depends on grant_type; unknown grant types are forwarded as-is and left to
// the upstream server to reject.
type TokenRequest struct {
	GrantType    string `json:"grant_type"`
	Code         string `json:"code,omitempty"`
	RedirectURI  string `json:"redirect_uri,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	CodeVerifier string `json:"code_verifier,omitempty"`
}

// ClientRegistration is the body of POST /oauth/register, forwarded verbatim
// to the upstream registration endpoint. The response (client_id and
// client_secret included) is relayed unchanged and never persisted.
type ClientRegistration struct {
	ClientName              string   `json:"client_name"`
	RedirectURIs            []string `json:"redirect_uris"`
	Scope                   string   `json:"scope,omitempty"`
	TokenEndpointAuthMethod string   `json:"token_endpoint_auth_method,omitempty"`
}

// AuthorizeRequest carries the query parameters of GET /oauth/authorize.
// Empty fields fall back to configured values when the redirect URL is built.
type AuthorizeRequest struct {
	ResponseType string `query:"response_type"`
	ClientID     string `query:"client_id"`
	RedirectURI  string `query:"redirect_uri"`
	Scope        string `query:"scope"`
	State        string `query:"state"`
}
