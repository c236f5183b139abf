package gotrue

// Package gotrue is a thin REST adapter for the hosted identity service
// (a GoTrue-compatible API as exposed by Supabase). It covers only the
// surface the auth core needs: the password grant, admin user creation
// and deletion, and the two directory-lookup strategies.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainauth "github.com/studyhall/studyhall-api/internal/domain/auth"
	apperrors "github.com/studyhall/studyhall-api/internal/errors"
	"github.com/studyhall/studyhall-api/internal/ports"
)

const defaultTimeout = 30 * time.Second

// Client calls the identity service with the admin service key. The key
// bypasses row-level security and must stay server-side.
type Client struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

// Options configures a Client.
type Options struct {
	// BaseURL is the project URL, e.g. "https://abc.supabase.co".
	BaseURL string
	// ServiceKey is the service-role API key.
	ServiceKey string
	// HTTPClient is optional; a 30s-timeout client is used by default.
	HTTPClient *http.Client
}

// New creates a Client.
func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, errors.New("gotrue: base URL is required")
	}
	if opts.ServiceKey == "" {
		return nil, errors.New("gotrue: service key is required")
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL:    strings.TrimSuffix(opts.BaseURL, "/"),
		serviceKey: opts.ServiceKey,
		httpClient: httpClient,
	}, nil
}

// user is the provider's user record shape, decoded to the fields we use.
type user struct {
	ID               string `json:"id"`
	Email            string `json:"email"`
	EmailConfirmedAt string `json:"email_confirmed_at"`
}

func (u user) identity() domainauth.Identity {
	return domainauth.Identity{
		ID:             u.ID,
		Email:          u.Email,
		EmailConfirmed: u.EmailConfirmedAt != "",
	}
}

// tokenResponse is the password-grant response envelope.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	User        user   `json:"user"`
}

// apiError is the provider's error envelope; field names vary by endpoint.
type apiError struct {
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	ErrorDescription string `json:"error_description"`
}

func (e apiError) text() string {
	for _, s := range []string{e.Msg, e.Message, e.ErrorDescription} {
		if s != "" {
			return s
		}
	}
	return ""
}

// SignInWithPassword checks the credentials via the password grant.
// The provider's 400/401 responses all collapse into one unauthenticated
// error so callers cannot distinguish "no such email" from "wrong
// password" (account-enumeration resistance).
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (domainauth.Identity, error) {
	body := map[string]string{"email": email, "password": password}

	var out tokenResponse
	res, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/token",
		query:  url.Values{"grant_type": []string{"password"}},
		body:   body,
	}, &out)
	if err != nil {
		return domainauth.Identity{}, err
	}
	if res.status >= 500 {
		return domainauth.Identity{}, apperrors.Internalf("identity provider error (status %d)", res.status)
	}
	if res.status >= 400 {
		return domainauth.Identity{}, apperrors.Unauthenticated("Invalid credentials.")
	}
	if out.User.ID == "" {
		return domainauth.Identity{}, apperrors.Internal("identity provider returned no user")
	}
	return out.User.identity(), nil
}

// CreateIdentity registers a new user via the admin API. Created
// identities are pre-confirmed; no email round trip is modeled.
func (c *Client) CreateIdentity(ctx context.Context, in ports.CreateIdentityInput) (domainauth.Identity, error) {
	body := map[string]any{
		"email":         in.Email,
		"email_confirm": true,
	}
	if in.Password != "" {
		body["password"] = in.Password
	}
	meta := map[string]any{}
	if in.FullName != "" {
		meta["full_name"] = in.FullName
	}
	if in.Provider != "" {
		meta["provider"] = in.Provider
	}
	if len(meta) > 0 {
		body["user_metadata"] = meta
	}

	var out user
	res, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/admin/users",
		body:   body,
	}, &out)
	if err != nil {
		return domainauth.Identity{}, err
	}
	if res.status >= 500 {
		return domainauth.Identity{}, apperrors.Internalf("identity provider error (status %d)", res.status)
	}
	if res.status >= 400 {
		// Provider rejections (duplicate email, weak password) surface
		// verbatim as client errors, matching the signup contract.
		msg := res.errText
		if msg == "" {
			msg = "Identity provider rejected the request."
		}
		return domainauth.Identity{}, apperrors.Validation(msg)
	}
	if out.ID == "" {
		return domainauth.Identity{}, apperrors.Internal("identity provider returned no user")
	}
	return out.identity(), nil
}

// DeleteIdentity removes a user via the admin API. Used only to
// compensate a failed profile insert after identity creation.
func (c *Client) DeleteIdentity(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("gotrue: identity id is required")
	}
	res, err := c.do(ctx, request{
		method: http.MethodDelete,
		path:   "/auth/v1/admin/users/" + url.PathEscape(id),
	}, nil)
	if err != nil {
		return err
	}
	if res.status >= 400 && res.status != http.StatusNotFound {
		return apperrors.Internalf("identity provider error (status %d)", res.status)
	}
	return nil
}

// listUsersResponse is the admin listing envelope.
type listUsersResponse struct {
	Users []user `json:"users"`
}

// listUsers fetches one page of the admin user listing, optionally
// filtered provider-side.
func (c *Client) listUsers(ctx context.Context, q url.Values) ([]user, error) {
	var out listUsersResponse
	res, err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/auth/v1/admin/users",
		query:  q,
	}, &out)
	if err != nil {
		return nil, err
	}
	if res.status >= 400 {
		return nil, apperrors.Internalf("identity provider error (status %d)", res.status)
	}
	return out.Users, nil
}

type request struct {
	method string
	path   string
	query  url.Values
	body   any
}

// result carries the response status and, on 4xx/5xx, the provider's
// error message.
type result struct {
	status  int
	errText string
}

func (c *Client) do(ctx context.Context, req request, out any) (result, error) {
	u := c.baseURL + req.path
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}

	var payload io.Reader
	if req.body != nil {
		data, err := json.Marshal(req.body)
		if err != nil {
			return result{}, fmt.Errorf("gotrue: marshal request: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u, payload)
	if err != nil {
		return result{}, fmt.Errorf("gotrue: build request: %w", err)
	}
	httpReq.Header.Set("apikey", c.serviceKey)
	httpReq.Header.Set("Authorization", "Bearer "+c.serviceKey)
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return result{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "identity provider unreachable")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	res := result{status: resp.StatusCode}
	if resp.StatusCode >= 400 {
		var apiErr apiError
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil {
			res.errText = apiErr.text()
		}
		return res, nil
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return res, apperrors.Wrap(err, apperrors.ErrCodeInternal, "identity provider returned malformed response")
		}
	}
	return res, nil
}
