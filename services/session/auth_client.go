package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"wishflix/internal/apperr"
)

const identityBaseURL = "https://identitytoolkit.googleapis.com/v1"

var (
	ErrAPIKeyRequired   = errors.New("identity api key not provided")
	ErrEmailRequired    = errors.New("email is required")
	ErrPasswordRequired = errors.New("password is required")
)

// AuthClient talks to the hosted email/password identity provider and feeds
// resolved identities into a Provider. It also serves as the token source
// for authenticated document-store calls.
type AuthClient struct {
	apiKey   string
	baseURL  string
	httpc    *http.Client
	provider *Provider

	mu           sync.Mutex
	idToken      string
	refreshToken string
	localID      string
}

// NewAuthClient creates an identity client. httpc may be nil.
func NewAuthClient(apiKey string, provider *Provider, httpc *http.Client) (*AuthClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrAPIKeyRequired
	}
	if httpc == nil {
		httpc = &http.Client{Timeout: 15 * time.Second}
	}
	return &AuthClient{
		apiKey:   strings.TrimSpace(apiKey),
		baseURL:  identityBaseURL,
		httpc:    httpc,
		provider: provider,
	}, nil
}

type authRequest struct {
	Email             string `json:"email,omitempty"`
	Password          string `json:"password,omitempty"`
	RequestType       string `json:"requestType,omitempty"`
	ReturnSecureToken bool   `json:"returnSecureToken,omitempty"`
}

type authResponse struct {
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
}

type authErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// doPost calls one identity endpoint (accounts:signUp, accounts:signInWithPassword,
// accounts:sendOobCode) and decodes the response into v when v is non-nil.
func (c *AuthClient) doPost(ctx context.Context, action string, body authRequest, v any) error {
	op := "identity " + action

	payload, err := json.Marshal(body)
	if err != nil {
		return apperr.Network(op, err)
	}

	endpoint := fmt.Sprintf("%s/accounts:%s?key=%s", c.baseURL, action, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return apperr.Network(op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return apperr.Network(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr authErrorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("%s: %s", op, apiErr.Error.Message)
		}
		return fmt.Errorf("%s: request failed: %s", op, resp.Status)
	}

	if v == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return apperr.Decode(op, err)
	}
	return nil
}

// SignUp registers a new email/password account and signs the session in.
func (c *AuthClient) SignUp(ctx context.Context, email, password string) error {
	if strings.TrimSpace(email) == "" {
		return ErrEmailRequired
	}
	if password == "" {
		return ErrPasswordRequired
	}

	var res authResponse
	err := c.doPost(ctx, "signUp", authRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}, &res)
	if err != nil {
		return err
	}

	c.adopt(res)
	return nil
}

// SignIn resolves an existing account and publishes the identity.
func (c *AuthClient) SignIn(ctx context.Context, email, password string) error {
	if strings.TrimSpace(email) == "" {
		return ErrEmailRequired
	}
	if password == "" {
		return ErrPasswordRequired
	}

	var res authResponse
	err := c.doPost(ctx, "signInWithPassword", authRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}, &res)
	if err != nil {
		return err
	}

	c.adopt(res)
	return nil
}

// SendPasswordReset asks the provider to email a reset link.
func (c *AuthClient) SendPasswordReset(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		return ErrEmailRequired
	}
	return c.doPost(ctx, "sendOobCode", authRequest{
		Email:       email,
		RequestType: "PASSWORD_RESET",
	}, nil)
}

// SignOut drops the local tokens and publishes the signed-out session. The
// provider has no server-side session to revoke.
func (c *AuthClient) SignOut() {
	c.mu.Lock()
	c.idToken = ""
	c.refreshToken = ""
	c.localID = ""
	c.mu.Unlock()

	if c.provider != nil {
		c.provider.Clear()
	}
}

// IDToken returns the current bearer token, if signed in.
func (c *AuthClient) IDToken() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.idToken, c.idToken != ""
}

func (c *AuthClient) adopt(res authResponse) {
	c.mu.Lock()
	c.idToken = res.IDToken
	c.refreshToken = res.RefreshToken
	c.localID = res.LocalID
	c.mu.Unlock()

	if c.provider != nil {
		c.provider.SetUser(res.LocalID)
	}
}
