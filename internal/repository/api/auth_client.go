package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"resume-ranker/internal/domain"
	"resume-ranker/pkg/apperror"
	"resume-ranker/pkg/logger"

	"go.uber.org/zap"
)

// AuthClient talks to the /auth endpoints.
type AuthClient struct {
	*Client
}

func NewAuthClient(baseURL string, httpClient *http.Client) *AuthClient {
	defaults := http.Header{headerContentType: []string{contentTypeJSON}}
	c := &AuthClient{Client: newClient(baseURL, httpClient, logger.Named("AuthClient"), defaults)}
	c.log.Debug("AuthClient initialized", zap.String("base_url", c.baseURL))
	return c
}

func (c *AuthClient) Register(ctx context.Context, input domain.RegisterInput) (*domain.RegisterResult, error) {
	c.log.Info("Attempting registration", zap.String("email", input.Email))

	body, err := encodeJSON(input)
	if err != nil {
		return nil, err
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/auth/register", nil, body, "")
	if err != nil {
		return nil, err
	}

	_, raw, err := c.do(req)
	if err != nil {
		c.log.Error("Registration failed", append(errorFields(err), zap.String("email", input.Email))...)
		return nil, err
	}
	out, err := decodeJSON[domain.RegisterResult](raw)
	if err != nil {
		c.log.Error("Registration failed", append(errorFields(err), zap.String("email", input.Email))...)
		return nil, err
	}

	c.log.Info("Successfully registered user", zap.String("email", input.Email))
	return out, nil
}

// Login exchanges credentials for a token. On success the client's bearer
// header carries the new token.
func (c *AuthClient) Login(ctx context.Context, username, password string) (*domain.LoginResult, error) {
	c.log.Info("Attempting login", zap.String("username", username))

	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, err := c.newRequest(ctx, http.MethodPost, "/auth/token", nil, strings.NewReader(form.Encode()), contentTypeForm)
	if err != nil {
		return nil, err
	}
	req.Header.Del(headerAuthorization)

	_, raw, err := c.do(req)
	if err != nil {
		c.log.Error("Login failed", append(errorFields(err), zap.String("username", username))...)
		return nil, err
	}
	out, err := decodeJSON[domain.LoginResult](raw)
	if err == nil && out.AccessToken == "" {
		err = apperror.Decode(errors.New("token response has no access_token"))
	}
	if err != nil {
		c.log.Error("Login failed", append(errorFields(err), zap.String("username", username))...)
		return nil, err
	}

	c.SetToken(out.AccessToken)
	c.log.Info("Login successful", zap.String("username", username))
	return out, nil
}

// UpdateProfile sends the non-empty fields of update.
func (c *AuthClient) UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (*domain.Profile, error) {
	c.log.Info("Updating user profile", zap.String("username", update.Username), zap.String("email", update.Email))

	body, err := encodeJSON(update)
	if err != nil {
		return nil, err
	}
	req, err := c.newRequest(ctx, http.MethodPut, "/auth/users/me", nil, body, "")
	if err != nil {
		return nil, err
	}

	_, raw, err := c.do(req)
	if err != nil {
		c.log.Error("Profile update failed", errorFields(err)...)
		return nil, err
	}
	out, err := decodeJSON[domain.Profile](raw)
	if err != nil {
		c.log.Error("Profile update failed", errorFields(err)...)
		return nil, err
	}

	c.log.Info("Profile updated successfully")
	return out, nil
}

var _ domain.AuthClient = (*AuthClient)(nil)
