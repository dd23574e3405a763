package api

import (
	"context"
	"net/http"

	"github.com/helaidi0704/pharmaconnect-frontend/internal/models"
)

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterInput struct {
	Role           string `json:"role"`
	FirstName      string `json:"firstName,omitempty"`
	LastName       string `json:"lastName,omitempty"`
	CompanyName    string `json:"companyName,omitempty"`
	CompanyAddress string `json:"companyAddress,omitempty"`
	Email          string `json:"email"`
	Phone          string `json:"phone,omitempty"`
	Password       string `json:"password"`
}

type AuthResult struct {
	User         models.User `json:"user"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
}

func (c *Client) Login(ctx context.Context, creds Credentials) (AuthResult, error) {
	var result AuthResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, creds, &result); err != nil {
		return AuthResult{}, err
	}
	c.SetTokens(result.AccessToken, result.RefreshToken)
	return result, nil
}

func (c *Client) Register(ctx context.Context, input RegisterInput) (AuthResult, error) {
	var result AuthResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", nil, input, &result); err != nil {
		return AuthResult{}, err
	}
	c.SetTokens(result.AccessToken, result.RefreshToken)
	return result, nil
}

// Logout tells the backend to revoke the session. Local tokens are cleared
// even when the call fails, logging out never blocks on the network.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil, nil)
	c.ClearTokens()
	return err
}

func (c *Client) Me(ctx context.Context) (models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, nil, &user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

type ProfileUpdate struct {
	FirstName      string `json:"firstName,omitempty"`
	LastName       string `json:"lastName,omitempty"`
	CompanyName    string `json:"companyName,omitempty"`
	CompanyAddress string `json:"companyAddress,omitempty"`
	Phone          string `json:"phone,omitempty"`
}

func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodPatch, "/api/auth/me", nil, update, &user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (c *Client) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	payload := map[string]string{
		"currentPassword": currentPassword,
		"newPassword":     newPassword,
	}
	return c.do(ctx, http.MethodPost, "/api/auth/change-password", nil, payload, nil)
}
