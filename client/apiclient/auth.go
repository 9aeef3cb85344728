package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/threadkeep/threadkeep/shared/api"
	"github.com/threadkeep/threadkeep/shared/domain"
	"github.com/threadkeep/threadkeep/shared/utils"
)

// === Auth Methods ===

// MemberToken obtains a token for the nickname and attaches it to the client.
func (c *APIClient) MemberToken(nickname string) (domain.Member, error) {
	return c.authRequest("/v1/auth/member", api.MemberTokenRequest{Nickname: nickname})
}

// AdminLogin authenticates as the admin and attaches the token to the client.
func (c *APIClient) AdminLogin(password string) (domain.Member, error) {
	return c.authRequest("/v1/auth/login", api.AdminLoginRequest{Password: password})
}

func (c *APIClient) authRequest(path string, body any) (domain.Member, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return domain.Member{}, fmt.Errorf("failed to marshal auth request: %w", err)
	}

	resp, err := c.do("POST", path, bytes.NewBuffer(jsonBody))
	if err != nil {
		return domain.Member{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Member{}, statusError(resp)
	}

	var response api.TokenResponse
	if err := utils.Decode(resp.Body, &response); err != nil {
		return domain.Member{}, fmt.Errorf("cannot decode token response: %w", err)
	}

	c.SetToken(response.Token)
	return response.Member, nil
}
