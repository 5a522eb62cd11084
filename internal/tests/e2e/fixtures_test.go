package e2e

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ShujaShah/starte/domain"
	"github.com/ShujaShah/starte/internal/infrastructure/auth"
)

const testPassword = "secret1"

// mailedCode returns the activation code most recently emailed to addr
func (s *TestSuite) mailedCode(t *testing.T, addr string) string {
	t.Helper()
	sent := s.Mailer.Sent()
	for i := len(sent) - 1; i >= 0; i-- {
		if sent[i].To == addr {
			code, ok := sent[i].Data["ActivationCode"].(string)
			require.True(t, ok, "activation mail without a code")
			return code
		}
	}
	t.Fatalf("no activation mail sent to %s", addr)
	return ""
}

// register submits a registration and returns the activation token
func (s *TestSuite) register(t *testing.T, c *Client, email, name string) string {
	t.Helper()
	resp := c.Do(http.MethodPost, apiPrefix+"/users", map[string]any{
		"email":    email,
		"name":     name,
		"password": testPassword,
	})
	require.Equal(t, http.StatusCreated, resp.Status, resp.Body)
	token, _ := resp.Body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

// signUp registers and activates a user, leaving c logged in as that user
func (s *TestSuite) signUp(t *testing.T, c *Client, email string) map[string]any {
	t.Helper()
	token := s.register(t, c, email, "Test User")
	resp := c.Do(http.MethodPost, apiPrefix+"/users/verify-code", map[string]any{
		"activation_token": token,
		"activation_code":  s.mailedCode(t, email),
	})
	require.Equal(t, http.StatusCreated, resp.Status, resp.Body)
	return resp.Data()
}

// setRole changes a stored role directly, bypassing every token already issued
func (s *TestSuite) setRole(t *testing.T, userID string, role domain.Role) {
	t.Helper()
	_, err := s.Container.UserSvc.ChangeRole(context.Background(), userID, role)
	require.NoError(t, err)
}

// tokens returns a token service sharing the server's secret
func tokens(opts ...auth.JWTOption) domain.TokenService {
	return auth.NewJWTService(testSecret, "lms-test", opts...)
}
