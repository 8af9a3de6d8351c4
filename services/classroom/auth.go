package classroomsvc

import (
	"context"
	"net/http"

	"github.com/pkg/errors"

	"github.com/trezcool/classwork/core/user"
)

var (
	opRegister = operation{
		name: "register",
		fail: "Registration failed. Please try again.",
	}
	opLogin = operation{
		name:  "login",
		fail:  "Login failed. Please try again.",
		kinds: map[int]Kind{http.StatusUnauthorized: KindValidation},
		messages: map[int]string{
			http.StatusBadRequest:   "Invalid email or password.",
			http.StatusUnauthorized: "Invalid email or password.",
		},
	}
)

// Register creates an account. It does not log the user in.
func (c *Client) Register(ctx context.Context, nu user.NewUser) error {
	if err := nu.Validate(c.validate, c.translator); err != nil {
		return opRegister.invalid(err)
	}
	return c.send(ctx, opRegister, false, http.MethodPost, "/api/auth/register", nu, nil)
}

// Login authenticates and stores the returned session.
func (c *Client) Login(ctx context.Context, creds user.Credentials) (user.User, error) {
	if err := creds.Validate(c.validate, c.translator); err != nil {
		return user.User{}, opLogin.invalid(err)
	}
	var resp user.AuthResponse
	if err := c.send(ctx, opLogin, false, http.MethodPost, "/api/auth/login", creds, &resp); err != nil {
		return user.User{}, err
	}
	if resp.Token == "" || !resp.User.Role.IsValid() {
		return user.User{}, opLogin.faulty(http.StatusOK, errors.New("incomplete auth response"))
	}
	if err := c.sess.Login(resp.User, resp.Token); err != nil {
		return user.User{}, opLogin.faulty(http.StatusOK, err)
	}
	return resp.User, nil
}

// Logout ends the session locally; the API keeps no session state.
func (c *Client) Logout() error {
	return c.sess.Logout()
}
