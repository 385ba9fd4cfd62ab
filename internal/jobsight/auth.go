package jobsight

import (
	"context"
	"net/http"
)

const (
	mePath       = "/api/auth/me"
	loginPath    = "/api/auth/login"
	registerPath = "/api/auth/register"
	logoutPath   = "/api/auth/logout"
)

type User struct {
	ID    ID     `json:"id"`
	Email string `json:"email"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is what login and register leave behind. Token is empty when
// the backend only set a session cookie.
type AuthResponse struct {
	Token string
	User  User
}

// Me probes the current identity. Logged out is a 401 StatusError.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.getJSON(ctx, mePath, nil, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (c *Client) Login(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	var body struct {
		User  User   `json:"user"`
		Token string `json:"token"`
	}
	if err := c.sendJSON(ctx, http.MethodPost, loginPath, creds, &body); err != nil {
		return nil, err
	}

	resp := &AuthResponse{Token: body.Token, User: body.User}
	if resp.User.Email == "" {
		resp.User.Email = creds.Email
	}
	if resp.Token == "" {
		resp.Token = c.SessionCookie()
	}

	return resp, nil
}

// Register creates the account. The backend answers {ok:true} and sets the
// session cookie, which is used as the token.
func (c *Client) Register(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	var body struct {
		OK    bool   `json:"ok"`
		Token string `json:"token"`
	}
	if err := c.sendJSON(ctx, http.MethodPost, registerPath, creds, &body); err != nil {
		return nil, err
	}

	token := body.Token
	if token == "" {
		token = c.SessionCookie()
	}

	return &AuthResponse{Token: token, User: User{Email: creds.Email}}, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.sendJSON(ctx, http.MethodPost, logoutPath, nil, nil)
}
