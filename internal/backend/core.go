package backend

import (
	"context"
	"net/http"

	"github.com/fekuna/omnipos-pos-client/internal/model"
)

type LoginResult struct {
	User   model.User   `json:"user"`
	Tokens model.Tokens `json:"tokens"`
}

// Login exchanges credentials for a token pair. It never carries a bearer
// token and never triggers a refresh.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	var out LoginResult
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/core/login/",
		body:   map[string]string{"username": username, "password": password},
		out:    &out,
		noAuth: true,
	})
	if err != nil {
		return nil, err
	}
	if out.Tokens.Access == "" {
		return nil, &APIError{Method: http.MethodPost, Path: "/core/login/", StatusCode: http.StatusOK, Message: "login response carried no access token"}
	}
	return &out, nil
}

func (c *Client) Profile(ctx context.Context) (*model.User, error) {
	var u model.User
	if err := c.Get(ctx, "/core/profile/", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) Users(ctx context.Context) ([]model.User, error) {
	return ListAll[model.User](ctx, c, "/core/users/", nil)
}
