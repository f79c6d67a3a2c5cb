package backend

import (
	"context"
	"net/http"

	"github.com/Cloud-Net-Park/Gravel/models"
)

// SignIn exchanges credentials for a session and keeps its access token.
func (c *Client) SignIn(ctx context.Context, in models.UserLogin) (models.Identity, error) {
	var session models.AuthSession
	if err := c.do(ctx, http.MethodPost, "/auth/signin", in, &session, nil); err != nil {
		return models.Identity{}, err
	}
	c.setToken(session.AccessToken)
	return session.User, nil
}

// SignUp registers an account, signs it in and keeps its access token.
func (c *Client) SignUp(ctx context.Context, in models.UserRegister) (models.Identity, error) {
	var session models.AuthSession
	if err := c.do(ctx, http.MethodPost, "/auth/signup", in, &session, nil); err != nil {
		return models.Identity{}, err
	}
	c.setToken(session.AccessToken)
	return session.User, nil
}

// SignOut revokes the held access token. The token is forgotten even when
// the service cannot be reached. A token the service no longer accepts counts
// as signed out.
func (c *Client) SignOut(ctx context.Context) error {
	header := c.bearer()
	if header == nil {
		return nil
	}
	c.setToken("")
	err := c.do(ctx, http.MethodPost, "/auth/signout", nil, nil, header)
	if IsStatus(err, http.StatusUnauthorized) {
		return nil
	}
	return err
}

func (c *Client) bearer() http.Header {
	token := c.AccessToken()
	if token == "" {
		return nil
	}
	return http.Header{"Authorization": {"Bearer " + token}}
}
