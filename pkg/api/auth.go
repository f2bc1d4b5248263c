package api

import (
	"context"

	"github.com/DRKxR4VEN/tiembanhngot/pkg/config"
	httpclient "github.com/DRKxR4VEN/tiembanhngot/pkg/http"
	"github.com/DRKxR4VEN/tiembanhngot/pkg/logging"
	"github.com/DRKxR4VEN/tiembanhngot/pkg/models"
)

// MsgLogin is the default login failure message.
const MsgLogin = "login failed"

// AuthAPI talks to the login endpoint.
type AuthAPI struct {
	client    *httpclient.Client
	endpoints config.Endpoints
	logger    *logging.Logger
}

// NewAuthAPI creates an AuthAPI.
func NewAuthAPI(client *httpclient.Client, endpoints config.Endpoints) *AuthAPI {
	return &AuthAPI{
		client:    client,
		endpoints: endpoints,
		logger:    logging.GetDefault(),
	}
}

// Login posts the credentials. On success Data is the user's profile and
// Token the bearer credential, which may be empty if the server sent none.
func (a *AuthAPI) Login(ctx context.Context, req models.LoginRequest) Result[models.Profile] {
	ctx = logging.WithUsername(ctx, req.Username)
	resp, err := a.client.Post(ctx, a.endpoints.LoginPath, req)
	return complete(ctx, a.logger, "login", resp, err, MsgLogin, decodeJSON[models.Profile])
}
