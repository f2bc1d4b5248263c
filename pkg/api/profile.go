package api

import (
	"context"

	"github.com/DRKxR4VEN/tiembanhngot/pkg/config"
	httpclient "github.com/DRKxR4VEN/tiembanhngot/pkg/http"
	"github.com/DRKxR4VEN/tiembanhngot/pkg/logging"
	"github.com/DRKxR4VEN/tiembanhngot/pkg/models"
)

// MsgLoadProfile is the default profile failure message.
const MsgLoadProfile = "something went wrong"

// ProfileAPI talks to the profile endpoint.
type ProfileAPI struct {
	client    *httpclient.Client
	endpoints config.Endpoints
	logger    *logging.Logger
}

// NewProfileAPI creates a ProfileAPI.
func NewProfileAPI(client *httpclient.Client, endpoints config.Endpoints) *ProfileAPI {
	return &ProfileAPI{
		client:    client,
		endpoints: endpoints,
		logger:    logging.GetDefault(),
	}
}

// GetProfile fetches the logged-in user's profile. Without a token it fails
// locally with Unauthorized and sends nothing.
func (a *ProfileAPI) GetProfile(ctx context.Context) Result[models.Profile] {
	if !a.client.HasToken(ctx) {
		return Fail[models.Profile](notLoggedIn())
	}

	resp, err := a.client.Get(ctx, a.endpoints.ProfilePath)
	return complete(ctx, a.logger, "get_profile", resp, err, MsgLoadProfile, decodeJSON[models.Profile])
}
