package api

import (
	"github.com/DRKxR4VEN/tiembanhngot/pkg/config"
	httpclient "github.com/DRKxR4VEN/tiembanhngot/pkg/http"
)

// Services bundles the API groups sharing one client.
type Services struct {
	Products *ProductAPI
	Profile  *ProfileAPI
	Auth     *AuthAPI
}

// NewServices creates every API group on top of client.
func NewServices(client *httpclient.Client, endpoints config.Endpoints) *Services {
	return &Services{
		Products: NewProductAPI(client, endpoints),
		Profile:  NewProfileAPI(client, endpoints),
		Auth:     NewAuthAPI(client, endpoints),
	}
}
