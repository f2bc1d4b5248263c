package auth

import (
	"github.com/DRKxR4VEN/tiembanhngot/pkg/errors"
	httpclient "github.com/DRKxR4VEN/tiembanhngot/pkg/http"
	"github.com/DRKxR4VEN/tiembanhngot/pkg/models"
)

// MsgMissingCredentials is shown when the login form is incomplete.
const MsgMissingCredentials = "please enter username and password"

// ValidateCredentials checks that both fields are filled in and returns the
// trimmed login request. It does not contact the backend.
func ValidateCredentials(username, password string) (models.LoginRequest, error) {
	req := models.LoginRequest{
		Username: httpclient.SanitizeString(username),
		Password: password,
	}

	if verrs := httpclient.ValidateStruct(req); verrs.HasErrors() {
		return req, errors.New(errors.ErrCodeValidation, MsgMissingCredentials).
			WithDetails(verrs.Error())
	}
	return req, nil
}
