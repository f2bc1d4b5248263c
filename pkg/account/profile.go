package account

import (
	"context"

	"github.com/DRKxR4VEN/tiembanhngot/pkg/api"
	"github.com/DRKxR4VEN/tiembanhngot/pkg/errors"
	"github.com/DRKxR4VEN/tiembanhngot/pkg/logging"
	"github.com/DRKxR4VEN/tiembanhngot/pkg/models"
)

// MsgStaleProfile is shown when the saved profile stands in for the backend.
const MsgStaleProfile = "showing saved profile, the server could not be reached"

// ProfileService fetches the logged-in user's profile.
type ProfileService interface {
	GetProfile(ctx context.Context) api.Result[models.Profile]
}

// ProfileCache keeps the last fetched profile.
type ProfileCache interface {
	Profile(ctx context.Context) (*models.Profile, bool)
	SetProfile(ctx context.Context, profile models.Profile) error
}

// ProfilePage is the outcome of loading the profile page.
type ProfilePage struct {
	// Initial is the saved profile, shown while the backend is asked.
	Initial *ProfileView
	// View is what stays on screen, nil when Err is set.
	View    *ProfileView
	Stale   bool
	Warning string
	Err     *errors.AppError
}

// ErrorText is the line shown in the error state.
func (p ProfilePage) ErrorText() string {
	if p.Err == nil {
		return ""
	}
	return p.Err.DisplayMessage()
}

// ProfileLoader shows the saved profile first and then the backend's.
type ProfileLoader struct {
	profiles ProfileService
	cache    ProfileCache
	logger   *logging.Logger
}

// NewProfileLoader creates a ProfileLoader.
func NewProfileLoader(profiles ProfileService, cache ProfileCache) *ProfileLoader {
	return &ProfileLoader{
		profiles: profiles,
		cache:    cache,
		logger:   logging.GetDefault(),
	}
}

// Load fetches the profile. A fresh profile is saved. A failure that came
// from the server replaces the page with an error. When the server could not
// be reached the saved profile is kept with a warning.
func (l *ProfileLoader) Load(ctx context.Context) ProfilePage {
	var page ProfilePage

	saved, hasSaved := l.cache.Profile(ctx)
	if hasSaved {
		v := BuildProfileView(*saved)
		page.Initial = &v
	}

	result := l.profiles.GetProfile(ctx)
	if result.OK() {
		if err := l.cache.SetProfile(ctx, result.Data); err != nil {
			l.logger.Error(ctx, "failed to save profile", err)
		}
		v := BuildProfileView(result.Data)
		page.View = &v
		return page
	}

	if result.Err.Code == errors.ErrCodeNetwork && hasSaved {
		l.logger.WithField("error", result.Err.Details).Warn(ctx, "profile served from cache")
		page.View = page.Initial
		page.Stale = true
		page.Warning = MsgStaleProfile
		return page
	}

	page.Err = result.Err
	return page
}
