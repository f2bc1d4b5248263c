package account

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/DRKxR4VEN/tiembanhngot/pkg/catalog"
	"github.com/DRKxR4VEN/tiembanhngot/pkg/models"
)

// Profile placeholders.
const (
	NotUpdated        = "not updated yet"
	AvatarPlaceholder = "👤"
)

// ProfileView is the profile page as displayed.
type ProfileView struct {
	DisplayName string
	Handle      string
	ID          string
	Username    string
	Email       string
	FullName    string
	CreatedAt   string
	AvatarURL   string
	Initials    string
}

// BuildProfileView formats a profile for display.
func BuildProfileView(p models.Profile) ProfileView {
	view := ProfileView{
		DisplayName: p.FullName,
		Handle:      "@" + p.Username,
		ID:          catalog.NotAvailable,
		Username:    p.Username,
		Email:       p.Email,
		FullName:    p.FullName,
		CreatedAt:   catalog.FormatDateStyle(p.CreatedAt, catalog.MonthLong),
		AvatarURL:   strings.TrimSpace(p.Avatar),
		Initials:    Initials(p.FullName),
	}
	if strings.TrimSpace(view.DisplayName) == "" {
		view.DisplayName = NotUpdated
		view.FullName = NotUpdated
	}
	if p.ID != 0 {
		view.ID = strconv.FormatInt(p.ID, 10)
	}
	if view.Username == "" {
		view.Username = catalog.NotAvailable
	}
	if view.Email == "" {
		view.Email = catalog.NotAvailable
	}
	return view
}

// Initials returns the upper-cased first letters of the first two words of
// name, or the placeholder when name is blank.
func Initials(name string) string {
	words := strings.Fields(name)
	if len(words) == 0 {
		return AvatarPlaceholder
	}

	if len(words) > 2 {
		words = words[:2]
	}
	var b strings.Builder
	for _, w := range words {
		b.WriteRune(unicode.ToUpper([]rune(w)[0]))
	}
	return b.String()
}
