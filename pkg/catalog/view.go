package catalog

import (
	"fmt"

	"github.com/DRKxR4VEN/tiembanhngot/pkg/models"
)

// Titles and empty-state text.
const (
	TitleAll       = "Cake list"
	TitleMine      = "My cakes"
	EmptyIcon      = "🍰"
	EmptyTitle     = "No products yet"
	EmptyHint      = "Create your first product!"
	AuthPromptHint = "Log in to see the cakes you created."
)

// ViewModel is everything a front end needs to draw the list page.
type ViewModel struct {
	Title      string
	Tab        Tab
	ShowFilter bool
	Filter     string
	State      State
	Items      []ItemView
	Empty      *EmptyView
	AuthPrompt bool
	Pagination *PaginationView
	Banner     *Banner
}

// ItemView is one rendered product.
type ItemView struct {
	ID          int64
	Name        string
	Category    string
	Price       string
	Image       string
	Description string
	Creator     string
	CreatedAt   string
	Deletable   bool
}

// EmptyView is shown instead of the list when it has no items.
type EmptyView struct {
	Icon  string
	Title string
	Hint  string
}

// PaginationView is the page bar.
type PaginationView struct {
	Info         string
	Page         int
	TotalPages   int
	Total        int
	Markers      []MarkerView
	PrevPage     int
	NextPage     int
	PrevDisabled bool
	NextDisabled bool
}

// MarkerView is one slot of the page bar.
type MarkerView struct {
	Label    string
	Page     int
	Active   bool
	Ellipsis bool
}

// BuildView derives the view model from a snapshot. It has no side effects.
func BuildView(s Snapshot) ViewModel {
	tab := s.Query.CurrentTab
	if !tab.Valid() {
		tab = TabAll
	}

	vm := ViewModel{
		Title:      TitleAll,
		Tab:        tab,
		ShowFilter: tab == TabAll,
		Filter:     s.Query.CurrentFilter,
		State:      s.State,
		Items:      make([]ItemView, 0, len(s.Products)),
		Banner:     s.Banner,
	}
	if tab == TabMine {
		vm.Title = TitleMine
	}

	for _, p := range s.Products {
		vm.Items = append(vm.Items, buildItem(p, tab == TabMine))
	}

	if len(vm.Items) == 0 {
		vm.Empty = &EmptyView{Icon: EmptyIcon, Title: EmptyTitle, Hint: EmptyHint}
		if s.State == StateUnauthorized {
			vm.AuthPrompt = true
			vm.Empty.Hint = AuthPromptHint
		}
	}

	if s.State != StateLoadedFromCache && s.State != StateUnauthorized {
		vm.Pagination = buildPagination(s.Pagination)
	}
	return vm
}

func buildItem(p models.Product, deletable bool) ItemView {
	item := ItemView{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Price:       FormatPrice(p.Price),
		Image:       p.Image,
		Description: p.Description,
		Deletable:   deletable,
	}
	if p.CreatorUsername != "" {
		item.Creator = p.CreatorName
		if item.Creator == "" {
			item.Creator = p.CreatorUsername
		}
	}
	if p.CreatedAt != "" {
		item.CreatedAt = FormatDate(p.CreatedAt)
	}
	return item
}

// buildPagination returns nil when there is a single page or none.
func buildPagination(p *models.Pagination) *PaginationView {
	if p == nil {
		return nil
	}
	n := p.Normalize()
	if n.TotalPages <= 1 {
		return nil
	}

	view := &PaginationView{
		Info:         fmt.Sprintf("Page %d / %d (Total: %d products)", n.Page, n.TotalPages, n.Total),
		Page:         n.Page,
		TotalPages:   n.TotalPages,
		Total:        n.Total,
		PrevPage:     n.Page - 1,
		NextPage:     n.Page + 1,
		PrevDisabled: n.Page <= 1,
		NextDisabled: n.Page >= n.TotalPages,
	}
	for _, m := range Window(n.Page, n.TotalPages) {
		view.Markers = append(view.Markers, MarkerView{
			Label:    m.String(),
			Page:     m.Page,
			Active:   !m.Ellipsis && m.Page == n.Page,
			Ellipsis: m.Ellipsis,
		})
	}
	return view
}
