package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/DRKxR4VEN/tiembanhngot/pkg/account"
	"github.com/DRKxR4VEN/tiembanhngot/pkg/catalog"
)

func renderBanner(w io.Writer, b *catalog.Banner) {
	if b == nil {
		return
	}
	mark := "✔"
	if b.Kind == catalog.BannerError {
		mark = "✖"
	}
	fmt.Fprintf(w, "%s %s\n", mark, b.Message)
}

func renderList(w io.Writer, v catalog.ViewModel) {
	title := "== " + v.Title + " =="
	if v.ShowFilter && v.Filter != "" {
		title += " (category: " + v.Filter + ")"
	}
	fmt.Fprintln(w, title)
	renderBanner(w, v.Banner)

	if v.Empty != nil {
		fmt.Fprintf(w, "%s %s\n", v.Empty.Icon, v.Empty.Title)
		fmt.Fprintln(w, v.Empty.Hint)
		if v.AuthPrompt {
			fmt.Fprintln(w, "Run `storefront login` first.")
		}
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tCREATOR\tCREATED")
	for _, item := range v.Items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			item.ID, item.Name, item.Category, item.Price, dash(item.Creator), dash(item.CreatedAt))
	}
	tw.Flush()

	if p := v.Pagination; p != nil {
		fmt.Fprintln(w, p.Info)
		fmt.Fprintln(w, paginationLine(p))
	}
}

func paginationLine(p *catalog.PaginationView) string {
	parts := make([]string, 0, len(p.Markers)+2)
	if !p.PrevDisabled {
		parts = append(parts, "«")
	}
	for _, m := range p.Markers {
		if m.Active {
			parts = append(parts, "["+m.Label+"]")
		} else {
			parts = append(parts, m.Label)
		}
	}
	if !p.NextDisabled {
		parts = append(parts, "»")
	}
	return strings.Join(parts, " ")
}

func renderDetail(w io.Writer, d catalog.DetailView) {
	fmt.Fprintf(w, "#%d %s\n", d.ID, d.Name)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Category:\t%s\n", d.Category)
	fmt.Fprintf(tw, "Price:\t%s\n", d.Price)
	if d.Image != "" {
		fmt.Fprintf(tw, "Image:\t%s\n", d.Image)
	}
	if d.Description != "" {
		fmt.Fprintf(tw, "Description:\t%s\n", d.Description)
	}
	fmt.Fprintf(tw, "Created by:\t%s\n", d.Creator)
	fmt.Fprintf(tw, "Created:\t%s\n", d.CreatedAt)
	fmt.Fprintf(tw, "Updated:\t%s\n", d.UpdatedAt)
	tw.Flush()
}

func renderCard(w io.Writer, c catalog.CardView) {
	fmt.Fprintf(w, "%s (%s)\n", c.Name, c.Category)
	fmt.Fprintln(w, c.Price)
	if c.Description != "" {
		fmt.Fprintln(w, c.Description)
	}
	if c.Image != "" {
		fmt.Fprintln(w, c.Image)
	}
	switch c.Source {
	case catalog.CardCached:
		fmt.Fprintln(w, "(saved copy)")
	case catalog.CardSample:
		fmt.Fprintln(w, "(sample product)")
	}
}

func renderProfile(w io.Writer, page account.ProfilePage) {
	if page.Err != nil {
		fmt.Fprintf(w, "✖ %s\n", page.ErrorText())
		return
	}
	if page.Stale {
		fmt.Fprintf(w, "! %s\n", page.Warning)
	}

	v := page.View
	if v == nil {
		return
	}
	fmt.Fprintf(w, "%s %s %s\n", v.Initials, v.DisplayName, v.Handle)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", v.ID)
	fmt.Fprintf(tw, "Username:\t%s\n", v.Username)
	fmt.Fprintf(tw, "Email:\t%s\n", v.Email)
	fmt.Fprintf(tw, "Full name:\t%s\n", v.FullName)
	fmt.Fprintf(tw, "Joined:\t%s\n", v.CreatedAt)
	if v.AvatarURL != "" {
		fmt.Fprintf(tw, "Avatar:\t%s\n", v.AvatarURL)
	}
	tw.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
