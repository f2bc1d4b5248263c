package main

import (
	"fmt"

	"github.com/DRKxR4VEN/tiembanhngot/pkg/catalog"
	apperrors "github.com/DRKxR4VEN/tiembanhngot/pkg/errors"
	"github.com/DRKxR4VEN/tiembanhngot/pkg/models"
	"github.com/spf13/cobra"
)

func newListCmd(a *app) *cobra.Command {
	var (
		page     int
		limit    int
		category string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all cakes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := a.manager(limit, nil)
			m.LoadProducts(cmd.Context(), page, category)
			renderList(a.out, m.View())
			return nil
		},
	}
	cmd.Flags().IntVarP(&page, "page", "p", 1, "page to show")
	cmd.Flags().IntVar(&limit, "limit", 0, "products per page (defaults to PAGE_LIMIT)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "only show this category")
	return cmd
}

func newMineCmd(a *app) *cobra.Command {
	var (
		page  int
		limit int
	)

	cmd := &cobra.Command{
		Use:   "mine",
		Short: "List the cakes you created",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := a.manager(limit, nil)
			if _, err := m.SwitchTabAt(cmd.Context(), catalog.TabMine, page); err != nil {
				return err
			}
			renderList(a.out, m.View())
			return nil
		},
	}
	cmd.Flags().IntVarP(&page, "page", "p", 1, "page to show")
	cmd.Flags().IntVar(&limit, "limit", 0, "products per page (defaults to PAGE_LIMIT)")
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one product in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			m := a.manager(0, nil)
			product, ok := m.ViewProductDetail(cmd.Context(), id)
			if !ok {
				renderBanner(a.out, m.Snapshot().Banner)
				return apperrors.Newf(apperrors.ErrCodeNotFound, "product %d could not be shown", id)
			}
			renderDetail(a.out, catalog.BuildDetailView(product))
			return nil
		},
	}
}

func newCardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "card <id>",
		Short: "Show a product card, falling back to the saved or sample product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			product, source := catalog.NewCardLoader(a.services.Products, a.cache).Load(cmd.Context(), id)
			renderCard(a.out, catalog.BuildCardView(product, source))
			return nil
		},
	}
}

func newAddCmd(a *app) *cobra.Command {
	var input models.ProductInput

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			m := a.manager(0, nil)
			m.LoadProducts(ctx, 1, "")

			product, err := m.AddProduct(ctx, input)
			renderBanner(a.out, m.Snapshot().Banner)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "#%d %s\n", product.ID, product.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&input.Name, "name", "", "product name")
	cmd.Flags().StringVar(&input.Category, "category", "", "product category")
	cmd.Flags().Int64Var(&input.Price, "price", 0, "price in VND")
	cmd.Flags().StringVar(&input.Image, "image", "", "image URL")
	cmd.Flags().StringVar(&input.Description, "description", "", "description")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove one of your cakes from the saved list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			m := a.manager(0, a.confirmer(yes))
			if _, err := m.SwitchTab(ctx, catalog.TabMine); err != nil {
				return err
			}

			deleted, err := m.DeleteProduct(ctx, id)
			renderBanner(a.out, m.Snapshot().Banner)
			if err != nil {
				return err
			}
			if !deleted {
				fmt.Fprintln(a.out, "Cancelled.")
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}
