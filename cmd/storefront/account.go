package main

import (
	"fmt"
	"sort"

	"github.com/DRKxR4VEN/tiembanhngot/pkg/account"
	"github.com/spf13/cobra"
)

func newLoginCmd(a *app) *cobra.Command {
	var (
		username string
		password string
		remember bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the storefront",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			session := a.session()

			var err error
			if username == "" {
				saved := session.RememberedUsername(ctx)
				label := "Username: "
				if saved != "" {
					label = fmt.Sprintf("Username [%s]: ", saved)
				}
				if username, err = a.prompt(label); err != nil {
					return err
				}
				if username == "" {
					username = saved
				}
			}
			if password == "" {
				if password, err = a.prompt("Password: "); err != nil {
					return err
				}
			}

			profile, err := session.Login(ctx, username, password, remember)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Logged in as %s\n", account.BuildProfileView(profile).DisplayName)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "username (defaults to the remembered one)")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when empty)")
	cmd.Flags().BoolVar(&remember, "remember", false, "remember the username for the next login")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved token and profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.session().Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Logged out.")
			return nil
		},
	}
}

func newProfileCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show your profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			page := account.NewProfileLoader(a.services.Profile, a.cache).Load(cmd.Context())
			renderProfile(a.out, page)
			if page.Err != nil {
				return page.Err
			}
			return nil
		},
	}
}

func newCacheInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cache-info",
		Short: "Show what is saved locally",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			stats, err := a.cache.Store().Stats(ctx)
			if err != nil {
				return err
			}

			keys := make([]string, 0, len(stats))
			for key := range stats {
				keys = append(keys, key)
			}
			sort.Strings(keys)

			fmt.Fprintf(a.out, "backend: %s\n", a.cfg.CacheBackend)
			for _, key := range keys {
				fmt.Fprintf(a.out, "%s: %v\n", key, stats[key])
			}

			session := a.session()
			if username, ok := session.CurrentUsername(ctx); ok {
				fmt.Fprintf(a.out, "logged in as: %s\n", username)
			} else if session.LoggedIn(ctx) {
				fmt.Fprintln(a.out, "logged in: yes")
			} else {
				fmt.Fprintln(a.out, "logged in: no")
			}
			if saved := session.RememberedUsername(ctx); saved != "" {
				fmt.Fprintf(a.out, "remembered username: %s\n", saved)
			}
			fmt.Fprintf(a.out, "saved products: %d\n", len(a.cache.ProductsList(ctx)))
			return nil
		},
	}
}
