package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/DRKxR4VEN/tiembanhngot/pkg/account"
	"github.com/DRKxR4VEN/tiembanhngot/pkg/api"
	"github.com/DRKxR4VEN/tiembanhngot/pkg/cache"
	"github.com/DRKxR4VEN/tiembanhngot/pkg/catalog"
	"github.com/DRKxR4VEN/tiembanhngot/pkg/config"
	apperrors "github.com/DRKxR4VEN/tiembanhngot/pkg/errors"
	httpclient "github.com/DRKxR4VEN/tiembanhngot/pkg/http"
	"github.com/DRKxR4VEN/tiembanhngot/pkg/logging"
	"github.com/spf13/cobra"
)

const version = "1.0.0"

// app holds everything a command needs. It is filled in by the root
// command's pre-run hook so that --help works without configuration.
type app struct {
	in  *bufio.Reader
	out io.Writer

	cfg      *config.Config
	logger   *logging.Logger
	cache    *cache.Cache
	services *api.Services
	banners  *catalog.Banners
}

func run(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	a := &app{in: bufio.NewReader(in), out: out}
	defer a.close()

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	return root.ExecuteContext(ctx)
}

func newRootCmd(a *app) *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Browse and manage the cake shop storefront",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd.Context(), envFile)
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file with storefront settings")

	root.AddCommand(
		newListCmd(a),
		newMineCmd(a),
		newShowCmd(a),
		newCardCmd(a),
		newAddCmd(a),
		newDeleteCmd(a),
		newLoginCmd(a),
		newLogoutCmd(a),
		newProfileCmd(a),
		newCacheInfoCmd(a),
	)
	return root
}

func (a *app) open(ctx context.Context, envFile string) error {
	cfg, err := config.LoadFiles(envFile)
	if err != nil {
		return err
	}

	logger := logging.NewLogger(&logging.Config{
		Level:      logging.ParseLevel(cfg.LogLevel),
		Format:     logging.ParseFormat(cfg.LogFormat),
		Output:     os.Stderr,
		Service:    "tiembanhngot",
		Version:    version,
		Production: cfg.IsProduction(),
	})
	logging.SetDefault(logger)

	store, err := cache.Open(ctx, cfg)
	if err != nil {
		return err
	}

	client := httpclient.NewClient(&httpclient.ClientConfig{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.RequestTimeout,
		Tokens:  store,
		Logger:  logger,
	})

	a.cfg = cfg
	a.logger = logger
	a.cache = store
	a.services = api.NewServices(client, cfg.Endpoints)
	a.banners = catalog.NewBanners(cfg.BannerTTL)

	logger.WithFields(map[string]interface{}{
		"base_url":      cfg.BaseURL,
		"cache_backend": cfg.CacheBackend,
	}).Debug(ctx, "storefront ready")
	return nil
}

func (a *app) close() {
	if a.banners != nil {
		a.banners.Close()
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Error(context.Background(), "Failed to close cache", err)
		}
	}
}

func (a *app) manager(limit int, confirm catalog.Confirmer) *catalog.Manager {
	if limit <= 0 {
		limit = a.cfg.PageLimit
	}
	return catalog.NewManager(catalog.ManagerConfig{
		Products: a.services.Products,
		Cache:    a.cache,
		Banners:  a.banners,
		Confirm:  confirm,
		Limit:    limit,
		Logger:   a.logger,
	})
}

func (a *app) session() *account.Session {
	return account.NewSession(a.services.Auth, a.cache)
}

// prompt writes label and reads one line from the input.
func (a *app) prompt(label string) (string, error) {
	fmt.Fprint(a.out, label)
	line, err := a.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// confirmer asks on the terminal unless yes is set.
func (a *app) confirmer(yes bool) catalog.Confirmer {
	return catalog.ConfirmFunc(func(ctx context.Context, question string) bool {
		if yes {
			return true
		}
		answer, err := a.prompt(question + " [y/N] ")
		if err != nil {
			a.logger.Error(ctx, "Failed to read confirmation", err)
			return false
		}
		switch strings.ToLower(answer) {
		case "y", "yes":
			return true
		}
		return false
	})
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, apperrors.Newf(apperrors.ErrCodeValidation, "invalid product id %q", arg)
	}
	return id, nil
}
