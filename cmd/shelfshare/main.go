package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/tbrandt/shelfshare/internal/infra/config"
	"github.com/tbrandt/shelfshare/internal/infra/logging"
	"github.com/tbrandt/shelfshare/internal/repo/session"
	"github.com/tbrandt/shelfshare/internal/svc/bookclient"
	"github.com/tbrandt/shelfshare/internal/svc/geosvc"
	"github.com/tbrandt/shelfshare/internal/svc/sessionsvc"
	"github.com/tbrandt/shelfshare/internal/view"
)

const appName = "shelfshare"

type Config struct {
	config.EnvConfig

	Log     logging.LoggerConfig                  `envPrefix:"LOG_"`
	API     bookclient.HTTPClientConfig           `envPrefix:"API_"`
	Session session.SQLiteSessionRepositoryConfig `envPrefix:"SESSION_"`
	Geo     geosvc.HTTPLocatorConfig              `envPrefix:"GEO_"`
}

func main() {
	var (
		cfg Config
		ctx = context.Background()

		configPrefix = strings.ToUpper(appName)
	)

	if err := config.Parse(ctx, &cfg, configPrefix); err != nil {
		panic(err)
	}

	logging.Configure(ctx, cfg.Log, appName)

	if err := run(ctx, cfg); err != nil {
		panic(err)
	}
}

func run(ctx context.Context, cfg Config) (err error) {
	defer func() {
		log := logging.GetLogger("cmd.shelfshare")

		if err != nil {
			log.ErrorContext(ctx, "error", "err", err)
			panic(err)
		}

		log.InfoContext(ctx, "shutdown")
	}()

	sessions, err := sessionsvc.NewSessionService(
		session.SQLiteSessionRepositoryFactory(cfg.Session),
	)
	if err != nil {
		return fmt.Errorf("new session service: %w", err)
	}
	defer sessions.Close()

	client, err := bookclient.NewHTTPClient(cfg.API, sessions, nil)
	if err != nil {
		return fmt.Errorf("new api client: %w", err)
	}

	locator := geosvc.NewHTTPLocator(cfg.Geo, nil)

	router := view.NewRouter(sessions)
	router.Handle(view.NewHomeView(), false)
	router.Handle(view.NewLoginView(client), false)
	router.Handle(view.NewRegisterView(client, locator), false)
	router.Handle(view.NewBooksView(client), true)
	router.Handle(view.NewMyBooksView(client), true)
	router.Handle(view.NewMyRentalsView(client), true)
	router.Handle(view.NewRentalRequestsView(client), true)

	app := view.NewApp(router, sessions, client, os.Stdout)

	if err := app.Run(ctx, os.Stdin); err != nil {
		return fmt.Errorf("run: %w", err)
	}

	return nil
}
