package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/onelance/project-tracker/internal/auth"
	cfg "github.com/onelance/project-tracker/internal/config"
	"github.com/onelance/project-tracker/internal/email"
	"github.com/onelance/project-tracker/internal/i18n"
	"github.com/onelance/project-tracker/internal/infrastructure/tracker/github"
	"github.com/onelance/project-tracker/internal/logger"
	"github.com/onelance/project-tracker/internal/server"
	"github.com/onelance/project-tracker/internal/services"
)

func main() {
	app := newApp()

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "project-tracker",
		Usage: "Servidor del tablero de seguimiento de issues",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "Ruta al archivo de configuración JSON",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Logs de depuración",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Logs informativos",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Levanta el servidor HTTP del dashboard",
				Action: runServe,
			},
		},
	}
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	logger.Initialize(cmd.Bool("debug"), cmd.Bool("verbose"))

	config, err := cfg.LoadConfig(cmd.String("config"))
	if err != nil {
		return err
	}

	translations, err := i18n.NewTranslations(config.Language, "locales/")
	if err != nil {
		return err
	}

	owner, repo := config.SplitRepo()
	timeout := time.Duration(config.RequestTimeout) * time.Second

	tracker := github.NewGitHubClient(owner, repo, config.GithubToken, timeout)
	aggregator := services.NewAggregatorService(tracker, translations)
	authService := auth.NewService(config.JWTSecret, config.AllowedEmails)
	sender := email.NewSender(config.ResendAPIKey, config.ResendFromEmail, config.AppURL, translations)

	secureCookies := strings.HasPrefix(config.AppURL, "https://")
	srv := server.New(aggregator, authService, sender, translations, secureCookies)

	httpServer := &http.Server{
		Addr:              config.ListenAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "server listening", "addr", config.ListenAddr, "repo", config.GithubRepo)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}

	return nil
}
