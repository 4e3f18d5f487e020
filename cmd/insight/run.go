package main

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"MarketInsight/internal/api"
	"MarketInsight/internal/notifier"
	"MarketInsight/internal/scheduler"
)

var (
	runNoAPI         bool
	runNoBot         bool
	runDigestOnStart bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Serve the HTTP API, the Telegram bot and the scheduled digest",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		cfg := app.Config
		log := app.Logger

		var tg *notifier.Telegram
		if cfg.TelegramEnabled() {
			tg = newTelegram()
		} else {
			log.Warn().Msg("telegram not configured, bot and digest delivery disabled")
		}

		var sender scheduler.Sender
		if tg != nil {
			sender = tg
		}
		sched := scheduler.New(ctx, app.Service, app.Router, app.Store, sender, cfg.Watchlist, log)
		if err := sched.Register(cfg.Schedule.DigestCron); err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()

		if tg != nil && !runNoBot {
			go tg.Poll(ctx, sched.HandleMessage)
			log.Info().Msg("telegram polling started")
		}
		if runDigestOnStart {
			go sched.RunDigestNow()
		}

		var srv *http.Server
		errCh := make(chan error, 1)
		if !runNoAPI {
			gin.SetMode(gin.ReleaseMode)
			handler := api.NewRouter(api.NewServer(app.Service, app.Router, app.Store, app.Fetcher, log))
			srv = &http.Server{Addr: cfg.Server.Addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}
			go func() {
				log.Info().Str("addr", cfg.Server.Addr).Msg("http api listening")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- fmt.Errorf("http server: %w", err)
				}
			}()
		}

		log.Info().Msg("MarketInsight is running. Press Ctrl+C to stop.")
		select {
		case <-ctx.Done():
			log.Info().Msg("shutdown signal received, stopping")
		case err := <-errCh:
			return err
		}

		if srv != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Warn().Err(err).Msg("http shutdown")
			}
		}
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&runNoAPI, "no-api", false, "do not start the HTTP API")
	runCmd.Flags().BoolVar(&runNoBot, "no-bot", false, "do not answer Telegram messages")
	runCmd.Flags().BoolVar(&runDigestOnStart, "digest-on-start", false, "send the digest once at startup")
}

func newTelegram() *notifier.Telegram {
	return notifier.NewTelegram(app.Config.Telegram.BotToken, app.Config.Telegram.ChatID,
		notifier.WithProxy(app.Config.Proxy),
		notifier.WithLogger(app.Logger),
	)
}

var digestSend bool

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Build the market digest and print or send it",
	RunE: func(cmd *cobra.Command, _ []string) error {
		var sender scheduler.Sender
		if digestSend {
			if !app.Config.TelegramEnabled() {
				return errors.New("telegram is not configured")
			}
			sender = newTelegram()
		}
		sched := scheduler.New(cmd.Context(), app.Service, app.Router, app.Store, sender, app.Config.Watchlist, app.Logger)
		if digestSend {
			sched.RunDigestNow()
			return nil
		}
		d := sched.BuildDigest(cmd.Context())
		return render(cmd.OutOrStdout(), d, plain(notifier.FormatDigest(d)))
	},
}

func init() {
	digestCmd.Flags().BoolVar(&digestSend, "send", false, "send to the configured Telegram chat")
}

var htmlTag = regexp.MustCompile(`</?[a-z]+>`)

// plain strips the Telegram HTML markup for terminal output.
func plain(s string) string {
	return html.UnescapeString(htmlTag.ReplaceAllString(s, ""))
}
