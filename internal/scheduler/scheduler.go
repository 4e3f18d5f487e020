// Package scheduler runs the periodic digest and answers chat commands.
package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"MarketInsight/internal/analysis"
	"MarketInsight/internal/assistant"
	"MarketInsight/internal/common"
	"MarketInsight/internal/config"
	"MarketInsight/internal/model"
	"MarketInsight/internal/narrative"
	"MarketInsight/internal/notifier"
)

// sendRetries is how often a failed digest delivery is retried.
const sendRetries = 3

// Sender delivers a formatted message to the subscribed chat.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// PositionLister supplies the stored portfolio.
type PositionLister interface {
	List(ctx context.Context) ([]model.Position, error)
}

// Scheduler manages the digest cron job and chat commands.
type Scheduler struct {
	cron      *cron.Cron
	service   *analysis.Service
	router    *assistant.Router
	positions PositionLister
	sender    Sender
	watchlist []string
	logger    *common.Logger
	now       func() time.Time
	ctx       context.Context
}

// New creates a Scheduler. positions and sender may be nil.
func New(ctx context.Context, svc *analysis.Service, router *assistant.Router, positions PositionLister, sender Sender, watchlist []string, logger *common.Logger) *Scheduler {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Scheduler{
		cron:      cron.New(cron.WithParser(config.CronParser)),
		service:   svc,
		router:    router,
		positions: positions,
		sender:    sender,
		watchlist: watchlist,
		logger:    logger,
		now:       time.Now,
		ctx:       ctx,
	}
}

// Register schedules the digest.
func (s *Scheduler) Register(digestCron string) error {
	if _, err := s.cron.AddFunc(digestCron, s.digestTask); err != nil {
		return fmt.Errorf("register digest task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info().Int("jobs", len(s.cron.Entries())).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info().Msg("scheduler stopped")
}

// RunDigestNow builds and sends the digest immediately.
func (s *Scheduler) RunDigestNow() {
	s.digestTask()
}

func (s *Scheduler) digestTask() {
	s.logger.Info().Int("watchlist", len(s.watchlist)).Msg("running digest task")
	d := s.BuildDigest(s.ctx)
	s.trySend(notifier.FormatDigest(d))
}

// BuildDigest evaluates the watchlist, the market heatmap and the stored
// portfolio. Portfolio failures leave it out of the digest.
func (s *Scheduler) BuildDigest(ctx context.Context) model.Digest {
	d := model.Digest{GeneratedAt: s.now()}
	d.Watchlist = s.service.Watch(ctx, s.watchlist)

	market := s.service.Heatmap(ctx)
	d.Market = &market

	if report, ok := s.portfolio(ctx); ok {
		d.Portfolio = &report
	}
	return d
}

func (s *Scheduler) portfolio(ctx context.Context) (model.PortfolioReport, bool) {
	if s.positions == nil {
		return model.PortfolioReport{}, false
	}
	positions, err := s.positions.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("list positions")
		return model.PortfolioReport{}, false
	}
	return s.service.ScorePortfolio(ctx, positions), true
}

// HandleMessage answers one chat message. Slash commands reach the digest,
// portfolio and heatmap; anything else goes to the assistant.
func (s *Scheduler) HandleMessage(ctx context.Context, text string) string {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(text), " ")
	// strip a @botname suffix from group commands
	cmd, _, _ = strings.Cut(strings.ToLower(cmd), "@")

	switch cmd {
	case "/start", "/help":
		return notifier.FormatEnvelope(s.router.Answer(ctx, "help"))
	case "/digest":
		return notifier.FormatDigest(s.BuildDigest(ctx))
	case "/portfolio":
		report, ok := s.portfolio(ctx)
		if !ok {
			return "Portfolio is not available."
		}
		return notifier.FormatPortfolio(report)
	case "/heatmap":
		if arg = strings.TrimSpace(arg); arg != "" {
			sector, err := s.service.SectorDetail(ctx, arg)
			if err != nil {
				return notifier.HTML(fmt.Sprintf("Unknown sector %q.", arg))
			}
			return notifier.HTML(narrative.Sector(sector))
		}
		return notifier.HTML(narrative.Heatmap(s.service.Heatmap(ctx)))
	default:
		return notifier.FormatEnvelope(s.router.Answer(ctx, text))
	}
}

func (s *Scheduler) trySend(text string) {
	if s.sender == nil {
		s.logger.Warn().Msg("no sender configured, digest dropped")
		return
	}
	if err := s.sender.SendWithRetry(s.ctx, text, sendRetries); err != nil {
		s.logger.Error().Err(err).Msg("send digest")
	}
}
