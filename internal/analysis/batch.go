package analysis

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"MarketInsight/internal/model"
	"MarketInsight/internal/narrative"
	"MarketInsight/internal/scorer"
)

const (
	// MaxCompared caps the symbols in one comparison.
	MaxCompared = 3
	// MaxScreened caps the quotes fetched for one screen.
	MaxScreened = 6
	// OtherSector holds positions no source could classify.
	OtherSector = "Other"
	// PopularScreen titles the fallback screen.
	PopularScreen = "popular"
)

// ErrUnknownSector is returned by SectorDetail for names matching no sector.
var ErrUnknownSector = errors.New("unknown sector")

// forEach runs fn for every index with bounded concurrency. fn records its own
// failures; one symbol never cancels the others.
func (s *Service) forEach(ctx context.Context, n int, fn func(ctx context.Context, i int)) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			fn(gctx, i)
			return nil
		})
	}
	_ = g.Wait()
}

// ScorePortfolio prices every position and assesses the portfolio. A position
// whose quote is unavailable is valued at its average cost and marked stale.
func (s *Service) ScorePortfolio(ctx context.Context, positions []model.Position) model.PortfolioReport {
	var live []model.Position
	for _, p := range positions {
		if p.Quantity > 0 {
			live = append(live, p)
		}
	}
	if len(live) == 0 {
		r := scorer.EmptyReport(s.now())
		r.Summary = narrative.EmptyPortfolio
		return r
	}

	holdings := make([]scorer.Holding, len(live))
	s.forEach(ctx, len(live), func(ctx context.Context, i int) {
		p := live[i]
		h := scorer.Holding{Position: p, Price: p.AverageCost, Sector: s.sectorOf(ctx, p.Symbol)}
		q, err := s.fetcher.FetchQuote(ctx, p.Symbol)
		switch {
		case err != nil:
			s.logger.Warn().Err(err).Str("symbol", p.Symbol).Msg("quote unavailable, valuing at average cost")
			h.Stale = true
		case q.Last <= 0:
			h.Stale = true
		default:
			h.Price = q.Last
		}
		holdings[i] = h
	})

	report := scorer.ScorePortfolio(scorer.Valuate(holdings), s.catalog, s.now())
	report.Summary = narrative.PortfolioHealth(report)
	return report
}

// sectorOf resolves a sector from the catalog, then provider metadata.
func (s *Service) sectorOf(ctx context.Context, symbol string) string {
	if sector, ok := s.catalog.Sector(symbol); ok {
		return sector
	}
	meta, err := s.fetcher.FetchMetadata(ctx, symbol)
	if err == nil && meta.Sector != "" {
		return meta.Sector
	}
	return OtherSector
}

// Compare analyses up to MaxCompared symbols and declares the highest scoring
// one the winner. Entries keep the input order; failed symbols carry an error.
func (s *Service) Compare(ctx context.Context, symbols []string) model.Comparison {
	if len(symbols) > MaxCompared {
		symbols = symbols[:MaxCompared]
	}
	entries := make([]model.ComparisonEntry, len(symbols))
	s.forEach(ctx, len(symbols), func(ctx context.Context, i int) {
		entries[i].Symbol = symbols[i]
		a, err := s.Analyze(ctx, symbols[i])
		if err != nil {
			s.logger.Warn().Err(err).Str("symbol", symbols[i]).Msg("comparison entry failed")
			entries[i].Error = err.Error()
			return
		}
		entries[i].Analysis = a
	})

	c := model.Comparison{Entries: entries}
	best := -1
	for _, e := range entries {
		if e.Analysis != nil && e.Analysis.Score > best {
			best = e.Analysis.Score
			c.Winner = e.Symbol
		}
	}
	return c
}

// Screen resolves query to a curated list, or the popular list, and ranks its
// first MaxScreened members by percent change. Unavailable quotes are skipped.
func (s *Service) Screen(ctx context.Context, query string) (string, []model.ScreenResult) {
	title, symbols, ok := s.catalog.Screen(query)
	if !ok {
		title, symbols = PopularScreen, s.catalog.Popular()
	}
	if len(symbols) > MaxScreened {
		symbols = symbols[:MaxScreened]
	}

	rows := make([]*model.ScreenResult, len(symbols))
	s.forEach(ctx, len(symbols), func(ctx context.Context, i int) {
		q, err := s.fetcher.FetchQuote(ctx, symbols[i])
		if err != nil {
			s.logger.Warn().Err(err).Str("symbol", symbols[i]).Msg("screen quote skipped")
			return
		}
		rows[i] = &model.ScreenResult{
			Symbol:    symbols[i],
			Name:      s.catalog.Name(symbols[i]),
			Price:     q.Last,
			PctChange: q.PctChange,
		}
	})

	out := make([]model.ScreenResult, 0, len(rows))
	for _, r := range rows {
		if r != nil {
			out = append(out, *r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PctChange > out[j].PctChange })
	return title, out
}

// Heatmap fetches every heatmap sector's quotes and summarises market breadth.
func (s *Service) Heatmap(ctx context.Context) model.Heatmap {
	groups := s.catalog.HeatmapSectors()
	type job struct{ sector, symbol int }
	var jobs []job
	sectors := make([]scorer.SectorQuotes, len(groups))
	quotes := make([][]*scorer.NamedQuote, len(groups))
	for gi, g := range groups {
		sectors[gi].Sector = g.Sector
		quotes[gi] = make([]*scorer.NamedQuote, len(g.Symbols))
		for si := range g.Symbols {
			jobs = append(jobs, job{gi, si})
		}
	}

	s.forEach(ctx, len(jobs), func(ctx context.Context, i int) {
		j := jobs[i]
		symbol := groups[j.sector].Symbols[j.symbol]
		q, err := s.fetcher.FetchQuote(ctx, symbol)
		if err != nil {
			s.logger.Warn().Err(err).Str("symbol", symbol).Msg("heatmap quote skipped")
			return
		}
		quotes[j.sector][j.symbol] = &scorer.NamedQuote{Name: s.catalog.Name(symbol), Quote: *q}
	})

	for gi := range sectors {
		for _, nq := range quotes[gi] {
			if nq != nil {
				sectors[gi].Quotes = append(sectors[gi].Quotes, *nq)
			}
		}
	}
	return scorer.BuildHeatmap(sectors, s.now())
}

// SectorDetail scores one heatmap sector, matched case-insensitively.
func (s *Service) SectorDetail(ctx context.Context, name string) (model.SectorHeat, error) {
	g, ok := s.catalog.HeatmapSector(name)
	if !ok {
		return model.SectorHeat{}, fmt.Errorf("%q: %w", name, ErrUnknownSector)
	}

	quotes := make([]*scorer.NamedQuote, len(g.Symbols))
	s.forEach(ctx, len(g.Symbols), func(ctx context.Context, i int) {
		q, err := s.fetcher.FetchQuote(ctx, g.Symbols[i])
		if err != nil {
			s.logger.Warn().Err(err).Str("symbol", g.Symbols[i]).Msg("sector quote skipped")
			return
		}
		quotes[i] = &scorer.NamedQuote{Name: s.catalog.Name(g.Symbols[i]), Quote: *q}
	})

	sq := scorer.SectorQuotes{Sector: g.Sector}
	for _, nq := range quotes {
		if nq != nil {
			sq.Quotes = append(sq.Quotes, *nq)
		}
	}
	return scorer.ScoreSector(sq), nil
}
