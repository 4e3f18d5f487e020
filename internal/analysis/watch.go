package analysis

import (
	"context"
	"fmt"

	"MarketInsight/internal/calculator"
	"MarketInsight/internal/collector"
	"MarketInsight/internal/model"
)

// Watch evaluates every symbol of a watchlist for the digest with the same
// scoring as Analyze. Entries keep the input order; a symbol without history
// carries an Error instead of figures.
func (s *Service) Watch(ctx context.Context, symbols []string) []model.WatchEntry {
	out := make([]model.WatchEntry, len(symbols))
	s.forEach(ctx, len(symbols), func(ctx context.Context, i int) {
		out[i] = s.watchOne(ctx, symbols[i])
	})
	return out
}

func (s *Service) watchOne(ctx context.Context, symbol string) model.WatchEntry {
	id := s.identity(symbol)
	e := model.WatchEntry{Symbol: symbol, Name: firstNonEmpty(id.Name, symbol)}

	series, err := s.fetcher.FetchHistory(ctx, symbol, s.historyDays)
	if err == nil && series.Len() == 0 {
		err = fmt.Errorf("no data available for %s: %w", symbol, collector.ErrUnavailable)
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("symbol", symbol).Msg("watchlist entry skipped")
		e.Error = err.Error()
		return e
	}

	a := Evaluate(id, series, s.metadata(ctx, symbol), s.now())
	e.Score = a.Score
	e.Signal = a.Signal
	e.Price = a.CurrentPrice

	if q, err := s.fetcher.FetchQuote(ctx, symbol); err == nil && q.Last > 0 {
		e.Price = q.Last
		e.PctChange = q.PctChange
	} else if n := series.Len(); n > 1 {
		prev := series.Bars[n-2].Close
		if prev > 0 {
			e.PctChange = calculator.Round((series.Last()-prev)/prev*100, 2)
		}
	}

	if high, low, err := calculator.Range52Week(series.Bars); err == nil {
		e.High52w = calculator.Round(high, 2)
		e.Low52w = calculator.Round(low, 2)
		e.Position52w = calculator.Round(calculator.Position52Week(e.Price, high, low), 4)
	}
	return e
}
