package assistant

import (
	"context"
	"fmt"

	"MarketInsight/internal/model"
	"MarketInsight/internal/narrative"
)

// HelpSuggestions are offered when a question could not be routed.
var HelpSuggestions = []string{
	"Should I buy RELIANCE?",
	"Predict TCS price",
	"Best pharma stocks",
	"Compare INFY and TCS",
	"Analyze HDFCBANK",
}

func errorEnvelope(intent model.Intent, format string, args ...any) model.Envelope {
	return model.Envelope{
		Type:   model.EnvelopeError,
		Intent: intent,
		Answer: fmt.Sprintf(format, args...),
	}
}

func (r *Router) prediction(ctx context.Context, q query) model.Envelope {
	if len(q.symbols) == 0 {
		return errorEnvelope(model.IntentPrediction, "Please specify a stock symbol. E.g., 'Predict RELIANCE price'")
	}
	symbol := q.symbols[0]

	a, err := r.analyst.Analyze(ctx, symbol)
	if err != nil {
		r.logger.Warn().Err(err).Str("symbol", symbol).Msg("prediction failed")
		return errorEnvelope(model.IntentPrediction, "Could not generate prediction for %s: %v", symbol, err)
	}
	if len(a.Predictions) == 0 {
		return errorEnvelope(model.IntentPrediction, "Could not generate prediction for %s: not enough price history", symbol)
	}

	fc := model.Forecast{
		Symbol:        symbol,
		CurrentPrice:  a.CurrentPrice,
		Predictions:   a.Predictions,
		Signal:        a.Signal,
		ModelAccuracy: a.ModelAccuracy,
	}
	score := a.Score
	return model.Envelope{
		Type:    model.EnvelopePrediction,
		Symbol:  symbol,
		Symbols: q.symbols,
		Answer:  narrative.Prediction(a.Name, symbol, fc),
		Score:   &score,
		Signal:  a.Signal,
		Data:    fc,
		Suggestions: []string{
			fmt.Sprintf("Should I buy %s?", symbol),
			fmt.Sprintf("Analyze %s", symbol),
			fmt.Sprintf("Compare %s with peers", symbol),
		},
	}
}

func (r *Router) comparison(ctx context.Context, q query) model.Envelope {
	if len(q.symbols) < 2 {
		return errorEnvelope(model.IntentComparison, "Please specify 2 stocks to compare. E.g., 'Compare TCS and INFY'")
	}

	c := r.analyst.Compare(ctx, q.symbols)
	symbols := make([]string, len(c.Entries))
	for i, e := range c.Entries {
		symbols[i] = e.Symbol
	}

	var suggestions []string
	for _, s := range symbols[:min(2, len(symbols))] {
		suggestions = append(suggestions, fmt.Sprintf("Predict %s price", s))
	}
	return model.Envelope{
		Type:        model.EnvelopeComparison,
		Symbols:     symbols,
		Answer:      narrative.Comparison(c),
		Data:        c,
		Suggestions: suggestions,
	}
}

func (r *Router) buySell(ctx context.Context, q query) model.Envelope {
	if len(q.symbols) == 0 {
		return errorEnvelope(model.IntentBuySell, "Please specify a stock. E.g., 'Should I buy RELIANCE?'")
	}
	symbol := q.symbols[0]
	return r.recommend(ctx, q, model.IntentBuySell, model.EnvelopeRecommendation, []string{
		fmt.Sprintf("Predict %s price", symbol),
		fmt.Sprintf("Compare %s with peers", symbol),
	})
}

func (r *Router) analysis(ctx context.Context, q query) model.Envelope {
	if len(q.symbols) == 0 {
		return errorEnvelope(model.IntentAnalysis, "Please specify a stock to analyze. E.g., 'Analyze RELIANCE'")
	}
	symbol := q.symbols[0]
	return r.recommend(ctx, q, model.IntentAnalysis, model.EnvelopeAnalysis, []string{
		fmt.Sprintf("Predict %s price", symbol),
		fmt.Sprintf("Should I buy %s?", symbol),
	})
}

// recommend answers with the full analysis of the first symbol. Buy/sell and
// analysis questions differ only in envelope type and suggestions.
func (r *Router) recommend(ctx context.Context, q query, intent model.Intent, typ model.EnvelopeType, suggestions []string) model.Envelope {
	symbol := q.symbols[0]
	a, err := r.analyst.Analyze(ctx, symbol)
	if err != nil {
		r.logger.Warn().Err(err).Str("symbol", symbol).Msg("analysis failed")
		return errorEnvelope(intent, "Could not analyze %s: %v", symbol, err)
	}

	answer := a.Summary
	if answer == "" {
		answer = "No analysis available."
	}
	score := a.Score
	return model.Envelope{
		Type:        typ,
		Symbol:      symbol,
		Symbols:     q.symbols,
		Answer:      answer,
		Score:       &score,
		Signal:      a.Signal,
		Data:        a,
		Suggestions: suggestions,
	}
}

func (r *Router) screening(ctx context.Context, q query) model.Envelope {
	title, rows := r.analyst.Screen(ctx, q.lower)

	suggestion := "Analyze RELIANCE"
	if len(rows) > 0 {
		suggestion = "Analyze " + rows[0].Symbol
	}
	return model.Envelope{
		Type:        model.EnvelopeScreening,
		Answer:      narrative.Screening(title, rows),
		Data:        rows,
		Suggestions: []string{suggestion},
	}
}

func (r *Router) help(_ context.Context, _ query) model.Envelope {
	return model.Envelope{
		Type:        model.EnvelopeHelp,
		Answer:      narrative.Help(len(r.dir.Instruments())),
		Suggestions: append([]string(nil), HelpSuggestions...),
	}
}
