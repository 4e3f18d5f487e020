// Package assistant answers free-text questions about instruments by
// classifying intent and dispatching to the analytics pipeline.
package assistant

import (
	"context"
	"strings"

	"MarketInsight/internal/common"
	"MarketInsight/internal/model"
)

// Analyst is the analytics surface the router dispatches to.
type Analyst interface {
	Analyze(ctx context.Context, symbol string) (*model.StockAnalysis, error)
	Compare(ctx context.Context, symbols []string) model.Comparison
	Screen(ctx context.Context, query string) (string, []model.ScreenResult)
}

// query is one classified question.
type query struct {
	text    string
	lower   string
	symbols []string
}

func (q query) containsAny(words []string) bool {
	for _, w := range words {
		if strings.Contains(q.lower, w) {
			return true
		}
	}
	return false
}

type handler func(ctx context.Context, q query) model.Envelope

// rule pairs an intent predicate with its handler. Rules are evaluated in
// order and the first match wins.
type rule struct {
	intent model.Intent
	match  func(q query) bool
	handle handler
}

// Intent keyword sets, matched as substrings of the lowercased question.
var (
	PredictionKeywords = []string{"predict", "forecast", "future", "target", "price prediction"}
	ComparisonKeywords = []string{"compare", "vs", "versus", "better"}
	BuySellKeywords    = []string{"buy", "sell", "should i", "invest", "good time"}
	ScreeningKeywords  = []string{"best", "top", "undervalued", "overvalued", "cheap", "value"}
	AnalysisKeywords   = []string{"analyze", "analysis", "detail", "about", "tell me"}
)

// Router classifies questions and produces answer envelopes.
type Router struct {
	analyst Analyst
	dir     Directory
	logger  *common.Logger
	rules   []rule
}

// NewRouter creates a router. A nil logger discards output.
func NewRouter(analyst Analyst, dir Directory, logger *common.Logger) *Router {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	r := &Router{analyst: analyst, dir: dir, logger: logger}
	r.rules = []rule{
		{model.IntentPrediction, keywordRule(PredictionKeywords), r.prediction},
		{model.IntentComparison, keywordRule(ComparisonKeywords), r.comparison},
		{model.IntentBuySell, keywordRule(BuySellKeywords), r.buySell},
		{model.IntentScreening, keywordRule(ScreeningKeywords), r.screening},
		{model.IntentAnalysis, keywordRule(AnalysisKeywords), r.analysis},
		{model.IntentAnalysis, func(q query) bool { return len(q.symbols) > 0 }, r.analysis},
		{model.IntentHelp, func(query) bool { return true }, r.help},
	}
	return r
}

func keywordRule(words []string) func(query) bool {
	return func(q query) bool { return q.containsAny(words) }
}

// Classify returns the intent of text and the symbols found in it.
func (r *Router) Classify(text string) (model.Intent, []string) {
	q := r.parse(text)
	return r.match(q).intent, q.symbols
}

// Answer classifies text and runs the matching handler. It never fails:
// unresolvable questions and data errors become error envelopes.
func (r *Router) Answer(ctx context.Context, text string) model.Envelope {
	q := r.parse(text)
	ru := r.match(q)
	r.logger.Debug().Str("intent", string(ru.intent)).Int("symbols", len(q.symbols)).Msg("query classified")

	env := ru.handle(ctx, q)
	if env.Intent == "" {
		env.Intent = ru.intent
	}
	if env.Suggestions == nil {
		env.Suggestions = []string{}
	}
	return env
}

func (r *Router) parse(text string) query {
	text = strings.TrimSpace(text)
	return query{
		text:    text,
		lower:   strings.ToLower(text),
		symbols: ExtractSymbols(text, r.dir),
	}
}

func (r *Router) match(q query) rule {
	for _, ru := range r.rules {
		if ru.match(q) {
			return ru
		}
	}
	return r.rules[len(r.rules)-1]
}
