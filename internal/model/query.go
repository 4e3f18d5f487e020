package model

// Intent is the classified purpose of a free-text question.
type Intent string

const (
	IntentPrediction Intent = "prediction"
	IntentComparison Intent = "comparison"
	IntentBuySell    Intent = "buy_sell"
	IntentScreening  Intent = "screening"
	IntentAnalysis   Intent = "analysis"
	IntentHelp       Intent = "help"
)

// EnvelopeType tags the kind of answer in an Envelope.
type EnvelopeType string

const (
	EnvelopePrediction     EnvelopeType = "prediction"
	EnvelopeComparison     EnvelopeType = "comparison"
	EnvelopeRecommendation EnvelopeType = "recommendation"
	EnvelopeScreening      EnvelopeType = "screening"
	EnvelopeAnalysis       EnvelopeType = "analysis"
	EnvelopeHelp           EnvelopeType = "help"
	EnvelopeError          EnvelopeType = "error"
)

// Envelope is the uniform answer returned for every question.
type Envelope struct {
	Type        EnvelopeType `json:"type"`
	Intent      Intent       `json:"intent"`
	Symbols     []string     `json:"symbols,omitempty"`
	Symbol      string       `json:"symbol,omitempty"`
	Answer      string       `json:"answer"`
	Score       *int         `json:"score,omitempty"`
	Signal      Signal       `json:"signal,omitempty"`
	Data        any          `json:"data,omitempty"`
	Suggestions []string     `json:"suggestions"`
}

// ComparisonEntry is one ranked row of a comparison answer.
type ComparisonEntry struct {
	Symbol   string         `json:"symbol"`
	Analysis *StockAnalysis `json:"analysis,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// Comparison is the structured payload of a comparison answer.
type Comparison struct {
	Entries []ComparisonEntry `json:"entries"`
	Winner  string            `json:"winner,omitempty"`
}

// ScreenResult is one row of a screening answer.
type ScreenResult struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	PctChange float64 `json:"pctChange"`
}
