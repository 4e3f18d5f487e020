package model

// MACDTrend classifies the MACD line against its signal line.
type MACDTrend string

const (
	MACDBullish MACDTrend = "bullish"
	MACDBearish MACDTrend = "bearish"
	MACDNeutral MACDTrend = "neutral" // not enough history
)

// BandPosition locates the current price within the Bollinger envelope.
type BandPosition string

const (
	BandAboveUpper BandPosition = "above_upper"
	BandUpperHalf  BandPosition = "upper_half"
	BandLowerHalf  BandPosition = "lower_half"
	BandBelowLower BandPosition = "below_lower"
	BandMiddle     BandPosition = "middle" // not enough history
)

// MATrend is the five-bucket moving-average trend classification.
type MATrend string

const (
	TrendStrongBullish    MATrend = "strong_bullish"
	TrendBullish          MATrend = "bullish"
	TrendNeutral          MATrend = "neutral"
	TrendBearish          MATrend = "bearish"
	TrendStrongBearish    MATrend = "strong_bearish"
	TrendInsufficientData MATrend = "insufficient_data"
)

// MACD holds the MACD line, its signal line and their difference.
type MACD struct {
	Line      float64   `json:"macd"`
	Signal    float64   `json:"signal"`
	Histogram float64   `json:"histogram"`
	Trend     MACDTrend `json:"trend"`
}

// Bollinger holds the band levels and where the last close sits.
type Bollinger struct {
	Upper    float64      `json:"upper"`
	Middle   float64      `json:"middle"`
	Lower    float64      `json:"lower"`
	Position BandPosition `json:"position"`
}

// MovingAverages holds simple moving averages; a nil entry means not enough history.
type MovingAverages struct {
	SMA5   *float64 `json:"sma5"`
	SMA10  *float64 `json:"sma10"`
	SMA20  *float64 `json:"sma20"`
	SMA50  *float64 `json:"sma50"`
	SMA200 *float64 `json:"sma200"`
	Trend  MATrend  `json:"trend"`
}

// IndicatorBundle is the full technical picture computed from one close series.
type IndicatorBundle struct {
	RSI            float64        `json:"rsi"`
	MACD           MACD           `json:"macd"`
	Bollinger      Bollinger      `json:"bollinger"`
	MovingAverages MovingAverages `json:"movingAverages"`
	// Defaulted lists the indicators that fell back to their neutral value.
	Defaulted []string `json:"defaulted,omitempty"`
}
