package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketInsight/internal/model"
)

type sent struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

func TestTelegram_Send(t *testing.T) {
	var got sent
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendMessage", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	tg := NewTelegram("TOKEN", "42", WithBaseURL(srv.URL))
	require.NoError(t, tg.Send(context.Background(), "<b>hi</b>"))

	assert.Equal(t, sent{ChatID: "42", Text: "<b>hi</b>", ParseMode: "HTML"}, got)
}

func TestTelegram_SendWithRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, `{"ok":false}`, http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	tg := NewTelegram("T", "1", WithBaseURL(srv.URL), WithBackoff(time.Millisecond))
	require.NoError(t, tg.SendWithRetry(context.Background(), "digest", 3))
	assert.Equal(t, int32(3), calls.Load())
}

func TestTelegram_SendWithRetry_Exhausted(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	tg := NewTelegram("T", "1", WithBaseURL(srv.URL), WithBackoff(time.Millisecond))
	err := tg.SendWithRetry(context.Background(), "digest", 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all 3 attempts failed")
	assert.Contains(t, err.Error(), "status 401")
	assert.Equal(t, int32(3), calls.Load())
}

func TestTelegram_Poll(t *testing.T) {
	var (
		mu      sync.Mutex
		replies []sent
		polls   atomic.Int32
	)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/getUpdates"):
			if polls.Add(1) == 1 {
				assert.Equal(t, "0", r.URL.Query().Get("offset"))
				w.Write([]byte(`{"ok":true,"result":[
					{"update_id":7,"message":{"text":"  Predict TCS price ","chat":{"id":99}}},
					{"update_id":8,"message":{"text":"","chat":{"id":99}}},
					{"update_id":9}
				]}`))
				return
			}
			assert.Equal(t, "10", r.URL.Query().Get("offset"))
			time.Sleep(5 * time.Millisecond)
			w.Write([]byte(`{"ok":true,"result":[]}`))
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			var s sent
			require.NoError(t, json.NewDecoder(r.Body).Decode(&s))
			mu.Lock()
			replies = append(replies, s)
			mu.Unlock()
			cancel()
			w.Write([]byte(`{"ok":true}`))
		}
	}))
	defer srv.Close()

	tg := NewTelegram("T", "1", WithBaseURL(srv.URL), WithPollTimeout(1))
	done := make(chan struct{})
	go func() {
		tg.Poll(ctx, func(_ context.Context, text string) string { return "echo: " + text })
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("poll did not stop")
	}
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, replies, 1)
	assert.Equal(t, "99", replies[0].ChatID)
	assert.Equal(t, "echo: Predict TCS price", replies[0].Text)
}

func TestSplit(t *testing.T) {
	assert.Equal(t, []string{"short"}, Split("short", 10))

	parts := Split("aaaa\nbbbb\ncccc", 10)
	assert.Equal(t, []string{"aaaa\nbbbb", "cccc"}, parts)

	parts = Split(strings.Repeat("x", 25), 10)
	assert.Equal(t, []string{strings.Repeat("x", 10), strings.Repeat("x", 10), strings.Repeat("x", 5)}, parts)
}

func TestHTML(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"**Winner: TCS** (Score: 70/100)", "<b>Winner: TCS</b> (Score: 70/100)"},
		{"P&L <up>", "P&amp;L &lt;up&gt;"},
		{"a **b** c **d", "a <b>b</b> c **d"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTML(tt.in))
	}
}

func TestFormatEnvelope(t *testing.T) {
	env := model.Envelope{
		Answer:      "⚖️ **Stock Comparison**",
		Suggestions: []string{"Predict TCS price", "Predict INFY price"},
	}

	assert.Equal(t, "⚖️ <b>Stock Comparison</b>\n\n💡 <i>Try:</i>\n• Predict TCS price\n• Predict INFY price", FormatEnvelope(env))
}

func TestFormatDigest(t *testing.T) {
	d := model.Digest{
		GeneratedAt: time.Date(2026, 3, 2, 15, 45, 0, 0, time.UTC),
		Market: &model.Heatmap{
			Mood:            model.MoodBullish,
			MoodDescription: "More stocks rising than falling",
			Breadth:         model.Breadth{Advances: 30, Declines: 12, Unchanged: 3},
			BestSector:      model.SectorMove{Name: "IT", Change: 1.25},
			WorstSector:     model.SectorMove{Name: "Metals", Change: -0.8},
		},
		Watchlist: []model.WatchEntry{
			{Symbol: "TCS", Price: 3512.4, PctChange: 1.2, Score: 72, Signal: model.SignalBuy, Position52w: 0.8},
			{Symbol: "WIPRO", Error: "unavailable"},
		},
		Portfolio: &model.PortfolioReport{OverallScore: 64, Grade: "B", StockCount: 2, TotalValue: 125000, TotalPnL: 5000, TotalPnLPercent: 4.17},
	}

	want := "📬 <b>Market Digest</b> | 2026-03-02 15:45\n" +
		"\nMood: <b>BULLISH</b>\nMore stocks rising than falling\n" +
		"Advances 30 | Declines 12 | Unchanged 3\n" +
		"Best: IT (+1.25%) | Worst: Metals (-0.80%)\n" +
		"\n👀 <b>Watchlist</b>\n" +
		"🟢 <b>TCS</b> ₹3,512.40 (+1.20%) | Score 72/100 BUY | 52w 80%\n" +
		"❌ WIPRO: data unavailable\n" +
		"\n💼 <b>Portfolio</b> 64/100 (B)\n" +
		"Value ₹125,000.00 | P&amp;L ₹5,000.00 (+4.17%)"
	assert.Equal(t, want, FormatDigest(d))
}

func TestFormatPortfolio(t *testing.T) {
	r := model.PortfolioReport{
		OverallScore: 55,
		Grade:        "C",
		Summary:      "Your portfolio is worth ₹31,000.00",
		StockCount:   1,
		Positions: []model.PositionValuation{{
			Position:    model.Position{Symbol: "TCS", Quantity: 10, AverageCost: 3000},
			MarketValue: 31000, PnL: 1000, PnLPercent: 3.33, PriceStale: true,
		}},
		Suggestions: []string{"Diversify across sectors"},
	}

	want := "💼 <b>Portfolio Health: 55/100 (C)</b>\n\n" +
		"Your portfolio is worth ₹31,000.00\n\n" +
		"🟢 TCS × 10 = ₹31,000.00 (+3.33%) ⏳\n" +
		"\n<b>Suggestions</b>\n• Diversify across sectors"
	assert.Equal(t, want, FormatPortfolio(r))
}
