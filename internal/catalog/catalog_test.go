package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Loads(t *testing.T) {
	c := Default()
	require.NotNil(t, c)
	assert.NotEmpty(t, c.Instruments())
	assert.Equal(t, []string{"RELIANCE", "TCS", "HDFCBANK", "INFY", "ICICIBANK"}, c.Popular())
	assert.Len(t, c.HeatmapSectors(), 14)
}

func TestDefault_CuratedListsAreKnown(t *testing.T) {
	c := Default()
	for _, g := range c.HeatmapSectors() {
		for _, s := range g.Symbols {
			assert.True(t, c.Has(s), "heatmap %s: unknown symbol %s", g.Sector, s)
		}
	}
	for _, s := range c.screens {
		for _, sym := range s.Symbols {
			assert.True(t, c.Has(sym), "screen %s: unknown symbol %s", s.Keyword, sym)
		}
	}
	for sym := range c.largeCaps {
		assert.True(t, c.Has(sym), "unknown large cap %s", sym)
	}
}

func TestLookup(t *testing.T) {
	c := Default()
	inst, ok := c.Lookup("TCS")
	require.True(t, ok)
	assert.Equal(t, "Tata Consultancy Services Ltd", inst.Name)
	assert.Equal(t, "TCS.NS", inst.Ticker)
	assert.Equal(t, "IT", inst.Sector)

	assert.Equal(t, "NEWCO.NS", c.Ticker("NEWCO"))
	assert.Equal(t, "NEWCO", c.Name("NEWCO"))
	_, ok = c.Sector("NEWCO")
	assert.False(t, ok)
}

func TestSets(t *testing.T) {
	c := Default()
	assert.True(t, c.IsBlueChip("RELIANCE"))
	assert.False(t, c.IsBlueChip("DLF"))
	assert.True(t, c.IsLargeCap("DLF"))
	assert.True(t, c.IsLargeCap("RELIANCE"), "blue chips are large caps")
	assert.True(t, c.IsVolatileSector("Metals"))
	assert.False(t, c.IsVolatileSector("IT"))
}

func TestScreen(t *testing.T) {
	c := Default()
	tests := []struct {
		query   string
		keyword string
		ok      bool
	}{
		{"Best pharma stocks", "pharma", true},
		{"top banks right now", "bank", true},
		{"best IT stocks", "it", true},
		{"cheap metals?", "metal", true},
		{"top real estate picks", "real", true},
		{"what is worth buying with value", "", false},
		{"best stocks", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			kw, syms, ok := c.Screen(tt.query)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.keyword, kw)
			if ok {
				assert.NotEmpty(t, syms)
			}
		})
	}
}

func TestHeatmapSector(t *testing.T) {
	c := Default()
	g, ok := c.HeatmapSector("it")
	require.True(t, ok)
	assert.Equal(t, "IT", g.Sector)

	g, ok = c.HeatmapSector("bank")
	require.True(t, ok)
	assert.Equal(t, "Banking", g.Sector)

	_, ok = c.HeatmapSector("shipping")
	assert.False(t, ok)
}

func TestLoad_RejectsDuplicates(t *testing.T) {
	_, err := Load([]byte("instruments:\n  - {symbol: A}\n  - {symbol: A}\n"))
	assert.Error(t, err)
}
