// Package catalog holds the static reference data for NSE instruments: names,
// sectors, Yahoo tickers and the curated lists used by screening, portfolio
// scoring and the heatmap.
package catalog

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultYAML []byte

// Instrument is one catalog entry.
type Instrument struct {
	Symbol string `yaml:"symbol"`
	Ticker string `yaml:"ticker"`
	Name   string `yaml:"name"`
	Sector string `yaml:"sector"`
}

// Screen is a curated symbol list selected by a query keyword.
type Screen struct {
	Keyword string   `yaml:"keyword"`
	Symbols []string `yaml:"symbols"`
}

// SectorGroup is a heatmap sector and its constituents.
type SectorGroup struct {
	Sector  string   `yaml:"sector"`
	Symbols []string `yaml:"symbols"`
}

type document struct {
	Instruments     []Instrument  `yaml:"instruments"`
	Popular         []string      `yaml:"popular"`
	BlueChips       []string      `yaml:"blue_chips"`
	LargeCaps       []string      `yaml:"large_caps"`
	VolatileSectors []string      `yaml:"volatile_sectors"`
	CoreSectors     []string      `yaml:"core_sectors"`
	Screens         []Screen      `yaml:"screens"`
	Heatmap         []SectorGroup `yaml:"heatmap"`
}

// Catalog is immutable after Load and safe for concurrent use.
type Catalog struct {
	instruments []Instrument
	bySymbol    map[string]int
	popular     []string
	coreSectors []string
	screens     []Screen
	heatmap     []SectorGroup
	blueChips   map[string]bool
	largeCaps   map[string]bool
	volatile    map[string]bool
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
)

// Default returns the catalog embedded in the binary.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Load(defaultYAML)
		if err != nil {
			panic(fmt.Sprintf("embedded catalog: %v", err))
		}
		defaultCat = c
	})
	return defaultCat
}

// Load parses a catalog document.
func Load(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	c := &Catalog{
		instruments: doc.Instruments,
		bySymbol:    make(map[string]int, len(doc.Instruments)),
		popular:     doc.Popular,
		coreSectors: doc.CoreSectors,
		screens:     doc.Screens,
		heatmap:     doc.Heatmap,
		blueChips:   toSet(doc.BlueChips),
		largeCaps:   toSet(doc.LargeCaps),
		volatile:    toSet(doc.VolatileSectors),
	}
	for i, inst := range c.instruments {
		if inst.Symbol == "" {
			return nil, fmt.Errorf("catalog entry %d has no symbol", i)
		}
		if _, dup := c.bySymbol[inst.Symbol]; dup {
			return nil, fmt.Errorf("duplicate catalog symbol %s", inst.Symbol)
		}
		if inst.Ticker == "" {
			c.instruments[i].Ticker = inst.Symbol + ".NS"
		}
		c.bySymbol[inst.Symbol] = i
	}
	// every large cap list implicitly includes the blue chips
	for s := range c.blueChips {
		c.largeCaps[s] = true
	}
	return c, nil
}

func toSet(items []string) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, s := range items {
		m[s] = true
	}
	return m
}

// Instruments returns the entries in catalog order.
func (c *Catalog) Instruments() []Instrument {
	return c.instruments
}

// Lookup returns the entry for symbol.
func (c *Catalog) Lookup(symbol string) (Instrument, bool) {
	i, ok := c.bySymbol[symbol]
	if !ok {
		return Instrument{}, false
	}
	return c.instruments[i], true
}

// Has reports whether symbol is a known instrument.
func (c *Catalog) Has(symbol string) bool {
	_, ok := c.bySymbol[symbol]
	return ok
}

// Ticker maps a symbol to its Yahoo Finance ticker. Unknown symbols are
// assumed to be NSE listed.
func (c *Catalog) Ticker(symbol string) string {
	if inst, ok := c.Lookup(symbol); ok {
		return inst.Ticker
	}
	return symbol + ".NS"
}

// Name returns the display name for symbol, or the symbol itself.
func (c *Catalog) Name(symbol string) string {
	if inst, ok := c.Lookup(symbol); ok && inst.Name != "" {
		return inst.Name
	}
	return symbol
}

// Sector returns the catalog sector for symbol.
func (c *Catalog) Sector(symbol string) (string, bool) {
	inst, ok := c.Lookup(symbol)
	if !ok || inst.Sector == "" {
		return "", false
	}
	return inst.Sector, true
}

func (c *Catalog) IsBlueChip(symbol string) bool { return c.blueChips[symbol] }

func (c *Catalog) IsLargeCap(symbol string) bool { return c.largeCaps[symbol] }

func (c *Catalog) IsVolatileSector(sector string) bool { return c.volatile[sector] }

// CoreSectors lists the sectors suggested to under-diversified portfolios.
func (c *Catalog) CoreSectors() []string {
	return c.coreSectors
}

// Popular is the fallback screening list.
func (c *Catalog) Popular() []string {
	return c.popular
}

// Screen selects the first curated list whose keyword starts a word of the
// lowercased query. ok is false when no keyword matched.
func (c *Catalog) Screen(query string) (keyword string, symbols []string, ok bool) {
	words := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	for _, s := range c.screens {
		for _, w := range words {
			if strings.HasPrefix(w, s.Keyword) {
				return s.Keyword, s.Symbols, true
			}
		}
	}
	return "", nil, false
}

// HeatmapSectors returns the heatmap sector groups in display order.
func (c *Catalog) HeatmapSectors() []SectorGroup {
	return c.heatmap
}

// HeatmapSector resolves a sector by title-cased name, falling back to the
// first group whose name contains the input case-insensitively.
func (c *Catalog) HeatmapSector(name string) (SectorGroup, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return SectorGroup{}, false
	}
	for _, g := range c.heatmap {
		if strings.EqualFold(g.Sector, name) {
			return g, true
		}
	}
	lower := strings.ToLower(name)
	for _, g := range c.heatmap {
		if strings.Contains(strings.ToLower(g.Sector), lower) {
			return g, true
		}
	}
	return SectorGroup{}, false
}
