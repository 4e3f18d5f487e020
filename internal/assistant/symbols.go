package assistant

import (
	"sort"
	"strings"

	"MarketInsight/internal/catalog"
)

// MaxSymbols caps the symbols extracted from one query.
const MaxSymbols = 5

// Directory resolves symbols and company names.
type Directory interface {
	Has(symbol string) bool
	Name(symbol string) string
	Instruments() []catalog.Instrument
}

var nameSuffixes = []string{" limited", " ltd", " company", " corporation", " industries"}

// ExtractSymbols finds instrument symbols in free text. Exact symbol tokens
// win, in the order they appear. Without any, instruments are matched by the
// words of their company names (longer than three letters). A name matches in
// full when all of its words of three or more letters appear; if any do, only
// full matches are kept. Matches are returned in the order they are found in
// the text. At most MaxSymbols are returned, without duplicates.
func ExtractSymbols(text string, dir Directory) []string {
	var symbols []string
	seen := make(map[string]bool)

	tokens := strings.Fields(strings.NewReplacer(",", " ", ".", " ").Replace(strings.ToUpper(text)))
	for _, tok := range tokens {
		tok = strings.Trim(tok, "?!.,'\"()")
		if tok != "" && !seen[tok] && dir.Has(tok) {
			seen[tok] = true
			symbols = append(symbols, tok)
		}
	}
	if len(symbols) == 0 {
		symbols = matchNames(strings.ToLower(text), dir)
	}

	if len(symbols) > MaxSymbols {
		symbols = symbols[:MaxSymbols]
	}
	return symbols
}

func matchNames(lower string, dir Directory) []string {
	type candidate struct {
		symbol string
		pos    int
		full   bool
	}
	var (
		found   []candidate
		anyFull bool
	)
	for _, inst := range dir.Instruments() {
		name := strings.ToLower(inst.Name)
		for _, suffix := range nameSuffixes {
			name = strings.ReplaceAll(name, suffix, "")
		}
		c := candidate{symbol: inst.Symbol, pos: -1, full: true}
		leadPos, words := -1, 0
		for _, word := range strings.Fields(name) {
			if len(word) < 3 {
				continue
			}
			i := strings.Index(lower, word)
			if i < 0 {
				c.full = false
			}
			if len(word) == 3 {
				continue
			}
			if words == 0 {
				leadPos = i
			}
			words++
			if i >= 0 && (c.pos < 0 || i < c.pos) {
				c.pos = i
			}
		}
		if c.pos < 0 {
			continue
		}
		// a name is found where its leading word is, when that word is present
		if leadPos >= 0 {
			c.pos = leadPos
		}
		anyFull = anyFull || c.full
		found = append(found, c)
	}

	out := make([]candidate, 0, len(found))
	for _, c := range found {
		if c.full || !anyFull {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].pos < out[j].pos })

	symbols := make([]string, len(out))
	for i, c := range out {
		symbols[i] = c.symbol
	}
	return symbols
}
