package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/maria-mashura/currency-tracker/internal/adapters"
	"github.com/maria-mashura/currency-tracker/internal/domain"
)

// Adapter executes one source: it fetches the raw payload through the
// descriptor's fetcher and extracts candidate rates according to the
// descriptor's strategy and rules. Parsing is total: malformed input
// yields whatever candidates can be salvaged, never an error.
type Adapter struct {
	desc    Descriptor
	fetcher adapters.PayloadFetcher
}

func NewAdapter(desc Descriptor, fetcher adapters.PayloadFetcher) *Adapter {
	return &Adapter{desc: desc, fetcher: fetcher}
}

func (a *Adapter) Name() string { return a.desc.Name }

func (a *Adapter) Collect(ctx context.Context) ([]domain.CandidateRate, error) {
	payload, err := a.fetcher.Fetch(ctx, a.desc.URL)
	if err != nil {
		return nil, fmt.Errorf("source %q fetch failed: %w", a.desc.Name, err)
	}
	return a.Parse(payload), nil
}

func (a *Adapter) Parse(payload []byte) []domain.CandidateRate {
	switch a.desc.Strategy {
	case StrategyAPI:
		return a.parseJSONArray(payload)
	case StrategyHTML:
		return a.parseHTMLTable(payload)
	case StrategyScriptJSON:
		return a.parseScriptJSON(payload)
	case StrategyBrowser:
		return a.parseBrowserTable(payload)
	default:
		return nil
	}
}

// parseJSONArray covers three API families: plain field-mapped arrays,
// arrays keyed by numeric currency codes, and single-rate reference feeds.
func (a *Adapter) parseJSONArray(payload []byte) []domain.CandidateRate {
	var items []map[string]any
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil
	}

	rules := a.desc.Rules
	out := make([]domain.CandidateRate, 0, len(items))
	for _, item := range items {
		var cand domain.CandidateRate
		var ok bool
		switch {
		case rules.NumericCodeField != "":
			cand, ok = a.candidateFromCodedItem(item)
		case rules.ReferenceField != "":
			cand, ok = a.candidateFromReferenceItem(item)
		default:
			cand, ok = a.candidateFromItem(item)
		}
		if ok {
			out = append(out, cand)
		}
	}
	return out
}

func (a *Adapter) candidateFromItem(item map[string]any) (domain.CandidateRate, bool) {
	rules := a.desc.Rules
	ccy := strings.ToUpper(strings.TrimSpace(rawString(item[rules.CurrencyField])))
	if ccy == "" || !a.desc.wantsCurrency(ccy) {
		return domain.CandidateRate{}, false
	}

	buy := rawString(item[rules.BuyField])
	sell := rawString(item[rules.SellField])
	if rules.CrossField != "" {
		cross := rawString(item[rules.CrossField])
		if buy == "" {
			buy = cross
		}
		if sell == "" {
			sell = cross
		}
	}
	return domain.CandidateRate{Bank: a.desc.Bank, CurrencyRaw: ccy, BuyRaw: buy, SellRaw: sell}, true
}

func (a *Adapter) candidateFromCodedItem(item map[string]any) (domain.CandidateRate, bool) {
	rules := a.desc.Rules
	codeVal, ok := item[rules.NumericCodeField].(float64)
	if !ok {
		return domain.CandidateRate{}, false
	}
	ccy, known := rules.NumericCodes[int(codeVal)]
	if !known || !a.desc.wantsCurrency(ccy) {
		// unknown numeric codes are excluded, not an error
		return domain.CandidateRate{}, false
	}

	buy := rawString(item[rules.BuyField])
	sell := rawString(item[rules.SellField])
	if rules.CrossField != "" {
		cross := rawString(item[rules.CrossField])
		if buy == "" {
			buy = cross
		}
		if sell == "" {
			sell = cross
		}
	}
	return domain.CandidateRate{Bank: a.desc.Bank, CurrencyRaw: ccy, BuyRaw: buy, SellRaw: sell}, true
}

func (a *Adapter) candidateFromReferenceItem(item map[string]any) (domain.CandidateRate, bool) {
	rules := a.desc.Rules
	ccy := strings.ToUpper(strings.TrimSpace(rawString(item[rules.CurrencyField])))
	if ccy == "" || !a.desc.wantsCurrency(ccy) {
		return domain.CandidateRate{}, false
	}
	// a reference feed has one rate per currency; it serves both sides
	rate := rawString(item[rules.ReferenceField])
	return domain.CandidateRate{Bank: a.desc.Bank, CurrencyRaw: ccy, BuyRaw: rate, SellRaw: rate}, true
}

// parseHTMLTable reads the first table of the document: header row skipped,
// cells are currency / buy / sell. Rows with too few cells are skipped.
func (a *Adapter) parseHTMLTable(payload []byte) []domain.CandidateRate {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(payload))
	if err != nil {
		return nil
	}

	var out []domain.CandidateRate
	doc.Find("table").First().Find("tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			return // header
		}
		cells := row.Find("td")
		if cells.Length() < 3 {
			return
		}
		ccy := strings.ToUpper(strings.TrimSpace(cells.Eq(0).Text()))
		if ccy == "" || !a.desc.wantsCurrency(ccy) {
			return
		}
		out = append(out, domain.CandidateRate{
			Bank:        a.desc.Bank,
			CurrencyRaw: ccy,
			BuyRaw:      strings.TrimSpace(cells.Eq(1).Text()),
			SellRaw:     strings.TrimSpace(cells.Eq(2).Text()),
		})
	})
	return out
}

// parseScriptJSON locates a script block by textual marker, pulls the
// embedded JSON literal out with the descriptor's pattern and maps it like
// an API array. A missing marker or a bad literal yields no candidates.
func (a *Adapter) parseScriptJSON(payload []byte) []domain.CandidateRate {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(payload))
	if err != nil {
		return nil
	}

	rules := a.desc.Rules
	re, err := regexp.Compile(rules.JSONPattern)
	if err != nil {
		return nil
	}

	var literal string
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		if !strings.Contains(text, rules.ScriptMarker) {
			return true
		}
		if m := re.FindStringSubmatch(text); len(m) >= 2 {
			literal = m[1]
			return false
		}
		return true
	})
	if literal == "" {
		return nil
	}
	return a.parseJSONArray([]byte(literal))
}

// parseBrowserTable walks rendered rows, picks the block whose title
// contains the bank-name substring (case-insensitive) and reads cells in
// groups of three: currency, buy, sell.
func (a *Adapter) parseBrowserTable(payload []byte) []domain.CandidateRate {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(payload))
	if err != nil {
		return nil
	}

	rules := a.desc.Rules
	match := strings.ToLower(rules.BankMatch)

	var out []domain.CandidateRate
	doc.Find(rules.RowSelector).Each(func(_ int, row *goquery.Selection) {
		title := strings.TrimSpace(row.Find(rules.TitleSelector).First().Text())
		if !strings.Contains(strings.ToLower(title), match) {
			return
		}
		cells := row.Find(rules.CellSelector)
		for i := 0; i+2 < cells.Length(); i += 3 {
			ccy := strings.ToUpper(strings.TrimSpace(cells.Eq(i).Text()))
			if ccy == "" || !a.desc.wantsCurrency(ccy) {
				continue
			}
			out = append(out, domain.CandidateRate{
				Bank:        a.desc.Bank,
				CurrencyRaw: ccy,
				BuyRaw:      strings.TrimSpace(cells.Eq(i + 1).Text()),
				SellRaw:     strings.TrimSpace(cells.Eq(i + 2).Text()),
			})
		}
	})
	return out
}

// rawString renders a decoded JSON value as the raw string the normalizer
// coerces later. Absent and null values become "".
func rawString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}
