package source

// Strategy names the fetch/parse family a source belongs to.
type Strategy string

const (
	// StrategyAPI fetches a JSON body over a single GET.
	StrategyAPI Strategy = "api"
	// StrategyHTML fetches a plain HTML document and reads a table from it.
	StrategyHTML Strategy = "html"
	// StrategyScriptJSON fetches an HTML document and extracts a JSON
	// literal embedded in a script block.
	StrategyScriptJSON Strategy = "script_json"
	// StrategyBrowser renders the page in a headless browser before
	// reading the DOM.
	StrategyBrowser Strategy = "browser"
)

// ExtractionRules is the tagged-variant payload consumed by the generic
// adapter executor. Only the fields relevant to the descriptor's Strategy
// are read.
type ExtractionRules struct {
	// JSON-array sources: field names per array element.
	CurrencyField string
	BuyField      string
	SellField     string
	// CrossField is the fallback when buy/sell are missing (some feeds
	// publish only a cross rate).
	CrossField string

	// Numeric-code sources: the element field holding the numeric
	// currency code and the fixed code -> ISO table.
	NumericCodeField string
	NumericCodes     map[int]string

	// Reference feeds publish one rate per currency; it fills both sides.
	ReferenceField string

	// Browser-rendered table sources.
	RowSelector   string
	TitleSelector string
	CellSelector  string
	// BankMatch selects the row block by case-insensitive substring.
	BankMatch string
	// WaitSelector is the structural marker the browser waits for.
	WaitSelector string

	// Script-embedded JSON sources.
	ScriptMarker string
	JSONPattern  string
}

// Descriptor is the static configuration of one source. Descriptors are
// defined at process start and never mutated.
type Descriptor struct {
	Name     string
	Bank     string
	Strategy Strategy
	URL      string
	// Currencies filters parsed entries; empty means no per-source filter
	// (the normalizer's allowed set still applies).
	Currencies []string
	Rules      ExtractionRules
}

func (d Descriptor) wantsCurrency(code string) bool {
	if len(d.Currencies) == 0 {
		return true
	}
	for _, c := range d.Currencies {
		if c == code {
			return true
		}
	}
	return false
}
