package source

// DefaultDescriptors is the production source set. Descriptors are data:
// adding a bank is a new entry here, not new parsing code.
func DefaultDescriptors() []Descriptor {
	return []Descriptor{
		{
			Name:       "privatbank",
			Bank:       "PrivatBank",
			Strategy:   StrategyAPI,
			URL:        "https://api.privatbank.ua/p24api/pubinfo?json&exchange&coursid=5",
			Currencies: []string{"USD", "EUR"},
			Rules: ExtractionRules{
				CurrencyField: "ccy",
				BuyField:      "buy",
				SellField:     "sale",
			},
		},
		{
			Name:       "monobank",
			Bank:       "Monobank",
			Strategy:   StrategyAPI,
			URL:        "https://api.monobank.ua/bank/currency",
			Currencies: []string{"USD", "EUR"},
			Rules: ExtractionRules{
				NumericCodeField: "currencyCodeA",
				NumericCodes:     map[int]string{840: "USD", 978: "EUR"},
				BuyField:         "rateBuy",
				SellField:        "rateSell",
				CrossField:       "rateCross",
			},
		},
		{
			Name:       "oschadbank",
			Bank:       "Oschadbank",
			Strategy:   StrategyAPI,
			URL:        "https://api.oschadbank.ua/open/currency",
			Currencies: []string{"USD", "EUR"},
			Rules: ExtractionRules{
				CurrencyField: "ccy",
				BuyField:      "buy",
				SellField:     "sale",
			},
		},
		{
			Name:       "pumb",
			Bank:       "PUMB",
			Strategy:   StrategyHTML,
			URL:        "https://about.pumb.ua/info/currency_converter",
			Currencies: []string{"USD", "EUR"},
			Rules:      ExtractionRules{},
		},
		{
			Name:       "raiffeisen",
			Bank:       "Raiffeisen Bank Ukraine",
			Strategy:   StrategyScriptJSON,
			URL:        "https://raiffeisen.ua/currency",
			Currencies: []string{"USD", "EUR"},
			Rules: ExtractionRules{
				ScriptMarker:  "exchangeRates",
				JSONPattern:   `(?s)exchangeRates\s*=\s*(\[.*?\]);`,
				CurrencyField: "ccy",
				BuyField:      "buy",
				SellField:     "sell",
			},
		},
		{
			Name:       "nbu",
			Bank:       "NBU",
			Strategy:   StrategyAPI,
			URL:        "https://bank.gov.ua/NBUStatService/v1/statdirectory/exchange?json",
			Currencies: []string{"USD", "EUR"},
			Rules: ExtractionRules{
				CurrencyField:  "cc",
				ReferenceField: "rate",
			},
		},
		{
			Name:       "minfin-raiffeisen",
			Bank:       "Raiffeisen",
			Strategy:   StrategyBrowser,
			URL:        "https://minfin.com.ua/ua/currency/banks/",
			Currencies: []string{"USD", "EUR"},
			Rules: ExtractionRules{
				WaitSelector:  ".currency-table__row",
				RowSelector:   ".currency-table__row",
				TitleSelector: ".currency-table__title",
				CellSelector:  ".currency-table__cell",
				BankMatch:     "Райффайзен",
			},
		},
	}
}
