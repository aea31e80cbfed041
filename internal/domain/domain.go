package domain

import "time"

// CryptoRate is one crypto asset priced in USD. Price and change are kept
// as the decimal strings the upstream APIs return, so no precision is lost
// before rendering.
type CryptoRate struct {
	Symbol    string `json:"symbol"`
	Name      string `json:"name"`
	PriceUSD  string `json:"price"`
	Change24h string `json:"change24h"`
}

// FiatRate is one fiat currency quoted against USD (units per 1 USD).
type FiatRate struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	RateToUSD string `json:"rate"`
	Symbol    string `json:"symbol"`
}

// RateSnapshot is the combined result of one resolution cycle. It is built
// fresh on every successful resolution and never mutated afterwards except
// for enrichment appends inside the fiat resolver.
type RateSnapshot struct {
	Crypto      []CryptoRate `json:"crypto"`
	Fiat        []FiatRate   `json:"fiat"`
	Timestamp   int64        `json:"timestamp"`
	LastUpdated string       `json:"lastUpdated"`
}

// NewSnapshot stamps a snapshot with the current time.
func NewSnapshot(crypto []CryptoRate, fiat []FiatRate) *RateSnapshot {
	now := time.Now()
	return &RateSnapshot{
		Crypto:      crypto,
		Fiat:        fiat,
		Timestamp:   now.UnixMilli(),
		LastUpdated: now.UTC().Format(time.RFC3339),
	}
}

// RequiredCryptoSymbols are the assets every crypto provider is asked for.
// BNB probes provider viability; USDT is appended by the resolver at a
// fixed price of 1.0 and is not part of this list.
var RequiredCryptoSymbols = []string{"BTC", "ETH", "DOGE", "SOL", "BNB"}

// FiatCandidateCodes is the fixed candidate list the fiat aggregators are
// filtered to. USD always resolves to rate "1".
var FiatCandidateCodes = []string{
	"USD", "EUR", "JPY", "GBP", "AUD", "CAD", "CHF", "CNY", "HKD",
	"TWD", "KRW", "SGD", "MYR", "THB", "VND", "RUB", "INR", "SAR",
}

// PegCurrency is the code the fiat resolver runs a dedicated enrichment
// pass for when the accepted aggregator did not include it.
const PegCurrency = "TWD"

// EnsuredFiatCodes are checked after every accepted fiat result; missing
// ones are fetched one by one through the single-currency chain.
var EnsuredFiatCodes = []string{"VND", "RUB", "SAR"}

// FiatSortOrder pins important currencies to the top of the rendered page;
// everything else sorts alphabetically after them.
var FiatSortOrder = []string{"USD", "TWD", "CNY", "HKD", "EUR", "JPY", "GBP"}

var cryptoNames = map[string]string{
	"BTC":  "比特幣 (Bitcoin)",
	"ETH":  "以太坊 (Ethereum)",
	"DOGE": "狗狗幣 (Dogecoin)",
	"SOL":  "索拉納 (Solana)",
	"USDT": "泰達幣 (Tether)",
	"BNB":  "幣安幣 (Binance Coin)",
}

// CryptoName returns the display name for a crypto symbol, falling back to
// the symbol itself.
func CryptoName(symbol string) string {
	if name, ok := cryptoNames[symbol]; ok {
		return name
	}
	return symbol
}

var fiatNames = map[string]string{
	"USD": "美元 (US Dollar)",
	"EUR": "歐元 (Euro)",
	"JPY": "日元 (Japanese Yen)",
	"GBP": "英鎊 (British Pound)",
	"AUD": "澳元 (Australian Dollar)",
	"CAD": "加元 (Canadian Dollar)",
	"CHF": "瑞士法郎 (Swiss Franc)",
	"CNY": "人民幣 (Chinese Yuan)",
	"HKD": "港幣 (Hong Kong Dollar)",
	"TWD": "新台幣 (Taiwan Dollar)",
	"KRW": "韓元 (Korean Won)",
	"SGD": "新加坡元 (Singapore Dollar)",
	"MYR": "馬來西亞林吉特 (Malaysian Ringgit)",
	"THB": "泰銖 (Thai Baht)",
	"VND": "越南盾 (Vietnamese Dong)",
	"RUB": "俄羅斯盧布 (Russian Ruble)",
	"INR": "印度盧比 (Indian Rupee)",
	"SAR": "沙特里亞爾 (Saudi Riyal)",
}

// FiatName returns the display name for a fiat code, falling back to the
// code itself.
func FiatName(code string) string {
	if name, ok := fiatNames[code]; ok {
		return name
	}
	return code
}

var fiatSymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"JPY": "¥",
	"GBP": "£",
	"AUD": "A$",
	"CAD": "C$",
	"CHF": "Fr",
	"CNY": "¥",
	"HKD": "HK$",
	"TWD": "NT$",
	"KRW": "₩",
	"SGD": "S$",
	"MYR": "RM",
	"THB": "฿",
	"VND": "₫",
	"RUB": "₽",
	"INR": "₹",
	"SAR": "﷼",
}

// FiatSymbol returns the display glyph for a fiat code, or "" when unknown.
func FiatSymbol(code string) string {
	return fiatSymbols[code]
}

// CoinGeckoID maps our symbols to CoinGecko coin ids. BNB is deliberately
// absent: the CoinGecko fallback builds a fixed BTC/ETH/DOGE/SOL list.
var CoinGeckoID = map[string]string{
	"BTC":  "bitcoin",
	"ETH":  "ethereum",
	"DOGE": "dogecoin",
	"SOL":  "solana",
}
