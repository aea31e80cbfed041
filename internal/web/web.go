// Package web renders the converter page. All display-only adjustments
// live here: name normalization, fiat ordering and the emergency TWD
// fallback. The resolvers never see any of it.
package web

import (
	"embed"
	"html/template"
	"io"
	"sort"
	"strconv"
	"strings"

	"coinrates/internal/domain"
	"coinrates/internal/i18n"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// emergencyTWDRate keeps the most prominent pair on the page usable when
// every TWD source failed. Display only; conversions still go through the
// live snapshot.
const emergencyTWDRate = "31.5"

type CryptoView struct {
	Symbol      string
	DisplayName string
	PriceUSD    string
	Change24h   string
	ChangeDown  bool
}

type FiatView struct {
	Code        string
	DisplayName string
	RateToUSD   string
	Symbol      string
}

type PageData struct {
	Locale      string
	Locales     []i18n.Locale
	T           map[string]string
	LastUpdated string
	Crypto      []CryptoView
	Fiat        []FiatView
}

type ErrorData struct {
	Locale  string
	T       map[string]string
	Message string
}

type Renderer struct {
	page     *template.Template
	errorTpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	page, err := template.ParseFS(templateFS, "templates/page.tmpl")
	if err != nil {
		return nil, err
	}
	errorTpl, err := template.ParseFS(templateFS, "templates/error.tmpl")
	if err != nil {
		return nil, err
	}
	return &Renderer{page: page, errorTpl: errorTpl}, nil
}

func (r *Renderer) RenderPage(w io.Writer, data *PageData) error {
	return r.page.Execute(w, data)
}

func (r *Renderer) RenderError(w io.Writer, data *ErrorData) error {
	return r.errorTpl.Execute(w, data)
}

// BuildPageData shapes a snapshot for the template: crypto in resolver
// order, fiat in the fixed display order, names as "Name (CODE)".
func BuildPageData(snapshot *domain.RateSnapshot, locale string) *PageData {
	locale = i18n.Normalize(locale)

	crypto := make([]CryptoView, 0, len(snapshot.Crypto))
	for _, c := range snapshot.Crypto {
		change, _ := strconv.ParseFloat(c.Change24h, 64)
		crypto = append(crypto, CryptoView{
			Symbol:      c.Symbol,
			DisplayName: displayName(c.Name, c.Symbol),
			PriceUSD:    c.PriceUSD,
			Change24h:   c.Change24h,
			ChangeDown:  change < 0,
		})
	}

	fiat := make([]FiatView, 0, len(snapshot.Fiat)+1)
	for _, f := range sortFiat(ensureDisplayTWD(snapshot.Fiat)) {
		fiat = append(fiat, FiatView{
			Code:        f.Code,
			DisplayName: displayName(f.Name, f.Code),
			RateToUSD:   f.RateToUSD,
			Symbol:      f.Symbol,
		})
	}

	return &PageData{
		Locale:      locale,
		Locales:     i18n.SupportedLocales,
		T:           i18n.Table(locale),
		LastUpdated: snapshot.LastUpdated,
		Crypto:      crypto,
		Fiat:        fiat,
	}
}

// displayName appends the code only when the name does not already carry
// a parenthesized form; the built-in tables all do.
func displayName(name, code string) string {
	if strings.Contains(name, "(") {
		return name
	}
	return name + " (" + code + ")"
}

// ensureDisplayTWD injects the emergency rate when the snapshot has no
// TWD entry at all.
func ensureDisplayTWD(rates []domain.FiatRate) []domain.FiatRate {
	for _, r := range rates {
		if r.Code == domain.PegCurrency {
			return rates
		}
	}
	out := make([]domain.FiatRate, len(rates), len(rates)+1)
	copy(out, rates)
	return append(out, domain.FiatRate{
		Code:      domain.PegCurrency,
		Name:      domain.FiatName(domain.PegCurrency),
		RateToUSD: emergencyTWDRate,
		Symbol:    domain.FiatSymbol(domain.PegCurrency),
	})
}

// sortFiat puts the fixed display order first, then everything else
// alphabetically by code.
func sortFiat(rates []domain.FiatRate) []domain.FiatRate {
	rank := make(map[string]int, len(domain.FiatSortOrder))
	for i, code := range domain.FiatSortOrder {
		rank[code] = i
	}

	out := make([]domain.FiatRate, len(rates))
	copy(out, rates)
	sort.SliceStable(out, func(i, j int) bool {
		ri, iOK := rank[out[i].Code]
		rj, jOK := rank[out[j].Code]
		switch {
		case iOK && jOK:
			return ri < rj
		case iOK:
			return true
		case jOK:
			return false
		default:
			return out[i].Code < out[j].Code
		}
	})
	return out
}
