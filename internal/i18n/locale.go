package i18n

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"faraid-engine/internal/model"
)

// Locale is a catalog bound to one language.
type Locale struct {
	tag     language.Tag
	name    string
	printer *message.Printer
	symbols numberSymbols
}

// numberSymbols are the locale's digits and separators, read off the
// printer once so amounts never pass through float64.
type numberSymbols struct {
	digits  [10]string
	decimal string
	group   string
}

func newNumberSymbols(p *message.Printer) numberSymbols {
	var ns numberSymbols
	for i := range ns.digits {
		ns.digits[i] = p.Sprintf("%d", i)
	}
	ns.decimal = strings.TrimSuffix(strings.TrimPrefix(p.Sprintf("%.1f", 0.5), ns.digits[0]), ns.digits[5])
	ns.group = strings.TrimSuffix(strings.TrimPrefix(p.Sprintf("%d", 1000), ns.digits[1]), strings.Repeat(ns.digits[0], 3))
	return ns
}

func (ns numberSymbols) localize(digits string) string {
	var b strings.Builder
	for _, r := range digits {
		if r >= '0' && r <= '9' {
			b.WriteString(ns.digits[r-'0'])
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// groupThousands groups an unsigned digit string in threes.
func (ns numberSymbols) groupThousands(whole string) string {
	var b strings.Builder
	for i := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteString(ns.group)
		}
		b.WriteString(ns.digits[whole[i]-'0'])
	}
	return b.String()
}

func (l *Locale) Tag() string  { return l.tag.String() }
func (l *Locale) Name() string { return l.name }

func (l *Locale) lookup(key, fallback string) string {
	s := l.printer.Sprintf(key)
	if s == key {
		return fallback
	}
	return s
}

func (l *Locale) Category(c model.RelativeCategory) string {
	return l.lookup(categoryKey(c.String()), c.String())
}

func (l *Locale) Basis(b model.LegalBasis) string {
	return l.lookup(basisKey(string(b)), string(b))
}

// Warning returns the text for a warning code, or the code itself when the
// catalog has none.
func (l *Locale) Warning(code string) string {
	return l.lookup(warningKey(code), code)
}

// Amount formats a money value with two decimals and the locale's digit
// grouping. The whole part goes through the printer when it fits an int64;
// larger values are grouped in threes.
func (l *Locale) Amount(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	b.WriteString(sign)
	if n, err := strconv.ParseInt(whole, 10, 64); err == nil {
		b.WriteString(l.printer.Sprintf("%d", n))
	} else {
		b.WriteString(l.symbols.groupThousands(whole))
	}
	b.WriteString(l.symbols.decimal)
	b.WriteString(l.symbols.localize(frac))
	return b.String()
}

// Label attaches the localized category label to every allocation.
func (l *Locale) Label(res *model.DistributionResult) {
	if res == nil {
		return
	}
	for i := range res.Shares {
		res.Shares[i].Label = l.Category(res.Shares[i].Category)
	}
}

type CategoryView struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Max   int    `json:"max,omitempty"`
	Sex   string `json:"sex"`
	Class string `json:"legal_class"`
}

// Categories lists every relative category with its localized label.
func (l *Locale) Categories() []CategoryView {
	cats := model.Categories()
	out := make([]CategoryView, len(cats))
	for i, c := range cats {
		info := c.Info()
		out[i] = CategoryView{
			Key:   info.Key,
			Label: l.Category(c),
			Max:   info.Max,
			Sex:   info.Sex.String(),
			Class: info.Class.String(),
		}
	}
	return out
}
