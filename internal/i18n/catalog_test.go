package i18n

import (
	"testing"
	"testing/fstest"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"faraid-engine/internal/model"
)

func TestLoadEmbeddedHasExpectedLocales(t *testing.T) {
	cat, err := LoadEmbedded()
	require.NoError(t, err)

	assert.Equal(t, []string{"en", "ar", "ml"}, cat.Languages())
}

func TestEveryLocaleLabelsEveryCategory(t *testing.T) {
	cat, err := LoadEmbedded()
	require.NoError(t, err)
	en := cat.Locale("en")

	for _, lang := range []string{"ml", "ar"} {
		loc := cat.Locale(lang)
		require.Equal(t, lang, loc.Tag())
		for _, c := range model.Categories() {
			label := loc.Category(c)
			assert.NotEmptyf(t, label, "%s has no label for %s", lang, c)
			assert.NotEqualf(t, en.Category(c), label, "%s label for %s is untranslated", lang, c)
		}
	}
}

func TestLocaleMatching(t *testing.T) {
	cat, err := LoadEmbedded()
	require.NoError(t, err)

	tests := []struct {
		in   string
		want string
	}{
		{"", "en"},
		{"ml", "ml"},
		{"ml-IN", "ml"},
		{"fr-FR", "en"},
		{"fr;q=0.9, ar-EG;q=0.8", "ar"},
		{"not a tag!!", "en"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, cat.Locale(tt.in).Tag())
		})
	}
}

func TestLocaleTexts(t *testing.T) {
	cat, err := LoadEmbedded()
	require.NoError(t, err)

	ml := cat.Locale("ml")
	assert.Equal(t, "ഭർത്താവ്", ml.Category(model.Husband))
	assert.Equal(t, "മലയാളം", ml.Name())

	en := cat.Locale("en")
	assert.Equal(t, "Son's daughter", en.Category(model.SonsDaughter))
	assert.Equal(t, "Residuary", en.Basis(model.BasisResiduary))
	assert.Contains(t, en.Warning(model.WarnAulApplied), "Aul")
	assert.Equal(t, "made-up-code", en.Warning("made-up-code"))
	assert.Equal(t, "1,234,567.50", en.Amount(decimal.RequireFromString("1234567.5")))
}

func TestAmountKeepsEveryDigit(t *testing.T) {
	cat, err := LoadEmbedded()
	require.NoError(t, err)
	en := cat.Locale("en")

	tests := []struct {
		in, want string
	}{
		{"0", "0.00"},
		{"999.995", "1,000.00"},
		{"9007199254740993.01", "9,007,199,254,740,993.01"},
		{"12345678901234567890.12", "12,345,678,901,234,567,890.12"},
		{"-1500.5", "-1,500.50"},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, en.Amount(decimal.RequireFromString(tt.in)), "Amount(%s)", tt.in)
	}
}

func TestLabelAttachesCategoryNames(t *testing.T) {
	cat, err := LoadEmbedded()
	require.NoError(t, err)

	res := &model.DistributionResult{Shares: []model.ShareAllocation{
		{Category: model.Wife, Basis: model.BasisFixed},
		{Category: model.FullBrother, Basis: model.BasisExcluded},
	}}
	cat.Locale("ar").Label(res)

	assert.Equal(t, "الزوجة", res.Shares[0].Label)
	assert.Equal(t, "الأخ الشقيق", res.Shares[1].Label)

	cat.Locale("en").Label(nil)
}

func TestCategoriesView(t *testing.T) {
	cat, err := LoadEmbedded()
	require.NoError(t, err)

	views := cat.Locale("en").Categories()
	require.Len(t, views, len(model.Categories()))
	assert.Equal(t, CategoryView{Key: "wife", Label: "Wife", Max: 4, Sex: "female", Class: "sharer"}, views[1])
}

const minimalBase = `locale: en
name: English
categories:
  husband: Husband
basis:
  fixed: Fixed
  residuary: Residuary
  excluded: Excluded
`

func TestLoadFromFSRejectsIncompleteBase(t *testing.T) {
	fsys := fstest.MapFS{"locales/en.yaml": {Data: []byte(minimalBase)}}

	_, err := LoadFromFS(fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no label for category")
}

func TestLoadFromFSRejectsMismatchedLocale(t *testing.T) {
	fsys := fstest.MapFS{"locales/de.yaml": {Data: []byte(minimalBase)}}

	_, err := LoadFromFS(fsys)
	require.Error(t, err)
}

func TestLoadFromFSRejectsUnknownCategory(t *testing.T) {
	base, err := embeddedFS.ReadFile("locales/en.yaml")
	require.NoError(t, err)

	fsys := fstest.MapFS{
		"locales/en.yaml": {Data: base},
		"locales/fr.yaml": {Data: []byte("locale: fr\ncategories:\n  great_uncle: Grand-oncle\n")},
	}
	_, err = LoadFromFS(fsys)
	require.Error(t, err)
}

func TestPartialLocaleFallsBackToBase(t *testing.T) {
	base, err := embeddedFS.ReadFile("locales/en.yaml")
	require.NoError(t, err)

	fsys := fstest.MapFS{
		"locales/en.yaml": {Data: base},
		"locales/fr.yaml": {Data: []byte("locale: fr\nname: Français\ncategories:\n  husband: Mari\n")},
	}
	cat, err := LoadFromFS(fsys)
	require.NoError(t, err)

	fr := cat.Locale("fr")
	assert.Equal(t, "Mari", fr.Category(model.Husband))
	assert.Equal(t, "Wife", fr.Category(model.Wife))
	assert.Equal(t, "Excluded", fr.Basis(model.BasisExcluded))
}

func TestLoadFromFSRejectsEmptyFS(t *testing.T) {
	_, err := LoadFromFS(fstest.MapFS{})
	require.Error(t, err)
}
