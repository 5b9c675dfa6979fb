package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"

	"faraid-engine/internal/model"
)

// BaseLocale must define every key; other locales fall back to it.
const BaseLocale = "en"

type localeFile struct {
	Locale     string            `yaml:"locale"`
	Name       string            `yaml:"name"`
	Categories map[string]string `yaml:"categories"`
	Basis      map[string]string `yaml:"basis"`
	Warnings   map[string]string `yaml:"warnings"`
}

// Catalog holds every loaded locale. It is built once and never modified,
// so it can be shared freely between goroutines.
type Catalog struct {
	tags    []language.Tag
	names   map[language.Tag]string
	matcher language.Matcher
	builder *catalog.Builder
}

//go:embed locales/*.yaml
var embeddedFS embed.FS

// LoadEmbedded loads the catalogs shipped with the binary.
func LoadEmbedded() (*Catalog, error) {
	return LoadFromFS(embeddedFS)
}

// LoadFromFS loads locales/*.yaml from fsys.
func LoadFromFS(fsys fs.FS) (*Catalog, error) {
	paths, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	sort.Strings(paths)

	files := make(map[string]localeFile, len(paths))
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", p, err)
		}
		var f localeFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", p, err)
		}
		want := strings.TrimSuffix(path.Base(p), path.Ext(p))
		if f.Locale != want {
			return nil, fmt.Errorf("catalog %s: locale %q must match file name %q", p, f.Locale, want)
		}
		files[f.Locale] = f
	}

	base, ok := files[BaseLocale]
	if !ok {
		return nil, fmt.Errorf("base locale %s is not defined in catalogs", BaseLocale)
	}
	if err := checkComplete(base); err != nil {
		return nil, err
	}

	c := &Catalog{
		names:   map[language.Tag]string{},
		builder: catalog.NewBuilder(catalog.Fallback(language.Make(BaseLocale))),
	}

	// base first so the matcher falls back to it
	locales := []string{BaseLocale}
	for l := range files {
		if l != BaseLocale {
			locales = append(locales, l)
		}
	}
	sort.Strings(locales[1:])

	for _, l := range locales {
		f := withDefaults(files[l], base)
		tag, err := language.Parse(l)
		if err != nil {
			return nil, fmt.Errorf("parse locale tag %q: %w", l, err)
		}
		if err := c.add(tag, f); err != nil {
			return nil, fmt.Errorf("catalog %s: %w", l, err)
		}
		c.tags = append(c.tags, tag)
		c.names[tag] = f.Name
	}
	c.matcher = language.NewMatcher(c.tags)
	return c, nil
}

func (c *Catalog) add(tag language.Tag, f localeFile) error {
	for key, label := range f.Categories {
		if _, ok := model.ParseCategory(key); !ok {
			return fmt.Errorf("unknown category %q", key)
		}
		if err := c.builder.SetString(tag, categoryKey(key), label); err != nil {
			return err
		}
	}
	for key, label := range f.Basis {
		if err := c.builder.SetString(tag, basisKey(key), label); err != nil {
			return err
		}
	}
	for code, text := range f.Warnings {
		if err := c.builder.SetString(tag, warningKey(code), text); err != nil {
			return err
		}
	}
	return nil
}

// withDefaults fills the keys a locale lacks from the base locale.
func withDefaults(f, base localeFile) localeFile {
	f.Categories = merge(base.Categories, f.Categories)
	f.Basis = merge(base.Basis, f.Basis)
	f.Warnings = merge(base.Warnings, f.Warnings)
	return f
}

func merge(base, over map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(over))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}

func checkComplete(f localeFile) error {
	for _, cat := range model.Categories() {
		if _, ok := f.Categories[cat.String()]; !ok {
			return fmt.Errorf("base locale has no label for category %s", cat)
		}
	}
	for _, b := range []model.LegalBasis{model.BasisFixed, model.BasisResiduary, model.BasisExcluded} {
		if _, ok := f.Basis[string(b)]; !ok {
			return fmt.Errorf("base locale has no label for basis %s", b)
		}
	}
	return nil
}

func categoryKey(key string) string { return "category." + key }
func basisKey(key string) string    { return "basis." + key }
func warningKey(code string) string { return "warning." + code }

// Languages returns the supported language tags, base locale first.
func (c *Catalog) Languages() []string {
	out := make([]string, len(c.tags))
	for i, t := range c.tags {
		out[i] = t.String()
	}
	return out
}

// Locale picks the best supported language for lang, which may be a plain
// tag or an Accept-Language value. Unknown or empty input gets the base
// locale.
func (c *Catalog) Locale(lang string) *Locale {
	tag := c.tags[0]
	if desired, _, err := language.ParseAcceptLanguage(lang); err == nil && len(desired) > 0 {
		_, idx, conf := c.matcher.Match(desired...)
		if conf != language.No {
			tag = c.tags[idx]
		}
	}
	printer := message.NewPrinter(tag, message.Catalog(c.builder))
	return &Locale{
		tag:     tag,
		name:    c.names[tag],
		printer: printer,
		symbols: newNumberSymbols(printer),
	}
}
