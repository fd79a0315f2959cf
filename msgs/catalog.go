// Package msgs provides translations of template text, read from PO
// (gettext) files.
package msgs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/robfig/gettext/po"
	"golang.org/x/text/language"
)

// Catalog maps the text of a template to its translation in one locale.
// Text without a translation is left as is.
type Catalog struct {
	Locale   string
	messages map[string]string
}

// Parse reads a PO file holding the translations for locale.
func Parse(locale string, r io.Reader) (*Catalog, error) {
	file, err := po.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("msgs: %s: %w", locale, err)
	}
	var c = &Catalog{Locale: locale, messages: make(map[string]string)}
	for _, msg := range file.Messages {
		if msg.Id == "" || len(msg.Str) == 0 || msg.Str[0] == "" {
			continue
		}
		c.messages[msg.Id] = msg.Str[0]
	}
	return c, nil
}

// Translate returns the translation of text, or text if there is none.
func (c *Catalog) Translate(text string) string {
	if c == nil {
		return text
	}
	if s, ok := c.messages[text]; ok {
		return s
	}
	return text
}

func (c *Catalog) Len() int {
	return len(c.messages)
}

// FileOpener opens the PO file of a locale.
type FileOpener interface {
	// Open returns the PO file for locale, or nil if there is none.
	Open(locale string) (io.ReadCloser, error)
}

// Load returns the catalog for locale. When the opener has no file for
// locale itself, the more general locales are tried in turn, so that "fr_CA"
// may be served by "fr". It returns nil if no file is found.
func Load(opener FileOpener, locale string) (*Catalog, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("msgs: %w", err)
	}
	var candidates = append([]string{locale}, fallbackNames(tag)...)
	for _, name := range candidates {
		r, err := opener.Open(name)
		if err != nil {
			return nil, err
		}
		if r == nil {
			continue
		}
		c, err := Parse(locale, r)
		r.Close()
		return c, err
	}
	return nil, nil
}

// fsFileOpener opens <locale>.po files in Dirname.
type fsFileOpener struct {
	Dirname string
}

func (o fsFileOpener) Open(locale string) (io.ReadCloser, error) {
	switch f, err := os.Open(filepath.Join(o.Dirname, locale+".po")); {
	case os.IsNotExist(err):
		return nil, nil
	case err != nil:
		return nil, err
	default:
		return f, nil
	}
}

// Dir returns the catalog for locale from dirname, which holds files of the
// form <lang>.po or <lang>_<territory>.po.
func Dir(dirname, locale string) (*Catalog, error) {
	return Load(fsFileOpener{dirname}, locale)
}

// Locales lists the locales that dirname has PO files for.
func Locales(dirname string) ([]string, error) {
	entries, err := os.ReadDir(dirname)
	if err != nil {
		return nil, err
	}
	var locales []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".po") {
			locales = append(locales, strings.TrimSuffix(e.Name(), ".po"))
		}
	}
	return locales, nil
}
