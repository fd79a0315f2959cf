package msgs

import (
	"strings"

	"golang.org/x/text/language"
)

// fallbacks returns the tags that can be substituted for tag, ordered by
// increasing generality.
func fallbacks(tag language.Tag) []language.Tag {
	result := []language.Tag{}
	lang, script, region := tag.Raw()
	// The language package returns ZZ for an unspecified region, similar quirk for script.
	if region.String() != "ZZ" {
		t, _ := language.Compose(lang, script, region)
		result = append(result, t)
	}
	if script.String() != "Zzzz" {
		t, _ := language.Compose(lang, script)
		result = append(result, t)
	}
	t, _ := language.Compose(lang)
	result = append(result, t)
	return result
}

// fallbackNames is fallbacks rendered the way PO files are named, e.g.
// "pt_BR" rather than "pt-BR".
func fallbackNames(tag language.Tag) []string {
	var names []string
	for _, t := range fallbacks(tag) {
		names = append(names, strings.ReplaceAll(t.String(), "-", "_"))
	}
	return names
}
