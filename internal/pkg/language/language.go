// Package language canonicalizes arbitrary language tags to the fixed code
// set the blog serves (ko, en). Unknown tags pass through lower-cased so
// downstream consumers can treat them as "foreign, non-default" instead of
// failing.
package language

import "strings"

// Default is the site-wide fallback language code.
const Default = "ko"

// Target is the language the translation pipeline generates.
const Target = "en"

var aliases = map[string]string{
	"korean":  "ko",
	"kor":     "ko",
	"ko":      "ko",
	"ko-kr":   "ko",
	"ko_kr":   "ko",
	"english": "en",
	"eng":     "en",
	"en":      "en",
	"en-us":   "en",
	"en-gb":   "en",
}

// Normalize maps a tag to its canonical code. Unrecognized tags are returned
// lower-cased; empty input yields "".
func Normalize(tag string) string {
	key := strings.ToLower(strings.TrimSpace(tag))
	if key == "" {
		return ""
	}
	if code, ok := aliases[key]; ok {
		return code
	}
	return key
}

// known reports whether the tag resolves to a canonical code.
func known(tag string) (string, bool) {
	code, ok := aliases[strings.ToLower(strings.TrimSpace(tag))]
	return code, ok
}

// DeriveDefault recovers a base language from a possibly region-qualified
// tag ("en-US" -> "en"), falling back to the package default when nothing
// resolves. It never fails.
func DeriveDefault(tag string) string {
	if strings.TrimSpace(tag) == "" {
		return Default
	}
	if code, ok := known(tag); ok {
		return code
	}
	base := tag
	if i := strings.IndexAny(tag, "-_"); i >= 0 {
		base = tag[:i]
	}
	if code, ok := known(base); ok {
		return code
	}
	return Default
}

// FromTags normalizes the authoritative (first) tag of a language list.
func FromTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return Normalize(tags[0])
}
