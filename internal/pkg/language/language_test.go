package language

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"":        "",
		"ko":      "ko",
		"Korean":  "ko",
		" KO-kr ": "ko",
		"English": "en",
		"en-US":   "en",
		"eng":     "en",
		"ja":      "ja",
		"Deutsch": "deutsch",
	}
	for input, want := range cases {
		assert.Equal(t, want, Normalize(input), "input %q", input)
	}
}

func TestDeriveDefault(t *testing.T) {
	assert.Equal(t, "ko", DeriveDefault(""))
	assert.Equal(t, "ko", DeriveDefault("  "))
	assert.Equal(t, "en", DeriveDefault("en-AU"))
	assert.Equal(t, "en", DeriveDefault("EN_us"))
	assert.Equal(t, "ko", DeriveDefault("kor"))
	// unknown base falls back to the site default
	assert.Equal(t, "ko", DeriveDefault("fr-FR"))
}

func TestFromTags(t *testing.T) {
	assert.Equal(t, "", FromTags(nil))
	assert.Equal(t, "", FromTags([]string{}))
	assert.Equal(t, "ko", FromTags([]string{"Korean", "en"}))
	assert.Equal(t, "en", FromTags([]string{"en-US"}))
}
