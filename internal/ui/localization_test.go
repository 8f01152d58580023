package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalization_AllKeysTranslated(t *testing.T) {
	l := NewLocalization()
	english := l.texts[LangEnglish]

	for _, code := range []string{LangRussian, LangPortug} {
		texts := l.texts[code]
		for key := range english {
			assert.NotEmpty(t, texts[key], "%s is missing %q", code, key)
		}
	}
}

func TestLocalization_SetLanguage(t *testing.T) {
	l := NewLocalization()

	l.SetLanguage(LangRussian)
	assert.Equal(t, LangRussian, l.GetCurrentLanguage())
	assert.Equal(t, "Скачать", l.GetText(KeyDownload))

	l.SetLanguage("xx")
	assert.Equal(t, LangEnglish, l.GetCurrentLanguage())

	l.SetLanguage(LangSystem)
	assert.Contains(t, l.LanguageCodes(), l.GetCurrentLanguage())
}

func TestLocalization_UnknownKeyFallsBack(t *testing.T) {
	l := NewLocalization()
	l.SetLanguage(LangPortug)

	assert.Equal(t, "no_such_key", l.GetText("no_such_key"))
}

func TestLanguageOrder_HasDisplayNames(t *testing.T) {
	l := NewLocalization()
	names := l.GetAvailableLanguages()
	for _, code := range LanguageOrder {
		if code == LangSystem {
			continue
		}
		assert.NotEmpty(t, names[code], code)
	}
}
