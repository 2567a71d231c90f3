/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

// Package settings holds the user's display preferences
package settings

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"github.com/CardScan/CardScan/common/interfaces"
)

type Theme string

const (
	ThemeSystem Theme = "system"
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
)

var Themes = []Theme{ThemeSystem, ThemeLight, ThemeDark}

// ParseTheme accepts a theme name in any case
func ParseTheme(s string) (Theme, error) {
	t := Theme(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Themes {
		if t == known {
			return t, nil
		}
	}
	return ThemeSystem, fmt.Errorf("unknown theme %q, expected one of system, light, dark", s)
}

// Supported languages, the first is the fallback
var Languages = []language.Tag{language.English, language.Turkish}

var matcher = language.NewMatcher(Languages)

// ParseLanguage returns the supported language closest to the BCP 47 tag s.
// Unknown or malformed tags give English and ok=false.
func ParseLanguage(s string) (tag language.Tag, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Languages[0], false
	}
	parsed, err := language.Parse(s)
	if err != nil {
		return Languages[0], false
	}
	_, index, confidence := matcher.Match(parsed)
	if confidence == language.No {
		return Languages[0], false
	}
	return Languages[index], true
}

// Settings reads and writes preferences in a configuration parameter set
type Settings struct {
	params      interfaces.Parameters
	themeKey    string
	languageKey string
}

// New returns Settings stored under themeKey and languageKey in params
func New(params interfaces.Parameters, themeKey, languageKey string) *Settings {
	return &Settings{params: params, themeKey: themeKey, languageKey: languageKey}
}

// Theme returns the stored theme, or system when the stored value is unknown
func (s *Settings) Theme() Theme {
	t, err := ParseTheme(s.params.Get(s.themeKey).String())
	if err != nil {
		return ThemeSystem
	}
	return t
}

func (s *Settings) SetTheme(value string) (Theme, error) {
	t, err := ParseTheme(value)
	if err != nil {
		return t, err
	}
	s.params.Set(s.themeKey, string(t))
	return t, nil
}

// Language returns the stored language, or English when it is not supported
func (s *Settings) Language() language.Tag {
	tag, _ := ParseLanguage(s.params.Get(s.languageKey).String())
	return tag
}

// SetLanguage stores the supported language matching value
func (s *Settings) SetLanguage(value string) (language.Tag, error) {
	tag, ok := ParseLanguage(value)
	if !ok {
		return tag, fmt.Errorf("unsupported language %q, expected tr or en", value)
	}
	s.params.Set(s.languageKey, tag.String())
	return tag, nil
}
