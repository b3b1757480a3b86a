package transcription

import (
	"strings"

	"github.com/kbukum/audioscript/errors"
	"github.com/kbukum/audioscript/validation"
)

// Language is the expected spoken language of the audio.
type Language string

// Supported languages.
const (
	LanguageAuto     Language = "auto"
	LanguageChinese  Language = "zh"
	LanguageEnglish  Language = "en"
	LanguageJapanese Language = "ja"
	LanguageKorean   Language = "ko"
)

// Languages lists every selectable language in display order.
var Languages = []Language{LanguageAuto, LanguageChinese, LanguageEnglish, LanguageJapanese, LanguageKorean}

// Valid reports whether l is one of Languages.
func (l Language) Valid() bool {
	for _, v := range Languages {
		if l == v {
			return true
		}
	}
	return false
}

// ParseLanguage converts user input into a Language.
func ParseLanguage(s string) (Language, error) {
	l := Language(strings.ToLower(strings.TrimSpace(s)))
	if !l.Valid() {
		return "", errors.InvalidInput("language", "unknown language "+s)
	}
	return l, nil
}

// PunctuationStyle selects how automatic punctuation is applied.
type PunctuationStyle string

// Supported punctuation styles.
const (
	PunctuationAuto   PunctuationStyle = "auto"
	PunctuationFormal PunctuationStyle = "formal"
	PunctuationCasual PunctuationStyle = "casual"
)

// PunctuationStyles lists every selectable style in display order.
var PunctuationStyles = []PunctuationStyle{PunctuationAuto, PunctuationFormal, PunctuationCasual}

// Valid reports whether p is one of PunctuationStyles.
func (p PunctuationStyle) Valid() bool {
	for _, v := range PunctuationStyles {
		if p == v {
			return true
		}
	}
	return false
}

// ParsePunctuationStyle converts user input into a PunctuationStyle.
func ParsePunctuationStyle(s string) (PunctuationStyle, error) {
	p := PunctuationStyle(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", errors.InvalidInput("punctuationStyle", "unknown punctuation style "+s)
	}
	return p, nil
}

// Options are the transcription settings as the user edited them.
// Dependent fields keep their value while their controlling flag is off;
// Effective decides what the service actually receives.
type Options struct {
	Language         Language         `json:"language" validate:"oneof=auto zh en ja ko"`
	DetectLanguage   bool             `json:"detectLanguage"`
	MultiLanguage    bool             `json:"multiLanguage"`
	AutoPunctuation  bool             `json:"autoPunctuation"`
	PunctuationStyle PunctuationStyle `json:"punctuationStyle" validate:"oneof=auto formal casual"`
	ToneAnalysis     bool             `json:"toneAnalysis"`
}

// DefaultOptions returns the settings a fresh upload form starts with.
func DefaultOptions() Options {
	return Options{
		Language:         LanguageAuto,
		DetectLanguage:   true,
		MultiLanguage:    false,
		AutoPunctuation:  true,
		PunctuationStyle: PunctuationAuto,
		ToneAnalysis:     true,
	}
}

// Validate rejects options holding values outside the closed enumerations.
// Options built through a Form always pass.
func (o Options) Validate() error {
	return validation.Validate(o)
}

// EffectiveOptions is the server-bound view of Options. A dependent field is
// nil when its controlling flag makes it meaningless, and is then omitted
// from the JSON sent to the service.
type EffectiveOptions struct {
	Language         *Language         `json:"language,omitempty"`
	DetectLanguage   bool              `json:"detectLanguage"`
	MultiLanguage    *bool             `json:"multiLanguage,omitempty"`
	AutoPunctuation  bool              `json:"autoPunctuation"`
	PunctuationStyle *PunctuationStyle `json:"punctuationStyle,omitempty"`
	ToneAnalysis     bool              `json:"toneAnalysis"`
}

// Effective derives the options the service should honour:
//   - language is dropped while detectLanguage is on,
//   - multiLanguage is dropped while detectLanguage is off,
//   - punctuationStyle is dropped while autoPunctuation is off.
func Effective(raw Options) EffectiveOptions {
	eff := EffectiveOptions{
		DetectLanguage:  raw.DetectLanguage,
		AutoPunctuation: raw.AutoPunctuation,
		ToneAnalysis:    raw.ToneAnalysis,
	}
	if raw.DetectLanguage {
		multi := raw.MultiLanguage
		eff.MultiLanguage = &multi
	} else {
		lang := raw.Language
		eff.Language = &lang
	}
	if raw.AutoPunctuation {
		style := raw.PunctuationStyle
		eff.PunctuationStyle = &style
	}
	return eff
}
