package i18n

import "sync/atomic"

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "name").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dict = map[string]map[string]string{
	"en": {
		"invalid_type":    "invalid type",
		"invalid_enum":    "unknown enum value",
		"invalid_format":  "invalid format",
		"overflow":        "value out of range",
		"duplicate_key":   "duplicate key",
		"parse_error":     "parse error",
		"truncated":       "truncated",
		"removed_element": "element removed",
		"unknown_enum":    "unknown enum value",
	},
	"ja": {
		"invalid_type":    "型が不正です",
		"invalid_enum":    "未知の列挙値です",
		"invalid_format":  "形式が不正です",
		"overflow":        "値が範囲外です",
		"duplicate_key":   "キーが重複しています",
		"parse_error":     "解析エラー",
		"truncated":       "打ち切られました",
		"removed_element": "要素が除外されました",
		"unknown_enum":    "未知の列挙値です",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	if msg, ok := dict[t.lang][code]; ok {
		if name := data["name"]; name != "" {
			return msg + ": " + name
		}
		return msg
	}
	return code
}

// holder keeps the concrete type stored in currentTranslator stable.
type holder struct{ tr Translator }

var currentTranslator atomic.Value // holds holder

func init() { currentTranslator.Store(holder{dictTranslator{lang: "en"}}) }

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if _, ok := dict[lang]; !ok {
		lang = "en"
	}
	currentTranslator.Store(holder{dictTranslator{lang: lang}})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	currentTranslator.Store(holder{tr})
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	return currentTranslator.Load().(holder).tr.Message(code, data)
}
