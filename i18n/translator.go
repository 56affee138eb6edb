package i18n

import (
	"strings"
	"sync"
)

// Translator retrieves localized messages for error codes.
// data provides optional values to embed in the message (for example,
// "name", "value" or "keys").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator. Templates use
// {key} placeholders filled from data.
type dictTranslator struct{ lang string }

var catalogue = map[string]map[string]string{
	"en": {
		"required":         "{name} requires a value",
		"invalid_type":     "{value} is not a valid {expected}",
		"unknown_key":      "the keys {keys} are not expected",
		"invalid_number":   "{value} is not a valid number",
		"invalid_boolean":  "{value} is not a valid boolean value",
		"invalid_enum":     "failed to map {value}",
		"reverse_failed":   "failed to reverse {value}",
		"invalid_encoding": "{value} is not valid UTF-8",
		"coerce_failed":    "failed to coerce {value}",
		"parse_error":      "failed to parse input: {value}",
		"unknown_option":   "{type} does not accept {option}",
		"unknown_type":     "{value} is not a known pattern type",
		"missing_item":     "{type} requires an item",
		"invalid_name":     "{value} is not a valid item name",
		"duplicate_name":   "item name {value} is declared twice",
		"invalid_table":    "{value} is not a valid mapping table",
		"duplicate_key":    "key {value} is declared twice",
		"invalid_spec":     "{value} is not a valid pattern specification",
		"path_not_found":   "failed to retrieve {value}",
		"not_mapping":      "{value} does not address a mapping pattern",
	},
	"ja": {
		"required":        "{name} には値が必要です",
		"invalid_type":    "{value} は有効な {expected} ではありません",
		"unknown_key":     "想定外のキーです: {keys}",
		"invalid_number":  "{value} は有効な数値ではありません",
		"invalid_boolean": "{value} は有効な真偽値ではありません",
		"invalid_enum":    "{value} を変換できません",
		"reverse_failed":  "{value} を逆変換できません",
		"parse_error":     "入力の解析に失敗しました: {value}",
		"unknown_type":    "{value} は未知のパターン種別です",
		"path_not_found":  "{value} が見つかりません",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	tmpl, ok := catalogue[t.lang][code]
	if !ok {
		tmpl, ok = catalogue["en"][code]
	}
	if !ok {
		return code
	}
	if len(data) == 0 {
		return tmpl
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

var (
	mu                sync.RWMutex
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if _, ok := catalogue[lang]; !ok {
		lang = "en"
	}
	SetTranslator(dictTranslator{lang: lang})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version). nil restores the English dictionary.
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
