package i18n

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "struct" or "rule").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "invalid_type":
			return "型が不正です"
		case "parse_error":
			return "解析エラー"
		case "unknown_code":
			return "未知の型コードです"
		case "malformed_struct":
			return "構造体定義が不正です"
		case "facet_syntax":
			return "ファセット文字列の構文が不正です"
		case "rule_not_found":
			return "検証ルールが見つかりません"
		case "bad_expression":
			return "検証式が不正です"
		case "bad_pattern":
			return "正規表現が不正です"
		case "duplicate_code":
			return "型コードが重複しています"
		}
	default: // "en"
		switch code {
		case "invalid_type":
			return "invalid type"
		case "parse_error":
			return "parse error"
		case "unknown_code":
			return "unknown type code"
		case "malformed_struct":
			return "malformed struct definition"
		case "facet_syntax":
			return "malformed facet string"
		case "rule_not_found":
			return "validation rule not found"
		case "bad_expression":
			return "malformed validation expression"
		case "bad_pattern":
			return "malformed rule pattern"
		case "duplicate_code":
			return "duplicate type code"
		}
	}
	return code
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
