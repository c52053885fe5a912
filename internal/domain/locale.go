package domain

// Locales are the language codes the content pipeline expects on every
// localized text column. Only "en" is populated at submission time; the
// remaining keys must still be present as empty strings for downstream
// translation tooling.
var Locales = []string{"en", "nl", "de", "fr", "es", "it", "pt", "pl"}

// LocalizedText is stored as a JSONB object keyed by language code.
type LocalizedText map[string]string

// NewLocalizedText returns a LocalizedText with every configured locale key
// present and only the English value filled in.
func NewLocalizedText(en string) LocalizedText {
	lt := make(LocalizedText, len(Locales))
	for _, code := range Locales {
		lt[code] = ""
	}
	lt["en"] = en
	return lt
}
