package lang

import (
	_ "embed"
	"encoding/json"
)

// The code tables ship as JSON data files embedded at build time. They are
// loaded once per resolver; a corrupt or empty file degrades to an empty table
// and every lookup falls through to identity.

//go:embed locales/lang.json
var languageTableJSON []byte

//go:embed locales/locale.json
var localeTableJSON []byte

func loadTable(data []byte) map[string]string {
	table := map[string]string{}
	if err := json.Unmarshal(data, &table); err != nil {
		return map[string]string{}
	}
	return table
}
