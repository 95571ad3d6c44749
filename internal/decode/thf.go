package decode

import "strings"

// ThfInfo is the sheet-level descriptor extracted from the THF file:
// mostly an identifier, used for diagnostics and as a fallback dataset
// name when no commune/section feature is present.
type ThfInfo struct {
	SheetID string
}

// ParseTHF extracts the sheet descriptor. The THF root record ("THF")
// carries the sheet identifier as its value; absence of any THF record
// is handled by the archive reader (MissingMember), not here.
func ParseTHF(tokens []Token) ThfInfo {
	info := ThfInfo{}
	for _, tok := range tokens {
		if tok.Tag == "THF" {
			info.SheetID = strings.TrimSpace(string(tok.Value))
			break
		}
	}
	return info
}
