package legislator

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Portuguese name connectives that carry no identifying signal.
var stopwords = map[string]struct{}{
	"de": {}, "da": {}, "do": {}, "dos": {}, "das": {}, "e": {},
}

// Honorific and role titles that commonly prefix parliamentary names.
// They identify the office, not the person, so they never count as name
// tokens.
var honorifics = map[string]struct{}{
	"dr": {}, "dra": {}, "doutor": {}, "doutora": {},
	"prof": {}, "profa": {}, "professor": {}, "professora": {},
	"pastor": {}, "pastora": {}, "padre": {}, "frei": {},
	"general": {}, "coronel": {}, "major": {}, "capitao": {},
	"tenente": {}, "sargento": {}, "delegado": {}, "delegada": {},
	"deputado": {}, "deputada": {}, "senador": {}, "senadora": {},
}

// deaccent strips combining marks after NFD decomposition.
var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeName lowercases a name, strips diacritics and collapses
// whitespace. "José Guimarães" becomes "jose guimaraes".
func NormalizeName(s string) string {
	out, _, err := transform.String(deaccent, s)
	if err != nil {
		out = s
	}
	out = strings.ToLower(out)
	return strings.Join(strings.Fields(out), " ")
}

// Tokens holds the distinct identifying tokens of a legislator's names.
type Tokens struct {
	CivilFirst string
	CivilLast  string
	ParlFirst  string
	ParlLast   string

	// All lists every distinct normalized token across both names,
	// stopwords and honorifics removed, in first-seen order.
	All []string
}

// NameTokens tokenizes the civil and parliamentary names for scoring.
func NameTokens(civilName, parliamentaryName string) Tokens {
	civil := significantTokens(civilName)
	parl := significantTokens(parliamentaryName)

	var t Tokens
	if len(civil) > 0 {
		t.CivilFirst = civil[0]
		t.CivilLast = civil[len(civil)-1]
	}
	if len(parl) > 0 {
		t.ParlFirst = parl[0]
		t.ParlLast = parl[len(parl)-1]
	}

	seen := make(map[string]struct{})
	for _, tok := range append(civil, parl...) {
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		t.All = append(t.All, tok)
	}
	return t
}

func significantTokens(name string) []string {
	var out []string
	for _, tok := range strings.Fields(NormalizeName(name)) {
		tok = strings.Trim(tok, ".")
		// Leading honorifics ("Dr. Jaziel", "Delegada Katarina").
		if len(out) == 0 {
			if _, skip := honorifics[tok]; skip {
				continue
			}
		}
		if _, skip := stopwords[tok]; skip {
			continue
		}
		// Articles, prepositions and initials.
		if len(tok) <= 2 {
			continue
		}
		out = append(out, tok)
	}
	return out
}
