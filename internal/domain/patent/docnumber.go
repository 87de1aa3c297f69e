package patent

import (
	"strings"

	dtypes "github.com/turtacn/KeyIP-Dashboard/pkg/types/dashboard"
)

// IdentifierCode is the J-PlatPat document-type segment of a link.
type IdentifierCode = dtypes.IdentifierCode

const (
	IdentifierGranted     = dtypes.IdentifierGranted
	IdentifierPublication = dtypes.IdentifierPublication
	IdentifierUnknown     = dtypes.IdentifierUnknown
)

// prefixLen is the number of characters (runes) in a document-type prefix.
const prefixLen = 2

// linkBase and linkLang frame the J-PlatPat fixed address; number and code
// are concatenated between them.
const (
	linkBase = "https://www.j-platpat.inpit.go.jp/c1801/PU/JP-"
	linkLang = "/ja"
)

var prefixCodes = map[string]IdentifierCode{
	"特許": IdentifierGranted,
	"実登": IdentifierGranted,
	"特開": IdentifierPublication,
	"特表": IdentifierPublication,
}

// splitPrefix returns the first prefixLen runes of s and the remainder.
// ok is false when s has fewer than prefixLen runes.
func splitPrefix(s string) (prefix, rest string, ok bool) {
	n := 0
	for i := range s {
		if n == prefixLen {
			return s[:i], s[i:], true
		}
		n++
	}
	if n == prefixLen {
		return s, "", true
	}
	return "", s, false
}

// Classify maps a document number to its identifier code by inspecting its
// first two characters.  It is total: short or unrecognised input yields
// IdentifierUnknown.
func Classify(documentNumber string) IdentifierCode {
	prefix, _, ok := splitPrefix(documentNumber)
	if !ok {
		return IdentifierUnknown
	}
	if code, found := prefixCodes[prefix]; found {
		return code
	}
	return IdentifierUnknown
}

// NormalizeNumber returns the identifier substituted into the link.  With
// stripPrefix the first two characters are dropped (a shorter input becomes
// ""); otherwise the number is returned unchanged.
func NormalizeNumber(documentNumber string, stripPrefix bool) string {
	if !stripPrefix {
		return documentNumber
	}
	_, rest, ok := splitPrefix(documentNumber)
	if !ok {
		return ""
	}
	return rest
}

// BuildURL composes the J-PlatPat fixed address for number and code.  The
// number is inserted as-is, without percent-encoding.
func BuildURL(number string, code IdentifierCode) string {
	var sb strings.Builder
	sb.Grow(len(linkBase) + len(number) + len(code) + len(linkLang) + 1)
	sb.WriteString(linkBase)
	sb.WriteString(number)
	sb.WriteByte('/')
	sb.WriteString(string(code))
	sb.WriteString(linkLang)
	return sb.String()
}

// LinkFor classifies and normalises documentNumber and returns its URL.
func LinkFor(documentNumber string, stripPrefix bool) (string, IdentifierCode) {
	code := Classify(documentNumber)
	return BuildURL(NormalizeNumber(documentNumber, stripPrefix), code), code
}

//Personal.AI order the ending
