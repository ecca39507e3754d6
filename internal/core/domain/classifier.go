package domain

import "strings"

// DataType is the semantic category of scanned text.
type DataType string

const (
	DataTypeURL   DataType = "URL"
	DataTypeEmail DataType = "Email"
	DataTypePhone DataType = "Phone"
	DataTypeText  DataType = "Text"
)

var urlPrefixes = []string{"http://", "https://", "www."}

// phoneSeparators are stripped before checking a phone number for digits.
var phoneSeparators = strings.NewReplacer("+", "", "-", "", " ", "", "(", "", ")", "")

// Classify maps raw scanned text to a DataType. Rules are checked in order
// and the first match wins.
func Classify(raw string) DataType {
	for _, prefix := range urlPrefixes {
		if strings.HasPrefix(raw, prefix) {
			return DataTypeURL
		}
	}

	if strings.Contains(raw, "@") && strings.Contains(raw, ".") {
		return DataTypeEmail
	}

	if isDigits(phoneSeparators.Replace(raw)) {
		return DataTypePhone
	}

	return DataTypeText
}

// isDigits reports whether s is non-empty and made only of ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// MinHashKeyLength is the shortest raw value worth a store round-trip.
const MinHashKeyLength = 5

// LooksLikeHashKey is a cheap syntactic pre-check used to decide whether
// scanned text is worth looking up. It is not a key-format contract.
func LooksLikeHashKey(raw string) bool {
	if len(raw) < MinHashKeyLength {
		return false
	}
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}
