package config

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// maxFileNameBytes is the common limit for a single path element.
const maxFileNameBytes = 200

// CleanFileName makes single path element out of arbitrary text such as
// test run name. Reserved and control characters are dropped, leading dots
// and surrounding spaces removed, names reserved by OS are escaped. Result
// is NFC normalized, so the same run name typed differently maps to one file.
func CleanFileName(in string) string {
	out := strings.Map(func(sym rune) rune {
		if unicode.IsControl(sym) || strings.ContainsRune(reservedChars, sym) {
			return -1
		}
		return sym
	}, norm.NFC.String(in))
	out = strings.TrimLeft(out, ". ")
	out = strings.TrimRight(truncateFileName(out), " ")
	if len(out) == 0 {
		return "_bad_file_name_"
	}
	return escapeReservedName(out)
}

// truncateFileName shortens name on rune boundary leaving space for extension
// to be appended by caller.
func truncateFileName(name string) string {
	if len(name) <= maxFileNameBytes {
		return name
	}
	cut := maxFileNameBytes
	for cut > 0 && !utf8.RuneStart(name[cut]) {
		cut--
	}
	return name[:cut]
}
