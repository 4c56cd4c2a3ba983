//go:build windows

package config

import (
	"os"
	"strings"

	"golang.org/x/sys/windows"
	"golang.org/x/term"
)

const reservedChars = `<>":/\|?*;`

var reservedNames = []string{
	"CON", "PRN", "AUX", "NUL",
	"COM1", "COM2", "COM3", "COM4", "COM5", "COM6", "COM7", "COM8", "COM9",
	"LPT1", "LPT2", "LPT3", "LPT4", "LPT5", "LPT6", "LPT7", "LPT8", "LPT9",
}

// escapeReservedName prefixes device names, Windows refuses them with any
// extension. Trailing dots are silently dropped by Windows, so we do it too.
func escapeReservedName(name string) string {
	name = strings.TrimRight(name, ".")
	if name == "" {
		return "_bad_file_name_"
	}
	stem, _, _ := strings.Cut(name, ".")
	for _, r := range reservedNames {
		if strings.EqualFold(stem, r) {
			return "_" + name
		}
	}
	return name
}

// EnableColorOutput checks if colorized output is possible and enables VT100
// sequence processing in Windows console.
func EnableColorOutput(stream *os.File) bool {
	if !term.IsTerminal(int(stream.Fd())) {
		return false
	}
	h := windows.Handle(stream.Fd())
	var mode uint32
	if err := windows.GetConsoleMode(h, &mode); err != nil {
		return false
	}
	return windows.SetConsoleMode(h, mode|windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING) == nil
}
