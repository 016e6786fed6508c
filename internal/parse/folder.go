package parse

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// FallbackFolder is used when a name sanitises to nothing.
const FallbackFolder = "_"

const maxFolderLen = 100

var extRe = regexp.MustCompile(`^\.[a-z0-9]{1,10}$`)

// FolderName turns a free-text municipality into a single safe path segment.
// Characters that are illegal in file names on common filesystems become "_";
// letters, digits, spaces and accents are kept ("Boa Vista" stays as is).
func FolderName(raw string) string {
	s := norm.NFC.String(strings.TrimSpace(raw))

	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsControl(r), strings.ContainsRune(`/\:*?"<>|`, r):
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}

	out := strings.Trim(b.String(), " .")
	if rs := []rune(out); len(rs) > maxFolderLen {
		out = strings.Trim(string(rs[:maxFolderLen]), " .")
	}
	if out == "" {
		return FallbackFolder
	}
	return out
}

// Extension returns the lower-cased extension of filename, or "" when the
// extension is missing or contains anything beyond 1-10 ASCII letters/digits.
func Extension(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if !extRe.MatchString(ext) {
		return ""
	}
	return ext
}
