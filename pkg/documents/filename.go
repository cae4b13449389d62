package documents

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var (
	unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

	windowsDeviceNames = map[string]bool{
		"CON": true, "PRN": true, "AUX": true, "NUL": true,
		"COM1": true, "COM2": true, "COM3": true, "COM4": true,
		"LPT1": true, "LPT2": true, "LPT3": true,
	}

	// AllowedExtensions lists the accepted upload extensions, lower case.
	AllowedExtensions = map[string]bool{
		"pdf": true, "png": true, "jpg": true, "jpeg": true, "gif": true,
	}
)

// Allowed reports whether filename carries an accepted extension. The
// comparison is case-insensitive and uses the text after the last dot.
func Allowed(filename string) bool {
	i := strings.LastIndexByte(filename, '.')
	if i < 0 {
		return false
	}
	return AllowedExtensions[strings.ToLower(filename[i+1:])]
}

// SecureFilename reduces name to a flat ASCII filename that is safe to store:
// accents are folded, path separators and whitespace become underscores,
// anything outside [A-Za-z0-9_.-] is dropped and leading or trailing dots and
// underscores are trimmed. The result may be empty.
func SecureFilename(name string) string {
	decomposed := norm.NFKD.String(name)

	var b strings.Builder
	for _, r := range decomposed {
		if r < utf8.RuneSelf {
			b.WriteRune(r)
		}
	}
	ascii := b.String()

	ascii = strings.NewReplacer("/", " ", `\`, " ").Replace(ascii)
	ascii = strings.Join(strings.Fields(ascii), "_")
	ascii = unsafeFilenameChars.ReplaceAllString(ascii, "")
	ascii = strings.Trim(ascii, "._")

	if ascii != "" && windowsDeviceNames[strings.ToUpper(strings.SplitN(ascii, ".", 2)[0])] {
		ascii = "_" + ascii
	}
	return ascii
}
