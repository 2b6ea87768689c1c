package clean

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// maxMojibakeRounds bounds repair of text that was mis-decoded more than once
const maxMojibakeRounds = 3

var quoteReplacer = strings.NewReplacer(
	"‘", "'", "’", "'", "‚", "'", "‛", "'", "′", "'",
	"“", `"`, "”", `"`, "„", `"`, "‟", `"`, "″", `"`,
)

// Fix repairs the usual damage found in scraped tweets: HTML entities,
// UTF-8 text that was decoded as Windows-1252 or Latin-1, curly quotes and
// non-composed accents.
func Fix(text string) string {
	text = html.UnescapeString(text)
	for i := 0; i < maxMojibakeRounds; i++ {
		fixed, ok := repairMojibake(text)
		if !ok {
			break
		}
		text = fixed
	}
	text = quoteReplacer.Replace(text)
	return norm.NFC.String(text)
}

// repairMojibake re-encodes text to single bytes and reports whether those
// bytes form a different, valid UTF-8 string containing multi-byte runes.
func repairMojibake(text string) (string, bool) {
	hasHigh := false
	for _, r := range text {
		if r >= 0x80 {
			hasHigh = true
			break
		}
	}
	if !hasHigh {
		return text, false
	}

	buf := make([]byte, 0, len(text))
	for _, r := range text {
		if r < 0x80 {
			buf = append(buf, byte(r))
			continue
		}
		if b, ok := charmap.Windows1252.EncodeRune(r); ok {
			buf = append(buf, b)
			continue
		}
		// C1 controls survive a Latin-1 decode but have no Windows-1252 slot
		if r < 0x100 {
			buf = append(buf, byte(r))
			continue
		}
		return text, false
	}

	if !utf8.Valid(buf) {
		return text, false
	}
	fixed := string(buf)
	if fixed == text || utf8.RuneCountInString(fixed) == len(fixed) {
		return text, false
	}
	return fixed, true
}
