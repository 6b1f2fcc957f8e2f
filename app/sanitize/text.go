package sanitize

import (
	"html"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	tagRe        = regexp.MustCompile(`<[^>]*>`)
	spaceRunRe   = regexp.MustCompile(`[\s\p{Zs}]+`)
	wordRe       = regexp.MustCompile(`[\p{L}\p{M}]+(?:['’-][\p{L}\p{M}]+)*`)
	slugInvalid  = regexp.MustCompile(`[^a-z0-9]+`)
	scriptBlocks = regexp.MustCompile(`(?is)<(script|style)\b[^>]*>.*?</(script|style)>`)
)

// StripTags returns the visible text of an HTML fragment with entities
// decoded and whitespace collapsed.
func StripTags(s string) string {
	s = scriptBlocks.ReplaceAllString(s, " ")
	s = tagRe.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	s = spaceRunRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// CountImages counts "<img" occurrences, case-insensitively.
func CountImages(s string) int {
	return strings.Count(strings.ToLower(s), "<img")
}

// TextLength is the rune length of the stripped text.
func TextLength(s string) int {
	return utf8.RuneCountInString(StripTags(s))
}

// WordCount counts letter words in the stripped text. Numbers are not words.
func WordCount(s string) int {
	return len(wordRe.FindAllString(StripTags(s), -1))
}

// Text trims a single-line field coming back from the model.
func Text(s string) string {
	return StripTags(s)
}

// Slugify lowercases s, folds accented letters to ASCII and joins the
// remaining alphanumeric runs with dashes.
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, StripTags(s))
	if err != nil {
		folded = s
	}

	folded = strings.ToLower(folded)
	folded = strings.NewReplacer("ß", "ss", "æ", "ae", "ø", "o", "đ", "d", "ð", "d", "þ", "th", "ł", "l").Replace(folded)
	folded = slugInvalid.ReplaceAllString(folded, "-")

	return strings.Trim(folded, "-")
}

// UpperFirst uppercases the first rune of s.
func UpperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
