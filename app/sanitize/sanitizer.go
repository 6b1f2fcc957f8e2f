package sanitize

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Boilerplate phrases left behind by "read more" links, per language.
var junkPhrases = []string{
	// es
	"lee la crónica", "leer más", "ver más", "click aquí", "pincha aquí", "seguir leyendo", "más información",
	// en
	"read more", "click here", "continue reading", "more information",
	// de
	"weiterlesen", "mehr lesen", "klicken Sie hier", "mehr erfahren",
	// fr
	"lire la suite", "en savoir plus", "cliquez ici",
	// no
	"les mer", "klikk her", "fortsett å lese",
	// is
	"lesa meira", "smelltu hér", "halda áfram að lesa",
	// sv
	"läs mer", "klicka här", "fortsätt läsa",
}

var (
	anchorOpenRe  = regexp.MustCompile(`(?i)<a\b[^>]*>`)
	anchorCloseRe = regexp.MustCompile(`(?i)</a\s*>`)
	junkRe        = buildJunkRegexp(junkPhrases)
	paragraphRe   = regexp.MustCompile(`(?is)<p\b[^>]*>.*?</p>`)
	copyrightRe   = regexp.MustCompile(`(?i)(©|copyright|prohibida la reproducción|todos los derechos reservados|all rights reserved)`)
	openTagRe     = regexp.MustCompile(`<[a-zA-Z][^>]*>`)
	unsafeAttrRe  = regexp.MustCompile(`(?i)\s+(style|on[a-z]+)\s*=\s*("[^"]*"|'[^']*')`)
	imgRe         = regexp.MustCompile(`(?i)<img\b[^>]*>`)

	h1Re = regexp.MustCompile(`(?is)<h1\b[^>]*>.*?</h1>`)
	h2Re = regexp.MustCompile(`(?is)<h2\b[^>]*>.*?</h2>`)

	markdownBoldRe   = regexp.MustCompile(`(?s)\*\*(.*?)\*\*`)
	boldOpenRe       = regexp.MustCompile(`(?i)<b(\s[^>]*)?>`)
	boldCloseRe      = regexp.MustCompile(`(?i)</b\s*>`)
	strongOpenRunRe  = regexp.MustCompile(`(<strong>\s*)+`)
	strongCloseRunRe = regexp.MustCompile(`(\s*</strong>)+`)

	placeholderFigureRe = regexp.MustCompile(`(?is)<figure[^>]*>\s*<img[^>]+src=["']#?["'][^>]*>.*?</figure>`)
	placeholderImgRe    = regexp.MustCompile(`(?is)<img[^>]+src=["']#?["'][^>]*>`)

	figcaptionRe  = regexp.MustCompile(`(?is)<figcaption[^>]*>.*?</figcaption>`)
	captionLineRe = regexp.MustCompile(`(?mi)\s*(Pie de foto:|Leyenda:).*$`)
)

func buildJunkRegexp(phrases []string) *regexp.Regexp {
	quoted := make([]string, 0, len(phrases))
	for _, phrase := range phrases {
		quoted = append(quoted, regexp.QuoteMeta(phrase))
	}
	return regexp.MustCompile(`(?i)[\s(]+(` + strings.Join(quoted, "|") + `)[\s)]+`)
}

// Clean prepares scraped article HTML for the rewrite prompt. Images are
// removed last, so callers that need the image count must measure it first.
func Clean(html string) string {
	if html == "" {
		return ""
	}

	html = anchorOpenRe.ReplaceAllString(html, "")
	html = anchorCloseRe.ReplaceAllString(html, "")

	html = junkRe.ReplaceAllString(html, " ")

	html = paragraphRe.ReplaceAllStringFunc(html, func(p string) string {
		if copyrightRe.MatchString(p) {
			return ""
		}
		return p
	})

	html = openTagRe.ReplaceAllStringFunc(html, func(tag string) string {
		return unsafeAttrRe.ReplaceAllString(tag, "")
	})

	html = imgRe.ReplaceAllString(html, "")

	return strings.TrimSpace(html)
}

// CleanupHeadings keeps the first <h1> and the first <h2> and drops the rest.
func CleanupHeadings(html string) string {
	html = keepFirst(h1Re, html)
	html = keepFirst(h2Re, html)
	return html
}

func keepFirst(re *regexp.Regexp, html string) string {
	seen := false
	return re.ReplaceAllStringFunc(html, func(match string) string {
		if seen {
			return ""
		}
		seen = true
		return match
	})
}

// CleanupBold normalizes bold markup to <strong>, repairs unbalanced tags and
// collapses repeated <strong> opens and closes.
func CleanupBold(html string) string {
	html = markdownBoldRe.ReplaceAllString(html, "<strong>$1</strong>")
	html = boldOpenRe.ReplaceAllString(html, "<strong>")
	html = boldCloseRe.ReplaceAllString(html, "</strong>")

	if balanced, err := BalanceTags(html); err == nil {
		html = balanced
	}

	html = strongOpenRunRe.ReplaceAllString(html, "<strong>")
	html = strongCloseRunRe.ReplaceAllString(html, "</strong>")

	return html
}

// BalanceTags runs the fragment through an HTML5 parser and renders the body
// back, closing unclosed elements and dropping stray end tags.
func BalanceTags(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return html, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body>" + html + "</body></html>"))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML fragment: %w", err)
	}

	out, err := doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("failed to render HTML fragment: %w", err)
	}

	return out, nil
}

// RemovePlaceholderImages drops figures and images whose src is "#" or empty.
func RemovePlaceholderImages(html string) string {
	html = placeholderFigureRe.ReplaceAllString(html, "")
	html = placeholderImgRe.ReplaceAllString(html, "")
	return html
}

// StripCaptions removes <figcaption> blocks and photo caption lines.
func StripCaptions(html string) string {
	html = figcaptionRe.ReplaceAllString(html, "")
	html = captionLineRe.ReplaceAllString(html, "")
	return html
}

// PostProcess applies the cleanup steps for model generated HTML in order.
func PostProcess(html string) string {
	html = CleanupHeadings(html)
	html = CleanupBold(html)
	html = RemovePlaceholderImages(html)
	html = StripCaptions(html)
	return html
}
