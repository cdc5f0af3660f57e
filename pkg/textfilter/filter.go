package textfilter

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/inkfall/fableforge/pkg/story"
)

// replacements maps profanity to tamer alternatives used when a story's
// content settings call for general-audience output.
var replacements = map[string]string{
	"fuck":         "fudge",
	"shit":         "shoot",
	"damn":         "dang",
	"hell":         "heck",
	"ass":          "butt",
	"bitch":        "jerk",
	"bastard":      "jerk",
	"crap":         "crud",
	"piss":         "ticked",
	"whore":        "[censored]",
	"slut":         "[censored]",
	"motherfucker": "mother-trucker",
	"goddamn":      "gosh-dang",
	"asshole":      "jerk",
	"dumbass":      "dummy",
	"jackass":      "jerk",
	"badass":       "tough",
	"bullshit":     "baloney",
	"horseshit":    "nonsense",
	"shithead":     "jerk",
	"dickhead":     "jerk",
	"prick":        "jerk",
}

// ProfanityFilter rewrites profanity in generated prose.
type ProfanityFilter struct {
	regexes map[string]*regexp.Regexp
}

// NewProfanityFilter creates a filter with patterns precompiled for
// every known word.
func NewProfanityFilter() *ProfanityFilter {
	pf := &ProfanityFilter{
		regexes: make(map[string]*regexp.Regexp, len(replacements)),
	}

	for word := range replacements {
		pattern := `(?i)\b` + regexp.QuoteMeta(word) + `\b`
		pf.regexes[word] = regexp.MustCompile(pattern)
	}

	return pf
}

// FilterText replaces profanity in text, preserving the case pattern of
// each match.
func (pf *ProfanityFilter) FilterText(text string) string {
	result := text

	for word, regex := range pf.regexes {
		replacement := replacements[word]
		result = regex.ReplaceAllStringFunc(result, func(match string) string {
			return preserveCase(match, replacement)
		})
	}

	return result
}

// ContainsProfanity checks whether any known word appears in text.
func (pf *ProfanityFilter) ContainsProfanity(text string) bool {
	for _, regex := range pf.regexes {
		if regex.MatchString(text) {
			return true
		}
	}
	return false
}

// ShouldFilter reports whether a story's content settings require
// filtering generated prose. NSFW stories are never filtered; SFW
// stories below the default content level are.
func ShouldFilter(isNsfw bool, contentLevel int) bool {
	if isNsfw {
		return false
	}
	return contentLevel <= story.DefaultContentLevel
}

// preserveCase applies the case pattern of the original word to the
// replacement.
func preserveCase(original, replacement string) string {
	if original == "" {
		return replacement
	}

	if strings.ToUpper(original) == original {
		return strings.ToUpper(replacement)
	}

	if strings.ToLower(original) == original {
		return strings.ToLower(replacement)
	}

	titleCaser := cases.Title(language.English)
	if titleCaser.String(strings.ToLower(original)) == original {
		return titleCaser.String(replacement)
	}

	// Mixed case: carry over per-character case where lengths overlap.
	originalRunes := []rune(original)
	result := make([]rune, 0, len(replacement))
	for i, r := range []rune(replacement) {
		if i < len(originalRunes) && unicode.IsUpper(originalRunes[i]) {
			result = append(result, unicode.ToUpper(r))
		} else {
			result = append(result, unicode.ToLower(r))
		}
	}
	return string(result)
}
