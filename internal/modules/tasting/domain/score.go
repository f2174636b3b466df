package domain

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	subScoreFloor = 70
	subScoreSpan  = 30
	RoasterBonus  = 10
	MaxScore      = 100
)

// CalculateMatchScore compares the taster's flavors and sensory expressions with the
// roaster's notes. Each sub-score is 70 plus up to 30 for the share of items found in
// the roaster text; the bonus applies when roaster notes were logged (level 2).
func CalculateMatchScore(s Session) MatchScore {
	notes := newNoteText("")
	if s.RoasterNotes != nil {
		notes = newNoteText(*s.RoasterNotes)
	}

	flavorHits := 0
	for _, f := range s.SelectedFlavors {
		if notes.mentions(f.Text, f.ID) {
			flavorHits++
		}
	}
	sensoryHits := 0
	for _, e := range s.SensoryExpressions {
		if notes.mentions(e.Text, e.ID) {
			sensoryHits++
		}
	}

	score := MatchScore{
		FlavorMatch:  subScore(flavorHits, len(s.SelectedFlavors)),
		SensoryMatch: subScore(sensoryHits, len(s.SensoryExpressions)),
	}
	if s.RoasterNotesLevel == RoasterNotesPresent {
		score.RoasterBonus = RoasterBonus
	}
	base := int(math.Round(float64(score.FlavorMatch+score.SensoryMatch) / 2))
	score.Total = clampScore(base + score.RoasterBonus)
	return score
}

func subScore(hits, total int) int {
	if total == 0 {
		return subScoreFloor
	}
	return subScoreFloor + int(math.Round(subScoreSpan*float64(hits)/float64(total)))
}

func clampScore(v int) int {
	if v > MaxScore {
		return MaxScore
	}
	if v < 0 {
		return 0
	}
	return v
}

type noteText struct {
	joined string
	padded string
	tokens map[string]struct{}
}

func newNoteText(raw string) noteText {
	joined := normalize(raw)
	tokens := map[string]struct{}{}
	for _, tok := range strings.Fields(joined) {
		tokens[tok] = struct{}{}
	}
	return noteText{joined: joined, padded: " " + joined + " ", tokens: tokens}
}

// mentions matches a whole phrase, a substring for non-Latin text (Korean notes glue
// particles onto nouns), or any token of two or more runes.
func (n noteText) mentions(candidates ...string) bool {
	if n.joined == "" {
		return false
	}
	for _, c := range candidates {
		c = normalize(c)
		if c == "" {
			continue
		}
		if strings.Contains(n.padded, " "+c+" ") {
			return true
		}
		if !isASCII(c) && strings.Contains(n.joined, c) {
			return true
		}
		for _, tok := range strings.Fields(c) {
			if utf8.RuneCountInString(tok) < 2 {
				continue
			}
			if _, ok := n.tokens[tok]; ok {
				return true
			}
		}
	}
	return false
}

func normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteByte(' ')
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
