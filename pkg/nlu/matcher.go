package nlu

import (
	"strings"
	"unicode"

	"abend-assist-be/pkg/abend"
)

// MinNameFragment is the shortest utterance that may match inside a record
// name (the reverse substring direction).
const MinNameFragment = 3

// Entities is what the matcher extracted from one turn.
type Entities struct {
	Greeting      string `json:"greeting,omitempty"`
	GreetingReply string `json:"-"`
	Code          string `json:"code,omitempty"`
	Name          string `json:"name,omitempty"`
}

// HasLookup reports whether a code or a name was found.
func (e Entities) HasLookup() bool {
	return e.Code != "" || e.Name != ""
}

// Match runs the greeting, code and name checks over canonical text.
// The name search is skipped once a code is found.
func Match(text string, idx *abend.Index, lex Lexicon) Entities {
	var ent Entities
	if text == "" {
		return ent
	}

	if p, ok := MatchSmallTalk(text, lex); ok {
		ent.Greeting = p.Key
		ent.GreetingReply = p.Reply
	}

	if code, ok := MatchCode(text, idx); ok {
		ent.Code = code
		return ent
	}

	if name, ok := idx.FindNameIn(text, MinNameFragment); ok {
		ent.Name = name
	}
	return ent
}

// MatchSmallTalk returns the first small-talk phrase similar enough to text.
func MatchSmallTalk(text string, lex Lexicon) (Phrase, bool) {
	if text == "" {
		return Phrase{}, false
	}
	for _, p := range lex.SmallTalk {
		if Ratio(text, p.Key) >= lex.PhraseMinimum {
			return p, true
		}
	}
	return Phrase{}, false
}

// MatchCode checks every token, then the whole text, against the known codes.
// It returns the canonical (upper-case) code.
func MatchCode(text string, idx *abend.Index) (string, bool) {
	for _, tok := range Tokenize(text) {
		if idx.HasCode(tok) {
			return abend.CanonicalCode(tok), true
		}
	}
	if idx.HasCode(text) {
		return abend.CanonicalCode(text), true
	}
	return "", false
}

// Tokenize splits on whitespace and strips punctuation around each word.
func Tokenize(text string) []string {
	fields := strings.Fields(text)
	out := fields[:0]
	for _, f := range fields {
		f = strings.TrimFunc(f, func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		})
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
