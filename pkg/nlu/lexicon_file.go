package nlu

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type lexiconFile struct {
	SmallTalk []struct {
		Key   string `yaml:"key"`
		Reply string `yaml:"reply"`
	} `yaml:"small_talk"`
	ResetPhrases  []string `yaml:"reset_phrases"`
	PhraseMinimum int      `yaml:"phrase_minimum"`
}

// LoadLexicon reads a YAML file on top of the default lexicon. Small-talk
// keys already present get the new reply, new keys are appended in file
// order. An empty path returns the default lexicon.
func LoadLexicon(path string) (Lexicon, error) {
	lex := DefaultLexicon()
	if path == "" {
		return lex, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return lex, fmt.Errorf("read lexicon: %w", err)
	}
	return MergeLexicon(lex, raw)
}

// MergeLexicon applies a YAML document to base.
func MergeLexicon(base Lexicon, raw []byte) (Lexicon, error) {
	var f lexiconFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return base, fmt.Errorf("parse lexicon: %w", err)
	}
	if f.PhraseMinimum < 0 || f.PhraseMinimum > 100 {
		return base, fmt.Errorf("parse lexicon: phrase_minimum %d out of range", f.PhraseMinimum)
	}

	base.SmallTalk = append([]Phrase(nil), base.SmallTalk...)
	base.ResetPhrases = append([]string(nil), base.ResetPhrases...)

	pos := make(map[string]int, len(base.SmallTalk))
	for i, p := range base.SmallTalk {
		pos[p.Key] = i
	}
	for _, entry := range f.SmallTalk {
		key := Normalize(entry.Key)
		if key == "" || entry.Reply == "" {
			return base, fmt.Errorf("parse lexicon: small talk entry %q needs a key and a reply", entry.Key)
		}
		if i, ok := pos[key]; ok {
			base.SmallTalk[i].Reply = entry.Reply
			continue
		}
		pos[key] = len(base.SmallTalk)
		base.SmallTalk = append(base.SmallTalk, Phrase{Key: key, Reply: entry.Reply})
	}

	seen := make(map[string]bool, len(base.ResetPhrases))
	for _, p := range base.ResetPhrases {
		seen[p] = true
	}
	for _, p := range f.ResetPhrases {
		if p = Normalize(p); p != "" && !seen[p] {
			seen[p] = true
			base.ResetPhrases = append(base.ResetPhrases, p)
		}
	}

	if f.PhraseMinimum > 0 {
		base.PhraseMinimum = f.PhraseMinimum
	}
	return base, nil
}
