package nlu

import (
	"testing"
	"testing/quick"

	"abend-assist-be/pkg/abend"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIndex(t *testing.T) *abend.Index {
	t.Helper()
	idx, err := abend.NewIndex([]abend.Record{
		{Code: "S0C4", Name: "Storage Violation", Solution: "Check pointer arithmetic"},
		{Code: "S0C7", Name: "Data Exception", Solution: "Validate packed decimal fields"},
		{Code: "S806", Name: "Program Not Found", Solution: "Check STEPLIB"},
	})
	require.NoError(t, err)
	return idx
}

func TestNormalizeIsIdempotent(t *testing.T) {
	f := func(s string) bool {
		once := Normalize(s)
		return Normalize(once) == once
	}
	require.NoError(t, quick.Check(f, nil))

	assert.Equal(t, "s0c4 abend", Normalize("  S0C4 Abend \n"))
}

func TestRatio(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"hello", "hello", 100},
		{"helo", "hello", 89},
		{"hello!", "hello", 91},
		{"storage violatoin", "storage violation", 94},
		{"abc", "xyz", 0},
		{"", "", 0},
		{"", "hello", 0},
	}
	for _, tt := range tests {
		t.Run(tt.a+"|"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, Ratio(tt.a, tt.b))
			assert.Equal(t, tt.want, Ratio(tt.b, tt.a))
		})
	}
}

func TestWeightedRatio(t *testing.T) {
	assert.Equal(t, 94, WeightedRatio("storage violatoin", "Storage Violation"))
	assert.Equal(t, 95, WeightedRatio("violation storage", "Storage Violation"))
	assert.Equal(t, 0, WeightedRatio("???", "S0C4"))
	assert.Less(t, WeightedRatio("payroll job failed", "S0C4"), SuggestionMinimum)

	// Extra words on one side are forgiven through the shared word set.
	assert.Equal(t, 95, WeightedRatio("violation storage problem", "Storage Violation"))
	assert.Equal(t, 63, WeightedRatio("storage problem", "Storage Violation"))
}

func TestTokenSetRatio(t *testing.T) {
	assert.Equal(t, 100, TokenSetRatio("violation storage problem", "storage violation"))
	assert.Equal(t, 100, TokenSetRatio("storage storage violation", "violation storage"))
	assert.Equal(t, 0, TokenSetRatio("abc", "xyz"))
	assert.Equal(t, 100, PartialTokenSetRatio("data exception in step two", "data exception"))
}

func TestSuggestForgivesExtraWords(t *testing.T) {
	candidates := []string{"S0C4", "S0C7", "S806", "Storage Violation", "Data Exception", "Program Not Found"}

	s, ok := Suggest("violation storage problem", candidates, SuggestionMinimum)
	require.True(t, ok)
	assert.Equal(t, Suggestion{Candidate: "Storage Violation", Score: 95}, s)
}

func TestMatchSmallTalk(t *testing.T) {
	lex := DefaultLexicon()

	p, ok := MatchSmallTalk("hello", lex)
	require.True(t, ok)
	assert.Equal(t, "Hello! How can I assist you with your abend issues today?", p.Reply)

	p, ok = MatchSmallTalk("thanks!", lex)
	require.True(t, ok)
	assert.Equal(t, "thanks", p.Key)

	_, ok = MatchSmallTalk("s0c4", lex)
	assert.False(t, ok)

	_, ok = MatchSmallTalk("", lex)
	assert.False(t, ok)
}

func TestMatch(t *testing.T) {
	idx := testIndex(t)
	lex := DefaultLexicon()

	tests := []struct {
		name string
		text string
		want Entities
	}{
		{
			name: "bare code",
			text: "s0c4",
			want: Entities{Code: "S0C4"},
		},
		{
			name: "code inside a question",
			text: "what does s0c7 mean?",
			want: Entities{Code: "S0C7"},
		},
		{
			name: "code wins over name",
			text: "s0c4 or data exception",
			want: Entities{Code: "S0C4"},
		},
		{
			name: "name in sentence",
			text: "my job hit a program not found error",
			want: Entities{Name: "Program Not Found"},
		},
		{
			name: "fragment of a name",
			text: "storage",
			want: Entities{Name: "Storage Violation"},
		},
		{
			name: "greeting",
			text: "hello",
			want: Entities{Greeting: "hello", GreetingReply: "Hello! How can I assist you with your abend issues today?"},
		},
		{
			name: "nothing",
			text: "zzzz qqqq",
			want: Entities{},
		},
		{
			name: "empty",
			text: "",
			want: Entities{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Match(tt.text, idx, lex))
		})
	}
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"what", "is", "s0c4"}, Tokenize("what is s0c4?"))
	assert.Empty(t, Tokenize("  ?! "))
}

func TestSuggest(t *testing.T) {
	idx := testIndex(t)

	s, ok := Suggest("storage violatoin", idx.Candidates(), SuggestionMinimum)
	require.True(t, ok)
	assert.Equal(t, "Storage Violation", s.Candidate)
	assert.Equal(t, 94, s.Score)

	_, ok = Suggest("zzzz", idx.Candidates(), SuggestionMinimum)
	assert.False(t, ok)

	_, ok = Suggest("", idx.Candidates(), SuggestionMinimum)
	assert.False(t, ok)

	s, ok = Suggest("abc", []string{"abcx", "abcy"}, SuggestionMinimum)
	require.True(t, ok)
	assert.Equal(t, "abcx", s.Candidate, "ties keep the first candidate")
}

func TestClassify(t *testing.T) {
	idx := testIndex(t)
	lex := DefaultLexicon()

	tests := []struct {
		text string
		want Intent
	}{
		{"reset my password", IntentPasswordReset},
		{"please reset my password", IntentPasswordReset},
		{"hello", IntentSmallTalk},
		{"s0c4", IntentLookup},
		{"data exception", IntentLookup},
		{"storage violatoin", IntentLookupUnresolved},
		{"", IntentUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			ent := Match(tt.text, idx, lex)
			assert.Equal(t, tt.want, Classify(tt.text, ent, lex))
		})
	}
}
