package nlu

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// Ratio scores two strings 0-100 by indel edit distance:
// 100 * (len(a)+len(b) - dist) / (len(a)+len(b)). Lengths are in runes.
// An empty side always scores 0.
func Ratio(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	common := lcsLength(ra, rb)
	return int(math.Round(100 * float64(2*common) / float64(total)))
}

// lcsLength is the longest common subsequence length. The indel distance
// between a and b is len(a)+len(b)-2*lcs.
func lcsLength(a, b []rune) int {
	if len(a) < len(b) {
		a, b = b, a
	}
	previous := make([]int, len(b)+1)
	current := make([]int, len(b)+1)

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				current[j] = previous[j-1] + 1
			} else {
				current[j] = max(previous[j], current[j-1])
			}
		}
		previous, current = current, previous
	}
	return previous[len(b)]
}

// PartialRatio is the best Ratio between the shorter string and any window of
// the longer one with the same length.
func PartialRatio(a, b string) int {
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == 0 {
		return 0
	}
	best := 0
	for start := 0; start+len(short) <= len(long); start++ {
		score := Ratio(string(short), string(long[start:start+len(short)]))
		if score > best {
			best = score
			if best == 100 {
				break
			}
		}
	}
	return best
}

// TokenSortRatio compares the strings after sorting their words.
func TokenSortRatio(a, b string) int {
	return Ratio(sortTokens(a), sortTokens(b))
}

func sortTokens(s string) string {
	fields := strings.Fields(s)
	sort.Strings(fields)
	return strings.Join(fields, " ")
}

// TokenSetRatio ignores duplicated words and words only one side has: the
// shared words are compared against each side's full word set.
func TokenSetRatio(a, b string) int {
	return tokenSetScore(a, b, Ratio)
}

// PartialTokenSetRatio is TokenSetRatio with PartialRatio as the scorer.
func PartialTokenSetRatio(a, b string) int {
	return tokenSetScore(a, b, PartialRatio)
}

func tokenSetScore(a, b string, score func(a, b string) int) int {
	inA := wordSet(a)
	inB := wordSet(b)

	var shared, onlyA, onlyB []string
	for w := range inA {
		if inB[w] {
			shared = append(shared, w)
		} else {
			onlyA = append(onlyA, w)
		}
	}
	for w := range inB {
		if !inA[w] {
			onlyB = append(onlyB, w)
		}
	}
	sort.Strings(shared)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	sect := strings.Join(shared, " ")
	withA := strings.TrimSpace(sect + " " + strings.Join(onlyA, " "))
	withB := strings.TrimSpace(sect + " " + strings.Join(onlyB, " "))

	return max(score(sect, withA), score(sect, withB), score(withA, withB))
}

func wordSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(s) {
		set[w] = true
	}
	return set
}

// processForScoring lower-cases, replaces anything that is not a letter or
// digit with a space and collapses runs of spaces.
func processForScoring(s string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)
	return strings.Join(strings.Fields(mapped), " ")
}

// WeightedRatio blends the plain, token-sorted, token-set and partial scores
// the way a "best of" scorer does: partial matches only count when the
// lengths differ a lot, and every derived score is discounted. Inputs are
// processed first.
func WeightedRatio(a, b string) int {
	pa, pb := processForScoring(a), processForScoring(b)
	if pa == "" || pb == "" {
		return 0
	}

	base := float64(Ratio(pa, pb))
	la, lb := float64(len([]rune(pa))), float64(len([]rune(pb)))
	lenRatio := math.Max(la, lb) / math.Min(la, lb)

	const unbaseScale = 0.95
	if lenRatio < 1.5 {
		tsort := float64(TokenSortRatio(pa, pb)) * unbaseScale
		tset := float64(TokenSetRatio(pa, pb)) * unbaseScale
		return int(math.Round(max(base, tsort, tset)))
	}

	partialScale := 0.9
	if lenRatio > 8 {
		partialScale = 0.6
	}
	partial := float64(PartialRatio(pa, pb)) * partialScale
	ptsort := float64(PartialRatio(sortTokens(pa), sortTokens(pb))) * unbaseScale * partialScale
	ptset := float64(PartialTokenSetRatio(pa, pb)) * unbaseScale * partialScale
	return int(math.Round(max(base, partial, ptsort, ptset)))
}
