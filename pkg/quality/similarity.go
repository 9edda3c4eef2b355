package quality

// SimilarityRatio computes a normalized sequence-similarity ratio in [0, 1]
// between two texts, comparing runes so multi-byte scripts are measured per
// character. It is the Ratcliff-Obershelp measure: 2*M/T, where M is the
// total size of matching blocks found by recursively taking the longest
// common substring, and T is the combined length of both inputs.
func SimilarityRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}

	matched := 0
	type region struct {
		aLo, aHi, bLo, bHi int
	}
	queue := []region{{0, len(ra), 0, len(rb)}}

	for len(queue) > 0 {
		r := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		ai, bi, size := longestMatch(ra, rb, r.aLo, r.aHi, r.bLo, r.bHi)
		if size == 0 {
			continue
		}
		matched += size
		queue = append(queue,
			region{r.aLo, ai, r.bLo, bi},
			region{ai + size, r.aHi, bi + size, r.bHi},
		)
	}

	return 2 * float64(matched) / float64(total)
}

// longestMatch finds the longest common substring within the given bounds
// using a rolling run-length row, O(n*m) time and O(m) space.
func longestMatch(a, b []rune, aLo, aHi, bLo, bHi int) (int, int, int) {
	bestI, bestJ, bestSize := aLo, bLo, 0

	width := bHi - bLo
	if width <= 0 || aHi-aLo <= 0 {
		return bestI, bestJ, bestSize
	}

	prev := make([]int, width)
	cur := make([]int, width)

	for i := aLo; i < aHi; i++ {
		for j := bLo; j < bHi; j++ {
			if a[i] != b[j] {
				cur[j-bLo] = 0
				continue
			}
			run := 1
			if j > bLo {
				run = prev[j-bLo-1] + 1
			}
			cur[j-bLo] = run
			if run > bestSize {
				bestI, bestJ, bestSize = i-run+1, j-run+1, run
			}
		}
		prev, cur = cur, prev
	}

	return bestI, bestJ, bestSize
}
