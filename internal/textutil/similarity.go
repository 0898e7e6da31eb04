package textutil

// Ratio computes the Ratcliff/Obershelp similarity of two strings: twice the
// number of matching runes found by recursively locating the longest common
// substring, divided by the combined length. The result is in [0, 1]; two
// empty strings compare as identical.
func Ratio(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1
	}
	return 2 * float64(matchingTotal(ra, rb)) / float64(total)
}

type span struct {
	alo, ahi, blo, bhi int
}

func matchingTotal(a, b []rune) int {
	// Index b by rune so longestMatch only scans positions that can extend a
	// match.
	b2j := make(map[rune][]int, len(b))
	for j, r := range b {
		b2j[r] = append(b2j[r], j)
	}

	total := 0
	queue := []span{{0, len(a), 0, len(b)}}
	for len(queue) > 0 {
		s := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		i, j, k := longestMatch(a, b2j, s)
		if k == 0 {
			continue
		}
		total += k
		queue = append(queue,
			span{s.alo, i, s.blo, j},
			span{i + k, s.ahi, j + k, s.bhi},
		)
	}
	return total
}

// longestMatch finds the earliest longest common substring of a[alo:ahi] and
// the b positions indexed in b2j, restricted to [blo, bhi).
func longestMatch(a []rune, b2j map[rune][]int, s span) (besti, bestj, size int) {
	besti, bestj = s.alo, s.blo
	j2len := make(map[int]int)
	for i := s.alo; i < s.ahi; i++ {
		newj2len := make(map[int]int)
		for _, j := range b2j[a[i]] {
			if j < s.blo {
				continue
			}
			if j >= s.bhi {
				break
			}
			k := j2len[j-1] + 1
			newj2len[j] = k
			if k > size {
				besti, bestj, size = i-k+1, j-k+1, k
			}
		}
		j2len = newj2len
	}
	return besti, bestj, size
}
