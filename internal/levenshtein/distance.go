// Package levenshtein computes edit distances between domain names.
package levenshtein

// Distance returns the Levenshtein edit distance between a and b.
// Runs in O(len(a)*len(b)) time with two reusable rows of memory.
func Distance(a, b string) int {
	ar := []rune(a)
	br := []rune(b)

	if len(ar) == 0 {
		return len(br)
	}
	if len(br) == 0 {
		return len(ar)
	}

	// Keep the shorter string on the row axis.
	if len(br) < len(ar) {
		ar, br = br, ar
	}

	row := make([]int, len(ar)+1)
	next := make([]int, len(ar)+1)
	for i := range row {
		row[i] = i
	}

	for j, bc := range br {
		next[0] = j + 1
		for i, ac := range ar {
			sub := row[i]
			if ac != bc {
				sub++
			}
			ins := row[i+1] + 1
			del := next[i] + 1

			best := sub
			if ins < best {
				best = ins
			}
			if del < best {
				best = del
			}
			next[i+1] = best
		}
		row, next = next, row
	}

	return row[len(ar)]
}
