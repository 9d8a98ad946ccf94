package mines

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

// cellStack holds board indices waiting to be opened by the flood fill.
type cellStack []int

func (s *cellStack) push(i int) {
	*s = append(*s, i)
}

func (s *cellStack) pop() (int, bool) {
	n := len(*s)
	if n == 0 {
		return 0, false
	}
	i := (*s)[n-1]
	*s = (*s)[:n-1]
	return i, true
}
