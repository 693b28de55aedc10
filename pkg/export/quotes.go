package export

// quoteIndex counts the unescaped double quotes of a text, so the number of
// quotes on either side of any offset is known in constant time. A quote
// preceded by a backslash does not count.
type quoteIndex struct {
	prefix []int // prefix[i] is the number of quotes in text[:i]
}

func newQuoteIndex(text string) quoteIndex {
	prefix := make([]int, len(text)+1)
	for i := 0; i < len(text); i++ {
		n := prefix[i]
		if text[i] == '"' && (i == 0 || text[i-1] != '\\') {
			n++
		}
		prefix[i+1] = n
	}
	return quoteIndex{prefix: prefix}
}

// inString reports whether [start, end) sits between an opening and a
// closing quote: an odd number of quotes before it and an odd number after.
// It is a parity heuristic, not a lexer. Escaped quotes are ignored and
// string literals spanning lines are treated like any other.
func (q quoteIndex) inString(start, end int) bool {
	total := q.prefix[len(q.prefix)-1]
	left := q.prefix[start]
	right := total - q.prefix[end]
	return left%2 == 1 && right%2 == 1
}
