package matio

import (
	"bufio"
	"strconv"
)

// newWordScanner returns a bufio.Scanner split on whitespace (spaces,
// tabs, newlines alike), mirroring fscanf's token semantics in the
// original fasp readers rather than a strict one-value-per-line format.
func newWordScanner(s *bufio.Scanner) {
	s.Split(bufio.ScanWords)
}

func scanInt(s *bufio.Scanner) (int, bool) {
	if !s.Scan() {
		return 0, false
	}
	v, err := strconv.Atoi(s.Text())
	return v, err == nil
}

func scanFloat(s *bufio.Scanner) (float64, bool) {
	if !s.Scan() {
		return 0, false
	}
	v, err := strconv.ParseFloat(s.Text(), 64)
	return v, err == nil
}
