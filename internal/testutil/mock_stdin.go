package testutil

import "strings"

// MockStdinReader feeds canned answers to code that reads stdin. Every
// answer is terminated by a newline.
type MockStdinReader struct {
	*strings.Reader
}

func NewMockStdinReader(lines []string) *MockStdinReader {
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return &MockStdinReader{Reader: strings.NewReader(b.String())}
}

func SingleMockStdinReader(line string) *MockStdinReader {
	return NewMockStdinReader([]string{line})
}

// EmptyMockStdinReader answers a single prompt with an empty line.
func EmptyMockStdinReader() *MockStdinReader {
	return NewMockStdinReader([]string{""})
}
