package activation

import (
	"strings"
)

// codeGroups is the 3-4-4-4 shape of an activation code.
var codeGroups = []int{3, 4, 4, 4}

// FormatCode normalizes code input as it is typed: uppercased, anything
// that is not A-Z or 0-9 stripped, grouped 3-4-4-4 with dashes. Characters
// beyond the fifteenth are dropped.
func FormatCode(input string) string {
	var raw strings.Builder
	for _, r := range strings.ToUpper(input) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			raw.WriteRune(r)
		}
	}
	s := raw.String()

	var out strings.Builder
	for i, n := range codeGroups {
		if s == "" {
			break
		}
		if i > 0 {
			out.WriteByte('-')
		}
		if len(s) < n {
			n = len(s)
		}
		out.WriteString(s[:n])
		s = s[n:]
	}
	return out.String()
}

// knownCodes is the compiled-in allow-list. A code outside it is rejected
// before the registry is ever contacted.
var knownCodes = newCodeSet(
	"FVC-7K9D-23LM-8QWZ", "FVC-A4P7-DF38-XK2J", "FVC-ZQ1L-90XM-5B8V",
	"FVC-R2N8-7L4K-JM3C", "FVC-H1K7-52QZ-N8X9", "FVC-3V9M-L5Q2-7DHF",
	"FVC-X5C3-2Q8M-9RKT", "FVC-N8W7-4ZP3-H6LQ", "FVC-2L7J-3K9V-Q8MH",
	"FVC-Y6P2-M8X5-4DQN", "FVC-8J2H-5Q9L-X3KV", "FVC-1R9N-7L3C-M5XP",
	"FVC-Q3K8-V9W2-4J6H", "FVC-K2M7-8P4N-1ZQX", "FVC-5H9J-2X8L-7MWC",
	"FVC-4P2M-Q7L8-9K1V", "FVC-L7K3-5N8H-2QMW", "FVC-M9P2-4K7X-H1QJ",
	"FVC-7X3C-2M9Q-5PLN", "FVC-P5Q8-K9H2-7XLM", "FVC-9R2M-7J4X-Q5LC",
	"FVC-6K1N-9P7L-M4QV", "FVC-X9M2-5P7K-1QLJ", "FVC-2Q7H-8X9M-3LKP",
	"FVC-V3P9-7K4M-2QXH", "FVC-1K7L-9M2Q-P8XH", "FVC-Q9P2-3L7X-5KMN",
	"FVC-7L4Q-9X2M-1KPC", "FVC-M8K2-7L5P-9QXH", "FVC-3Q9K-2X7L-M5PN",
	"FVC-P8M2-1L9Q-7KXC", "FVC-4M7Q-9L2X-K1PH", "FVC-L9Q2-3M7K-P8XH",
	"FVC-5K2M-9Q8L-7XHC", "FVC-M2L9-7K5Q-1PXH", "FVC-9Q7L-2M8K-P5XC",
	"FVC-7M9Q-1L2K-X5PC", "FVC-2K7M-9L3Q-5XPH", "FVC-L2Q9-7M5K-8XPC",
)

type codeSet map[string]struct{}

func newCodeSet(codes ...string) codeSet {
	s := make(codeSet, len(codes))
	for _, c := range codes {
		s[c] = struct{}{}
	}
	return s
}

func (s codeSet) has(code string) bool {
	_, ok := s[code]
	return ok
}

// KnownCode reports whether code is on the compiled-in allow-list.
func KnownCode(code string) bool {
	return knownCodes.has(strings.ToUpper(strings.TrimSpace(code)))
}
