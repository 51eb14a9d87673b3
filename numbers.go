package semaphore

import "strings"

const localNumberLength = 10

// ParseRecipients splits a comma delimited list of numbers. Entries are kept
// as given, empty ones included.
func ParseRecipients(recipient string) []string {
	return strings.Split(recipient, ",")
}

// NormalizeNumber turns a number into the local format expected by the
// gateway: the last 10 characters prefixed with a 0, e.g. 639171234567 and
// 9171234567 both become 09171234567. Numbers shorter than 10 characters are
// prefixed as they are.
//
// The result is not checked and a second call adds another 0.
func NormalizeNumber(number string) string {
	if len(number) > localNumberLength {
		number = number[len(number)-localNumberLength:]
	}

	return "0" + number
}

// NormalizeNumbers applies NormalizeNumber to every entry, preserving order.
func NormalizeNumbers(numbers []string) []string {
	normalized := make([]string, len(numbers))
	for i, number := range numbers {
		normalized[i] = NormalizeNumber(number)
	}

	return normalized
}
