package util

// Truncate cuts s to at most limit runes, reporting whether anything was
// dropped. It is deterministic: the same input and limit always produce the
// same output. A limit <= 0 disables truncation.
func Truncate(s string, limit int) (string, bool) {
	if limit <= 0 {
		return s, false
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s, false
	}
	return string(runes[:limit]), true
}
