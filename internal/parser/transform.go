package parser

// Reverse maps a two-digit number to its digit reversal: 23 -> 32,
// 10 -> 1. Single digits are treated as written with a trailing zero,
// so 5 -> 50 rather than 05 -> 50 staying 5. Callers must pass a
// number in [0,99].
func Reverse(n int) int {
	if n < 10 {
		return n * 10
	}
	return (n%10)*10 + n/10
}
