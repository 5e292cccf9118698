package parser

// Named special sets. The membership tables are business data used by
// every bookie running this shorthand; do not "fix" them.
var specialSets = map[string][]int{
	"အပူး":    {0, 11, 22, 33, 44, 55, 66, 77, 88, 99}, // doubles
	"ပါဝါ":    {5, 16, 27, 38, 49, 50, 61, 72, 83, 94}, // power
	"နက္ခတ်":  {7, 18, 24, 35, 42, 53, 69, 70, 81, 96}, // nakhat
	"ညီကို":   {1, 12, 23, 34, 45, 56, 67, 78, 89, 90}, // big brother
	"နောင်ကို": {10, 21, 32, 43, 54, 65, 76, 87, 98, 9}, // little brother
}

// Positional rule tags. A token is "<digit><tag>", e.g. "5ထိပ်".
const (
	tagTens   = "ထိပ်"   // digit as tens place
	tagUnits  = "ပိတ်"   // digit as units place
	tagBreak  = "ဘရိတ်" // digit sum mod 10
	tagAround = "အပါ"    // tens ∪ units
)

// Longer tags first so suffix matching cannot shadow them.
var positionalTags = []string{tagBreak, tagTens, tagUnits, tagAround}

// SpecialSet returns the members of a named set.
func SpecialSet(keyword string) ([]int, bool) {
	nums, ok := specialSets[keyword]
	return nums, ok
}

// PositionalSet derives the number set for a "<digit><tag>" token.
func PositionalSet(token string) ([]int, bool) {
	for _, tag := range positionalTags {
		prefix, ok := cutSuffix(token, tag)
		if !ok {
			continue
		}
		if len(prefix) != 1 || prefix[0] < '0' || prefix[0] > '9' {
			return nil, false
		}
		d := int(prefix[0] - '0')
		switch tag {
		case tagTens:
			return tensSet(d), true
		case tagUnits:
			return unitsSet(d), true
		case tagBreak:
			return breakSet(d), true
		case tagAround:
			return aroundSet(d), true
		}
	}
	return nil, false
}

func tensSet(d int) []int {
	nums := make([]int, 0, 10)
	for u := 0; u <= 9; u++ {
		nums = append(nums, d*10+u)
	}
	return nums
}

func unitsSet(d int) []int {
	nums := make([]int, 0, 10)
	for t := 0; t <= 9; t++ {
		nums = append(nums, t*10+d)
	}
	return nums
}

func breakSet(d int) []int {
	var nums []int
	for n := 0; n <= 99; n++ {
		if (n/10+n%10)%10 == d {
			nums = append(nums, n)
		}
	}
	return nums
}

// aroundSet is tens ∪ units; the shared number dd appears once.
func aroundSet(d int) []int {
	nums := tensSet(d)
	for _, n := range unitsSet(d) {
		if n != d*10+d {
			nums = append(nums, n)
		}
	}
	return nums
}

func cutSuffix(s, suffix string) (string, bool) {
	if len(s) <= len(suffix) || s[len(s)-len(suffix):] != suffix {
		return "", false
	}
	return s[:len(s)-len(suffix)], true
}
