// Package parser turns free-form 2D betting shorthand into normalized
// (number, amount) pairs. Malformed input never fails a whole message:
// bad tokens are skipped and reported as per-token diagnostics.
package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"TwoDBook/internal/model"
)

// DefaultAmount is staked on a bare number with no amount token.
const DefaultAmount = 500

// blockedChars reject the whole line, no partial parse.
const blockedChars = "%&*$"

const (
	wheelKeyword        = "အခွေ"
	wheelDoublesKeyword = "အခွေပူး"
)

// "က" acts as the pair separator only between digits ("12က500");
// elsewhere it is an ordinary letter inside keywords.
var kaBetween = regexp.MustCompile(`([0-9])က([0-9])`)

var sepReplacer = strings.NewReplacer(
	",", " ",
	"/", " ",
	"၊", " ",
	"။", " ",
	"အကုန်", " ",
)

// Result is the outcome of parsing one message or line.
type Result struct {
	Bets        []model.Bet
	Accepted    []string
	Diagnostics []string
}

// Parser parses bet shorthand lines.
type Parser struct {
	defaultAmount int
}

// New creates a Parser. A non-positive defaultAmount falls back to
// DefaultAmount.
func New(defaultAmount int) *Parser {
	if defaultAmount <= 0 {
		defaultAmount = DefaultAmount
	}
	return &Parser{defaultAmount: defaultAmount}
}

// match is what a rule produces when it claims tokens at the cursor.
// A rule may claim a token shape and still yield no bets, only diags.
type match struct {
	bets     []model.Bet
	consumed int
	diags    []string
}

type matcher func(tokens []string, i int) (match, bool)

// Parse parses a whole message, line by line.
func (p *Parser) Parse(text string) Result {
	var res Result
	for _, line := range strings.Split(text, "\n") {
		lr := p.ParseLine(line)
		res.Bets = append(res.Bets, lr.Bets...)
		res.Accepted = append(res.Accepted, lr.Accepted...)
		res.Diagnostics = append(res.Diagnostics, lr.Diagnostics...)
	}
	return res
}

// ParseLine parses a single line of bet shorthand.
//
// Rules are tried in a fixed order per scan position, most specific
// first; the first rule that claims the token shape wins. The order is
// load-bearing: token shapes overlap (a bare number is also a valid
// positional-rule prefix) and output compatibility depends on this
// exact tie-break.
func (p *Parser) ParseLine(line string) Result {
	var res Result
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return res
	}
	if strings.ContainsAny(trimmed, blockedChars) {
		res.Diagnostics = append(res.Diagnostics,
			fmt.Sprintf("'%s' - ခွင့်မပြုထားသောသင်္ကေတ (%% & * $) ပါနေပါသည်", trimmed))
		return res
	}
	tokens := tokenize(trimmed)
	if len(tokens) == 0 {
		return res
	}

	// Whole-line shortcut: "12 34 56 1000" shares the trailing amount.
	if m, ok := p.sharedAmountLine(tokens); ok {
		res.absorb(m)
		return res
	}

	matchers := []matcher{
		p.matchNamedSet,
		p.matchPositional,
		p.matchWheel,
		p.matchReversePair,
		p.matchSimpleReverse,
		p.matchSplitReverse,
		p.matchExplicitPair,
		p.matchNumberWithAmount,
		p.matchBareNumber,
	}

	i := 0
	for i < len(tokens) {
		var m match
		matched := false
		for _, try := range matchers {
			if m, matched = try(tokens, i); matched {
				break
			}
		}
		if !matched {
			res.Diagnostics = append(res.Diagnostics,
				fmt.Sprintf("'%s' - နားမလည်သောပုံစံ", tokens[i]))
			i++
			continue
		}
		res.absorb(m)
		i += m.consumed
	}
	return res
}

func (r *Result) absorb(m match) {
	for _, b := range m.bets {
		r.Bets = append(r.Bets, b)
		r.Accepted = append(r.Accepted, b.String())
	}
	r.Diagnostics = append(r.Diagnostics, m.diags...)
}

func tokenize(line string) []string {
	line = kaBetween.ReplaceAllString(line, "$1-$2")
	return strings.Fields(sepReplacer.Replace(line))
}

// Rule 10: entire line is bare numbers plus one trailing amount. The
// trailing token must exceed 99, otherwise it reads as a bet number
// and the pairwise rules apply instead.
func (p *Parser) sharedAmountLine(tokens []string) (match, bool) {
	if len(tokens) < 2 {
		return match{}, false
	}
	for _, t := range tokens {
		if !isDigits(t) {
			return match{}, false
		}
	}
	amt, err := strconv.Atoi(tokens[len(tokens)-1])
	if err != nil || amt <= 99 {
		return match{}, false
	}
	m := match{consumed: len(tokens)}
	for _, t := range tokens[:len(tokens)-1] {
		n, err := strconv.Atoi(t)
		if err != nil || !model.ValidNumber(n) {
			return match{}, false
		}
		m.bets = append(m.bets, model.Bet{Number: n, Amount: amt})
	}
	return m, true
}

// Rule 1: named special set followed by an amount.
func (p *Parser) matchNamedSet(tokens []string, i int) (match, bool) {
	nums, ok := SpecialSet(tokens[i])
	if !ok {
		return match{}, false
	}
	return p.setWithAmount(nums, tokens, i)
}

// Rule 2: "<digit><tag>" positional rule followed by an amount.
func (p *Parser) matchPositional(tokens []string, i int) (match, bool) {
	nums, ok := PositionalSet(tokens[i])
	if !ok {
		return match{}, false
	}
	return p.setWithAmount(nums, tokens, i)
}

func (p *Parser) setWithAmount(nums []int, tokens []string, i int) (match, bool) {
	if i+1 >= len(tokens) || !isDigits(tokens[i+1]) {
		return match{}, false
	}
	amt, err := strconv.Atoi(tokens[i+1])
	if err != nil {
		return match{}, false
	}
	if amt <= 0 {
		return match{consumed: 2, diags: []string{amountDiag(tokens[i+1])}}, true
	}
	m := match{consumed: 2}
	for _, n := range nums {
		m.bets = append(m.bets, model.Bet{Number: n, Amount: amt})
	}
	return m, true
}

// Rule 3: wheel token — every ordered pair of distinct digit positions
// from the prefix, optionally plus the doubles of those digits.
func (p *Parser) matchWheel(tokens []string, i int) (match, bool) {
	tok := tokens[i]
	withDoubles := true
	prefix, ok := cutSuffix(tok, wheelDoublesKeyword)
	if !ok {
		withDoubles = false
		if prefix, ok = cutSuffix(tok, wheelKeyword); !ok {
			return match{}, false
		}
	}
	if !isDigits(prefix) || len(prefix) < 2 {
		return match{}, false
	}
	return p.setWithAmount(wheelNumbers(prefix, withDoubles), tokens, i)
}

func wheelNumbers(digits string, withDoubles bool) []int {
	seen := make(map[int]bool)
	var nums []int
	add := func(n int) {
		if !seen[n] {
			seen[n] = true
			nums = append(nums, n)
		}
	}
	for i := 0; i < len(digits); i++ {
		for j := 0; j < len(digits); j++ {
			if i != j {
				add(int(digits[i]-'0')*10 + int(digits[j]-'0'))
			}
		}
	}
	if withDoubles {
		for i := 0; i < len(digits); i++ {
			d := int(digits[i] - '0')
			add(d*10 + d)
		}
	}
	return nums
}

// Rule 4: "<num>[-<num>...]-<amt>r<amt2>" — base amount on the literal
// numbers, the r amount on each reversal.
func (p *Parser) matchReversePair(tokens []string, i int) (match, bool) {
	tok := tokens[i]
	if !strings.Contains(tok, "r") || !strings.Contains(tok, "-") {
		return match{}, false
	}
	left, right, _ := strings.Cut(tok, "r")
	if !isDigits(right) {
		return match{}, false
	}
	parts := strings.Split(left, "-")
	if len(parts) < 2 {
		return match{}, false
	}
	for _, part := range parts {
		if !isDigits(part) {
			return match{}, false
		}
	}
	base, berr := strconv.Atoi(parts[len(parts)-1])
	ramt, rerr := strconv.Atoi(right)
	if berr != nil || rerr != nil || base <= 0 || ramt <= 0 {
		return match{consumed: 1, diags: []string{amountDiag(tok)}}, true
	}
	m := match{consumed: 1}
	for _, ns := range parts[:len(parts)-1] {
		n, err := strconv.Atoi(ns)
		if err != nil || !model.ValidNumber(n) {
			m.diags = append(m.diags, rangeDiag(ns))
			continue
		}
		m.bets = append(m.bets,
			model.Bet{Number: n, Amount: base},
			model.Bet{Number: Reverse(n), Amount: ramt})
	}
	return m, true
}

// Rule 5: "<num>r<amt>" — the same amount on both the number and its
// reversal.
func (p *Parser) matchSimpleReverse(tokens []string, i int) (match, bool) {
	numStr, amtStr, found := strings.Cut(tokens[i], "r")
	if !found || !isDigits(numStr) || !isDigits(amtStr) {
		return match{}, false
	}
	num, err := strconv.Atoi(numStr)
	if err != nil || !model.ValidNumber(num) {
		return match{consumed: 1, diags: []string{rangeDiag(numStr)}}, true
	}
	amt, err := strconv.Atoi(amtStr)
	if err != nil || amt <= 0 {
		return match{consumed: 1, diags: []string{amountDiag(amtStr)}}, true
	}
	return match{
		consumed: 1,
		bets: []model.Bet{
			{Number: num, Amount: amt},
			{Number: Reverse(num), Amount: amt},
		},
	}, true
}

// Rule 6: "<num>" followed by "<amt1>r<amt2>".
func (p *Parser) matchSplitReverse(tokens []string, i int) (match, bool) {
	if !isDigits(tokens[i]) || i+1 >= len(tokens) {
		return match{}, false
	}
	a1Str, a2Str, found := strings.Cut(tokens[i+1], "r")
	if !found || !isDigits(a1Str) || !isDigits(a2Str) {
		return match{}, false
	}
	num, err := strconv.Atoi(tokens[i])
	if err != nil || !model.ValidNumber(num) {
		return match{consumed: 1, diags: []string{rangeDiag(tokens[i])}}, true
	}
	a1, err1 := strconv.Atoi(a1Str)
	a2, err2 := strconv.Atoi(a2Str)
	if err1 != nil || err2 != nil || a1 <= 0 || a2 <= 0 {
		return match{consumed: 2, diags: []string{amountDiag(tokens[i+1])}}, true
	}
	return match{
		consumed: 2,
		bets: []model.Bet{
			{Number: num, Amount: a1},
			{Number: Reverse(num), Amount: a2},
		},
	}, true
}

// Rule 7: "<num>-<amt>", no reversal. Claims every remaining token
// containing "-" so malformed pairs get a format diagnostic.
func (p *Parser) matchExplicitPair(tokens []string, i int) (match, bool) {
	tok := tokens[i]
	if !strings.Contains(tok, "-") {
		return match{}, false
	}
	numStr, amtStr, _ := strings.Cut(tok, "-")
	if !isDigits(numStr) || !isDigits(amtStr) {
		return match{
			consumed: 1,
			diags:    []string{fmt.Sprintf("'%s' - မှားနေသောပုံစံ (ဥပမာ: 12-1000)", tok)},
		}, true
	}
	num, err := strconv.Atoi(numStr)
	if err != nil || !model.ValidNumber(num) {
		return match{consumed: 1, diags: []string{rangeDiag(numStr)}}, true
	}
	amt, err := strconv.Atoi(amtStr)
	if err != nil || amt <= 0 {
		return match{consumed: 1, diags: []string{amountDiag(amtStr)}}, true
	}
	return match{consumed: 1, bets: []model.Bet{{Number: num, Amount: amt}}}, true
}

// Rule 8: bare number with the amount in the following token.
func (p *Parser) matchNumberWithAmount(tokens []string, i int) (match, bool) {
	if !isDigits(tokens[i]) || i+1 >= len(tokens) || !isDigits(tokens[i+1]) {
		return match{}, false
	}
	num, err := strconv.Atoi(tokens[i])
	if err != nil || !model.ValidNumber(num) {
		// Leave the amount token for the next scan position.
		return match{consumed: 1, diags: []string{rangeDiag(tokens[i])}}, true
	}
	amt, err := strconv.Atoi(tokens[i+1])
	if err != nil || amt <= 0 {
		return match{consumed: 2, diags: []string{amountDiag(tokens[i+1])}}, true
	}
	return match{consumed: 2, bets: []model.Bet{{Number: num, Amount: amt}}}, true
}

// Rule 9: bare number, default stake.
func (p *Parser) matchBareNumber(tokens []string, i int) (match, bool) {
	if !isDigits(tokens[i]) {
		return match{}, false
	}
	num, err := strconv.Atoi(tokens[i])
	if err != nil || !model.ValidNumber(num) {
		return match{consumed: 1, diags: []string{rangeDiag(tokens[i])}}, true
	}
	return match{consumed: 1, bets: []model.Bet{{Number: num, Amount: p.defaultAmount}}}, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func rangeDiag(tok string) string {
	return fmt.Sprintf("'%s' - 0 နဲ့ 99 ကြားဖြစ်ရပါမယ်", tok)
}

func amountDiag(tok string) string {
	return fmt.Sprintf("'%s' - ပမာဏသည် 0 ထက်ကြီးရပါမယ်", tok)
}
