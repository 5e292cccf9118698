package notifier

import (
	"fmt"
	"sort"
	"strings"

	"TwoDBook/internal/model"
)

// FormatSubmitResult renders a submission reply: accepted bets, the
// applied total, then any per-token problems with format examples.
func FormatSubmitResult(res *model.SubmitResult) string {
	var b strings.Builder
	if len(res.Bets) > 0 {
		b.WriteString("✅ အောက်ပါအတိုင်းလောင်းပြီးပါပြီ:\n")
		for _, bet := range res.Bets {
			b.WriteString(bet.String())
			b.WriteString("\n")
		}
		b.WriteString(fmt.Sprintf("စုစုပေါင်း: %d လို\n", res.Applied))
	}
	if len(res.Diagnostics) > 0 {
		b.WriteString("\n⚠️ အောက်ပါအချက်များမှားယွင်းနေပါသည်:\n")
		for _, d := range res.Diagnostics {
			b.WriteString(d)
			b.WriteString("\n")
		}
		b.WriteString("\nဥပမာမှန်များ:\n12-1000\n45/500\n78 1000\n12 34 56 1000")
	}
	if b.Len() == 0 {
		return "⚠️ အချက်အလက်များကိုစစ်ဆေးပါ"
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatLedgerSummary renders per-number totals in ascending order.
func FormatLedgerSummary(totals map[int]int) string {
	if len(totals) == 0 {
		return "ℹ️ လက်ရှိတွင် လောင်းကြေးမရှိပါ"
	}
	var b strings.Builder
	b.WriteString("📒 လက်ကျန်ငွေစာရင်း")
	for _, n := range sortedKeys(totals) {
		b.WriteString(fmt.Sprintf("\n%02d ➤ %d", n, totals[n]))
	}
	return b.String()
}

// FormatOverbuyCandidates renders each number's amount over the limit.
func FormatOverbuyCandidates(excess map[int]int) string {
	if len(excess) == 0 {
		return "ℹ️ ဘယ်ဂဏန်းမှ limit မကျော်ပါ"
	}
	var b strings.Builder
	b.WriteString("⚠️ Limit ကျော်နေသောဂဏန်းများ:")
	for _, n := range sortedKeys(excess) {
		b.WriteString(fmt.Sprintf("\n%02d ➤ %d", n, excess[n]))
	}
	return b.String()
}

// FormatPowerStakes renders each bettor's stake on the drawn number.
func FormatPowerStakes(number int, stakes map[string]int) string {
	if len(stakes) == 0 {
		return fmt.Sprintf("ℹ️ %02d အတွက် လောင်းကြေးမရှိပါ", number)
	}
	bettors := make([]string, 0, len(stakes))
	for name := range stakes {
		bettors = append(bettors, name)
	}
	sort.Strings(bettors)
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🔢 Power Number: %02d", number))
	for _, name := range bettors {
		b.WriteString(fmt.Sprintf("\n%s: %02d ➤ %d", name, number, stakes[name]))
	}
	return b.String()
}

// FormatSettlementReport renders one block per bettor plus the house's
// grand total.
func FormatSettlementReport(rep *model.SettlementReport) string {
	if len(rep.Lines) == 0 {
		return "ℹ️ တွက်ချက်မှုများအတွက် ဒေတာမရှိပါ"
	}
	var b strings.Builder
	for _, line := range rep.Lines {
		status := "ဒိုင်ကရမည်"
		if line.Net < 0 {
			status = "ဒိုင်ကပေးရမည်"
		}
		b.WriteString(fmt.Sprintf("👤 %s\n", line.Bettor))
		b.WriteString(fmt.Sprintf("💵 စုစုပေါင်း: %d\n", line.TotalStaked))
		b.WriteString(fmt.Sprintf("📊 Com(%d%%) ➤ %d\n", line.Profile.CommissionPercent, line.Commission))
		b.WriteString(fmt.Sprintf("💰 Com ပြီး: %d\n", line.AfterCommission))
		b.WriteString(fmt.Sprintf("🔢 Power Number(%02d) ➤ %d\n", rep.PowerNumber, line.PowerStaked))
		b.WriteString(fmt.Sprintf("🎯 Za(%d) ➤ %d\n", line.Profile.PayoutMultiplier, line.WinAmount))
		b.WriteString(fmt.Sprintf("📈 ရလဒ်: %d (%s)\n", abs(line.Net), status))
		b.WriteString("-----------------\n")
	}
	grandStatus := "ဒိုင်အမြတ်"
	if rep.AggregateNet < 0 {
		grandStatus = "ဒိုင်အရှုံး"
	}
	b.WriteString(fmt.Sprintf("\n📊 စုစုပေါင်းရလဒ်: %d (%s)", abs(rep.AggregateNet), grandStatus))
	return b.String()
}

// FormatHistory renders a bettor's full record grouped by period.
func FormatHistory(bettor string, history map[string][]model.Bet) string {
	periods := make([]string, 0, len(history))
	for key := range history {
		periods = append(periods, key)
	}
	sort.Strings(periods)
	var b strings.Builder
	b.WriteString(fmt.Sprintf("👤 %s\n", bettor))
	total := 0
	for _, key := range periods {
		b.WriteString(fmt.Sprintf("📅 %s:\n", key))
		for _, bet := range history[key] {
			b.WriteString(fmt.Sprintf("  - %s\n", bet.String()))
			total += bet.Amount
		}
	}
	b.WriteString(fmt.Sprintf("💵 စုစုပေါင်း: %d", total))
	return b.String()
}

// FormatBettors renders the registered bettor list.
func FormatBettors(bettors []string) string {
	if len(bettors) == 0 {
		return "ℹ️ လက်ရှိစာရင်းမရှိပါ"
	}
	var b strings.Builder
	b.WriteString("👥 မှတ်ပုံတင်ထားသော user များ:")
	for _, name := range bettors {
		b.WriteString(fmt.Sprintf("\n• %s", name))
	}
	return b.String()
}

func sortedKeys(m map[int]int) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
