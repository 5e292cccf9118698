// Package bot maps Telegram updates onto engine operations and renders
// the Burmese replies. One Bot instance serves all chats; admin
// commands check the sender against the configured admin id.
package bot

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"

	"TwoDBook/internal/engine"
	"TwoDBook/internal/ledger"
	"TwoDBook/internal/notifier"
)

// Bot dispatches inbound updates.
type Bot struct {
	engine  *engine.Engine
	tg      *notifier.TelegramClient
	adminID int64

	mu          sync.Mutex
	comzaTarget map[int64]string // admin awaiting a "com/za" reply, keyed by sender id
	obSess      *ledger.OverbuySession
}

// New creates a Bot.
func New(e *engine.Engine, tg *notifier.TelegramClient, adminID int64) *Bot {
	return &Bot{
		engine:      e,
		tg:          tg,
		adminID:     adminID,
		comzaTarget: make(map[int64]string),
	}
}

// HandleUpdate routes one update to the right handler.
func (b *Bot) HandleUpdate(u notifier.Update) {
	if u.IsCallback {
		b.handleCallback(u)
		return
	}
	if strings.HasPrefix(u.Text, "/") {
		b.handleCommand(u)
		return
	}

	b.mu.Lock()
	target, pending := b.comzaTarget[u.UserID]
	b.mu.Unlock()
	if pending {
		b.handleComzaInput(u, target)
		return
	}
	b.handleBetText(u)
}

func (b *Bot) isAdmin(u notifier.Update) bool {
	return u.UserID == b.adminID
}

func (b *Bot) reply(chatID int64, text string) {
	if err := b.tg.Send(chatID, text); err != nil {
		log.Printf("[ERROR] send reply: %v", err)
	}
}

func (b *Bot) handleCommand(u notifier.Update) {
	cmd, args, _ := strings.Cut(u.Text, " ")
	args = strings.TrimSpace(args)
	auth := b.isAdmin(u)

	switch cmd {
	case "/start":
		if auth {
			b.reply(u.ChatID, "🤖 Bot started. Admin privileges granted!")
		} else {
			b.reply(u.ChatID, "🤖 Bot started. လောင်းကြေးများကိုစာတိုပို့၍ထည့်နိုင်ပါသည်")
		}

	case "/dateopen":
		key := b.engine.CurrentPeriod()
		if err := b.engine.SetPeriodOpen(auth, key, true); err != nil {
			b.replyError(u.ChatID, err)
			return
		}
		b.reply(u.ChatID, fmt.Sprintf("✅ %s စာရင်းဖွင့်ပြီးပါပြီ", key))

	case "/dateclose":
		key := b.engine.CurrentPeriod()
		if err := b.engine.SetPeriodOpen(auth, key, false); err != nil {
			b.replyError(u.ChatID, err)
			return
		}
		b.reply(u.ChatID, fmt.Sprintf("✅ %s စာရင်းပိတ်လိုက်ပါပြီ", key))

	case "/ledger":
		totals := b.engine.LedgerSummary(b.engine.CurrentPeriod())
		b.reply(u.ChatID, notifier.FormatLedgerSummary(totals))

	case "/break":
		if args == "" {
			b.reply(u.ChatID, "ℹ️ Usage: /break [limit]")
			return
		}
		limit, err := strconv.Atoi(args)
		if err != nil {
			b.reply(u.ChatID, "⚠️ Limit amount ထည့်ပါ (ဥပမာ: /break 5000)")
			return
		}
		key := b.engine.CurrentPeriod()
		if err := b.engine.SetBreakLimit(auth, key, limit); err != nil {
			b.replyError(u.ChatID, err)
			return
		}
		excess, err := b.engine.OverbuyCandidates(auth, key)
		if err != nil {
			b.replyError(u.ChatID, err)
			return
		}
		b.reply(u.ChatID, notifier.FormatOverbuyCandidates(excess))

	case "/overbuy":
		if args == "" {
			b.reply(u.ChatID, "ℹ️ Usage: /overbuy [username]")
			return
		}
		b.startOverbuy(u, auth, args)

	case "/pnumber":
		if args == "" {
			b.reply(u.ChatID, "ℹ️ Usage: /pnumber [number]")
			return
		}
		n, err := strconv.Atoi(args)
		if err != nil {
			b.reply(u.ChatID, "⚠️ ဂဏန်းမှန်မှန်ထည့်ပါ (ဥပမာ: /pnumber 15)")
			return
		}
		stakes, err := b.engine.SetPowerNumber(auth, b.engine.CurrentPeriod(), n)
		if errors.Is(err, engine.ErrOutOfRange) {
			b.reply(u.ChatID, "⚠️ ဂဏန်းကို 0 နဲ့ 99 ကြားထည့်ပါ")
			return
		}
		if err != nil {
			b.replyError(u.ChatID, err)
			return
		}
		b.reply(u.ChatID, notifier.FormatPowerStakes(n, stakes))

	case "/comandza":
		bettors, err := b.engine.Bettors(auth)
		if err != nil {
			b.replyError(u.ChatID, err)
			return
		}
		if len(bettors) == 0 {
			b.reply(u.ChatID, "ℹ️ လက်ရှိ user မရှိပါ")
			return
		}
		rows := make([][]notifier.Button, 0, len(bettors))
		for _, name := range bettors {
			rows = append(rows, []notifier.Button{{Text: name, Data: "comza:" + name}})
		}
		if err := b.tg.SendKeyboard(u.ChatID, "👉 User ကိုရွေးပါ", rows); err != nil {
			log.Printf("[ERROR] send comza keyboard: %v", err)
		}

	case "/total":
		rep, err := b.engine.SettlementReport(auth, b.engine.CurrentPeriod())
		if errors.Is(err, ledger.ErrNoPowerNumber) {
			b.reply(u.ChatID, "ℹ️ ကျေးဇူးပြု၍ /pnumber ဖြင့် power number သတ်မှတ်ပါ")
			return
		}
		if err != nil {
			b.replyError(u.ChatID, err)
			return
		}
		b.reply(u.ChatID, notifier.FormatSettlementReport(rep))

	case "/tsent":
		histories, err := b.engine.Histories(auth)
		if err != nil {
			b.replyError(u.ChatID, err)
			return
		}
		if len(histories) == 0 {
			b.reply(u.ChatID, "ℹ️ လက်ရှိ user မရှိပါ")
			return
		}
		bettors, _ := b.engine.Bettors(auth)
		for _, name := range bettors {
			b.reply(u.ChatID, notifier.FormatHistory(name, histories[name]))
		}
		b.reply(u.ChatID, "✅ စာရင်းများအားလုံး ပေးပို့ပြီးပါပြီ")

	case "/alldata":
		bettors, err := b.engine.Bettors(auth)
		if err != nil {
			b.replyError(u.ChatID, err)
			return
		}
		b.reply(u.ChatID, notifier.FormatBettors(bettors))

	case "/undo":
		if args == "" {
			b.reply(u.ChatID, "ℹ️ Usage: /undo [လောင်းကြေး] (ဥပမာ: /undo 12-1000)")
			return
		}
		if u.Username == "" {
			b.reply(u.ChatID, "❌ ကျေးဇူးပြု၍ Telegram username သတ်မှတ်ပါ")
			return
		}
		res, err := b.engine.UndoBetText(u.Username, args)
		if errors.Is(err, ledger.ErrNotFound) {
			b.reply(u.ChatID, "⚠️ ဖျက်ရန်လောင်းကြေးမတွေ့ပါ")
			return
		}
		if err != nil {
			b.replyError(u.ChatID, err)
			return
		}
		b.reply(u.ChatID, fmt.Sprintf("✅ %d ပြန်ဖျက်ပြီးပါပြီ", res.Applied))

	case "/delete":
		if args == "" {
			b.reply(u.ChatID, "ℹ️ Usage: /delete [period] (ဥပမာ: /delete 05/01/2026 AM)")
			return
		}
		if err := b.engine.DeletePeriods(auth, []string{args}); err != nil {
			b.replyError(u.ChatID, err)
			return
		}
		b.reply(u.ChatID, fmt.Sprintf("✅ %s စာရင်းဖျက်ပြီးပါပြီ", args))

	case "/reset":
		if err := b.engine.ResetAll(auth); err != nil {
			b.replyError(u.ChatID, err)
			return
		}
		b.reply(u.ChatID, "✅ ဒေတာများအားလုံးကို ပြန်လည်သုတ်သင်ပြီးပါပြီ")

	default:
		b.reply(u.ChatID, "⚠️ နားမလည်သော command ဖြစ်ပါသည်")
	}
}

func (b *Bot) handleBetText(u notifier.Update) {
	if u.Username == "" {
		b.reply(u.ChatID, "❌ ကျေးဇူးပြု၍ Telegram username သတ်မှတ်ပါ")
		return
	}
	if strings.TrimSpace(u.Text) == "" {
		b.reply(u.ChatID, "⚠️ မက်ဆေ့ဂျ်မရှိပါ")
		return
	}
	res, err := b.engine.SubmitBetText(u.Username, u.Text)
	if errors.Is(err, engine.ErrPeriodClosed) {
		b.reply(u.ChatID, "❌ စာရင်းပိတ်ထားပါသည်")
		return
	}
	if err != nil {
		b.replyError(u.ChatID, err)
		return
	}
	b.reply(u.ChatID, notifier.FormatSubmitResult(res))
}

func (b *Bot) handleComzaInput(u notifier.Update, bettor string) {
	pctStr, multStr, ok := strings.Cut(strings.TrimSpace(u.Text), "/")
	if !ok {
		b.reply(u.ChatID, "⚠️ ဖော်မတ်မှားနေပါသည်။ 15/80 လို့ထည့်ပါ")
		return
	}
	pct, err1 := strconv.Atoi(strings.TrimSpace(pctStr))
	mult, err2 := strconv.Atoi(strings.TrimSpace(multStr))
	if err1 != nil || err2 != nil {
		b.reply(u.ChatID, "⚠️ ဖော်မတ်မှားနေပါသည်။ 15/80 လို့ထည့်ပါ")
		return
	}
	err := b.engine.SetCommissionProfile(b.isAdmin(u), bettor, pct, mult)
	if errors.Is(err, engine.ErrBadProfile) {
		b.reply(u.ChatID, "⚠️ မှန်မှန်ရေးပါ (ဥပမာ: 15/80)")
		return
	}
	if err != nil {
		b.replyError(u.ChatID, err)
		return
	}
	b.mu.Lock()
	delete(b.comzaTarget, u.UserID)
	b.mu.Unlock()
	b.reply(u.ChatID, fmt.Sprintf("✅ Com %d%%, Za %d မှတ်ထားပြီး", pct, mult))
}

func (b *Bot) startOverbuy(u notifier.Update, auth bool, bettor string) {
	sess, err := b.engine.StartOverbuy(auth, b.engine.CurrentPeriod(), bettor)
	if errors.Is(err, ledger.ErrNoBreakLimit) {
		b.reply(u.ChatID, "⚠️ အရင်ဆုံး /break ဖြင့် limit သတ်မှတ်ပါ")
		return
	}
	if err != nil {
		b.replyError(u.ChatID, err)
		return
	}
	if len(sess.Candidates) == 0 {
		b.reply(u.ChatID, "ℹ️ ဘယ်ဂဏန်းမှ limit မကျော်ပါ")
		return
	}
	b.mu.Lock()
	b.obSess = sess
	b.mu.Unlock()

	text := fmt.Sprintf("🛒 Overbuy: %s\nရွေးချယ်မည့်ဂဏန်းများကိုနှိပ်ပါ", bettor)
	if err := b.tg.SendKeyboard(u.ChatID, text, overbuyKeyboard(sess)); err != nil {
		log.Printf("[ERROR] send overbuy keyboard: %v", err)
		return
	}
	b.reply(u.ChatID, fmt.Sprintf("✅ %s အတွက် overbuy စာရင်းပြထားပါတယ်", bettor))
}

func (b *Bot) handleCallback(u notifier.Update) {
	defer func() {
		if err := b.tg.AnswerCallback(u.CallbackID); err != nil {
			log.Printf("[ERROR] answer callback: %v", err)
		}
	}()

	if !b.isAdmin(u) {
		return
	}

	if name, ok := strings.CutPrefix(u.Data, "comza:"); ok {
		b.mu.Lock()
		b.comzaTarget[u.UserID] = name
		b.mu.Unlock()
		b.reply(u.ChatID, fmt.Sprintf("📝 %s အတွက် Com/Za ထည့်ပါ (ဥပမာ: 15/80)", name))
		return
	}

	if !strings.HasPrefix(u.Data, "ob:") {
		return
	}
	b.mu.Lock()
	sess := b.obSess
	b.mu.Unlock()
	if sess == nil {
		b.reply(u.ChatID, "⚠️ Overbuy session မရှိပါ။ /overbuy ကိုပြန်စပါ")
		return
	}

	switch {
	case u.Data == "ob:all":
		sess.SelectAll()
	case u.Data == "ob:none":
		sess.Clear()
	case u.Data == "ob:ok":
		b.commitOverbuy(u, sess)
		return
	default:
		raw, _ := strings.CutPrefix(u.Data, "ob:toggle:")
		if n, err := strconv.Atoi(raw); err == nil {
			sess.Toggle(n)
		}
	}

	text := fmt.Sprintf("🛒 Overbuy: %s\nရွေးချယ်မည့်ဂဏန်းများကိုနှိပ်ပါ", sess.Bettor)
	if err := b.tg.EditMessage(u.ChatID, u.MessageID, text, overbuyKeyboard(sess)); err != nil {
		log.Printf("[ERROR] edit overbuy keyboard: %v", err)
	}
}

func (b *Bot) commitOverbuy(u notifier.Update, sess *ledger.OverbuySession) {
	err := b.engine.CommitOverbuySelection(true, sess)
	if errors.Is(err, ledger.ErrEmptySelection) {
		b.reply(u.ChatID, "⚠️ အနည်းဆုံးဂဏန်းတစ်လုံးရွေးပါ")
		return
	}
	if err != nil {
		b.replyError(u.ChatID, err)
		return
	}
	b.mu.Lock()
	b.obSess = nil
	b.mu.Unlock()

	var parts []string
	selection := sess.Selection()
	for _, n := range sess.Numbers() {
		if excess, ok := selection[n]; ok {
			parts = append(parts, fmt.Sprintf("%02d ➤ %d", n, excess))
		}
	}
	text := fmt.Sprintf("✅ %s အတွက် overbuy မှတ်ပြီးပါပြီ\n%s", sess.Bettor, strings.Join(parts, "\n"))
	if err := b.tg.EditMessage(u.ChatID, u.MessageID, text, nil); err != nil {
		log.Printf("[ERROR] edit overbuy result: %v", err)
	}
}

func (b *Bot) replyError(chatID int64, err error) {
	if errors.Is(err, engine.ErrNotAuthorized) {
		b.reply(chatID, "❌ Admin only command")
		return
	}
	b.reply(chatID, fmt.Sprintf("❌ Error: %v", err))
}

// overbuyKeyboard renders candidates as toggle buttons, three per row,
// with a control row at the bottom.
func overbuyKeyboard(sess *ledger.OverbuySession) [][]notifier.Button {
	var rows [][]notifier.Button
	var row []notifier.Button
	for _, n := range sess.Numbers() {
		mark := "⬜"
		if sess.Selected[n] {
			mark = "✅"
		}
		row = append(row, notifier.Button{
			Text: fmt.Sprintf("%s %02d (%d)", mark, n, sess.Candidates[n]),
			Data: fmt.Sprintf("ob:toggle:%d", n),
		})
		if len(row) == 3 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, []notifier.Button{
		{Text: "အားလုံး", Data: "ob:all"},
		{Text: "မရွေး", Data: "ob:none"},
		{Text: "✔ OK", Data: "ob:ok"},
	})
	return rows
}
