package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// Update is one inbound event: either a text message or an
// inline-keyboard callback.
type Update struct {
	ChatID     int64
	UserID     int64
	Username   string
	Text       string
	IsCallback bool
	CallbackID string
	Data       string
	MessageID  int // message carrying the keyboard, for callbacks
}

// UpdateHandler is called for every inbound update.
type UpdateHandler func(Update)

type telegramUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type telegramMessage struct {
	MessageID int           `json:"message_id"`
	Text      string        `json:"text"`
	From      *telegramUser `json:"from"`
	Chat      struct {
		ID int64 `json:"id"`
	} `json:"chat"`
}

// telegramUpdate represents a Telegram update from long polling.
type telegramUpdate struct {
	UpdateID      int              `json:"update_id"`
	Message       *telegramMessage `json:"message"`
	CallbackQuery *struct {
		ID      string           `json:"id"`
		From    *telegramUser    `json:"from"`
		Data    string           `json:"data"`
		Message *telegramMessage `json:"message"`
	} `json:"callback_query"`
}

// StartPolling begins long-polling for updates. Blocks until ctx is cancelled.
func (t *TelegramClient) StartPolling(ctx context.Context, handler UpdateHandler) {
	offset := 0
	client := &http.Client{Timeout: 35 * time.Second}

	for {
		select {
		case <-ctx.Done():
			log.Println("[INFO] Telegram polling stopped")
			return
		default:
		}

		apiURL := fmt.Sprintf("https://api.telegram.org/bot%s/getUpdates?offset=%d&timeout=30", t.BotToken, offset)
		req, err := http.NewRequestWithContext(ctx, "GET", apiURL, nil)
		if err != nil {
			log.Printf("[ERROR] create polling request: %v", err)
			time.Sleep(5 * time.Second)
			continue
		}

		resp, err := client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("[WARN] polling request failed: %v", err)
			time.Sleep(5 * time.Second)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			log.Printf("[WARN] read polling response: %v", err)
			continue
		}

		var result struct {
			OK     bool             `json:"ok"`
			Result []telegramUpdate `json:"result"`
		}
		if err := json.Unmarshal(body, &result); err != nil {
			log.Printf("[WARN] decode polling response: %v", err)
			continue
		}

		for _, raw := range result.Result {
			offset = raw.UpdateID + 1
			if u, ok := convertUpdate(raw); ok {
				handler(u)
			}
		}
	}
}

func convertUpdate(raw telegramUpdate) (Update, bool) {
	if cb := raw.CallbackQuery; cb != nil && cb.From != nil && cb.Message != nil {
		return Update{
			ChatID:     cb.Message.Chat.ID,
			UserID:     cb.From.ID,
			Username:   cb.From.Username,
			IsCallback: true,
			CallbackID: cb.ID,
			Data:       cb.Data,
			MessageID:  cb.Message.MessageID,
		}, true
	}
	if m := raw.Message; m != nil && m.From != nil && m.Text != "" {
		return Update{
			ChatID:    m.Chat.ID,
			UserID:    m.From.ID,
			Username:  m.From.Username,
			Text:      m.Text,
			MessageID: m.MessageID,
		}, true
	}
	return Update{}, false
}
