// Package notifier talks to the Telegram Bot API: outbound messages
// with optional inline keyboards, and long polling for inbound updates.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"
)

// Button is one inline-keyboard button.
type Button struct {
	Text string `json:"text"`
	Data string `json:"callback_data"`
}

// TelegramClient sends messages via the Telegram Bot API.
type TelegramClient struct {
	BotToken string
	Client   *http.Client
}

// NewTelegramClient creates a client with optional proxy support.
func NewTelegramClient(botToken, proxyURL string) *TelegramClient {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &TelegramClient{
		BotToken: botToken,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (t *TelegramClient) call(method string, payload any) error {
	apiURL := fmt.Sprintf("https://api.telegram.org/bot%s/%s", t.BotToken, method)
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	resp, err := t.Client.Post(apiURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("telegram API error: %s status %d, body: %s", method, resp.StatusCode, string(respBody))
	}
	return nil
}

// Send sends a plain message to the chat.
func (t *TelegramClient) Send(chatID int64, text string) error {
	return t.call("sendMessage", map[string]any{
		"chat_id":    chatID,
		"text":       text,
		"parse_mode": "HTML",
	})
}

// SendKeyboard sends a message with an inline keyboard.
func (t *TelegramClient) SendKeyboard(chatID int64, text string, rows [][]Button) error {
	return t.call("sendMessage", map[string]any{
		"chat_id":      chatID,
		"text":         text,
		"parse_mode":   "HTML",
		"reply_markup": map[string]any{"inline_keyboard": rows},
	})
}

// EditMessage rewrites a previously sent message and its keyboard.
func (t *TelegramClient) EditMessage(chatID int64, messageID int, text string, rows [][]Button) error {
	payload := map[string]any{
		"chat_id":    chatID,
		"message_id": messageID,
		"text":       text,
		"parse_mode": "HTML",
	}
	if rows != nil {
		payload["reply_markup"] = map[string]any{"inline_keyboard": rows}
	}
	return t.call("editMessageText", payload)
}

// AnswerCallback acknowledges a callback query so the client stops
// showing a spinner.
func (t *TelegramClient) AnswerCallback(callbackID string) error {
	return t.call("answerCallbackQuery", map[string]any{"callback_query_id": callbackID})
}

// SendWithRetry sends a message with exponential backoff retry.
func (t *TelegramClient) SendWithRetry(ctx context.Context, chatID int64, text string, maxRetries int) error {
	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		if err := t.Send(chatID, text); err != nil {
			lastErr = err
			backoff := time.Duration(1<<uint(i)) * time.Second
			log.Printf("[WARN] Telegram send failed (attempt %d/%d): %v, retrying in %v", i+1, maxRetries+1, err, backoff)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
				continue
			}
		}
		return nil
	}
	return fmt.Errorf("all %d retries exhausted: %w", maxRetries+1, lastErr)
}
