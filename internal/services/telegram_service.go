package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
)

// TelegramService — уведомления админам о новых регистрациях.
// Обычный Bot API по HTTP, без SDK.
type TelegramService struct {
	token       string
	adminChatID int64
	baseURL     string
	client      *http.Client
}

func NewTelegramService(botToken string, adminChatID int64) *TelegramService {
	return &TelegramService{
		token:       botToken,
		adminChatID: adminChatID,
		baseURL:     fmt.Sprintf("https://api.telegram.org/bot%s", botToken),
		client:      &http.Client{},
	}
}

type tgResp struct {
	Ok          bool            `json:"ok"`
	Description string          `json:"description"`
	Result      json.RawMessage `json:"result"`
}

func (t *TelegramService) sendMessage(chatID int64, text string) error {
	if t == nil || t.token == "" || chatID == 0 {
		log.Printf("[tg][skip] token or chatID empty (token? %v chatID=%d)", t != nil && t.token != "", chatID)
		return nil
	}
	body := map[string]any{
		"chat_id":                  chatID,
		"text":                     text,
		"parse_mode":               "HTML",
		"disable_web_page_preview": true,
	}
	b, _ := json.Marshal(body)
	url := t.baseURL + "/sendMessage"
	req, _ := http.NewRequest("POST", url, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		log.Printf("[tg][send][err] http: %v", err)
		return err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	var api tgResp
	_ = json.Unmarshal(respBody, &api)
	if resp.StatusCode != 200 || !api.Ok {
		return fmt.Errorf("telegram sendMessage failed: status=%d ok=%v desc=%s", resp.StatusCode, api.Ok, api.Description)
	}
	return nil
}

// NotifyRegistration — fire-and-forget; ошибка доставки только логируется.
func (t *TelegramService) NotifyRegistration(email, role string) {
	if t == nil {
		return
	}
	text := fmt.Sprintf("New <b>%s</b> registration started: %s", role, email)
	if err := t.sendMessage(t.adminChatID, text); err != nil {
		log.Printf("[tg][notify] failed: %v", err)
	}
}
