package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/xavierca1/ligue-campaigns/internal/entity"
	"github.com/xavierca1/ligue-campaigns/internal/infra/integration/whatsapp"
)

type sendRequest struct {
	To        string `json:"to"`
	From      string `json:"from,omitempty"`
	Text      string `json:"text"`
	Reference string `json:"reference"`
}

type sendResponse struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	Segments int    `json:"segments"`
	Message  string `json:"message"`
}

// Client fala com o gateway HTTP de SMS.
type Client struct {
	BaseURL    string
	APIKey     string
	Sender     string
	HTTPClient *http.Client
}

func NewClient(baseURL, apiKey, sender string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		APIKey:     apiKey,
		Sender:     sender,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) Configured() bool {
	return c.BaseURL != "" && c.APIKey != ""
}

func (c *Client) Send(ctx context.Context, msg *entity.OutboundMessage) error {
	if !c.Configured() {
		return fmt.Errorf("gateway de SMS não configurado")
	}

	payload := sendRequest{
		To:        whatsapp.NormalizePhone(msg.To),
		From:      c.Sender,
		Text:      msg.Body,
		Reference: msg.CampaignID + ":" + msg.RecipientID,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("erro ao serializar SMS: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("erro ao criar requisição: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("erro ao enviar SMS: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sms gateway error: %d: %s", resp.StatusCode, string(respBody))
	}

	var result sendResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return fmt.Errorf("resposta inválida do gateway: %w", err)
	}

	log.Printf("📱 SMS %s enviado para %s (%d segmentos estimados)", result.ID, payload.To, msg.SMSSegments)
	return nil
}
