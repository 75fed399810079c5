package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/carelink/hospital-api/internal/config"
	"github.com/carelink/hospital-api/pkg/phone"
)

// Client talks to the voice provider's REST API. The API key lives only in
// server config; provider error bodies are logged and never propagated to
// callers.
type Client struct {
	baseURL       string
	apiKey        string
	phoneNumberID string
	httpClient    *http.Client
}

func NewClient(cfg config.VoiceConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:        cfg.APIKey,
		phoneNumberID: cfg.PhoneNumberID,
		httpClient:    &http.Client{Timeout: timeout},
	}
}

type callPayload struct {
	PhoneNumberID string    `json:"phoneNumberId"`
	Customer      customer  `json:"customer"`
	Assistant     assistant `json:"assistant"`
}

type customer struct {
	Number string `json:"number"`
}

type assistant struct {
	FirstMessage string         `json:"firstMessage"`
	Model        assistantModel `json:"model"`
}

type assistantModel struct {
	Provider string    `json:"provider"`
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
	Tools    []tool    `json:"tools"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type tool struct {
	Type     string       `json:"type"`
	Function toolFunction `json:"function"`
}

type toolFunction struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

type callResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func (c *Client) PlaceCall(ctx context.Context, req CallRequest) (*CallResult, error) {
	params, err := json.Marshal(map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"record_id": map[string]interface{}{
				"type":        "string",
				"description": "Identifier of the appointment being confirmed",
				"const":       req.RecordID,
			},
		},
		"required": []string{"record_id"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build tool parameters: %w", err)
	}

	payload := callPayload{
		PhoneNumberID: c.phoneNumberID,
		Customer:      customer{Number: req.Phone},
		Assistant: assistant{
			FirstMessage: req.FirstMessage,
			Model: assistantModel{
				Provider: "openai",
				Model:    "gpt-4o",
				Messages: []message{{Role: "system", Content: req.SystemPrompt}},
				Tools: []tool{{
					Type: "function",
					Function: toolFunction{
						Name:        ConfirmToolName,
						Description: "Record that the patient verbally confirmed the appointment",
						Parameters:  params,
					},
				}},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal call payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/call", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build call request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("voice provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Raw provider bodies stay server-side.
		log.Error().
			Int("status", resp.StatusCode).
			Str("phone", phone.Mask(req.Phone)).
			Str("body", string(respBody)).
			Msg("voice provider rejected call")
		return nil, fmt.Errorf("voice provider returned status %d", resp.StatusCode)
	}

	var result callResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to decode provider response: %w", err)
	}

	log.Info().
		Str("call_id", result.ID).
		Str("phone", phone.Mask(req.Phone)).
		Msg("voice call placed")

	return &CallResult{ID: result.ID, Status: result.Status}, nil
}
