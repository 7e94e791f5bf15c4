// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package leads forwards form submissions and offline conversions from the
// public site to the marketing integrations (Zapier and the Facebook
// Conversions API).
package leads

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Submission formats reported back to the form.
const (
	FormatJSON = "json"
	FormatForm = "form-urlencoded"
)

const maxUpstreamBody = 64 << 10

// ZapierResult is the proxy's reply to the browser.
type ZapierResult struct {
	Status    int       `json:"status"`
	Success   bool      `json:"success"`
	Format    string    `json:"format"`
	LeadID    string    `json:"leadId"`
	Data      string    `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

// Zapier relays lead forms to a Zapier catch hook.
type Zapier struct {
	webhook string
	client  *http.Client
	log     *slog.Logger
	now     func() time.Time
}

// NewZapier creates a proxy for webhook. A nil client uses a 10s timeout.
func NewZapier(webhook string, client *http.Client, log *slog.Logger) *Zapier {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Zapier{webhook: webhook, client: client, log: log, now: time.Now}
}

// Enabled reports whether a webhook is configured.
func (z *Zapier) Enabled() bool {
	return z != nil && z.webhook != ""
}

// Submit enriches payload with visitor context and posts it to the hook as
// JSON. A rejected JSON submission is retried once as form-urlencoded, which
// older zaps expect.
func (z *Zapier) Submit(ctx context.Context, payload map[string]any, v Visitor) (*ZapierResult, error) {
	if !z.Enabled() {
		return nil, ErrNotConfigured
	}
	if len(payload) == 0 {
		return nil, invalid("empty form payload")
	}

	now := z.now().UTC()
	lead := enrich(payload, v, now)
	leadID, _ := lead["lead_id"].(string)

	body, err := json.Marshal(lead)
	if err != nil {
		return nil, invalid("encode payload: %v", err)
	}
	status, data, err := z.post(ctx, "application/json", body)
	if err == nil && status >= 200 && status < 300 {
		z.log.Info("lead forwarded", "lead_id", leadID, "format", FormatJSON, "status", status)
		return &ZapierResult{Status: status, Success: true, Format: FormatJSON, LeadID: leadID, Data: data, Timestamp: now}, nil
	}
	if err != nil {
		z.log.Warn("zapier json submission failed", "lead_id", leadID, "error", err)
	} else {
		z.log.Warn("zapier rejected json submission", "lead_id", leadID, "status", status)
	}

	status, data, err = z.post(ctx, "application/x-www-form-urlencoded", []byte(formEncode(lead).Encode()))
	if err != nil {
		return nil, &UpstreamError{Service: "zapier", Err: err}
	}
	if status < 200 || status >= 300 {
		return nil, &UpstreamError{Service: "zapier", Status: status, Body: data}
	}
	z.log.Info("lead forwarded", "lead_id", leadID, "format", FormatForm, "status", status)
	return &ZapierResult{Status: status, Success: true, Format: FormatForm, LeadID: leadID, Data: data, Timestamp: now}, nil
}

func (z *Zapier) post(ctx context.Context, contentType string, body []byte) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, z.webhook, bytes.NewReader(body))
	if err != nil {
		return 0, "", err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := z.client.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamBody))
	if err != nil {
		return resp.StatusCode, "", fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, string(data), nil
}

// enrich copies payload and adds the server-side fields. Values the form
// already sent win over derived ones.
func enrich(payload map[string]any, v Visitor, now time.Time) map[string]any {
	lead := make(map[string]any, len(payload)+9)
	for k, val := range payload {
		lead[k] = val
	}
	setDefault(lead, "lead_id", uuid.NewString())
	setDefault(lead, "submitted_at", now.Format(time.RFC3339))
	setDefault(lead, "page_url", v.PageURL)
	setDefault(lead, "client_ip", v.IP)
	setDefault(lead, "country", v.Country)
	setDefault(lead, "user_agent", v.UserAgent)
	setDefault(lead, "browser", v.Browser)
	setDefault(lead, "os", v.OS)
	setDefault(lead, "device", v.Device)
	return lead
}

func setDefault(m map[string]any, key, value string) {
	if value == "" {
		return
	}
	if cur, ok := m[key]; ok && cur != nil && cur != "" {
		return
	}
	m[key] = value
}

func formEncode(lead map[string]any) url.Values {
	form := url.Values{}
	for k, v := range lead {
		switch val := v.(type) {
		case nil:
		case string:
			form.Set(k, val)
		case []any, map[string]any:
			b, _ := json.Marshal(val)
			form.Set(k, string(b))
		default:
			form.Set(k, strings.TrimSpace(fmt.Sprint(val)))
		}
	}
	return form
}
