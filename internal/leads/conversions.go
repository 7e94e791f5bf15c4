// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

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

// Defaults applied to offline phone-call conversions.
const (
	DefaultEventName = "OfflinePhoneCall"
	DefaultCountry   = "SA"
	DefaultCurrency  = "SAR"
	DefaultCallValue = 50
	actionSource     = "phone_call"
)

// UserData is the caller's identity as submitted by the site.
type UserData struct {
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Name       string `json:"name"`
	City       string `json:"city"`
	State      string `json:"state"`
	ZipCode    string `json:"zipCode"`
	Zip        string `json:"zip"`
	Country    string `json:"country"`
	ExternalID string `json:"external_id"`
	FBP        string `json:"fbp"`
	FBC        string `json:"fbc"`
	IP         string `json:"ip"`
	UserAgent  string `json:"userAgent"`
	EventID    string `json:"eventId"`
	TestMode   bool   `json:"test_mode"`
}

// CallData describes the phone call being reported.
type CallData struct {
	Duration    float64 `json:"duration"`
	CallTime    int64   `json:"callTime"`
	Disposition string  `json:"disposition"`
	Source      string  `json:"source"`
	Agent       string  `json:"agent"`
	Value       float64 `json:"value"`
	Category    string  `json:"category"`
}

// OfflineConversion is the request body of the offline conversion route.
// Timestamp is in milliseconds since the epoch.
type OfflineConversion struct {
	EventName string    `json:"eventName"`
	UserData  *UserData `json:"userData"`
	CallData  *CallData `json:"callData"`
	Timestamp int64     `json:"timestamp"`
}

// Event is a single Conversions API server event.
type Event struct {
	EventName    string            `json:"event_name"`
	EventTime    int64             `json:"event_time"`
	ActionSource string            `json:"action_source"`
	EventID      string            `json:"event_id"`
	UserData     map[string]string `json:"user_data"`
	CustomData   map[string]any    `json:"custom_data"`
}

// ConversionResult is returned to the site after a successful send.
type ConversionResult struct {
	Success bool           `json:"success"`
	EventID string         `json:"eventId"`
	Result  map[string]any `json:"result"`
}

// BuildEvent turns an offline conversion into a Conversions API event. PII
// fields are normalized and hashed; client IP and user agent fall back to the
// visitor when the payload does not carry them. Empty fields are omitted.
func BuildEvent(in OfflineConversion, v Visitor, now time.Time) (Event, error) {
	if in.UserData == nil {
		return Event{}, invalid("missing required user data")
	}
	u := *in.UserData

	ts := in.Timestamp
	if ts <= 0 {
		ts = now.UnixMilli()
	}
	seconds := ts / 1000

	name := strings.TrimSpace(u.Name)
	first := strings.TrimSpace(u.FirstName)
	last := strings.TrimSpace(u.LastName)
	if name != "" && first == "" && last == "" {
		first, last = SplitName(name)
	}
	zip := u.ZipCode
	if zip == "" {
		zip = u.Zip
	}
	country := u.Country
	if strings.TrimSpace(country) == "" {
		country = DefaultCountry
	}

	user := map[string]string{
		"em":                Hash(u.Email),
		"ph":                Hash(Digits(u.Phone)),
		"fn":                Hash(first),
		"ln":                Hash(last),
		"ct":                Hash(u.City),
		"st":                Hash(u.State),
		"zp":                Hash(zip),
		"country":           Hash(country),
		"external_id":       u.ExternalID,
		"fbp":               u.FBP,
		"fbc":               u.FBC,
		"client_ip_address": firstNonEmpty(u.IP, v.IP),
		"client_user_agent": firstNonEmpty(u.UserAgent, v.UserAgent),
	}
	for k, val := range user {
		if val == "" {
			delete(user, k)
		}
	}

	call := CallData{}
	if in.CallData != nil {
		call = *in.CallData
	}
	callTime := call.CallTime
	if callTime == 0 {
		callTime = seconds
	}
	value := call.Value
	if value == 0 {
		value = DefaultCallValue
	}
	custom := map[string]any{
		"call_duration":    call.Duration,
		"call_timestamp":   callTime,
		"call_disposition": firstNonEmpty(call.Disposition, "completed"),
		"call_source":      firstNonEmpty(call.Source, "website"),
		"call_agent":       firstNonEmpty(call.Agent, "unknown"),
		"value":            value,
		"currency":         DefaultCurrency,
		"content_name":     "Phone Call Conversion",
		"content_category": firstNonEmpty(call.Category, "lead"),
	}

	eventID := strings.TrimSpace(u.EventID)
	if eventID == "" {
		eventID = uuid.NewString()
	}

	return Event{
		EventName:    firstNonEmpty(strings.TrimSpace(in.EventName), DefaultEventName),
		EventTime:    seconds,
		ActionSource: actionSource,
		EventID:      eventID,
		UserData:     user,
		CustomData:   custom,
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// ConversionsConfig configures the Conversions API client.
type ConversionsConfig struct {
	GraphURL      string
	APIVersion    string
	PixelID       string
	AccessToken   string
	TestEventCode string
	// TestMode sends TestEventCode with every event.
	TestMode bool
}

// Conversions posts offline events to the Facebook Conversions API.
type Conversions struct {
	cfg    ConversionsConfig
	client *http.Client
	log    *slog.Logger
	now    func() time.Time
}

// NewConversions creates a client. A nil http client uses a 10s timeout.
func NewConversions(cfg ConversionsConfig, client *http.Client, log *slog.Logger) *Conversions {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if log == nil {
		log = slog.Default()
	}
	cfg.GraphURL = strings.TrimRight(firstNonEmpty(cfg.GraphURL, "https://graph.facebook.com"), "/")
	cfg.APIVersion = firstNonEmpty(cfg.APIVersion, "v17.0")
	return &Conversions{cfg: cfg, client: client, log: log, now: time.Now}
}

// Enabled reports whether pixel and token are configured.
func (c *Conversions) Enabled() bool {
	return c != nil && c.cfg.PixelID != "" && c.cfg.AccessToken != ""
}

// Send builds and delivers a single offline conversion.
func (c *Conversions) Send(ctx context.Context, in OfflineConversion, v Visitor) (*ConversionResult, error) {
	if !c.Enabled() {
		return nil, ErrNotConfigured
	}
	event, err := BuildEvent(in, v, c.now())
	if err != nil {
		return nil, err
	}

	payload := map[string]any{"data": []Event{event}}
	testMode := c.cfg.TestMode || in.UserData.TestMode
	if testMode && c.cfg.TestEventCode != "" {
		payload["test_event_code"] = c.cfg.TestEventCode
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode event: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s/%s/events?%s", c.cfg.GraphURL, c.cfg.APIVersion,
		url.PathEscape(c.cfg.PixelID), url.Values{"access_token": {c.cfg.AccessToken}}.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &UpstreamError{Service: "conversions api", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamBody))
	if err != nil {
		return nil, &UpstreamError{Service: "conversions api", Status: resp.StatusCode, Err: err}
	}
	var result map[string]any
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, &UpstreamError{Service: "conversions api", Status: resp.StatusCode, Body: string(raw)}
	}
	if apiErr, ok := result["error"]; ok && apiErr != nil {
		b, _ := json.Marshal(apiErr)
		return nil, &UpstreamError{Service: "conversions api", Status: resp.StatusCode, Body: string(b)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{Service: "conversions api", Status: resp.StatusCode, Body: string(raw)}
	}

	c.log.Info("offline conversion sent",
		"event_name", event.EventName,
		"event_id", event.EventID,
		"user_fields", len(event.UserData),
		"test_mode", testMode,
	)
	return &ConversionResult{Success: true, EventID: event.EventID, Result: result}, nil
}
