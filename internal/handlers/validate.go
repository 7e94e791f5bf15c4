// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"madarat/internal/leads"
)

// Validation limits for lead submissions.
const (
	maxLeadBody     = 64 << 10
	maxLeadFields   = 50
	maxFieldKeyLen  = 64
	maxNameLen      = 200
	maxPhoneLen     = 32
	minPhoneDigits  = 7
	maxEmailLen     = 254
	maxFieldLen     = 2_000
	maxCallDuration = 24 * 60 * 60
)

// validateLead checks a lead form payload and returns the first error found.
func validateLead(payload map[string]any) string {
	if len(payload) == 0 {
		return "Form payload is empty."
	}
	if len(payload) > maxLeadFields {
		return "Too many form fields (max 50)."
	}
	for k, v := range payload {
		if k == "" || utf8.RuneCountInString(k) > maxFieldKeyLen {
			return "Invalid form field name."
		}
		if s, ok := v.(string); ok && utf8.RuneCountInString(s) > maxFieldLen {
			return fmt.Sprintf("Field %q is too long (max 2,000 characters).", k)
		}
	}

	name, _ := payload["name"].(string)
	if utf8.RuneCountInString(name) > maxNameLen {
		return "Name is too long (max 200 characters)."
	}
	phone, _ := payload["phone"].(string)
	if msg := validatePhone(phone); msg != "" {
		return msg
	}
	email, _ := payload["email"].(string)
	return validateEmail(email)
}

// validateConversion checks an offline conversion request.
func validateConversion(in leads.OfflineConversion) string {
	if in.UserData == nil {
		return "userData is required."
	}
	u := in.UserData
	if strings.TrimSpace(u.Email) == "" && strings.TrimSpace(u.Phone) == "" {
		return "An email or a phone number is required."
	}
	if msg := validatePhone(u.Phone); msg != "" {
		return msg
	}
	if msg := validateEmail(u.Email); msg != "" {
		return msg
	}
	for _, s := range []string{u.FirstName, u.LastName, u.Name, u.City, u.State} {
		if utf8.RuneCountInString(s) > maxNameLen {
			return "A name or address field is too long (max 200 characters)."
		}
	}
	if c := in.CallData; c != nil {
		if c.Duration < 0 || c.Duration > maxCallDuration {
			return "Call duration is out of range."
		}
		if c.Value < 0 {
			return "Call value must not be negative."
		}
	}
	return ""
}

func validatePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}
	if utf8.RuneCountInString(phone) > maxPhoneLen {
		return "Phone number is too long (max 32 characters)."
	}
	if len(leads.Digits(phone)) < minPhoneDigits {
		return "Phone number is too short."
	}
	return ""
}

func validateEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return ""
	}
	if len(email) > maxEmailLen {
		return "Email is too long (max 254 characters)."
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "Email address is invalid."
	}
	return ""
}
