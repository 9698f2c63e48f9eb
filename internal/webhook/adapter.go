package webhook

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
)

// Provider closed set of messaging providers we accept webhooks from
type Provider string

const (
	ProviderTwilio        Provider = "twilio"
	ProviderWhatsAppCloud Provider = "whatsapp_cloud"
	ProviderGeneric       Provider = "generic"
)

// ErrNoText no message text could be extracted from the payload. This is the
// only hard adapter failure; a missing sender is tolerated.
var ErrNoText = errors.New("webhook payload contains no message text")

// InboundMessage normalized inbound message, provider differences erased
type InboundMessage struct {
	Provider   Provider
	Text       string
	ExternalID string // provider message id, used for deduplication; may be empty
	Sender     string // phone number in international format; may be empty
}

// Parse detects which provider produced the payload and extracts the message.
// Detection order: header signature, then payload shape, then a best-effort
// generic extractor. Pure function of headers + body.
func Parse(header http.Header, body []byte) (InboundMessage, error) {
	contentType := header.Get("Content-Type")

	// 1. Header signature: Twilio always identifies itself in the User-Agent.
	if ua := header.Get("User-Agent"); strings.Contains(ua, "Twilio") {
		if msg, ok := parseTwilioForm(body); ok {
			return msg, nil
		}
	}

	// 2. Shape-based sniffing.
	if strings.Contains(contentType, "application/x-www-form-urlencoded") {
		if msg, ok := parseTwilioForm(body); ok {
			return msg, nil
		}
	}
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err == nil {
		if _, ok := payload["entry"]; ok {
			if msg, ok := parseWhatsAppCloud(body); ok {
				return msg, nil
			}
		}
		// 3. Generic fallback over common field aliases.
		if msg, ok := parseGeneric(payload); ok {
			return msg, nil
		}
	}

	return InboundMessage{}, ErrNoText
}

// parseTwilioForm extracts From/Body/MessageSid from a Twilio form payload
func parseTwilioForm(body []byte) (InboundMessage, bool) {
	values, err := url.ParseQuery(string(body))
	if err != nil {
		return InboundMessage{}, false
	}
	text := values.Get("Body")
	if text == "" {
		return InboundMessage{}, false
	}
	sender := strings.TrimPrefix(values.Get("From"), "whatsapp:")
	return InboundMessage{
		Provider:   ProviderTwilio,
		Text:       text,
		ExternalID: values.Get("MessageSid"),
		Sender:     sender,
	}, true
}

// whatsAppCloudPayload mirrors entry[].changes[].value.messages[] of the
// WhatsApp Cloud API
type whatsAppCloudPayload struct {
	Entry []struct {
		Changes []struct {
			Value struct {
				Messages []struct {
					ID   string `json:"id"`
					From string `json:"from"`
					Text struct {
						Body string `json:"body"`
					} `json:"text"`
				} `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

func parseWhatsAppCloud(body []byte) (InboundMessage, bool) {
	var payload whatsAppCloudPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return InboundMessage{}, false
	}
	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			for _, m := range change.Value.Messages {
				if m.Text.Body == "" {
					continue
				}
				return InboundMessage{
					Provider:   ProviderWhatsAppCloud,
					Text:       m.Text.Body,
					ExternalID: m.ID,
					Sender:     m.From,
				}, true
			}
		}
	}
	return InboundMessage{}, false
}

var (
	textAliases   = []string{"text", "message", "body"}
	senderAliases = []string{"from", "sender", "phone", "number"}
	idAliases     = []string{"id", "message_id", "messageId"}
)

// parseGeneric scans common field name aliases, descending at most one level
// into nested objects.
func parseGeneric(payload map[string]json.RawMessage) (InboundMessage, bool) {
	text, ok := findAlias(payload, textAliases, 1)
	if !ok || text == "" {
		return InboundMessage{}, false
	}
	sender, _ := findAlias(payload, senderAliases, 1)
	externalID, _ := findAlias(payload, idAliases, 1)
	return InboundMessage{
		Provider:   ProviderGeneric,
		Text:       text,
		ExternalID: externalID,
		Sender:     strings.TrimPrefix(sender, "whatsapp:"),
	}, true
}

func findAlias(payload map[string]json.RawMessage, aliases []string, depth int) (string, bool) {
	for _, alias := range aliases {
		for key, raw := range payload {
			if !strings.EqualFold(key, alias) {
				continue
			}
			var s string
			if err := json.Unmarshal(raw, &s); err == nil {
				return s, true
			}
		}
	}
	if depth <= 0 {
		return "", false
	}
	for _, raw := range payload {
		var nested map[string]json.RawMessage
		if err := json.Unmarshal(raw, &nested); err != nil {
			continue
		}
		if v, ok := findAlias(nested, aliases, depth-1); ok {
			return v, true
		}
	}
	return "", false
}
