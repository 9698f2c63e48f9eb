package webhook

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTwilioFormByHeader(t *testing.T) {
	form := url.Values{}
	form.Set("From", "whatsapp:+34600111222")
	form.Set("Body", "La paciente durmió 8 horas")
	form.Set("MessageSid", "SM1234567890")

	header := http.Header{}
	header.Set("User-Agent", "TwilioProxy/1.1")
	header.Set("Content-Type", "application/x-www-form-urlencoded")

	msg, err := Parse(header, []byte(form.Encode()))
	require.NoError(t, err)
	assert.Equal(t, ProviderTwilio, msg.Provider)
	assert.Equal(t, "La paciente durmió 8 horas", msg.Text)
	assert.Equal(t, "SM1234567890", msg.ExternalID)
	assert.Equal(t, "+34600111222", msg.Sender)
}

func TestParseTwilioFormByShape(t *testing.T) {
	// no Twilio User-Agent, form shape alone is enough
	form := url.Values{}
	form.Set("From", "+34600111222")
	form.Set("Body", "Tomó la medicación")
	form.Set("MessageSid", "SM0001")

	header := http.Header{}
	header.Set("Content-Type", "application/x-www-form-urlencoded")

	msg, err := Parse(header, []byte(form.Encode()))
	require.NoError(t, err)
	assert.Equal(t, ProviderTwilio, msg.Provider)
	assert.Equal(t, "SM0001", msg.ExternalID)
}

func TestParseWhatsAppCloud(t *testing.T) {
	body := []byte(`{
		"entry": [{
			"changes": [{
				"value": {
					"messages": [{
						"id": "wamid.ABC123",
						"from": "34600111222",
						"text": {"body": "Gastamos 45 euros en medicinas"}
					}]
				}
			}]
		}]
	}`)

	header := http.Header{}
	header.Set("Content-Type", "application/json")

	msg, err := Parse(header, body)
	require.NoError(t, err)
	assert.Equal(t, ProviderWhatsAppCloud, msg.Provider)
	assert.Equal(t, "Gastamos 45 euros en medicinas", msg.Text)
	assert.Equal(t, "wamid.ABC123", msg.ExternalID)
	assert.Equal(t, "34600111222", msg.Sender)
}

func TestParseGenericAliases(t *testing.T) {
	body := []byte(`{"message": "Hoy comió bien", "sender": "whatsapp:+111", "id": "gen-1"}`)

	msg, err := Parse(http.Header{}, body)
	require.NoError(t, err)
	assert.Equal(t, ProviderGeneric, msg.Provider)
	assert.Equal(t, "Hoy comió bien", msg.Text)
	assert.Equal(t, "+111", msg.Sender)
	assert.Equal(t, "gen-1", msg.ExternalID)
}

func TestParseGenericNestedOneLevel(t *testing.T) {
	body := []byte(`{"data": {"text": "Está agitado esta tarde", "phone": "+222"}}`)

	msg, err := Parse(http.Header{}, body)
	require.NoError(t, err)
	assert.Equal(t, ProviderGeneric, msg.Provider)
	assert.Equal(t, "Está agitado esta tarde", msg.Text)
	assert.Equal(t, "+222", msg.Sender)
}

func TestParseGenericMissingSender(t *testing.T) {
	// missing sender is tolerated, caller decides what to do
	body := []byte(`{"text": "Durmió mal"}`)

	msg, err := Parse(http.Header{}, body)
	require.NoError(t, err)
	assert.Equal(t, "Durmió mal", msg.Text)
	assert.Empty(t, msg.Sender)
}

func TestParseNoText(t *testing.T) {
	cases := map[string][]byte{
		"empty object":  []byte(`{}`),
		"no aliases":    []byte(`{"foo": "bar"}`),
		"not json":      []byte(`garbage`),
		"empty text":    []byte(`{"text": ""}`),
		"cloud no body": []byte(`{"entry": [{"changes": [{"value": {"messages": [{"id": "x", "from": "y"}]}}]}]}`),
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(http.Header{}, body)
			assert.ErrorIs(t, err, ErrNoText)
		})
	}
}
