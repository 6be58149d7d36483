package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Setenv("DARAJA_CONSUMER_KEY", "key ")
	t.Setenv("DARAJA_CONSUMER_SECRET", "secret")
	t.Setenv("BUSINESS_SHORT_CODE", "174379")
	t.Setenv("DARAJA_PASSKEY", "passkey")
	t.Setenv("CALLBACK_URL", "https://example.com/callbacks/mpesa")

	cfg := Load()

	assert.Equal(t, "sandbox", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "key", cfg.Daraja.ConsumerKey) // trimmed
	assert.Equal(t, "secret", cfg.Daraja.ConsumerSecret)
	assert.Equal(t, "174379", cfg.Daraja.Shortcode)
	assert.Equal(t, "passkey", cfg.Daraja.Passkey)
	assert.Equal(t, "https://example.com/callbacks/mpesa", cfg.Daraja.CallbackURL)

	// Defaults
	assert.Equal(t, "Dlight", cfg.Daraja.AccountReference)
	assert.Equal(t, "Dlight STK PUSH", cfg.Daraja.TransactionDesc)

	// PartyB falls back to the shortcode
	assert.Equal(t, "174379", cfg.Daraja.PartyB)
}

func TestLoadPartyBOverride(t *testing.T) {
	t.Setenv("DARAJA_CONSUMER_KEY", "key")
	t.Setenv("DARAJA_CONSUMER_SECRET", "secret")
	t.Setenv("BUSINESS_SHORT_CODE", "174379")
	t.Setenv("DARAJA_PASSKEY", "passkey")
	t.Setenv("PARTY_B", "600000")

	cfg := Load()
	assert.Equal(t, "600000", cfg.Daraja.PartyB)
}
