package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type AppCfg struct{ Env, Port string }

type DarajaCfg struct {
	ConsumerKey      string
	ConsumerSecret   string
	Shortcode        string
	Passkey          string
	PartyB           string
	CallbackURL      string
	AccountReference string
	TransactionDesc  string
}

type Cfg struct {
	App    AppCfg
	Daraja DarajaCfg
}

func Load() Cfg {
	// .env into process env, if present
	_ = godotenv.Load()

	viper.AutomaticEnv()
	viper.SetDefault("APP_ENV", "sandbox")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ACCOUNT_REFERENCE", "Dlight")
	viper.SetDefault("TRANSACTION_DESC", "Dlight STK PUSH")

	cfg := Cfg{
		App: AppCfg{
			Env:  viper.GetString("APP_ENV"),
			Port: viper.GetString("APP_PORT"),
		},
		Daraja: DarajaCfg{
			ConsumerKey:      strings.TrimSpace(viper.GetString("DARAJA_CONSUMER_KEY")),
			ConsumerSecret:   strings.TrimSpace(viper.GetString("DARAJA_CONSUMER_SECRET")),
			Shortcode:        viper.GetString("BUSINESS_SHORT_CODE"),
			Passkey:          viper.GetString("DARAJA_PASSKEY"),
			PartyB:           viper.GetString("PARTY_B"),
			CallbackURL:      viper.GetString("CALLBACK_URL"),
			AccountReference: viper.GetString("ACCOUNT_REFERENCE"),
			TransactionDesc:  viper.GetString("TRANSACTION_DESC"),
		},
	}

	// PartyB defaults to the business shortcode, as in the paybill flow.
	if cfg.Daraja.PartyB == "" {
		cfg.Daraja.PartyB = cfg.Daraja.Shortcode
	}

	// Fail fast on required settings
	if cfg.Daraja.ConsumerKey == "" || cfg.Daraja.ConsumerSecret == "" {
		log.Fatal().Msg("DARAJA_CONSUMER_KEY and DARAJA_CONSUMER_SECRET are required")
	}
	if cfg.Daraja.Shortcode == "" || cfg.Daraja.Passkey == "" {
		log.Fatal().Msg("BUSINESS_SHORT_CODE and DARAJA_PASSKEY are required")
	}

	return cfg
}
