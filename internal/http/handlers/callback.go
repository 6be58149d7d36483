package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"daraja/internal/daraja"

	"github.com/rs/zerolog/log"
)

// STKCallback receives the settlement result Safaricom posts to the
// CallBackURL, folds it into the state stream and acknowledges. Daraja
// expects a ResultCode 0 body regardless of outcome, or it keeps retrying.
func STKCallback(driver *daraja.Driver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}

		result, err := daraja.ParseCallback(body)
		if err != nil {
			log.Error().Err(err).Msg("invalid stk callback")
			http.Error(w, "bad callback", http.StatusBadRequest)
			return
		}

		log.Info().
			Str("checkout_request_id", result.CheckoutRequestID).
			Int("result_code", result.ResultCode).
			Str("result_desc", result.ResultDesc).
			Int("amount", result.Amount).
			Str("receipt", result.ReceiptNumber).
			Bool("settled", result.Settled()).
			Msg("stk callback received")

		driver.ReduceCallback(result)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ResultCode": 0,
			"ResultDesc": "Accepted",
		})
	}
}
