package handlers

import (
	"encoding/json"
	"net/http"

	"daraja/internal/config"
	"daraja/internal/daraja"

	"github.com/rs/zerolog/log"
)

type stkReq struct {
	Amount string `json:"amount"`
	Phone  string `json:"phone"`
}

type stkResp struct {
	Accepted bool         `json:"accepted"`
	State    daraja.State `json:"state"`
}

// InitiateSTKPush collects the two free-text inputs, builds the request from
// static configuration and fires the driver. The call is accepted, not
// completed: progress is observable only through the state endpoints.
func InitiateSTKPush(cfg config.Cfg, driver *daraja.Driver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in stkReq
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if in.Amount == "" || in.Phone == "" {
			http.Error(w, "missing amount/phone", http.StatusBadRequest)
			return
		}

		req := daraja.NewSTKPushRequest(daraja.RequestParams{
			Shortcode:        cfg.Daraja.Shortcode,
			Passkey:          cfg.Daraja.Passkey,
			PartyB:           cfg.Daraja.PartyB,
			CallbackURL:      cfg.Daraja.CallbackURL,
			AccountReference: cfg.Daraja.AccountReference,
			TransactionDesc:  cfg.Daraja.TransactionDesc,
		}, in.Amount, in.Phone)

		log.Info().Str("phone", req.PhoneNumber).Str("amount", req.Amount).Msg("stk push initiated")
		driver.PerformSTKPush(req)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(stkResp{Accepted: true, State: driver.State()})
	}
}
