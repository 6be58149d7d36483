package daraja

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// callbackEnvelope is the exact JSON shape Safaricom posts to the CallBackURL.
type callbackEnvelope struct {
	Body struct {
		StkCallback struct {
			MerchantRequestID string `json:"MerchantRequestID"`
			CheckoutRequestID string `json:"CheckoutRequestID"`
			ResultCode        int    `json:"ResultCode"`
			ResultDesc        string `json:"ResultDesc"`
			CallbackMetadata  struct {
				Item []struct {
					Name  string `json:"Name"`
					Value any    `json:"Value"`
				} `json:"Item"`
			} `json:"CallbackMetadata"`
		} `json:"stkCallback"`
	} `json:"Body"`
}

// CallbackResult is the settled outcome of an STK push, extracted from the
// gateway callback. Amount and phone come from the metadata items, which the
// sandbox serializes inconsistently (numbers sometimes arrive as strings).
type CallbackResult struct {
	MerchantRequestID string
	CheckoutRequestID string
	ResultCode        int
	ResultDesc        string
	Amount            int
	ReceiptNumber     string
	PhoneNumber       string
	TransactionDate   string
}

// Settled reports whether the customer completed the payment.
func (r CallbackResult) Settled() bool {
	return r.ResultCode == 0
}

// ParseCallback decodes the callback envelope posted to the CallBackURL.
func ParseCallback(body []byte) (CallbackResult, error) {
	var env callbackEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return CallbackResult{}, fmt.Errorf("bad stk callback json: %w", err)
	}

	cb := env.Body.StkCallback
	out := CallbackResult{
		MerchantRequestID: cb.MerchantRequestID,
		CheckoutRequestID: cb.CheckoutRequestID,
		ResultCode:        cb.ResultCode,
		ResultDesc:        cb.ResultDesc,
	}
	if out.CheckoutRequestID == "" {
		return CallbackResult{}, fmt.Errorf("stk callback missing CheckoutRequestID")
	}

	for _, it := range cb.CallbackMetadata.Item {
		switch it.Name {
		case "Amount":
			out.Amount = asInt(it.Value)
		case "MpesaReceiptNumber":
			out.ReceiptNumber = asString(it.Value)
		case "PhoneNumber":
			out.PhoneNumber = asString(it.Value)
		case "TransactionDate":
			out.TransactionDate = asString(it.Value)
		}
	}
	return out, nil
}

func asInt(v any) int {
	switch t := v.(type) {
	case float64:
		return int(t)
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return int(f)
		}
	case string:
		if f, err := strconv.ParseFloat(t, 64); err == nil {
			return int(f)
		}
	case int:
		return t
	}
	return 0
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	}
	return ""
}
