package daraja

// STKPushRequest is the immutable payload for /mpesa/stkpush/v1/processrequest.
// Field names mirror the Daraja wire format. Amount stays a string because the
// gateway accepts it as text; no currency-safe numeric is attempted here.
type STKPushRequest struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            string `json:"Amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
	TransactionDesc   string `json:"TransactionDesc"`
}

// TransactionTypePayBill is the only transaction type the STK flow uses.
const TransactionTypePayBill = "CustomerPayBillOnline"

// RequestParams is the static configuration an STKPushRequest is assembled
// from; amount and phone arrive as raw user input per submission.
type RequestParams struct {
	Shortcode        string
	Passkey          string
	PartyB           string
	CallbackURL      string
	AccountReference string
	TransactionDesc  string
}

// NewSTKPushRequest assembles a request from raw user input plus static
// configuration. The phone is normalized, the password derived from the
// current timestamp; nothing else is validated. The gateway rejects what it
// does not like.
func NewSTKPushRequest(p RequestParams, amount, phone string) STKPushRequest {
	ts := Now()
	msisdn := NormalizePhone(phone)
	return STKPushRequest{
		BusinessShortCode: p.Shortcode,
		Password:          DerivePassword(p.Shortcode, p.Passkey, ts),
		Timestamp:         ts,
		TransactionType:   TransactionTypePayBill,
		Amount:            amount,
		PartyA:            msisdn,
		PartyB:            p.PartyB,
		PhoneNumber:       msisdn,
		CallBackURL:       p.CallbackURL,
		AccountReference:  p.AccountReference,
		TransactionDesc:   p.TransactionDesc,
	}
}
