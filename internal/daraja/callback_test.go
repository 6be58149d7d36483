package daraja

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const successCallback = `{
  "Body": {
    "stkCallback": {
      "MerchantRequestID": "29115-34620561-1",
      "CheckoutRequestID": "ws_CO_191220191020363925",
      "ResultCode": 0,
      "ResultDesc": "The service request is processed successfully.",
      "CallbackMetadata": {
        "Item": [
          {"Name": "Amount", "Value": 1.00},
          {"Name": "MpesaReceiptNumber", "Value": "NLJ7RT61SV"},
          {"Name": "TransactionDate", "Value": 20191219102115},
          {"Name": "PhoneNumber", "Value": 254710102720}
        ]
      }
    }
  }
}`

const cancelledCallback = `{
  "Body": {
    "stkCallback": {
      "MerchantRequestID": "29115-34620561-1",
      "CheckoutRequestID": "ws_CO_191220191020363925",
      "ResultCode": 1032,
      "ResultDesc": "Request cancelled by user."
    }
  }
}`

func TestParseCallbackSuccess(t *testing.T) {
	got, err := ParseCallback([]byte(successCallback))
	require.NoError(t, err)

	assert.Equal(t, "29115-34620561-1", got.MerchantRequestID)
	assert.Equal(t, "ws_CO_191220191020363925", got.CheckoutRequestID)
	assert.Equal(t, 0, got.ResultCode)
	assert.True(t, got.Settled())
	assert.Equal(t, 1, got.Amount)
	assert.Equal(t, "NLJ7RT61SV", got.ReceiptNumber)
	assert.Equal(t, "254710102720", got.PhoneNumber)
	assert.Equal(t, "20191219102115", got.TransactionDate)
}

func TestParseCallbackCancelled(t *testing.T) {
	got, err := ParseCallback([]byte(cancelledCallback))
	require.NoError(t, err)

	assert.Equal(t, 1032, got.ResultCode)
	assert.False(t, got.Settled())
	assert.Equal(t, "Request cancelled by user.", got.ResultDesc)
	assert.Zero(t, got.Amount)
}

// Some sandboxes serialize metadata numbers as strings; both shapes parse.
func TestParseCallbackStringValues(t *testing.T) {
	payload := `{
	  "Body": {
	    "stkCallback": {
	      "CheckoutRequestID": "ws_CO_1",
	      "ResultCode": 0,
	      "ResultDesc": "ok",
	      "CallbackMetadata": {
	        "Item": [
	          {"Name": "Amount", "Value": "150.00"},
	          {"Name": "PhoneNumber", "Value": "254710102720"}
	        ]
	      }
	    }
	  }
	}`

	got, err := ParseCallback([]byte(payload))
	require.NoError(t, err)
	assert.Equal(t, 150, got.Amount)
	assert.Equal(t, "254710102720", got.PhoneNumber)
}

func TestParseCallbackRejectsGarbage(t *testing.T) {
	_, err := ParseCallback([]byte("not json"))
	assert.Error(t, err)

	_, err = ParseCallback([]byte(`{"Body":{}}`))
	assert.Error(t, err)
}
