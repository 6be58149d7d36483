package daraja

import (
	"encoding/base64"
	"strings"
	"time"
)

const timestampLayout = "20060102150405"

// DerivePassword builds the Lipa na M-Pesa request password:
// base64(shortcode + passkey + timestamp), concatenated in that exact order.
// This is an encoding, not a digest; Daraja decodes it on the other side.
func DerivePassword(shortcode, passkey, timestamp string) string {
	return base64.StdEncoding.EncodeToString([]byte(shortcode + passkey + timestamp))
}

// NormalizePhone rewrites a local-format Kenyan number (leading 0) to the
// international form the gateway expects, e.g. 0710102720 -> 254710102720.
// Any other shape passes through unchanged; the gateway is the system of
// record for rejecting malformed numbers.
func NormalizePhone(raw string) string {
	if strings.HasPrefix(raw, "0") {
		return "254" + raw[1:]
	}
	return raw
}

// Timestamp formats t the way Daraja wants it: yyyyMMddHHmmss, local time.
func Timestamp(t time.Time) string {
	return t.Format(timestampLayout)
}

// Now returns the current timestamp in Daraja format.
func Now() string {
	return Timestamp(time.Now())
}
