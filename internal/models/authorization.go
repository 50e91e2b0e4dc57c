package models

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/baharkarakas/payment-authorizer/internal/validate"
)

// AuthorizationInput is the decoded request body; nothing in it has been
// checked yet.
type AuthorizationInput struct {
	MerchantName  string          `json:"merchant_name"`
	MerchantToken string          `json:"merchant_token"`
	Bank          string          `json:"bank"`
	CCNum         string          `json:"cc_num"`
	CardType      string          `json:"card_type"`
	SecurityCode  string          `json:"security_code"`
	Amount        json.RawMessage `json:"amount"`
	CardZip       string          `json:"card_zip"`
	Timestamp     string          `json:"timestamp"`
}

// AuthorizationRequest is an input that passed ParseAuthorizationRequest.
type AuthorizationRequest struct {
	MerchantName  string
	MerchantToken string
	Bank          string
	AccountNumber string
	CardType      string
	SecurityCode  string
	Amount        decimal.Decimal
	CardZip       string
	Timestamp     time.Time
	// RawTimestamp is kept verbatim for the transaction ID.
	RawTimestamp string
}

func (r AuthorizationRequest) AccountKey() AccountKey {
	return AccountKey{Bank: r.Bank, AccountNumber: r.AccountNumber}
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseTimestamp accepts RFC 3339 and its zone-less / date-only forms.
// Zone-less values are read as UTC.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, l := range timestampLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// Amounts fit the stores' numeric(20,4) columns.
const (
	AmountScale     = 4
	AmountIntDigits = 16
	maxAmountLen    = 48
)

func parseAmount(raw json.RawMessage) (decimal.Decimal, *validate.ErrField) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return decimal.Zero, &validate.ErrField{Field: "amount", Msg: "required"}
	}
	if len(raw) > maxAmountLen {
		return decimal.Zero, &validate.ErrField{Field: "amount", Msg: "out of range"}
	}
	s := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.Zero, &validate.ErrField{Field: "amount", Msg: "not a number"}
		}
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, &validate.ErrField{Field: "amount", Msg: "not a number"}
	}
	if ef := validate.PositiveDecimal("amount", d); ef != nil {
		return decimal.Zero, ef
	}
	if ef := validate.Money("amount", d, AmountScale, AmountIntDigits); ef != nil {
		return decimal.Zero, ef
	}
	return d, nil
}

// ParseAuthorizationRequest checks every field at once and returns
// validate.Errs listing all that failed.
func ParseAuthorizationRequest(in AuthorizationInput) (AuthorizationRequest, error) {
	var errs validate.Errs
	errs = errs.Add(validate.Required("merchant_name", in.MerchantName))
	errs = errs.Add(validate.Required("merchant_token", in.MerchantToken))
	errs = errs.Add(validate.Required("bank", in.Bank))
	errs = errs.Add(validate.Required("card_type", in.CardType))

	ccNum := strings.TrimSpace(in.CCNum)
	if ef := validate.Required("cc_num", ccNum); ef != nil {
		errs = errs.Add(ef)
	} else {
		errs = errs.Add(validate.Digits("cc_num", ccNum, 4))
	}

	amount, ef := parseAmount(in.Amount)
	errs = errs.Add(ef)

	var ts time.Time
	if ef := validate.Required("timestamp", in.Timestamp); ef != nil {
		errs = errs.Add(ef)
	} else if t, ok := ParseTimestamp(in.Timestamp); ok {
		ts = t
	} else {
		errs = errs.Add(&validate.ErrField{Field: "timestamp", Msg: "not ISO-8601"})
	}

	if err := errs.Err(); err != nil {
		return AuthorizationRequest{}, err
	}
	return AuthorizationRequest{
		MerchantName:  in.MerchantName,
		MerchantToken: in.MerchantToken,
		Bank:          strings.TrimSpace(in.Bank),
		AccountNumber: ccNum,
		CardType:      in.CardType,
		SecurityCode:  in.SecurityCode,
		Amount:        amount,
		CardZip:       in.CardZip,
		Timestamp:     ts,
		RawTimestamp:  in.Timestamp,
	}, nil
}
