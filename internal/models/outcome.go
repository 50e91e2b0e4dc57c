package models

import "net/http"

type Outcome string

const (
	OutcomeInvalidRequest       Outcome = "invalid_request"
	OutcomeBankUnavailable      Outcome = "bank_unavailable"
	OutcomeMerchantUnauthorized Outcome = "merchant_unauthorized"
	OutcomeInvalidCardType      Outcome = "invalid_card_type"
	OutcomeAccountNotFound      Outcome = "account_not_found"
	OutcomeDeclined             Outcome = "declined"
	OutcomeApproved             Outcome = "approved"
	OutcomeRecordingFailed      Outcome = "recording_failed"
)

// Status texts are part of the wire contract; clients match on them.
const (
	StatusApproved             = "Approved."
	StatusDeclined             = "Declined. Insufficient Funds."
	StatusBadAccount           = "Error - Bad Bank or Account Number."
	StatusInvalidCardType      = "Error - Invalid card type."
	StatusMerchantUnauthorized = "Merchant not authorized."
	StatusRecordingFailed      = "Error recording transaction."
	StatusBankUnavailable      = "Bank not available."
	StatusNoBody               = "There was an error in the request, no body present."
	StatusInvalidRequest       = "Error - Invalid request."
)

var outcomeStatus = map[Outcome]struct {
	text string
	code int
}{
	OutcomeInvalidRequest:       {StatusInvalidRequest, http.StatusBadRequest},
	OutcomeBankUnavailable:      {StatusBankUnavailable, http.StatusServiceUnavailable},
	OutcomeMerchantUnauthorized: {StatusMerchantUnauthorized, http.StatusUnauthorized},
	OutcomeInvalidCardType:      {StatusInvalidCardType, http.StatusBadRequest},
	OutcomeAccountNotFound:      {StatusBadAccount, http.StatusBadRequest},
	OutcomeDeclined:             {StatusDeclined, http.StatusOK},
	OutcomeApproved:             {StatusApproved, http.StatusOK},
	OutcomeRecordingFailed:      {StatusRecordingFailed, http.StatusInternalServerError},
}

func (o Outcome) StatusText() string { return outcomeStatus[o].text }

func (o Outcome) HTTPStatus() int {
	if s, ok := outcomeStatus[o]; ok {
		return s.code
	}
	return http.StatusInternalServerError
}

// Recorded reports whether an attempt ending in o is written to the
// transaction log. Requests rejected before the merchant lookup are not.
func (o Outcome) Recorded() bool {
	switch o {
	case OutcomeInvalidRequest, OutcomeBankUnavailable:
		return false
	}
	return true
}

func (o Outcome) Valid() bool {
	_, ok := outcomeStatus[o]
	return ok
}
