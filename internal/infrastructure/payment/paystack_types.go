package payment

import "time"

// initializeRequest is the transaction initialize payload
type initializeRequest struct {
	Reference   string `json:"reference"`
	Email       string `json:"email"`
	Amount      int64  `json:"amount"` // minor units (kobo)
	Currency    string `json:"currency"`
	CallbackURL string `json:"callback_url,omitempty"`
}

// initializeResponse wraps the gateway's initialize answer
type initializeResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

// resolveResponse wraps the bank account resolution answer
type resolveResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AccountNumber string `json:"account_number"`
		AccountName   string `json:"account_name"`
	} `json:"data"`
}

// subaccountRequest is the subaccount creation payload
type subaccountRequest struct {
	BusinessName     string `json:"business_name"`
	BankCode         string `json:"settlement_bank"`
	AccountNumber    string `json:"account_number"`
	PercentageCharge string `json:"percentage_charge"`
}

// subaccountResponse wraps the subaccount creation answer
type subaccountResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		SubaccountCode string `json:"subaccount_code"`
	} `json:"data"`
}

// verifyResponse wraps the gateway's verify answer
type verifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Status         string     `json:"status"` // "success", "failed", "abandoned"
		Reference      string     `json:"reference"`
		Amount         int64      `json:"amount"` // minor units (kobo)
		Currency       string     `json:"currency"`
		GatewayMessage string     `json:"gateway_response"`
		PaidAt         *time.Time `json:"paid_at"`
	} `json:"data"`
}
