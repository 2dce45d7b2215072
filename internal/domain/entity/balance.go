package entity

// BalanceResponse represents the recorded balance of one account in one asset
type BalanceResponse struct {
	Asset     string `json:"asset"`
	Account   string `json:"account"`
	Amount    string `json:"amount"`
	Formatted string `json:"formatted,omitempty"`
	Symbol    string `json:"symbol,omitempty"`
}

// AssetStatus describes one whitelisted asset
type AssetStatus struct {
	Asset         string `json:"asset"`
	Symbol        string `json:"symbol,omitempty"`
	TotalDeposits string `json:"totalDeposits"`
}

// StatusResponse is a snapshot of the vault's administrative state
type StatusResponse struct {
	Owner     string        `json:"owner"`
	Paused    bool          `json:"paused"`
	Whitelist []AssetStatus `json:"whitelist"`
}

// WithdrawResponse reports how much was actually paid out
type WithdrawResponse struct {
	Requested string `json:"requested"`
	Settled   string `json:"settled"`
}

// AllowanceResponse reports the allowance an account has granted custody
type AllowanceResponse struct {
	Asset   string `json:"asset"`
	Owner   string `json:"owner"`
	Spender string `json:"spender"`
	Amount  string `json:"amount"`
}
