package create_withdrawal

// CreateWithdrawalRequest HTTP request model
type CreateWithdrawalRequest struct {
	Amount int64 `json:"amount"` // в минорных единицах
}
