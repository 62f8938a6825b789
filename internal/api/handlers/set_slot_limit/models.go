package set_slot_limit

// SetSlotLimitRequest HTTP request model
type SetSlotLimitRequest struct {
	MaxConcurrentBookings int `json:"maxConcurrentBookings"`
}
