package delete_extra_slots

// DeleteExtraSlotsRequest HTTP request model
type DeleteExtraSlotsRequest struct {
	IDs []int64 `json:"ids"`
}
