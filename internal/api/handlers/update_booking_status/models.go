package update_booking_status

// UpdateStatusRequest HTTP request model
// Допустимы только целевые статусы confirmed и completed
type UpdateStatusRequest struct {
	Status string `json:"status"`
}
