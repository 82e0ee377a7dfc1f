package update_meeting_type

// UpdateMeetingTypeRequest HTTP request model
type UpdateMeetingTypeRequest struct {
	MeetingType string `json:"meetingType"` // "in_person" или "virtual"
}
