package chat

// SendMessageRequest is the POST payload for a new message
type SendMessageRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}
