package strive

// apiResponse is the JSON body returned by the /api endpoints. Exactly one
// of Message or Error is set.
type apiResponse struct {
	Success bool   `json:"success,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

type subscribeRequest struct {
	Email string `json:"email" form:"email"`
}

// User-facing messages shared by the form and JSON handlers.
const (
	msgSubscribed        = "Successfully subscribed to the newsletter!"
	msgAlreadySubscribed = "You are already subscribed to the newsletter."
	msgNewsletterDown    = "Newsletter service is currently unavailable."
	msgTooManyRequests   = "Too many requests. Please try again later."
	msgInvalidEmail      = "Please provide a valid email address."

	msgContactSent       = "Message received successfully"
	msgContactInvalid    = "All fields are required"
	msgContactBot        = "reCAPTCHA verification failed"
	msgContactSendFailed = "Failed to send message"
)
