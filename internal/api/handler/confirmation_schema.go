package handler

import "time"

type confirmationRequest struct {
	PaymentIntentRef string    `json:"payment_intent_ref" validate:"required"`
	Status           string    `json:"status"             validate:"required,oneof=succeeded"`
	Timestamp        time.Time `json:"timestamp"          validate:"required"`
}

type acceptedResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count,omitempty"`
}
