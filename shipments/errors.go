package shipments

import (
	"fmt"
	"net/http"
)

// Error is an operation failure carrying the HTTP status and the message safe to show the caller.
type Error struct {
	Status  int
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

func notFound(message string) *Error {
	return &Error{Status: http.StatusNotFound, Message: message}
}

func forbidden(message string, cause error) *Error {
	return &Error{Status: http.StatusForbidden, Message: message, cause: cause}
}

// internal hides cause from the caller behind a generic message.
func internal(message string, cause error) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: message, cause: cause}
}

func userNotFoundMessage(userID string) string {
	return fmt.Sprintf("User with user_id '%s' does not exist.", userID)
}

func shipmentNotFoundMessage(id uint) string {
	return fmt.Sprintf("Shipment with following id and internal reference name doesn't exist: %d", id)
}

const (
	ownerForbiddenMessage = "Users with Owner type are not allowed to use this API"
	fetchFailedMessage    = "Error fetching shipments"
	createFailedMessage   = "Error creating shipment"
	updateFailedMessage   = "Error updating shipment"
)
