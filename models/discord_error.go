package models

import "fmt"

// DiscordError is the structured error body Discord returns on any
// non-success REST response. It carries the platform's numeric error code so
// callers can decide whether the failure is retryable.
type DiscordError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *DiscordError) Error() string {
	return fmt.Sprintf("discord api error %d: %s", e.Code, e.Message)
}
