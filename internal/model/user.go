package model

import "github.com/google/uuid"

// User identity is owned by the external identity subsystem; this service
// only ever sees the resolved id plus profile fields carried on the token.
type User struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
}
