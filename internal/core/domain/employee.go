package domain

import "time"

// Employee is the HR record paired 1:1 with a non-admin User.
type Employee struct {
	ID         int       `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Position   string    `json:"position"`
	Department string    `json:"department"`
	CreatedAt  time.Time `json:"createdAt"`
	UserID     int       `json:"userId"`
}
