package domain

// User is the authenticated account as the session layer knows it.
type User struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
}
