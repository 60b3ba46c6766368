package domain

// User represents a registered user of the payment service.
type User struct {
	UserID       string `json:"userID"` // Primary Key (UUID)
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // bcrypt hash, never serialized
	IsAdmin      bool   `json:"isAdmin"`
	AuditFields
}
