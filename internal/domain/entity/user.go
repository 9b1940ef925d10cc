// Package entity contains the core business objects of the project.
package entity

import "time"

// User is a registered account. Login is the primary key and never changes.
type User struct {
	Login        string    // Unique, human-chosen identifier.
	Email        string    // Contact email.
	FullName     string    // Display or legal name.
	Gender       string    // Free-form, as supplied at registration.
	PasswordHash string    // Output of the PasswordHasher, never plaintext.
	CreatedAt    time.Time // First time the record was written.
	UpdatedAt    time.Time // Last time the record was written (re-registration).
}
