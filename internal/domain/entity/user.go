// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is a signed-up account. Contact details and role live on its Profile.
type User struct {
	ID        uuid.UUID // The Global Unique Identifier (GUID) for the user.
	Email     string    // Login identifier.
	Profile   *Profile  // Nil until the profile row is loaded or created.
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Role returns the profile role, defaulting to customer when no profile is loaded.
func (u *User) Role() Role {
	if u.Profile == nil || !u.Profile.Role.IsValid() {
		return RoleCustomer
	}

	return u.Profile.Role
}

// Profile holds contact details and the authorization role of a user.
type Profile struct {
	UserID     uuid.UUID
	Email      string
	FirstName  string
	LastName   string
	Phone      string
	Address    string
	City       string
	PostalCode string
	Country    string
	Role       Role
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// FullName joins first and last name.
func (p *Profile) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// IsComplete reports whether the profile has the name and phone needed to place an order.
func (p *Profile) IsComplete() bool {
	if p == nil {
		return false
	}

	return strings.TrimSpace(p.FirstName) != "" && strings.TrimSpace(p.Phone) != ""
}

// MissingFields lists the profile fields checkout requires but are empty.
func (p *Profile) MissingFields() []string {
	if p == nil {
		return []string{"first_name", "phone"}
	}

	var missing []string
	if strings.TrimSpace(p.FirstName) == "" {
		missing = append(missing, "first_name")
	}
	if strings.TrimSpace(p.Phone) == "" {
		missing = append(missing, "phone")
	}

	return missing
}
