package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProfile_IsComplete(t *testing.T) {
	var nilProfile *Profile
	assert.False(t, nilProfile.IsComplete())
	assert.Equal(t, []string{"first_name", "phone"}, nilProfile.MissingFields())

	p := &Profile{FirstName: "Amina"}
	assert.False(t, p.IsComplete())
	assert.Equal(t, []string{"phone"}, p.MissingFields())

	p.Phone = "+254700000000"
	assert.True(t, p.IsComplete())
	assert.Empty(t, p.MissingFields())
}

func TestUser_RoleDefaultsToCustomer(t *testing.T) {
	assert.Equal(t, RoleCustomer, (&User{}).Role())
	assert.Equal(t, RoleAdmin, (&User{Profile: &Profile{Role: RoleAdmin}}).Role())
	assert.Equal(t, RoleCustomer, (&User{Profile: &Profile{Role: "owner"}}).Role())
}
