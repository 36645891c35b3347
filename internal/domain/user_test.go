package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserHasRole(t *testing.T) {
	admin := &User{Role: RoleAdmin}
	user := &User{Role: RoleUser}

	assert.True(t, admin.HasRole(RoleAdmin))
	assert.True(t, user.HasRole(RoleAdmin, RoleUser))
	assert.False(t, user.HasRole(RoleAdmin))
	assert.False(t, user.HasRole())

	var nobody *User
	assert.False(t, nobody.HasRole(RoleUser))
}

func TestUserRoleValid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleUser.Valid())
	assert.False(t, UserRole("TEACHER").Valid())
	assert.False(t, UserRole("").Valid())
}
