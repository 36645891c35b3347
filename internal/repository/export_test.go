package repository

// NewTestUser exposes newTestUser to the external repository_test package.
var NewTestUser = newTestUser
