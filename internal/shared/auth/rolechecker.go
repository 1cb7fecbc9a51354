package auth

import "deskflow/internal/shared/constants"

// IsAdmin checks if the user has admin role
func IsAdmin(roles []string) bool {
	for _, role := range roles {
		if role == constants.RoleAdmin {
			return true
		}
	}
	return false
}

// HasRole checks if the user has a specific role
func HasRole(roles []string, targetRole string) bool {
	for _, role := range roles {
		if role == targetRole {
			return true
		}
	}
	return false
}
