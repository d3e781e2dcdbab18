/**
 * @description
 * This file defines the authorization predicate guarding the admin-only
 * slash command. It is an interface rather than a raw id comparison in the
 * handler so the capability check can be swapped (role/claim based) and
 * tested without hardcoding an identifier.
 */

package app

// Authorizer decides whether a user id may invoke the privileged credit command.
type Authorizer interface {
	Authorize(userID string) bool
}

// AdminAuthorizer permits exactly one configured administrator id.
type AdminAuthorizer struct {
	AdminID string
}

func (a AdminAuthorizer) Authorize(userID string) bool {
	return a.AdminID != "" && userID == a.AdminID
}
