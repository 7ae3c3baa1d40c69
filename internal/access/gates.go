package access

import (
	"fmt"

	"github.com/hongminglow/eventus-be/internal/apperr"
	"github.com/hongminglow/eventus-be/internal/models"
)

// HasRole reports whether the user holds one of the allowed roles.
func HasRole(user models.User, allowed ...models.Role) bool {
	for _, role := range allowed {
		if user.Role == role {
			return true
		}
	}
	return false
}

// IsAdmin reports whether user holds the admin role.
func IsAdmin(user models.User) bool {
	return user.Role == models.RoleAdmin
}

// RequireRole fails with a forbidden error when the user's role is not allowed.
func RequireRole(user models.User, allowed ...models.Role) error {
	if HasRole(user, allowed...) {
		return nil
	}
	return apperr.Forbidden(fmt.Sprintf("User role '%s' is not authorized to access this route", user.Role))
}

// CanModifyEvent is the ownership gate: admins, or the user who created the event.
func CanModifyEvent(actor models.User, event models.Event, action string) error {
	if IsAdmin(actor) {
		return nil
	}
	if event.CreatedBy != "" && event.CreatedBy == actor.ID {
		return nil
	}
	return apperr.Forbidden(fmt.Sprintf("Not authorized to %s this event", action))
}

// CanPublishEvent applies the role gate and then the KYC gate. Admins bypass KYC.
func CanPublishEvent(actor models.User) error {
	if err := RequireRole(actor, models.RoleOrganizer, models.RoleAdmin); err != nil {
		return err
	}
	if actor.Role == models.RoleOrganizer && actor.KYCStatus != models.KYCVerified {
		return apperr.Forbidden("Your KYC is not verified yet. You cannot create events.")
	}
	return nil
}

// CanAccessUser allows a user to act on their own record and admins on any record.
func CanAccessUser(actor models.User, targetID string) error {
	if IsAdmin(actor) || actor.ID == targetID {
		return nil
	}
	return apperr.Forbidden("Forbidden")
}
