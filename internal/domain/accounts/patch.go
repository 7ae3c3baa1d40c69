package accounts

import (
	"strings"
	"time"

	"github.com/hongminglow/eventus-be/internal/apperr"
	"github.com/hongminglow/eventus-be/internal/models"
	"github.com/hongminglow/eventus-be/internal/models/dto"
	"github.com/hongminglow/eventus-be/internal/validation"
)

// ApplyPatch copies the provided fields of patch onto u. Email, role, isBlocked and
// any kycStatus other than "pending" require privileged; a self-service caller gets
// a forbidden error for them. Moving to "pending" stamps the submission time.
// A full name wins over explicit first and last names; a one-word name keeps the
// current last name.
func ApplyPatch(u *models.User, patch dto.UserPatch, privileged bool, now time.Time) error {
	if !privileged {
		if err := checkSelfService(*u, patch); err != nil {
			return err
		}
	}

	fields := map[string]string{}

	if v, ok := patch.FirstName.Get(); ok {
		u.FirstName = strings.TrimSpace(v)
	}
	if v, ok := patch.LastName.Get(); ok {
		u.LastName = strings.TrimSpace(v)
	}
	lastTouched := patch.LastName.IsSet()
	if name, ok := patch.Name.Get(); ok {
		first, last, hasLast := SplitName(name)
		u.FirstName = first
		if hasLast {
			u.LastName = last
			lastTouched = true
		}
	}
	if patch.Name.IsSet() || patch.FirstName.IsSet() {
		validation.Field(fields, "firstName", u.FirstName, "min=2")
	}
	if lastTouched {
		validation.Field(fields, "lastName", u.LastName, "min=2")
	}

	if v, ok := patch.Email.Get(); ok {
		u.Email = strings.ToLower(strings.TrimSpace(v))
		validation.Field(fields, "email", u.Email, "required,email")
	}
	if v, ok := patch.Phone.Get(); ok {
		u.Phone = strings.TrimSpace(v)
	}
	patch.Location.Apply(&u.Location)
	patch.Avatar.Apply(&u.Avatar)

	if v, ok := patch.Role.Get(); ok {
		role := models.Role(v)
		if !role.Valid() {
			fields["role"] = "must be one of: user, organizer, admin"
		}
		u.Role = role
	}
	patch.IsBlocked.Apply(&u.IsBlocked)

	if v, ok := patch.KYCStatus.Get(); ok {
		status := models.KYCStatus(v)
		if !status.Valid() {
			fields["kycStatus"] = "must be one of: none, pending, verified, rejected"
		}
		SetKYCStatus(u, status, now)
	}

	patch.KYCDob.Apply(&u.DOB)
	patch.KYCCitizenshipNumber.Apply(&u.CitizenshipNumber)
	patch.KYCProvince.Apply(&u.Province)
	patch.KYCDistrict.Apply(&u.District)
	patch.KYCMunicipality.Apply(&u.Municipality)
	patch.KYCWard.Apply(&u.Ward)
	patch.KYCStreet.Apply(&u.Street)

	return validation.Result(fields)
}

// SetKYCStatus records a status change; entering "pending" stamps the submission time.
func SetKYCStatus(u *models.User, status models.KYCStatus, now time.Time) {
	if status == models.KYCPending && u.KYCStatus != models.KYCPending {
		submitted := now
		u.KYCSubmitted = &submitted
	}
	u.KYCStatus = status
}

// SplitName treats the last word of a full name as the last name and everything
// before it as the first name. A single word yields only a first name.
func SplitName(name string) (first, last string, hasLast bool) {
	parts := strings.Fields(name)
	switch n := len(parts); n {
	case 0:
		return "", "", false
	case 1:
		return parts[0], "", false
	default:
		return strings.Join(parts[:n-1], " "), parts[n-1], true
	}
}

func checkSelfService(current models.User, patch dto.UserPatch) error {
	if v, ok := patch.Email.Get(); ok && !strings.EqualFold(strings.TrimSpace(v), current.Email) {
		return apperr.Forbidden("Only admins can change the email address")
	}
	if v, ok := patch.Role.Get(); ok && models.Role(v) != current.Role {
		return apperr.Forbidden("Only admins can change roles")
	}
	if v, ok := patch.IsBlocked.Get(); ok && v != current.IsBlocked {
		return apperr.Forbidden("Only admins can block or unblock accounts")
	}
	if v, ok := patch.KYCStatus.Get(); ok {
		status := models.KYCStatus(v)
		if status != models.KYCPending && status != current.KYCStatus {
			return apperr.Forbidden("KYC status can only be submitted for review")
		}
	}
	return nil
}
