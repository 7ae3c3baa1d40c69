package dto

import "github.com/hongminglow/eventus-be/internal/opt"

// UserPatch carries a partial profile update. Role, IsBlocked and most KYCStatus
// transitions are reserved for admins.
type UserPatch struct {
	FirstName opt.Value[string] `json:"firstName"`
	LastName  opt.Value[string] `json:"lastName"`
	// Name is a full name split into first and last on whitespace.
	Name      opt.Value[string] `json:"name"`
	Email     opt.Value[string] `json:"email"`
	Phone     opt.Value[string] `json:"phone"`
	Location  opt.Value[string] `json:"location"`
	Avatar    opt.Value[string] `json:"avatar"`
	Role      opt.Value[string] `json:"role"`
	IsBlocked opt.Value[bool]   `json:"isBlocked"`
	KYCStatus opt.Value[string] `json:"kycStatus"`

	KYCDob               opt.Value[string] `json:"kycDob"`
	KYCCitizenshipNumber opt.Value[string] `json:"kycCitizenshipNumber"`
	KYCProvince          opt.Value[string] `json:"kycProvince"`
	KYCDistrict          opt.Value[string] `json:"kycDistrict"`
	KYCMunicipality      opt.Value[string] `json:"kycMunicipality"`
	KYCWard              opt.Value[string] `json:"kycWard"`
	KYCStreet            opt.Value[string] `json:"kycStreet"`
}

// BlockRequest sets the blocked flag; an omitted flag toggles it.
type BlockRequest struct {
	IsBlocked *bool `json:"isBlocked"`
}

type KYCStatusRequest struct {
	Status string `json:"status"`
}

// UserQuery filters admin user listings.
type UserQuery struct {
	Role    string
	Blocked *bool
}

// Metrics are the aggregate counts shown on the admin dashboard.
type Metrics struct {
	TotalUsers   int64 `json:"totalUsers"`
	BlockedUsers int64 `json:"blockedUsers"`
	Organizers   int64 `json:"organizers"`
	TotalEvents  int64 `json:"totalEvents"`
}
