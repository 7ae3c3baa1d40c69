package models

import (
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// User captures application-facing fields for an authenticated identity.
type User struct {
	ID           string     `json:"id"`
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	IsBlocked    bool       `json:"isBlocked"`
	Location     string     `json:"location"`
	Avatar       string     `json:"avatar"`
	DeviceToken  string     `json:"-"`
	KYCStatus    KYCStatus  `json:"kycStatus"`
	KYCSubmitted *time.Time `json:"kycSubmittedAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`

	KYCDetails
}

// KYCDetails are the identity fields an organizer submits for verification.
type KYCDetails struct {
	DOB               string `json:"kycDob"`
	CitizenshipNumber string `json:"kycCitizenshipNumber"`
	Province          string `json:"kycProvince"`
	District          string `json:"kycDistrict"`
	Municipality      string `json:"kycMunicipality"`
	Ward              string `json:"kycWard"`
	Street            string `json:"kycStreet"`
}

// Name is the display name derived from the first and last name.
func (u User) Name() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u User) MarshalJSON() ([]byte, error) {
	type plain User
	return json.Marshal(struct {
		plain
		Name string `json:"name"`
	}{plain: plain(u), Name: u.Name()})
}

// UserSummary is the populated owner reference embedded in events.
type UserSummary struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}
