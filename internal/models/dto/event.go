package dto

import "github.com/hongminglow/eventus-be/internal/opt"

type CreateEventRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Category    string `json:"category" validate:"category"`
	DateTime    string `json:"dateTime" validate:"required,datetime_any"`
	Location    string `json:"location" validate:"required"`
	Attendees   *int   `json:"attendees" validate:"omitempty,gte=0"`
	Price       string `json:"price"`
	ImageURL    string `json:"imageUrl"`
	IconEmoji   string `json:"iconEmoji"`
	Organizer   string `json:"organizer"`
	Description string `json:"description" validate:"max=2000"`
}

// EventPatch carries a partial event update; only provided fields are applied.
type EventPatch struct {
	Title       opt.Value[string] `json:"title"`
	Category    opt.Value[string] `json:"category"`
	DateTime    opt.Value[string] `json:"dateTime"`
	Location    opt.Value[string] `json:"location"`
	Attendees   opt.Value[int]    `json:"attendees"`
	Price       opt.Value[string] `json:"price"`
	ImageURL    opt.Value[string] `json:"imageUrl"`
	IconEmoji   opt.Value[string] `json:"iconEmoji"`
	Organizer   opt.Value[string] `json:"organizer"`
	Description opt.Value[string] `json:"description"`
}

// EventQuery is the listing filter decoded from query parameters.
type EventQuery struct {
	Category       string
	Search         string
	OwnerID        string
	BookmarkedOnly bool
}
