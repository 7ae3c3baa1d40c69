package models

import "time"

// Category is the closed set of event categories.
type Category string

const (
	CategoryMusic      Category = "Music"
	CategoryConference Category = "Conference"
	CategorySports     Category = "Sports"
	CategoryFoodDrink  Category = "Food & Drink"
	CategoryArtCulture Category = "Art & Culture"
	CategoryWorkshop   Category = "Workshop"

	// CategoryAll is the listing sentinel meaning "no category filter".
	CategoryAll = "All Events"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryMusic,
	CategoryConference,
	CategorySports,
	CategoryFoodDrink,
	CategoryArtCulture,
	CategoryWorkshop,
}

func (c Category) Valid() bool {
	for _, candidate := range Categories {
		if c == candidate {
			return true
		}
	}
	return false
}

const (
	DefaultPrice       = "Free Entry"
	DefaultDescription = "Details coming soon. Stay tuned!"
	DefaultOrganizer   = "Independent Organizer"
)

// Event is a published happening that users can bookmark and book tickets for.
type Event struct {
	ID            string       `json:"id"`
	Title         string       `json:"title"`
	Category      Category     `json:"category"`
	DateTime      time.Time    `json:"dateTime"`
	Location      string       `json:"location"`
	Attendees     int          `json:"attendees"`
	Price         string       `json:"price"`
	ImageURL      string       `json:"imageUrl"`
	IconEmoji     string       `json:"iconEmoji"`
	Organizer     string       `json:"organizer"`
	Description   string       `json:"description"`
	IsUserCreated bool         `json:"isUserCreated"`
	CreatedBy     string       `json:"createdBy,omitempty"`
	Creator       *UserSummary `json:"creator,omitempty"`
	BookmarkedBy  []string     `json:"bookmarkedBy"`
	IsBookmarked  bool         `json:"isBookmarked"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

// BookmarkedByUser reports whether userID is in the event's bookmark set.
func (e Event) BookmarkedByUser(userID string) bool {
	if userID == "" {
		return false
	}
	for _, id := range e.BookmarkedBy {
		if id == userID {
			return true
		}
	}
	return false
}
