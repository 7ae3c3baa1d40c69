// Package seed loads a fresh database with demo accounts and events.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/hongminglow/eventus-be/internal/models"
	"github.com/hongminglow/eventus-be/internal/storage"
)

// Target is a store that can be wiped before seeding.
type Target interface {
	storage.UserStore
	storage.EventStore
	Reset(ctx context.Context) error
}

// Hasher hashes the seeded passwords.
type Hasher interface {
	Hash(password string) (string, error)
}

// Result lists what was created.
type Result struct {
	Users  []models.User
	Events []models.Event
}

type account struct {
	user     models.User
	password string
}

func accounts(adminEmail, adminPassword string) []account {
	return []account{
		{models.User{FirstName: "Admin", LastName: "User", Email: adminEmail, Phone: "9800000000", Role: models.RoleAdmin}, adminPassword},
		{models.User{FirstName: "John", LastName: "Doe", Email: "john.doe@example.com", Phone: "9841234567", Role: models.RoleUser}, "password123"},
		{models.User{FirstName: "Jane", LastName: "Smith", Email: "jane.smith@example.com", Phone: "9841234568", Role: models.RoleOrganizer, KYCStatus: models.KYCVerified}, "password123"},
	}
}

func at(layout string) time.Time {
	t, err := time.Parse("2006-01-02T15:04", layout)
	if err != nil {
		panic(err)
	}
	return t
}

var events = []models.Event{
	{Title: "PCPS Dashain Fest", Category: models.CategoryMusic, DateTime: at("2026-11-15T18:00"), Location: "Kupondole, Lalitpur", Attendees: 2500, Price: "From Rs. 100", IconEmoji: "🎵", Organizer: "HamroEvents", Description: "Celebrate Dashain with live music, cultural performances, and curated food stalls."},
	{Title: "Tech Innovation Conference", Category: models.CategoryConference, DateTime: at("2026-11-08T09:00"), Location: "Hotel Soaltee, Kathmandu", Attendees: 850, Price: "From Rs. 80", Organizer: "Kathmandu Tech Council", Description: "A full-day conference with 20+ speakers on AI, cloud and fintech."},
	{Title: "College Basketball Championship", Category: models.CategorySports, DateTime: at("2026-11-05T19:30"), Location: "PCPS College, Kupondole", Attendees: 5000, Price: "From Rs. 250", IconEmoji: "🏀", Organizer: "Nepal Student Sports Association", Description: "Top college teams compete for the national title under the lights."},
	{Title: "International Food Festival", Category: models.CategoryFoodDrink, DateTime: at("2026-11-14T11:00"), Location: "Bhrikutimandap, KTM", Attendees: 3200, Price: models.DefaultPrice, IconEmoji: "🍜", Organizer: "Global Chefs Collective", Description: "40+ international chefs bring signature dishes and live demos."},
	{Title: "Modern Art Exhibition", Category: models.CategoryArtCulture, DateTime: at("2026-11-01T10:00"), Location: "Naxal, KTM", Attendees: 450, Price: "From Rs. 75", IconEmoji: "🎨", Organizer: "Artists Hub Nepal", Description: "Modern Nepali art with live painting corners and collector meetups."},
}

// Run wipes target and inserts an admin, a user and a verified organizer, then
// five catalog events. The first two events belong to the admin, the rest to the organizer.
func Run(ctx context.Context, target Target, hasher Hasher, adminEmail, adminPassword string, logger zerolog.Logger) (Result, error) {
	logger = logger.With().Str("component", "seed").Logger()

	if err := target.Reset(ctx); err != nil {
		return Result{}, fmt.Errorf("reset store: %w", err)
	}
	logger.Info().Msg("existing data cleared")

	var res Result
	for _, acc := range accounts(adminEmail, adminPassword) {
		hash, err := hasher.Hash(acc.password)
		if err != nil {
			return Result{}, fmt.Errorf("hash password for %s: %w", acc.user.Email, err)
		}
		u := acc.user
		u.PasswordHash = hash
		if u.KYCStatus == "" {
			u.KYCStatus = models.KYCNone
		}
		created, err := target.CreateUser(ctx, u)
		if err != nil {
			return Result{}, fmt.Errorf("create user %s: %w", u.Email, err)
		}
		res.Users = append(res.Users, created)
	}

	admin, organizer := res.Users[0], res.Users[2]
	for i, e := range events {
		e.CreatedBy = organizer.ID
		if i < 2 {
			e.CreatedBy = admin.ID
		}
		created, err := target.CreateEvent(ctx, e)
		if err != nil {
			return Result{}, fmt.Errorf("create event %q: %w", e.Title, err)
		}
		res.Events = append(res.Events, created)
	}

	logger.Info().Int("users", len(res.Users)).Int("events", len(res.Events)).Str("admin_email", adminEmail).Msg("database seeded")
	return res, nil
}
