package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/yourname/renescens/internal"
	"github.com/yourname/renescens/internal/storage"
)

type AddressRequest struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type VocalRangeRequest struct {
	Min float64 `json:"min" validate:"gte=0"`
	Max float64 `json:"max" validate:"gte=0,gtefield=Min"`
}

type ProfileGoalRequest struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status" validate:"omitempty,oneof=active completed"`
	Progress    int    `json:"progress" validate:"gte=0,lte=100"`
}

type AvailabilityRequest struct {
	PracticeFrequency string   `json:"practice_frequency" validate:"omitempty,oneof=daily weekly occasional"`
	PracticeLength    int      `json:"practice_length" validate:"gte=0,lte=600"`
	PreferredTimes    []string `json:"preferred_times,omitempty"`
}

type MusicalBackgroundRequest struct {
	YearsOfExperience int      `json:"years_of_experience" validate:"gte=0,lte=100"`
	Instruments       []string `json:"instruments,omitempty"`
	Styles            []string `json:"styles,omitempty"`
	Training          []string `json:"training,omitempty"`
}

type SettingsRequest struct {
	Notifications bool   `json:"notifications"`
	EmailUpdates  bool   `json:"email_updates"`
	Language      string `json:"language" validate:"omitempty,len=2"`
	Theme         string `json:"theme" validate:"omitempty,oneof=light dark auto"`
}

// ProfileRequest is the profile form. Stats, ids and timestamps are not
// editable.
type ProfileRequest struct {
	Email             string                   `json:"email" validate:"omitempty,email"`
	FirstName         string                   `json:"first_name" validate:"max=100"`
	LastName          string                   `json:"last_name" validate:"max=100"`
	DisplayName       string                   `json:"display_name" validate:"max=100"`
	PhotoURL          string                   `json:"photo_url,omitempty" validate:"omitempty,url"`
	DateOfBirth       string                   `json:"date_of_birth,omitempty" validate:"omitempty,datetime=2006-01-02"`
	PhoneNumber       string                   `json:"phone_number,omitempty" validate:"max=32"`
	Address           AddressRequest           `json:"address"`
	VocalRange        VocalRangeRequest        `json:"vocal_range"`
	Experience        string                   `json:"experience,omitempty" validate:"omitempty,oneof=beginner intermediate advanced"`
	Interests         []string                 `json:"interests,omitempty"`
	Goals             []ProfileGoalRequest     `json:"goals,omitempty" validate:"dive"`
	Availability      AvailabilityRequest      `json:"availability"`
	MusicalBackground MusicalBackgroundRequest `json:"musical_background"`
	Settings          *SettingsRequest         `json:"settings,omitempty"`
}

func ValidateProfileRequest(req *ProfileRequest) error {
	return validate.Struct(req)
}

// NewProfile returns the sign-up defaults for a user.
func NewProfile(user *internal.User, now time.Time) *internal.Profile {
	return &internal.Profile{
		UserID:      user.ID,
		DisplayName: user.Name,
		Experience:  "beginner",
		Interests:   []string{},
		Goals:       []internal.ProfileGoal{},
		Availability: internal.Availability{
			PracticeFrequency: "weekly",
			PracticeLength:    30,
		},
		Settings: internal.ProfileSettings{
			Notifications: true,
			EmailUpdates:  true,
			Language:      "fr",
			Theme:         "auto",
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// applyProfileRequest copies the form onto the profile. Goals keep their
// creation time and get a completion time when they turn completed.
func applyProfileRequest(p *internal.Profile, req *ProfileRequest, now time.Time) {
	p.Email = req.Email
	p.FirstName = req.FirstName
	p.LastName = req.LastName
	if req.DisplayName != "" {
		p.DisplayName = req.DisplayName
	}
	p.PhotoURL = req.PhotoURL
	p.DateOfBirth = req.DateOfBirth
	p.PhoneNumber = req.PhoneNumber
	p.Address = internal.Address(req.Address)
	p.VocalRange = internal.VocalRange(req.VocalRange)
	if req.Experience != "" {
		p.Experience = req.Experience
	}
	p.Interests = req.Interests
	p.Availability = internal.Availability(req.Availability)
	p.MusicalBackground = internal.MusicalBackground(req.MusicalBackground)
	if req.Settings != nil {
		p.Settings = internal.ProfileSettings(*req.Settings)
		if p.Settings.Theme == "" {
			p.Settings.Theme = "auto"
		}
	}

	existing := make(map[string]internal.ProfileGoal, len(p.Goals))
	for _, g := range p.Goals {
		existing[g.ID] = g
	}
	goals := make([]internal.ProfileGoal, 0, len(req.Goals))
	for _, g := range req.Goals {
		goal := internal.ProfileGoal{
			ID:          g.ID,
			Title:       g.Title,
			Description: g.Description,
			Status:      g.Status,
			Progress:    g.Progress,
			CreatedAt:   now,
		}
		if goal.ID == "" {
			goal.ID = uuid.NewString()
		}
		if goal.Status == "" {
			goal.Status = "active"
		}
		if prev, ok := existing[goal.ID]; ok {
			goal.CreatedAt = prev.CreatedAt
			goal.CompletedAt = prev.CompletedAt
		}
		if goal.Status == "completed" && goal.CompletedAt == nil {
			t := now
			goal.CompletedAt = &t
		}
		if goal.Status == "active" {
			goal.CompletedAt = nil
		}
		goals = append(goals, goal)
	}
	p.Goals = goals
	p.UpdatedAt = now
}

// CreateProfile is the sign-up step; it fails with ErrProfileExists when the
// user already has a profile.
func CreateProfile(ctx context.Context, repo storage.ProfileRepository, user *internal.User, req *ProfileRequest) (*internal.Profile, error) {
	now := time.Now().UTC()
	p := NewProfile(user, now)
	if req != nil {
		applyProfileRequest(p, req, now)
	}
	if err := repo.CreateProfile(ctx, p); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, ErrProfileExists
		}
		return nil, err
	}
	return p, nil
}

func GetProfile(ctx context.Context, repo storage.ProfileRepository, user *internal.User) (*internal.Profile, error) {
	return repo.GetProfile(ctx, user.ID)
}

// UpdateProfile applies a form submission to an existing profile.
func UpdateProfile(ctx context.Context, repo storage.ProfileRepository, user *internal.User, req *ProfileRequest) (*internal.Profile, error) {
	p, err := repo.GetProfile(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	applyProfileRequest(p, req, time.Now().UTC())
	if err := repo.SaveProfile(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
