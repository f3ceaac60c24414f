package internal

import "time"

type User struct {
	ID    string `json:"id"`
	Token string `json:"token"`
	Name  string `json:"name"`
}

type Address struct {
	Street     string `json:"street" bson:"street"`
	City       string `json:"city" bson:"city"`
	PostalCode string `json:"postal_code" bson:"postal_code"`
	Country    string `json:"country" bson:"country"`
}

type VocalRange struct {
	Min float64 `json:"min" bson:"min"` // Hz
	Max float64 `json:"max" bson:"max"`
}

type ProfileGoal struct {
	ID          string     `json:"id" bson:"id"`
	Title       string     `json:"title" bson:"title"`
	Description string     `json:"description,omitempty" bson:"description,omitempty"`
	Status      string     `json:"status" bson:"status"`     // active, completed
	Progress    int        `json:"progress" bson:"progress"` // 0–100
	CreatedAt   time.Time  `json:"created_at" bson:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
}

type Availability struct {
	PracticeFrequency string   `json:"practice_frequency" bson:"practice_frequency"` // daily, weekly, occasional
	PracticeLength    int      `json:"practice_length" bson:"practice_length"`       // minutes
	PreferredTimes    []string `json:"preferred_times,omitempty" bson:"preferred_times,omitempty"`
}

type MusicalBackground struct {
	YearsOfExperience int      `json:"years_of_experience" bson:"years_of_experience"`
	Instruments       []string `json:"instruments,omitempty" bson:"instruments,omitempty"`
	Styles            []string `json:"styles,omitempty" bson:"styles,omitempty"`
	Training          []string `json:"training,omitempty" bson:"training,omitempty"`
}

type ProfileSettings struct {
	Notifications bool   `json:"notifications" bson:"notifications"`
	EmailUpdates  bool   `json:"email_updates" bson:"email_updates"`
	Language      string `json:"language" bson:"language"`
	Theme         string `json:"theme" bson:"theme"` // light, dark, auto
}

type ProfileStats struct {
	TotalPracticeTime int        `json:"total_practice_time" bson:"total_practice_time"` // minutes
	SessionsCompleted int        `json:"sessions_completed" bson:"sessions_completed"`
	AverageAccuracy   float64    `json:"average_accuracy" bson:"average_accuracy"`
	LastSession       *time.Time `json:"last_session,omitempty" bson:"last_session,omitempty"`
}

type Profile struct {
	UserID            string            `json:"user_id" bson:"user_id"`
	Email             string            `json:"email" bson:"email"`
	FirstName         string            `json:"first_name" bson:"first_name"`
	LastName          string            `json:"last_name" bson:"last_name"`
	DisplayName       string            `json:"display_name" bson:"display_name"`
	PhotoURL          string            `json:"photo_url,omitempty" bson:"photo_url,omitempty"`
	DateOfBirth       string            `json:"date_of_birth,omitempty" bson:"date_of_birth,omitempty"` // YYYY-MM-DD
	PhoneNumber       string            `json:"phone_number,omitempty" bson:"phone_number,omitempty"`
	Address           Address           `json:"address" bson:"address"`
	VocalRange        VocalRange        `json:"vocal_range" bson:"vocal_range"`
	Experience        string            `json:"experience,omitempty" bson:"experience,omitempty"`
	Interests         []string          `json:"interests,omitempty" bson:"interests,omitempty"`
	Goals             []ProfileGoal     `json:"goals,omitempty" bson:"goals,omitempty"`
	Availability      Availability      `json:"availability" bson:"availability"`
	MusicalBackground MusicalBackground `json:"musical_background" bson:"musical_background"`
	Settings          ProfileSettings   `json:"settings" bson:"settings"`
	Stats             ProfileStats      `json:"stats" bson:"stats"`
	CreatedAt         time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at" bson:"updated_at"`
}

type CycleEntry struct {
	ID          string    `json:"id" bson:"id"` // <userID>_day<N>
	UserID      string    `json:"user_id" bson:"user_id"`
	DayNumber   int       `json:"day_number" bson:"day_number"`
	CompletedAt time.Time `json:"completed_at" bson:"completed_at"`
	Exercises   []string  `json:"exercises,omitempty" bson:"exercises,omitempty"`
	Notes       string    `json:"notes,omitempty" bson:"notes,omitempty"`
}

type CycleProgress struct {
	UserID          string     `json:"user_id" bson:"user_id"`
	CompletedDays   []int      `json:"completed_days" bson:"completed_days"`
	CurrentDay      int        `json:"current_day" bson:"current_day"`
	StartedAt       time.Time  `json:"started_at" bson:"started_at"`
	LastCompletedAt *time.Time `json:"last_completed_at" bson:"last_completed_at"`
	UpdatedAt       time.Time  `json:"updated_at" bson:"updated_at"`
}

type EmotionLog struct {
	ID             string    `json:"id" bson:"id"`
	UserID         string    `json:"user_id" bson:"user_id"`
	Date           time.Time `json:"date" bson:"date"`
	EmotionalState int       `json:"emotional_state" bson:"emotional_state"` // 1–10 scale
	EnergyLevel    int       `json:"energy_level" bson:"energy_level"`       // 1–10 scale
	StressLevel    int       `json:"stress_level" bson:"stress_level"`       // 1–10 scale
	Activities     []string  `json:"activities,omitempty" bson:"activities,omitempty"`
	Notes          string    `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
}

type DetectedNote struct {
	Frequency  float64   `json:"frequency" bson:"frequency"`
	Name       string    `json:"name" bson:"name"`
	Octave     int       `json:"octave" bson:"octave"`
	Confidence float64   `json:"confidence" bson:"confidence"`
	Timestamp  time.Time `json:"timestamp" bson:"timestamp"`
}

// LifeSpheres holds the questionnaire answers, keyed by question.
type LifeSpheres struct {
	Health        map[string]string `json:"health,omitempty" bson:"health,omitempty"`
	Career        map[string]string `json:"career,omitempty" bson:"career,omitempty"`
	Financial     map[string]string `json:"financial,omitempty" bson:"financial,omitempty"`
	Relationships map[string]string `json:"relationships,omitempty" bson:"relationships,omitempty"`
}

type UserState struct {
	PhysicalState int         `json:"physical_state" bson:"physical_state" validate:"gte=1,lte=10"`
	MentalState   int         `json:"mental_state" bson:"mental_state" validate:"gte=1,lte=10"`
	StressLevel   int         `json:"stress_level" bson:"stress_level" validate:"gte=1,lte=10"`
	SleepQuality  int         `json:"sleep_quality" bson:"sleep_quality" validate:"gte=1,lte=10"`
	Notes         string      `json:"notes,omitempty" bson:"notes,omitempty"`
	LifeSpheres   LifeSpheres `json:"life_spheres" bson:"life_spheres"`
}

type ReportSection struct {
	Title string   `json:"title" bson:"title"`
	Items []string `json:"items" bson:"items"`
}

type AIReport struct {
	Summary  string          `json:"summary" bson:"summary"`
	Sections []ReportSection `json:"sections" bson:"sections"`
	Source   string          `json:"source" bson:"source"`
}

type Analysis struct {
	ID               string         `json:"id" bson:"id"`
	UserID           string         `json:"user_id" bson:"user_id"`
	CreatedAt        time.Time      `json:"created_at" bson:"created_at"`
	Notes            []DetectedNote `json:"notes" bson:"notes"`
	DominantNotes    map[string]int `json:"dominant_notes" bson:"dominant_notes"`
	CurrentFrequency *float64       `json:"current_frequency,omitempty" bson:"current_frequency,omitempty"`
	UserState        UserState      `json:"user_state" bson:"user_state"`
	Report           *AIReport      `json:"report,omitempty" bson:"report,omitempty"`
}
