package persistence

import "time"

// User represents a community member account. Memberships and Groups are
// loaded from their own tables whenever the user is read.
type User struct {
	ID            string
	Email         string
	Username      string
	FirstName     string
	LastName      string
	Bio           string
	AvatarSrc     *string
	AvatarSetAt   *time.Time
	PasswordHash  string
	Memberships   []Membership
	Groups        []GroupRef
	Attending     []string
	Processes     []string
	Notifications []string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Membership records a user's role on one host.
type Membership struct {
	UserID   string
	Host     string
	Role     string
	JoinedAt time.Time
}

// GroupRef is the denormalized group summary stored on the user side of the
// two-sided group membership.
type GroupRef struct {
	UserID   string
	GroupID  string
	Name     string
	IsAdmin  bool
	JoinedAt time.Time
}

// Session represents an authentication session persisted for a user.
type Session struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	RevokedAt *time.Time
}

// Room represents a bookable place. Rooms are ordered by creation so the
// positional index recorded on bookings stays reproducible.
type Room struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Booking represents a persisted room reservation. Dates and times are kept
// as the strings the caller supplied.
type Booking struct {
	ID              string
	AuthorID        string
	AuthorName      string
	Title           string
	LongDescription string
	Room            string
	RoomIndex       string
	StartDate       string
	EndDate         string
	StartTime       string
	EndTime         string
	IsFullDay       bool
	IsPublished     bool
	IsSentForReview bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// GroupMember is one row of a group's member list.
type GroupMember struct {
	GroupID   string
	MemberID  string
	Username  string
	AvatarSrc string
	JoinedAt  time.Time
}

// Group represents a study group. Members are loaded from their own table
// whenever the group is read.
type Group struct {
	ID              string
	AdminID         string
	AdminUsername   string
	Title           string
	Description     string
	ReadingMaterial string
	Capacity        int
	ImageURL        string
	IsPublished     bool
	Members         []GroupMember
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HostMember is one row of a host's participant list.
type HostMember struct {
	Host     string
	UserID   string
	Username string
	Email    string
	Role     string
	JoinedAt time.Time
}

// HostSettings carries per-tenant branding and configuration. Menu and
// Categories are stored as JSON columns; Members come from their own table.
type HostSettings struct {
	Host       string
	Name       string
	Email      string
	Address    string
	City       string
	Country    string
	LogoURL    string
	MainColorH int
	MainColorS int
	MainColorL int
	Menu       []MenuItem
	Categories []WorkCategory
	Members    []HostMember
	UpdatedAt  time.Time
}

// MenuItem is one entry of a host's navigation menu, in display order.
type MenuItem struct {
	Name      string `json:"name"`
	Label     string `json:"label"`
	IsVisible bool   `json:"isVisible"`
}

// WorkCategory labels works with a host-configured color.
type WorkCategory struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// Occurrence is one scheduled occurrence of an activity, ordered by position.
type Occurrence struct {
	ActivityID string
	Position   int
	StartDate  string
	EndDate    string
	StartTime  string
	EndTime    string
	Capacity   int
	Attendees  []string
}

// Activity represents a published activity with one or more occurrences.
type Activity struct {
	ID              string
	AuthorID        string
	AuthorName      string
	Title           string
	LongDescription string
	Room            string
	ImageURL        string
	IsPublic        bool
	Occurrences     []Occurrence
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Work represents a portfolio piece published by a member.
type Work struct {
	ID               string
	AuthorID         string
	AuthorUsername   string
	Title            string
	ShortDescription string
	LongDescription  string
	CategoryLabel    string
	CategoryColor    string
	Images           []string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
