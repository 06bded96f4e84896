package application

import "time"

// Membership roles within a host. The role recorded on a user's membership
// drives every authorization check in the admin surfaces.
const (
	RoleAdmin       = "admin"
	RoleContributor = "contributor"
	RoleParticipant = "participant"
)

// Principal represents the authenticated user invoking a service method. It
// is always re-derived server-side from the session token, never taken from
// client-asserted fields.
type Principal struct {
	UserID             string
	Username           string
	Email              string
	IsRegisteredMember bool
	Memberships        []Membership
}

// RoleFor returns the principal's role on the given host, or the empty string
// when no membership exists.
func (p Principal) RoleFor(host string) string {
	for _, membership := range p.Memberships {
		if membership.Host == host {
			return membership.Role
		}
	}
	return ""
}

// Membership records a user's role on one host.
type Membership struct {
	Host     string
	Role     string
	JoinedAt time.Time
}

// Avatar is a user's profile image reference with the instant it was set.
type Avatar struct {
	Src   string
	SetAt time.Time
}

// GroupRef is the denormalized group summary mirrored onto the user record.
type GroupRef struct {
	GroupID  string
	Name     string
	IsAdmin  bool
	JoinedAt time.Time
}

// User represents a community member account.
type User struct {
	ID            string
	Email         string
	Username      string
	FirstName     string
	LastName      string
	Bio           string
	Avatar        *Avatar
	Memberships   []Membership
	Groups        []GroupRef
	Attending     []string
	Processes     []string
	Notifications []string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// UserCredentials models the authentication attributes persisted for a user.
type UserCredentials struct {
	User         User
	PasswordHash string
}

// Session represents an authenticated session issued to a user.
type Session struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	RevokedAt *time.Time
}

// BookingInput captures caller provided booking fields. Checks against it
// cover presence only; ordering of dates and times is never verified.
type BookingInput struct {
	Title           string
	LongDescription string
	Room            string
	StartDate       string
	EndDate         string
	StartTime       string
	EndTime         string
	IsFullDay       bool
}

// Booking represents a persisted room reservation.
//
// RoomIndex is the position of the room's name in the room list at creation
// time, stored as a string. It is a snapshot, not a stable foreign key: it
// goes stale when rooms are reordered or renamed.
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

// CreateBookingParams wraps the data required to create a booking.
type CreateBookingParams struct {
	Principal Principal
	Input     BookingInput
}

// UpdateBookingParams wraps the data required to update an existing booking.
type UpdateBookingParams struct {
	Principal Principal
	BookingID string
	Input     BookingInput
}

// Room is a bookable place. The ordered room list backs RoomIndex resolution.
type Room struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// GroupMember is one entry in a group's embedded member list.
type GroupMember struct {
	MemberID  string
	Username  string
	AvatarSrc string
	JoinedAt  time.Time
}

// GroupInput captures caller provided group fields.
type GroupInput struct {
	Title           string
	Description     string
	ReadingMaterial string
	Capacity        int
	ImageURL        string
}

// DefaultGroupCapacity applies when a group is created without a capacity.
const DefaultGroupCapacity = 20

// Group represents a study/reading group administered by one member.
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

// CreateGroupParams wraps the data required to create a group.
type CreateGroupParams struct {
	Principal Principal
	Input     GroupInput
}

// UpdateGroupParams wraps the data required to update an existing group.
type UpdateGroupParams struct {
	Principal Principal
	GroupID   string
	Input     GroupInput
}

// Occurrence is one persisted scheduled occurrence of an activity, produced
// by the recurrence editor.
type Occurrence struct {
	StartDate string
	EndDate   string
	StartTime string
	EndTime   string
	Capacity  int
	Attendees []string
}

// ActivityInput captures caller provided activity fields.
type ActivityInput struct {
	Title           string
	LongDescription string
	Room            string
	ImageURL        string
	IsPublic        bool
	Occurrences     []Occurrence
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

// CreateActivityParams wraps the data required to create an activity.
type CreateActivityParams struct {
	Principal Principal
	Input     ActivityInput
}

// UpdateActivityParams wraps the data required to update an activity.
type UpdateActivityParams struct {
	Principal  Principal
	ActivityID string
	Input      ActivityInput
}

// WorkCategory labels a published work with a host-configured color.
type WorkCategory struct {
	Label string
	Color string
}

// WorkInput captures caller provided work fields.
type WorkInput struct {
	Title            string
	ShortDescription string
	LongDescription  string
	Category         WorkCategory
	Images           []string
}

// Work represents a portfolio piece published by a member.
type Work struct {
	ID               string
	AuthorID         string
	AuthorUsername   string
	Title            string
	ShortDescription string
	LongDescription  string
	Category         WorkCategory
	Images           []string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// CreateWorkParams wraps the data required to create a work.
type CreateWorkParams struct {
	Principal Principal
	Input     WorkInput
}

// UpdateWorkParams wraps the data required to update a work.
type UpdateWorkParams struct {
	Principal Principal
	WorkID    string
	Input     WorkInput
}

// HSLColor is the tenant's main brand color as an HSL triple.
type HSLColor struct {
	Hue        int
	Saturation int
	Lightness  int
}

// MenuItem is one entry of the tenant's navigation menu, in display order.
type MenuItem struct {
	Name      string
	Label     string
	IsVisible bool
}

// HostMember is one entry in a host's embedded participant list.
type HostMember struct {
	ID       string
	Username string
	Email    string
	Role     string
	JoinedAt time.Time
}

// HostSettings carries per-tenant branding, menu, contact fields, and the
// work category list.
type HostSettings struct {
	Host       string
	Name       string
	Email      string
	Address    string
	City       string
	Country    string
	LogoURL    string
	MainColor  HSLColor
	Menu       []MenuItem
	Categories []WorkCategory
	Members    []HostMember
	UpdatedAt  time.Time
}

// HostSettingsInput captures the editable contact/branding fields of a host.
type HostSettingsInput struct {
	Name    string
	Email   string
	Address string
	City    string
	Country string
	LogoURL string
}

// ProfileInput captures the editable fields of a user's own profile.
type ProfileInput struct {
	FirstName string
	LastName  string
	Bio       string
}

// CreateAccountParams captures the data required to register a new account.
type CreateAccountParams struct {
	Email    string
	Username string
	Password string
}

// AuthenticateParams captures the data required to authenticate a user.
type AuthenticateParams struct {
	Email    string
	Password string
}

// AuthenticateResult captures the outcome of a successful authentication.
type AuthenticateResult struct {
	User    User
	Session Session
}
