// Package testfixtures provides deterministic clocks, identifier generators,
// and record builders shared by tests across the module.
package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/streamerd/cocoso/internal/application"
)

var (
	userCounter     uint64
	groupCounter    uint64
	activityCounter uint64
	workCounter     uint64
)

var referenceTime = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ----------------------------- User fixtures -----------------------------

// UserFixture represents a deterministic member account for tests.
type UserFixture struct {
	ID          string
	Email       string
	Username    string
	Memberships []application.Membership
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UserOption configures the generated user fixture.
type UserOption func(*UserFixture)

// NewUserFixture returns a deterministic user fixture with optional overrides.
func NewUserFixture(opts ...UserOption) UserFixture {
	idx := atomic.AddUint64(&userCounter, 1)
	id := fmt.Sprintf("user-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := UserFixture{
		ID:        id,
		Email:     fmt.Sprintf("%s@example.com", id),
		Username:  fmt.Sprintf("member%03d", idx),
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithUserID overrides the generated user ID.
func WithUserID(id string) UserOption {
	return func(f *UserFixture) {
		f.ID = id
	}
}

// WithUsername overrides the generated username.
func WithUsername(username string) UserOption {
	return func(f *UserFixture) {
		f.Username = username
	}
}

// WithMembership appends a host membership to the fixture.
func WithMembership(host, role string) UserOption {
	return func(f *UserFixture) {
		f.Memberships = append(f.Memberships, application.Membership{
			Host:     host,
			Role:     role,
			JoinedAt: f.CreatedAt,
		})
	}
}

// Application returns the fixture as an application.User value.
func (f UserFixture) Application() application.User {
	return application.User{
		ID:          f.ID,
		Email:       f.Email,
		Username:    f.Username,
		Memberships: append([]application.Membership(nil), f.Memberships...),
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

// Principal returns an application.Principal derived from the fixture.
func (f UserFixture) Principal() application.Principal {
	return application.Principal{
		UserID:             f.ID,
		Username:           f.Username,
		Email:              f.Email,
		IsRegisteredMember: len(f.Memberships) > 0,
		Memberships:        append([]application.Membership(nil), f.Memberships...),
	}
}

// ----------------------------- Group fixtures ----------------------------

// GroupFixture represents a deterministic group record for tests.
type GroupFixture struct {
	ID            string
	AdminID       string
	AdminUsername string
	Title         string
	Description   string
	Capacity      int
	Members       []application.GroupMember
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// GroupOption configures the generated group fixture.
type GroupOption func(*GroupFixture)

// NewGroupFixture returns a deterministic group fixture with optional overrides.
func NewGroupFixture(opts ...GroupOption) GroupFixture {
	idx := atomic.AddUint64(&groupCounter, 1)
	id := fmt.Sprintf("group-%03d", idx)
	admin := fmt.Sprintf("user-%03d", idx)
	fixture := GroupFixture{
		ID:            id,
		AdminID:       admin,
		AdminUsername: fmt.Sprintf("member%03d", idx),
		Title:         fmt.Sprintf("Group %03d", idx),
		Description:   "A reading group.",
		Capacity:      application.DefaultGroupCapacity,
		CreatedAt:     referenceTime,
		UpdatedAt:     referenceTime,
	}
	fixture.Members = []application.GroupMember{{
		MemberID: admin,
		Username: fixture.AdminUsername,
		JoinedAt: referenceTime,
	}}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithGroupID overrides the group ID.
func WithGroupID(id string) GroupOption {
	return func(f *GroupFixture) {
		f.ID = id
	}
}

// WithGroupAdmin sets the admin identity on the fixture.
func WithGroupAdmin(id, username string) GroupOption {
	return func(f *GroupFixture) {
		f.AdminID = id
		f.AdminUsername = username
		if len(f.Members) > 0 {
			f.Members[0].MemberID = id
			f.Members[0].Username = username
		}
	}
}

// WithGroupTitle overrides the title.
func WithGroupTitle(title string) GroupOption {
	return func(f *GroupFixture) {
		f.Title = title
	}
}

// Application returns the fixture as an application.Group value.
func (f GroupFixture) Application() application.Group {
	return application.Group{
		ID:            f.ID,
		AdminID:       f.AdminID,
		AdminUsername: f.AdminUsername,
		Title:         f.Title,
		Description:   f.Description,
		Capacity:      f.Capacity,
		IsPublished:   true,
		Members:       append([]application.GroupMember(nil), f.Members...),
		CreatedAt:     f.CreatedAt,
		UpdatedAt:     f.UpdatedAt,
	}
}

// --------------------------- Activity fixtures ---------------------------

// ActivityFixture represents a deterministic activity record for tests.
type ActivityFixture struct {
	ID          string
	AuthorID    string
	AuthorName  string
	Title       string
	IsPublic    bool
	Occurrences []application.Occurrence
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ActivityOption configures the generated activity fixture.
type ActivityOption func(*ActivityFixture)

// NewActivityFixture returns a deterministic activity fixture with optional overrides.
func NewActivityFixture(opts ...ActivityOption) ActivityFixture {
	idx := atomic.AddUint64(&activityCounter, 1)
	id := fmt.Sprintf("activity-%03d", idx)
	author := fmt.Sprintf("user-%03d", idx)
	fixture := ActivityFixture{
		ID:         id,
		AuthorID:   author,
		AuthorName: fmt.Sprintf("member%03d", idx),
		Title:      fmt.Sprintf("Activity %03d", idx),
		IsPublic:   true,
		Occurrences: []application.Occurrence{{
			StartDate: "2024-04-01",
			EndDate:   "2024-04-01",
			StartTime: "10:00",
			EndTime:   "12:00",
			Capacity:  20,
		}},
		CreatedAt: referenceTime,
		UpdatedAt: referenceTime,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithActivityAuthor sets the author identity on the fixture.
func WithActivityAuthor(id, username string) ActivityOption {
	return func(f *ActivityFixture) {
		f.AuthorID = id
		f.AuthorName = username
	}
}

// WithActivityVisibility sets the public flag on the fixture.
func WithActivityVisibility(public bool) ActivityOption {
	return func(f *ActivityFixture) {
		f.IsPublic = public
	}
}

// WithActivityOccurrences replaces the occurrence list.
func WithActivityOccurrences(occurrences ...application.Occurrence) ActivityOption {
	return func(f *ActivityFixture) {
		f.Occurrences = append([]application.Occurrence(nil), occurrences...)
	}
}

// Application returns the fixture as an application.Activity value.
func (f ActivityFixture) Application() application.Activity {
	return application.Activity{
		ID:          f.ID,
		AuthorID:    f.AuthorID,
		AuthorName:  f.AuthorName,
		Title:       f.Title,
		IsPublic:    f.IsPublic,
		Occurrences: append([]application.Occurrence(nil), f.Occurrences...),
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

// Input returns the fixture as an application.ActivityInput.
func (f ActivityFixture) Input() application.ActivityInput {
	return application.ActivityInput{
		Title:       f.Title,
		IsPublic:    f.IsPublic,
		Occurrences: append([]application.Occurrence(nil), f.Occurrences...),
	}
}

// ----------------------------- Work fixtures -----------------------------

// WorkFixture represents a deterministic portfolio work record for tests.
type WorkFixture struct {
	ID             string
	AuthorID       string
	AuthorUsername string
	Title          string
	Category       application.WorkCategory
	Images         []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// WorkOption configures the generated work fixture.
type WorkOption func(*WorkFixture)

// NewWorkFixture returns a deterministic work fixture with optional overrides.
func NewWorkFixture(opts ...WorkOption) WorkFixture {
	idx := atomic.AddUint64(&workCounter, 1)
	id := fmt.Sprintf("work-%03d", idx)
	author := fmt.Sprintf("user-%03d", idx)
	fixture := WorkFixture{
		ID:             id,
		AuthorID:       author,
		AuthorUsername: fmt.Sprintf("member%03d", idx),
		Title:          fmt.Sprintf("Work %03d", idx),
		Category:       application.WorkCategory{Label: "ceramics", Color: "hsl(40, 62%, 62%)"},
		Images:         []string{fmt.Sprintf("https://images.example.com/%s.jpg", id)},
		CreatedAt:      referenceTime,
		UpdatedAt:      referenceTime,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithWorkAuthor sets the author identity on the fixture.
func WithWorkAuthor(id, username string) WorkOption {
	return func(f *WorkFixture) {
		f.AuthorID = id
		f.AuthorUsername = username
	}
}

// WithWorkCategory sets the category on the fixture.
func WithWorkCategory(label, color string) WorkOption {
	return func(f *WorkFixture) {
		f.Category = application.WorkCategory{Label: label, Color: color}
	}
}

// Application returns the fixture as an application.Work value.
func (f WorkFixture) Application() application.Work {
	return application.Work{
		ID:             f.ID,
		AuthorID:       f.AuthorID,
		AuthorUsername: f.AuthorUsername,
		Title:          f.Title,
		Category:       f.Category,
		Images:         append([]string(nil), f.Images...),
		CreatedAt:      f.CreatedAt,
		UpdatedAt:      f.UpdatedAt,
	}
}

// Input returns the fixture as an application.WorkInput.
func (f WorkFixture) Input() application.WorkInput {
	return application.WorkInput{
		Title:    f.Title,
		Category: f.Category,
		Images:   append([]string(nil), f.Images...),
	}
}
