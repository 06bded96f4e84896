package http

import (
	"time"

	"github.com/streamerd/cocoso/internal/application"
)

// The response structs below shape the JSON surface of the API. Timestamps
// are emitted as RFC 3339 strings; calendar dates and wall-clock times kept
// as strings on the models pass through untouched.

type userResponse struct {
	ID                 string               `json:"id"`
	Email              string               `json:"email"`
	Username           string               `json:"username"`
	FirstName          string               `json:"first_name,omitempty"`
	LastName           string               `json:"last_name,omitempty"`
	Bio                string               `json:"bio,omitempty"`
	Avatar             *avatarResponse      `json:"avatar,omitempty"`
	IsRegisteredMember bool                 `json:"is_registered_member"`
	Memberships        []membershipResponse `json:"memberships"`
	Groups             []groupRefResponse   `json:"groups"`
	Attending          []string             `json:"attending"`
	CreatedAt          string               `json:"created_at"`
	UpdatedAt          string               `json:"updated_at"`
}

type avatarResponse struct {
	Src   string `json:"src"`
	SetAt string `json:"set_at"`
}

type membershipResponse struct {
	Host     string `json:"host"`
	Role     string `json:"role"`
	JoinedAt string `json:"joined_at"`
}

type groupRefResponse struct {
	GroupID  string `json:"group_id"`
	Name     string `json:"name"`
	IsAdmin  bool   `json:"is_admin"`
	JoinedAt string `json:"joined_at"`
}

func toUserResponse(user application.User) userResponse {
	resp := userResponse{
		ID:                 user.ID,
		Email:              user.Email,
		Username:           user.Username,
		FirstName:          user.FirstName,
		LastName:           user.LastName,
		Bio:                user.Bio,
		IsRegisteredMember: len(user.Memberships) > 0,
		Memberships:        make([]membershipResponse, 0, len(user.Memberships)),
		Groups:             make([]groupRefResponse, 0, len(user.Groups)),
		Attending:          user.Attending,
		CreatedAt:          formatTimestamp(user.CreatedAt),
		UpdatedAt:          formatTimestamp(user.UpdatedAt),
	}
	if resp.Attending == nil {
		resp.Attending = []string{}
	}
	if user.Avatar != nil {
		resp.Avatar = &avatarResponse{
			Src:   user.Avatar.Src,
			SetAt: formatTimestamp(user.Avatar.SetAt),
		}
	}
	for _, m := range user.Memberships {
		resp.Memberships = append(resp.Memberships, membershipResponse{
			Host:     m.Host,
			Role:     m.Role,
			JoinedAt: formatTimestamp(m.JoinedAt),
		})
	}
	for _, g := range user.Groups {
		resp.Groups = append(resp.Groups, groupRefResponse{
			GroupID:  g.GroupID,
			Name:     g.Name,
			IsAdmin:  g.IsAdmin,
			JoinedAt: formatTimestamp(g.JoinedAt),
		})
	}
	return resp
}

type bookingResponse struct {
	ID              string `json:"id"`
	AuthorID        string `json:"author_id"`
	AuthorName      string `json:"author_name"`
	Title           string `json:"title"`
	LongDescription string `json:"long_description,omitempty"`
	Room            string `json:"room"`
	RoomIndex       string `json:"room_index"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	IsFullDay       bool   `json:"is_full_day"`
	IsPublished     bool   `json:"is_published"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

func toBookingResponse(booking application.Booking) bookingResponse {
	return bookingResponse{
		ID:              booking.ID,
		AuthorID:        booking.AuthorID,
		AuthorName:      booking.AuthorName,
		Title:           booking.Title,
		LongDescription: booking.LongDescription,
		Room:            booking.Room,
		RoomIndex:       booking.RoomIndex,
		StartDate:       booking.StartDate,
		EndDate:         booking.EndDate,
		StartTime:       booking.StartTime,
		EndTime:         booking.EndTime,
		IsFullDay:       booking.IsFullDay,
		IsPublished:     booking.IsPublished,
		CreatedAt:       formatTimestamp(booking.CreatedAt),
		UpdatedAt:       formatTimestamp(booking.UpdatedAt),
	}
}

func toBookingResponses(bookings []application.Booking) []bookingResponse {
	responses := make([]bookingResponse, 0, len(bookings))
	for _, booking := range bookings {
		responses = append(responses, toBookingResponse(booking))
	}
	return responses
}

type roomResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

func toRoomResponses(rooms []application.Room) []roomResponse {
	responses := make([]roomResponse, 0, len(rooms))
	for _, room := range rooms {
		responses = append(responses, roomResponse{
			ID:        room.ID,
			Name:      room.Name,
			CreatedAt: formatTimestamp(room.CreatedAt),
		})
	}
	return responses
}

type groupMemberResponse struct {
	MemberID  string `json:"member_id"`
	Username  string `json:"username"`
	AvatarSrc string `json:"avatar_src,omitempty"`
	JoinedAt  string `json:"joined_at"`
}

type groupResponse struct {
	ID              string                `json:"id"`
	AdminID         string                `json:"admin_id"`
	AdminUsername   string                `json:"admin_username"`
	Title           string                `json:"title"`
	Description     string                `json:"description"`
	ReadingMaterial string                `json:"reading_material,omitempty"`
	Capacity        int                   `json:"capacity"`
	ImageURL        string                `json:"image_url,omitempty"`
	IsPublished     bool                  `json:"is_published"`
	Members         []groupMemberResponse `json:"members"`
	CreatedAt       string                `json:"created_at"`
	UpdatedAt       string                `json:"updated_at"`
}

func toGroupResponse(group application.Group) groupResponse {
	members := make([]groupMemberResponse, 0, len(group.Members))
	for _, member := range group.Members {
		members = append(members, groupMemberResponse{
			MemberID:  member.MemberID,
			Username:  member.Username,
			AvatarSrc: member.AvatarSrc,
			JoinedAt:  formatTimestamp(member.JoinedAt),
		})
	}
	return groupResponse{
		ID:              group.ID,
		AdminID:         group.AdminID,
		AdminUsername:   group.AdminUsername,
		Title:           group.Title,
		Description:     group.Description,
		ReadingMaterial: group.ReadingMaterial,
		Capacity:        group.Capacity,
		ImageURL:        group.ImageURL,
		IsPublished:     group.IsPublished,
		Members:         members,
		CreatedAt:       formatTimestamp(group.CreatedAt),
		UpdatedAt:       formatTimestamp(group.UpdatedAt),
	}
}

func toGroupResponses(groups []application.Group) []groupResponse {
	responses := make([]groupResponse, 0, len(groups))
	for _, group := range groups {
		responses = append(responses, toGroupResponse(group))
	}
	return responses
}

type occurrencePayload struct {
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
	StartTime string   `json:"start_time"`
	EndTime   string   `json:"end_time"`
	Capacity  int      `json:"capacity"`
	Attendees []string `json:"attendees,omitempty"`
}

type activityResponse struct {
	ID              string              `json:"id"`
	AuthorID        string              `json:"author_id"`
	AuthorName      string              `json:"author_name"`
	Title           string              `json:"title"`
	LongDescription string              `json:"long_description,omitempty"`
	Room            string              `json:"room,omitempty"`
	ImageURL        string              `json:"image_url,omitempty"`
	IsPublic        bool                `json:"is_public"`
	Occurrences     []occurrencePayload `json:"occurrences"`
	CreatedAt       string              `json:"created_at"`
	UpdatedAt       string              `json:"updated_at"`
}

func toActivityResponse(activity application.Activity) activityResponse {
	occurrences := make([]occurrencePayload, 0, len(activity.Occurrences))
	for _, occ := range activity.Occurrences {
		occurrences = append(occurrences, occurrencePayload{
			StartDate: occ.StartDate,
			EndDate:   occ.EndDate,
			StartTime: occ.StartTime,
			EndTime:   occ.EndTime,
			Capacity:  occ.Capacity,
			Attendees: occ.Attendees,
		})
	}
	return activityResponse{
		ID:              activity.ID,
		AuthorID:        activity.AuthorID,
		AuthorName:      activity.AuthorName,
		Title:           activity.Title,
		LongDescription: activity.LongDescription,
		Room:            activity.Room,
		ImageURL:        activity.ImageURL,
		IsPublic:        activity.IsPublic,
		Occurrences:     occurrences,
		CreatedAt:       formatTimestamp(activity.CreatedAt),
		UpdatedAt:       formatTimestamp(activity.UpdatedAt),
	}
}

func toActivityResponses(activities []application.Activity) []activityResponse {
	responses := make([]activityResponse, 0, len(activities))
	for _, activity := range activities {
		responses = append(responses, toActivityResponse(activity))
	}
	return responses
}

type workCategoryPayload struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

type workResponse struct {
	ID               string              `json:"id"`
	AuthorID         string              `json:"author_id"`
	AuthorUsername   string              `json:"author_username"`
	Title            string              `json:"title"`
	ShortDescription string              `json:"short_description,omitempty"`
	LongDescription  string              `json:"long_description,omitempty"`
	Category         workCategoryPayload `json:"category"`
	Images           []string            `json:"images"`
	CreatedAt        string              `json:"created_at"`
	UpdatedAt        string              `json:"updated_at"`
}

func toWorkResponse(work application.Work) workResponse {
	images := work.Images
	if images == nil {
		images = []string{}
	}
	return workResponse{
		ID:               work.ID,
		AuthorID:         work.AuthorID,
		AuthorUsername:   work.AuthorUsername,
		Title:            work.Title,
		ShortDescription: work.ShortDescription,
		LongDescription:  work.LongDescription,
		Category:         workCategoryPayload{Label: work.Category.Label, Color: work.Category.Color},
		Images:           images,
		CreatedAt:        formatTimestamp(work.CreatedAt),
		UpdatedAt:        formatTimestamp(work.UpdatedAt),
	}
}

func toWorkResponses(works []application.Work) []workResponse {
	responses := make([]workResponse, 0, len(works))
	for _, work := range works {
		responses = append(responses, toWorkResponse(work))
	}
	return responses
}

type hslColorPayload struct {
	Hue        int `json:"hue"`
	Saturation int `json:"saturation"`
	Lightness  int `json:"lightness"`
}

type menuItemPayload struct {
	Name      string `json:"name"`
	Label     string `json:"label"`
	IsVisible bool   `json:"is_visible"`
}

type hostMemberResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	JoinedAt string `json:"joined_at"`
}

type hostSettingsResponse struct {
	Host       string                `json:"host"`
	Name       string                `json:"name"`
	Email      string                `json:"email,omitempty"`
	Address    string                `json:"address,omitempty"`
	City       string                `json:"city,omitempty"`
	Country    string                `json:"country,omitempty"`
	LogoURL    string                `json:"logo_url,omitempty"`
	MainColor  hslColorPayload       `json:"main_color"`
	Menu       []menuItemPayload     `json:"menu"`
	Categories []workCategoryPayload `json:"categories"`
	Members    []hostMemberResponse  `json:"members"`
	UpdatedAt  string                `json:"updated_at"`
}

func toHostSettingsResponse(settings application.HostSettings) hostSettingsResponse {
	menu := make([]menuItemPayload, 0, len(settings.Menu))
	for _, item := range settings.Menu {
		menu = append(menu, menuItemPayload{Name: item.Name, Label: item.Label, IsVisible: item.IsVisible})
	}
	categories := make([]workCategoryPayload, 0, len(settings.Categories))
	for _, category := range settings.Categories {
		categories = append(categories, workCategoryPayload{Label: category.Label, Color: category.Color})
	}
	members := make([]hostMemberResponse, 0, len(settings.Members))
	for _, member := range settings.Members {
		members = append(members, hostMemberResponse{
			ID:       member.ID,
			Username: member.Username,
			Email:    member.Email,
			Role:     member.Role,
			JoinedAt: formatTimestamp(member.JoinedAt),
		})
	}
	return hostSettingsResponse{
		Host:       settings.Host,
		Name:       settings.Name,
		Email:      settings.Email,
		Address:    settings.Address,
		City:       settings.City,
		Country:    settings.Country,
		LogoURL:    settings.LogoURL,
		MainColor:  hslColorPayload{Hue: settings.MainColor.Hue, Saturation: settings.MainColor.Saturation, Lightness: settings.MainColor.Lightness},
		Menu:       menu,
		Categories: categories,
		Members:    members,
		UpdatedAt:  formatTimestamp(settings.UpdatedAt),
	}
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}
