package main

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/streamerd/cocoso/internal/application"
	"github.com/streamerd/cocoso/internal/persistence"
)

// The application layer speaks in domain models and expects mutations to
// return the stored state. The persistence layer keeps flattened rows and
// returns bare errors. The adapters below translate between the two, re-reading
// after writes where the stored state is needed.

// mapStorageError translates persistence sentinels into the application
// sentinels the services and the HTTP responder match on. Without this a
// missing row or a unique-constraint hit would surface as a 500 instead of
// 404/409.
func mapStorageError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, persistence.ErrNotFound):
		return application.ErrNotFound
	case errors.Is(err, persistence.ErrDuplicate):
		return application.ErrAlreadyExists
	case errors.Is(err, persistence.ErrForeignKeyViolation):
		return application.ErrNotFound
	}
	return err
}

type userRepositoryAdapter struct {
	repo persistence.UserRepository
}

func newUserRepositoryAdapter(repo persistence.UserRepository) *userRepositoryAdapter {
	return &userRepositoryAdapter{repo: repo}
}

func (a *userRepositoryAdapter) CreateUser(ctx context.Context, user application.User, passwordHash string) (application.User, error) {
	model := toPersistenceUser(user)
	model.PasswordHash = passwordHash
	if err := a.repo.CreateUser(ctx, model); err != nil {
		return application.User{}, mapStorageError(err)
	}
	stored, err := a.repo.GetUser(ctx, user.ID)
	if err != nil {
		return application.User{}, mapStorageError(err)
	}
	return toApplicationUser(stored), nil
}

func (a *userRepositoryAdapter) GetUser(ctx context.Context, id string) (application.User, error) {
	stored, err := a.repo.GetUser(ctx, id)
	if err != nil {
		return application.User{}, mapStorageError(err)
	}
	return toApplicationUser(stored), nil
}

func (a *userRepositoryAdapter) GetUserCredentialsByEmail(ctx context.Context, email string) (application.UserCredentials, error) {
	stored, err := a.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return application.UserCredentials{}, mapStorageError(err)
	}
	return application.UserCredentials{
		User:         toApplicationUser(stored),
		PasswordHash: stored.PasswordHash,
	}, nil
}

// UpdateUser preserves the stored password hash: profile edits never carry
// credential fields.
func (a *userRepositoryAdapter) UpdateUser(ctx context.Context, user application.User) (application.User, error) {
	current, err := a.repo.GetUser(ctx, user.ID)
	if err != nil {
		return application.User{}, mapStorageError(err)
	}
	model := toPersistenceUser(user)
	model.PasswordHash = current.PasswordHash
	if err := a.repo.UpdateUser(ctx, model); err != nil {
		return application.User{}, mapStorageError(err)
	}
	stored, err := a.repo.GetUser(ctx, user.ID)
	if err != nil {
		return application.User{}, mapStorageError(err)
	}
	return toApplicationUser(stored), nil
}

func (a *userRepositoryAdapter) DeleteUser(ctx context.Context, id string) error {
	return mapStorageError(a.repo.DeleteUser(ctx, id))
}

type sessionRepositoryAdapter struct {
	repo persistence.SessionRepository
}

func newSessionRepositoryAdapter(repo persistence.SessionRepository) *sessionRepositoryAdapter {
	return &sessionRepositoryAdapter{repo: repo}
}

func (a *sessionRepositoryAdapter) CreateSession(ctx context.Context, session application.Session) (application.Session, error) {
	stored, err := a.repo.CreateSession(ctx, toPersistenceSession(session))
	if err != nil {
		return application.Session{}, mapStorageError(err)
	}
	return toApplicationSession(stored), nil
}

func (a *sessionRepositoryAdapter) GetSession(ctx context.Context, token string) (application.Session, error) {
	stored, err := a.repo.GetSession(ctx, token)
	if err != nil {
		return application.Session{}, mapStorageError(err)
	}
	return toApplicationSession(stored), nil
}

func (a *sessionRepositoryAdapter) RevokeSession(ctx context.Context, token string, revokedAt time.Time) (application.Session, error) {
	stored, err := a.repo.RevokeSession(ctx, token, revokedAt)
	if err != nil {
		return application.Session{}, mapStorageError(err)
	}
	return toApplicationSession(stored), nil
}

func (a *sessionRepositoryAdapter) DeleteExpiredSessions(ctx context.Context, reference time.Time) error {
	return mapStorageError(a.repo.DeleteExpiredSessions(ctx, reference))
}

type bookingRepositoryAdapter struct {
	repo persistence.BookingRepository
}

func newBookingRepositoryAdapter(repo persistence.BookingRepository) *bookingRepositoryAdapter {
	return &bookingRepositoryAdapter{repo: repo}
}

func (a *bookingRepositoryAdapter) CreateBooking(ctx context.Context, booking application.Booking) (application.Booking, error) {
	if err := a.repo.CreateBooking(ctx, toPersistenceBooking(booking)); err != nil {
		return application.Booking{}, mapStorageError(err)
	}
	stored, err := a.repo.GetBooking(ctx, booking.ID)
	if err != nil {
		return application.Booking{}, mapStorageError(err)
	}
	return toApplicationBooking(stored), nil
}

func (a *bookingRepositoryAdapter) GetBooking(ctx context.Context, id string) (application.Booking, error) {
	stored, err := a.repo.GetBooking(ctx, id)
	if err != nil {
		return application.Booking{}, mapStorageError(err)
	}
	return toApplicationBooking(stored), nil
}

func (a *bookingRepositoryAdapter) UpdateBooking(ctx context.Context, booking application.Booking) (application.Booking, error) {
	if err := a.repo.UpdateBooking(ctx, toPersistenceBooking(booking)); err != nil {
		return application.Booking{}, mapStorageError(err)
	}
	stored, err := a.repo.GetBooking(ctx, booking.ID)
	if err != nil {
		return application.Booking{}, mapStorageError(err)
	}
	return toApplicationBooking(stored), nil
}

func (a *bookingRepositoryAdapter) ListBookingsByAuthor(ctx context.Context, authorID string) ([]application.Booking, error) {
	models, err := a.repo.ListBookingsByAuthor(ctx, authorID)
	if err != nil {
		return nil, mapStorageError(err)
	}
	return toApplicationBookings(models), nil
}

func (a *bookingRepositoryAdapter) ListPublishedBookings(ctx context.Context) ([]application.Booking, error) {
	models, err := a.repo.ListPublishedBookings(ctx)
	if err != nil {
		return nil, mapStorageError(err)
	}
	return toApplicationBookings(models), nil
}

type roomCatalogAdapter struct {
	repo persistence.RoomRepository
}

func newRoomCatalogAdapter(repo persistence.RoomRepository) *roomCatalogAdapter {
	return &roomCatalogAdapter{repo: repo}
}

func (a *roomCatalogAdapter) ListRooms(ctx context.Context) ([]application.Room, error) {
	models, err := a.repo.ListRooms(ctx)
	if err != nil {
		return nil, mapStorageError(err)
	}
	if len(models) == 0 {
		return nil, nil
	}
	rooms := make([]application.Room, 0, len(models))
	for _, model := range models {
		rooms = append(rooms, application.Room{ID: model.ID, Name: model.Name, CreatedAt: model.CreatedAt})
	}
	return rooms, nil
}

func (a *roomCatalogAdapter) AddRoom(ctx context.Context, room application.Room) (application.Room, error) {
	model := persistence.Room{ID: room.ID, Name: room.Name, CreatedAt: room.CreatedAt}
	if err := a.repo.CreateRoom(ctx, model); err != nil {
		return application.Room{}, mapStorageError(err)
	}
	return room, nil
}

type groupRepositoryAdapter struct {
	repo persistence.GroupRepository
}

func newGroupRepositoryAdapter(repo persistence.GroupRepository) *groupRepositoryAdapter {
	return &groupRepositoryAdapter{repo: repo}
}

func (a *groupRepositoryAdapter) CreateGroup(ctx context.Context, group application.Group, adminRef application.GroupRef) (application.Group, error) {
	if err := a.repo.CreateGroup(ctx, toPersistenceGroup(group), toPersistenceGroupRef(group.AdminID, adminRef)); err != nil {
		return application.Group{}, mapStorageError(err)
	}
	stored, err := a.repo.GetGroup(ctx, group.ID)
	if err != nil {
		return application.Group{}, mapStorageError(err)
	}
	return toApplicationGroup(stored), nil
}

func (a *groupRepositoryAdapter) GetGroup(ctx context.Context, id string) (application.Group, error) {
	stored, err := a.repo.GetGroup(ctx, id)
	if err != nil {
		return application.Group{}, mapStorageError(err)
	}
	return toApplicationGroup(stored), nil
}

func (a *groupRepositoryAdapter) UpdateGroup(ctx context.Context, group application.Group) (application.Group, error) {
	if err := a.repo.UpdateGroup(ctx, toPersistenceGroup(group)); err != nil {
		return application.Group{}, mapStorageError(err)
	}
	stored, err := a.repo.GetGroup(ctx, group.ID)
	if err != nil {
		return application.Group{}, mapStorageError(err)
	}
	return toApplicationGroup(stored), nil
}

func (a *groupRepositoryAdapter) ListGroups(ctx context.Context) ([]application.Group, error) {
	models, err := a.repo.ListGroups(ctx)
	if err != nil {
		return nil, mapStorageError(err)
	}
	if len(models) == 0 {
		return nil, nil
	}
	groups := make([]application.Group, 0, len(models))
	for _, model := range models {
		groups = append(groups, toApplicationGroup(model))
	}
	return groups, nil
}

func (a *groupRepositoryAdapter) AddMember(ctx context.Context, groupID string, member application.GroupMember, ref application.GroupRef) error {
	model := persistence.GroupMember{
		GroupID:   groupID,
		MemberID:  member.MemberID,
		Username:  member.Username,
		AvatarSrc: member.AvatarSrc,
		JoinedAt:  member.JoinedAt,
	}
	return mapStorageError(a.repo.AddMember(ctx, groupID, model, toPersistenceGroupRef(member.MemberID, ref)))
}

func (a *groupRepositoryAdapter) RemoveMember(ctx context.Context, groupID, userID string) error {
	return mapStorageError(a.repo.RemoveMember(ctx, groupID, userID))
}

// hostRepositoryAdapter backs both the settings operations of the host
// service and the participation operations of the profile service.
type hostRepositoryAdapter struct {
	repo persistence.HostRepository
}

func newHostRepositoryAdapter(repo persistence.HostRepository) *hostRepositoryAdapter {
	return &hostRepositoryAdapter{repo: repo}
}

func (a *hostRepositoryAdapter) GetHostSettings(ctx context.Context, host string) (application.HostSettings, error) {
	stored, err := a.repo.GetHostSettings(ctx, host)
	if err != nil {
		return application.HostSettings{}, mapStorageError(err)
	}
	return toApplicationHostSettings(stored), nil
}

func (a *hostRepositoryAdapter) UpdateHostSettings(ctx context.Context, settings application.HostSettings) (application.HostSettings, error) {
	if err := a.repo.UpsertHostSettings(ctx, toPersistenceHostSettings(settings)); err != nil {
		return application.HostSettings{}, mapStorageError(err)
	}
	stored, err := a.repo.GetHostSettings(ctx, settings.Host)
	if err != nil {
		return application.HostSettings{}, mapStorageError(err)
	}
	return toApplicationHostSettings(stored), nil
}

func (a *hostRepositoryAdapter) AddParticipant(ctx context.Context, host string, member application.HostMember, membership application.Membership) error {
	model := persistence.HostMember{
		Host:     host,
		UserID:   member.ID,
		Username: member.Username,
		Email:    member.Email,
		Role:     member.Role,
		JoinedAt: member.JoinedAt,
	}
	mirror := persistence.Membership{
		UserID:   member.ID,
		Host:     membership.Host,
		Role:     membership.Role,
		JoinedAt: membership.JoinedAt,
	}
	return mapStorageError(a.repo.AddParticipant(ctx, host, model, mirror))
}

func (a *hostRepositoryAdapter) RemoveParticipant(ctx context.Context, host, userID string) error {
	return mapStorageError(a.repo.RemoveParticipant(ctx, host, userID))
}

type activityRepositoryAdapter struct {
	repo persistence.ActivityRepository
}

func newActivityRepositoryAdapter(repo persistence.ActivityRepository) *activityRepositoryAdapter {
	return &activityRepositoryAdapter{repo: repo}
}

func (a *activityRepositoryAdapter) CreateActivity(ctx context.Context, activity application.Activity) (application.Activity, error) {
	if err := a.repo.CreateActivity(ctx, toPersistenceActivity(activity)); err != nil {
		return application.Activity{}, mapStorageError(err)
	}
	stored, err := a.repo.GetActivity(ctx, activity.ID)
	if err != nil {
		return application.Activity{}, mapStorageError(err)
	}
	return toApplicationActivity(stored), nil
}

func (a *activityRepositoryAdapter) GetActivity(ctx context.Context, id string) (application.Activity, error) {
	stored, err := a.repo.GetActivity(ctx, id)
	if err != nil {
		return application.Activity{}, mapStorageError(err)
	}
	return toApplicationActivity(stored), nil
}

func (a *activityRepositoryAdapter) UpdateActivity(ctx context.Context, activity application.Activity) (application.Activity, error) {
	if err := a.repo.UpdateActivity(ctx, toPersistenceActivity(activity)); err != nil {
		return application.Activity{}, mapStorageError(err)
	}
	stored, err := a.repo.GetActivity(ctx, activity.ID)
	if err != nil {
		return application.Activity{}, mapStorageError(err)
	}
	return toApplicationActivity(stored), nil
}

func (a *activityRepositoryAdapter) ListActivitiesByAuthor(ctx context.Context, authorID string) ([]application.Activity, error) {
	models, err := a.repo.ListActivitiesByAuthor(ctx, authorID)
	if err != nil {
		return nil, mapStorageError(err)
	}
	return toApplicationActivities(models), nil
}

func (a *activityRepositoryAdapter) ListPublicActivities(ctx context.Context) ([]application.Activity, error) {
	models, err := a.repo.ListPublicActivities(ctx)
	if err != nil {
		return nil, mapStorageError(err)
	}
	return toApplicationActivities(models), nil
}

type workRepositoryAdapter struct {
	repo persistence.WorkRepository
}

func newWorkRepositoryAdapter(repo persistence.WorkRepository) *workRepositoryAdapter {
	return &workRepositoryAdapter{repo: repo}
}

func (a *workRepositoryAdapter) CreateWork(ctx context.Context, work application.Work) (application.Work, error) {
	if err := a.repo.CreateWork(ctx, toPersistenceWork(work)); err != nil {
		return application.Work{}, mapStorageError(err)
	}
	stored, err := a.repo.GetWork(ctx, work.ID)
	if err != nil {
		return application.Work{}, mapStorageError(err)
	}
	return toApplicationWork(stored), nil
}

func (a *workRepositoryAdapter) GetWork(ctx context.Context, id string) (application.Work, error) {
	stored, err := a.repo.GetWork(ctx, id)
	if err != nil {
		return application.Work{}, mapStorageError(err)
	}
	return toApplicationWork(stored), nil
}

func (a *workRepositoryAdapter) UpdateWork(ctx context.Context, work application.Work) (application.Work, error) {
	if err := a.repo.UpdateWork(ctx, toPersistenceWork(work)); err != nil {
		return application.Work{}, mapStorageError(err)
	}
	stored, err := a.repo.GetWork(ctx, work.ID)
	if err != nil {
		return application.Work{}, mapStorageError(err)
	}
	return toApplicationWork(stored), nil
}

func (a *workRepositoryAdapter) DeleteWork(ctx context.Context, id string) error {
	return mapStorageError(a.repo.DeleteWork(ctx, id))
}

func (a *workRepositoryAdapter) ListWorksByAuthor(ctx context.Context, authorID string) ([]application.Work, error) {
	models, err := a.repo.ListWorksByAuthor(ctx, authorID)
	if err != nil {
		return nil, mapStorageError(err)
	}
	if len(models) == 0 {
		return nil, nil
	}
	works := make([]application.Work, 0, len(models))
	for _, model := range models {
		works = append(works, toApplicationWork(model))
	}
	return works, nil
}

// chatAnnouncer satisfies the group service's chat collaborator. The chat
// backend is external to this server, so creation is recorded for the
// operator instead of performed here.
type chatAnnouncer struct {
	logger *slog.Logger
}

func newChatAnnouncer(logger *slog.Logger) *chatAnnouncer {
	if logger == nil {
		logger = slog.Default()
	}
	return &chatAnnouncer{logger: logger}
}

func (c *chatAnnouncer) CreateChat(ctx context.Context, title, groupID string) error {
	c.logger.InfoContext(ctx, "chat channel requested for group", "group_id", groupID, "title", title)
	return nil
}

func toApplicationUser(model persistence.User) application.User {
	var avatar *application.Avatar
	if model.AvatarSrc != nil {
		avatar = &application.Avatar{Src: *model.AvatarSrc}
		if model.AvatarSetAt != nil {
			avatar.SetAt = *model.AvatarSetAt
		}
	}
	memberships := make([]application.Membership, 0, len(model.Memberships))
	for _, m := range model.Memberships {
		memberships = append(memberships, application.Membership{Host: m.Host, Role: m.Role, JoinedAt: m.JoinedAt})
	}
	groups := make([]application.GroupRef, 0, len(model.Groups))
	for _, g := range model.Groups {
		groups = append(groups, application.GroupRef{GroupID: g.GroupID, Name: g.Name, IsAdmin: g.IsAdmin, JoinedAt: g.JoinedAt})
	}
	return application.User{
		ID:            model.ID,
		Email:         model.Email,
		Username:      model.Username,
		FirstName:     model.FirstName,
		LastName:      model.LastName,
		Bio:           model.Bio,
		Avatar:        avatar,
		Memberships:   memberships,
		Groups:        groups,
		Attending:     append([]string(nil), model.Attending...),
		Processes:     append([]string(nil), model.Processes...),
		Notifications: append([]string(nil), model.Notifications...),
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}

func toPersistenceUser(user application.User) persistence.User {
	var avatarSrc *string
	var avatarSetAt *time.Time
	if user.Avatar != nil {
		src := user.Avatar.Src
		setAt := user.Avatar.SetAt
		avatarSrc = &src
		avatarSetAt = &setAt
	}
	memberships := make([]persistence.Membership, 0, len(user.Memberships))
	for _, m := range user.Memberships {
		memberships = append(memberships, persistence.Membership{UserID: user.ID, Host: m.Host, Role: m.Role, JoinedAt: m.JoinedAt})
	}
	groups := make([]persistence.GroupRef, 0, len(user.Groups))
	for _, g := range user.Groups {
		groups = append(groups, persistence.GroupRef{UserID: user.ID, GroupID: g.GroupID, Name: g.Name, IsAdmin: g.IsAdmin, JoinedAt: g.JoinedAt})
	}
	return persistence.User{
		ID:            user.ID,
		Email:         user.Email,
		Username:      user.Username,
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		Bio:           user.Bio,
		AvatarSrc:     avatarSrc,
		AvatarSetAt:   avatarSetAt,
		Memberships:   memberships,
		Groups:        groups,
		Attending:     append([]string(nil), user.Attending...),
		Processes:     append([]string(nil), user.Processes...),
		Notifications: append([]string(nil), user.Notifications...),
		CreatedAt:     user.CreatedAt,
		UpdatedAt:     user.UpdatedAt,
	}
}

func toApplicationSession(model persistence.Session) application.Session {
	return application.Session{
		ID:        model.ID,
		UserID:    model.UserID,
		Token:     model.Token,
		ExpiresAt: model.ExpiresAt,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
		RevokedAt: cloneTime(model.RevokedAt),
	}
}

func toPersistenceSession(session application.Session) persistence.Session {
	return persistence.Session{
		ID:        session.ID,
		UserID:    session.UserID,
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
		RevokedAt: cloneTime(session.RevokedAt),
	}
}

func toApplicationBooking(model persistence.Booking) application.Booking {
	return application.Booking{
		ID:              model.ID,
		AuthorID:        model.AuthorID,
		AuthorName:      model.AuthorName,
		Title:           model.Title,
		LongDescription: model.LongDescription,
		Room:            model.Room,
		RoomIndex:       model.RoomIndex,
		StartDate:       model.StartDate,
		EndDate:         model.EndDate,
		StartTime:       model.StartTime,
		EndTime:         model.EndTime,
		IsFullDay:       model.IsFullDay,
		IsPublished:     model.IsPublished,
		IsSentForReview: model.IsSentForReview,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}

func toApplicationBookings(models []persistence.Booking) []application.Booking {
	if len(models) == 0 {
		return nil
	}
	bookings := make([]application.Booking, 0, len(models))
	for _, model := range models {
		bookings = append(bookings, toApplicationBooking(model))
	}
	return bookings
}

func toPersistenceBooking(booking application.Booking) persistence.Booking {
	return persistence.Booking{
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
		IsSentForReview: booking.IsSentForReview,
		CreatedAt:       booking.CreatedAt,
		UpdatedAt:       booking.UpdatedAt,
	}
}

func toApplicationGroup(model persistence.Group) application.Group {
	members := make([]application.GroupMember, 0, len(model.Members))
	for _, m := range model.Members {
		members = append(members, application.GroupMember{
			MemberID:  m.MemberID,
			Username:  m.Username,
			AvatarSrc: m.AvatarSrc,
			JoinedAt:  m.JoinedAt,
		})
	}
	return application.Group{
		ID:              model.ID,
		AdminID:         model.AdminID,
		AdminUsername:   model.AdminUsername,
		Title:           model.Title,
		Description:     model.Description,
		ReadingMaterial: model.ReadingMaterial,
		Capacity:        model.Capacity,
		ImageURL:        model.ImageURL,
		IsPublished:     model.IsPublished,
		Members:         members,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}

func toPersistenceGroup(group application.Group) persistence.Group {
	members := make([]persistence.GroupMember, 0, len(group.Members))
	for _, m := range group.Members {
		members = append(members, persistence.GroupMember{
			GroupID:   group.ID,
			MemberID:  m.MemberID,
			Username:  m.Username,
			AvatarSrc: m.AvatarSrc,
			JoinedAt:  m.JoinedAt,
		})
	}
	return persistence.Group{
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
		CreatedAt:       group.CreatedAt,
		UpdatedAt:       group.UpdatedAt,
	}
}

func toPersistenceGroupRef(userID string, ref application.GroupRef) persistence.GroupRef {
	return persistence.GroupRef{
		UserID:   userID,
		GroupID:  ref.GroupID,
		Name:     ref.Name,
		IsAdmin:  ref.IsAdmin,
		JoinedAt: ref.JoinedAt,
	}
}

func toApplicationHostSettings(model persistence.HostSettings) application.HostSettings {
	menu := make([]application.MenuItem, 0, len(model.Menu))
	for _, item := range model.Menu {
		menu = append(menu, application.MenuItem{Name: item.Name, Label: item.Label, IsVisible: item.IsVisible})
	}
	categories := make([]application.WorkCategory, 0, len(model.Categories))
	for _, category := range model.Categories {
		categories = append(categories, application.WorkCategory{Label: category.Label, Color: category.Color})
	}
	members := make([]application.HostMember, 0, len(model.Members))
	for _, member := range model.Members {
		members = append(members, application.HostMember{
			ID:       member.UserID,
			Username: member.Username,
			Email:    member.Email,
			Role:     member.Role,
			JoinedAt: member.JoinedAt,
		})
	}
	return application.HostSettings{
		Host:    model.Host,
		Name:    model.Name,
		Email:   model.Email,
		Address: model.Address,
		City:    model.City,
		Country: model.Country,
		LogoURL: model.LogoURL,
		MainColor: application.HSLColor{
			Hue:        model.MainColorH,
			Saturation: model.MainColorS,
			Lightness:  model.MainColorL,
		},
		Menu:       menu,
		Categories: categories,
		Members:    members,
		UpdatedAt:  model.UpdatedAt,
	}
}

func toPersistenceHostSettings(settings application.HostSettings) persistence.HostSettings {
	menu := make([]persistence.MenuItem, 0, len(settings.Menu))
	for _, item := range settings.Menu {
		menu = append(menu, persistence.MenuItem{Name: item.Name, Label: item.Label, IsVisible: item.IsVisible})
	}
	categories := make([]persistence.WorkCategory, 0, len(settings.Categories))
	for _, category := range settings.Categories {
		categories = append(categories, persistence.WorkCategory{Label: category.Label, Color: category.Color})
	}
	members := make([]persistence.HostMember, 0, len(settings.Members))
	for _, member := range settings.Members {
		members = append(members, persistence.HostMember{
			Host:     settings.Host,
			UserID:   member.ID,
			Username: member.Username,
			Email:    member.Email,
			Role:     member.Role,
			JoinedAt: member.JoinedAt,
		})
	}
	return persistence.HostSettings{
		Host:       settings.Host,
		Name:       settings.Name,
		Email:      settings.Email,
		Address:    settings.Address,
		City:       settings.City,
		Country:    settings.Country,
		LogoURL:    settings.LogoURL,
		MainColorH: settings.MainColor.Hue,
		MainColorS: settings.MainColor.Saturation,
		MainColorL: settings.MainColor.Lightness,
		Menu:       menu,
		Categories: categories,
		Members:    members,
		UpdatedAt:  settings.UpdatedAt,
	}
}

func toApplicationActivity(model persistence.Activity) application.Activity {
	occurrences := make([]application.Occurrence, 0, len(model.Occurrences))
	for _, occurrence := range model.Occurrences {
		occurrences = append(occurrences, application.Occurrence{
			StartDate: occurrence.StartDate,
			EndDate:   occurrence.EndDate,
			StartTime: occurrence.StartTime,
			EndTime:   occurrence.EndTime,
			Capacity:  occurrence.Capacity,
			Attendees: append([]string(nil), occurrence.Attendees...),
		})
	}
	return application.Activity{
		ID:              model.ID,
		AuthorID:        model.AuthorID,
		AuthorName:      model.AuthorName,
		Title:           model.Title,
		LongDescription: model.LongDescription,
		Room:            model.Room,
		ImageURL:        model.ImageURL,
		IsPublic:        model.IsPublic,
		Occurrences:     occurrences,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}

func toApplicationActivities(models []persistence.Activity) []application.Activity {
	if len(models) == 0 {
		return nil
	}
	activities := make([]application.Activity, 0, len(models))
	for _, model := range models {
		activities = append(activities, toApplicationActivity(model))
	}
	return activities
}

func toPersistenceActivity(activity application.Activity) persistence.Activity {
	occurrences := make([]persistence.Occurrence, 0, len(activity.Occurrences))
	for position, occurrence := range activity.Occurrences {
		occurrences = append(occurrences, persistence.Occurrence{
			ActivityID: activity.ID,
			Position:   position,
			StartDate:  occurrence.StartDate,
			EndDate:    occurrence.EndDate,
			StartTime:  occurrence.StartTime,
			EndTime:    occurrence.EndTime,
			Capacity:   occurrence.Capacity,
			Attendees:  append([]string(nil), occurrence.Attendees...),
		})
	}
	return persistence.Activity{
		ID:              activity.ID,
		AuthorID:        activity.AuthorID,
		AuthorName:      activity.AuthorName,
		Title:           activity.Title,
		LongDescription: activity.LongDescription,
		Room:            activity.Room,
		ImageURL:        activity.ImageURL,
		IsPublic:        activity.IsPublic,
		Occurrences:     occurrences,
		CreatedAt:       activity.CreatedAt,
		UpdatedAt:       activity.UpdatedAt,
	}
}

func toApplicationWork(model persistence.Work) application.Work {
	return application.Work{
		ID:               model.ID,
		AuthorID:         model.AuthorID,
		AuthorUsername:   model.AuthorUsername,
		Title:            model.Title,
		ShortDescription: model.ShortDescription,
		LongDescription:  model.LongDescription,
		Category:         application.WorkCategory{Label: model.CategoryLabel, Color: model.CategoryColor},
		Images:           append([]string(nil), model.Images...),
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}
}

func toPersistenceWork(work application.Work) persistence.Work {
	return persistence.Work{
		ID:               work.ID,
		AuthorID:         work.AuthorID,
		AuthorUsername:   work.AuthorUsername,
		Title:            work.Title,
		ShortDescription: work.ShortDescription,
		LongDescription:  work.LongDescription,
		CategoryLabel:    work.Category.Label,
		CategoryColor:    work.Category.Color,
		Images:           append([]string(nil), work.Images...),
		CreatedAt:        work.CreatedAt,
		UpdatedAt:        work.UpdatedAt,
	}
}

func cloneTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}
