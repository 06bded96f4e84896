package sqlite

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/streamerd/cocoso/internal/persistence"
)

func seedGroup(t *testing.T, pool *ConnectionPool, groupID, adminID string) {
	t.Helper()

	repo := NewGroupRepository(pool)
	err := repo.CreateGroup(context.Background(), persistence.Group{
		ID:            groupID,
		AdminID:       adminID,
		AdminUsername: adminID,
		Title:         "Readers",
		Description:   "A reading group",
		Capacity:      20,
		Members: []persistence.GroupMember{
			{GroupID: groupID, MemberID: adminID, Username: adminID, JoinedAt: fixedTime()},
		},
		CreatedAt: fixedTime(),
		UpdatedAt: fixedTime(),
	}, persistence.GroupRef{
		UserID: adminID, GroupID: groupID, Name: "Readers", IsAdmin: true, JoinedAt: fixedTime(),
	})
	if err != nil {
		t.Fatalf("seed group %s: %v", groupID, err)
	}
}

func TestGroupRepository_CreateGroupSeedsBothSides(t *testing.T) {
	pool := setupPool(t)
	groups := NewGroupRepository(pool)
	users := NewUserRepository(pool)
	ctx := context.Background()

	seedUser(t, pool, "admin", "admin@example.org", "admin")
	seedGroup(t, pool, "g1", "admin")

	group, err := groups.GetGroup(ctx, "g1")
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if len(group.Members) != 1 || group.Members[0].MemberID != "admin" {
		t.Fatalf("expected the admin as the sole member, got %+v", group.Members)
	}

	admin, err := users.GetUser(ctx, "admin")
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if len(admin.Groups) != 1 || !admin.Groups[0].IsAdmin || admin.Groups[0].GroupID != "g1" {
		t.Fatalf("expected the admin mirror entry, got %+v", admin.Groups)
	}
}

func TestGroupRepository_JoinLeaveRoundTrip(t *testing.T) {
	pool := setupPool(t)
	groups := NewGroupRepository(pool)
	users := NewUserRepository(pool)
	ctx := context.Background()

	seedUser(t, pool, "admin", "admin@example.org", "admin")
	seedUser(t, pool, "u2", "grace@example.org", "grace")
	seedGroup(t, pool, "g1", "admin")

	err := groups.AddMember(ctx, "g1",
		persistence.GroupMember{GroupID: "g1", MemberID: "u2", Username: "grace", JoinedAt: fixedTime()},
		persistence.GroupRef{UserID: "u2", GroupID: "g1", Name: "Readers", JoinedAt: fixedTime()},
	)
	if err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	group, _ := groups.GetGroup(ctx, "g1")
	if len(group.Members) != 2 {
		t.Fatalf("expected 2 members after join, got %d", len(group.Members))
	}
	joiner, _ := users.GetUser(ctx, "u2")
	if len(joiner.Groups) != 1 {
		t.Fatalf("expected the mirror entry after join, got %+v", joiner.Groups)
	}

	if err := groups.RemoveMember(ctx, "g1", "u2"); err != nil {
		t.Fatalf("RemoveMember failed: %v", err)
	}

	group, _ = groups.GetGroup(ctx, "g1")
	if len(group.Members) != 1 || group.Members[0].MemberID != "admin" {
		t.Fatalf("expected the member list restored, got %+v", group.Members)
	}
	joiner, _ = users.GetUser(ctx, "u2")
	if len(joiner.Groups) != 0 {
		t.Fatalf("expected the mirror restored, got %+v", joiner.Groups)
	}
}

func TestGroupRepository_ConcurrentJoins(t *testing.T) {
	pool := setupPool(t)
	groups := NewGroupRepository(pool)
	ctx := context.Background()

	seedUser(t, pool, "admin", "admin@example.org", "admin")
	seedUser(t, pool, "u2", "grace@example.org", "grace")
	seedUser(t, pool, "u3", "joan@example.org", "joan")
	seedGroup(t, pool, "g1", "admin")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, id := range []string{"u2", "u3"} {
		wg.Add(1)
		go func(slot int, userID string) {
			defer wg.Done()
			errs[slot] = groups.AddMember(ctx, "g1",
				persistence.GroupMember{GroupID: "g1", MemberID: userID, Username: userID, JoinedAt: fixedTime()},
				persistence.GroupRef{UserID: userID, GroupID: "g1", Name: "Readers", JoinedAt: fixedTime()},
			)
		}(i, id)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("concurrent join %d failed: %v", i, err)
		}
	}

	group, err := groups.GetGroup(ctx, "g1")
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	seen := map[string]bool{}
	for _, member := range group.Members {
		seen[member.MemberID] = true
	}
	if !seen["u2"] || !seen["u3"] {
		t.Fatalf("expected both joiners present, got %+v", group.Members)
	}
}

func TestGroupRepository_DuplicateJoinIsNoOp(t *testing.T) {
	pool := setupPool(t)
	groups := NewGroupRepository(pool)
	ctx := context.Background()

	seedUser(t, pool, "admin", "admin@example.org", "admin")
	seedUser(t, pool, "u2", "grace@example.org", "grace")
	seedGroup(t, pool, "g1", "admin")

	member := persistence.GroupMember{GroupID: "g1", MemberID: "u2", Username: "grace", JoinedAt: fixedTime()}
	ref := persistence.GroupRef{UserID: "u2", GroupID: "g1", Name: "Readers", JoinedAt: fixedTime()}

	if err := groups.AddMember(ctx, "g1", member, ref); err != nil {
		t.Fatalf("first join failed: %v", err)
	}
	if err := groups.AddMember(ctx, "g1", member, ref); err != nil {
		t.Fatalf("second join failed: %v", err)
	}

	group, _ := groups.GetGroup(ctx, "g1")
	count := 0
	for _, m := range group.Members {
		if m.MemberID == "u2" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected set semantics on the member list, found %d rows", count)
	}
}

func TestGroupRepository_AddMemberUnknownGroup(t *testing.T) {
	pool := setupPool(t)
	groups := NewGroupRepository(pool)

	err := groups.AddMember(context.Background(), "missing",
		persistence.GroupMember{GroupID: "missing", MemberID: "u1", JoinedAt: fixedTime()},
		persistence.GroupRef{UserID: "u1", GroupID: "missing", JoinedAt: fixedTime()},
	)
	if !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
