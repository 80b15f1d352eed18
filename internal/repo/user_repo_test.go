package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/versaforge/go-agent-backend/internal/domain"
)

func TestGetUserByUsername(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	u := mustCreateUser(t, db, "ada")

	got, err := GetUserByUsername(ctx, db, "ada")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("wrong user %d", got.ID)
	}

	if _, err := GetUserByUsername(ctx, db, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing: want ErrNotFound, got %v", err)
	}
}

func TestFindUserByUsernameOrEmail(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	u := mustCreateUser(t, db, "ada")

	byName, err := FindUserByUsernameOrEmail(ctx, db, "ada", "unused@example.com")
	if err != nil || byName.ID != u.ID {
		t.Fatalf("by name: %v %v", byName, err)
	}
	byMail, err := FindUserByUsernameOrEmail(ctx, db, "unused", "ada@example.com")
	if err != nil || byMail.ID != u.ID {
		t.Fatalf("by mail: %v %v", byMail, err)
	}
	if _, err := FindUserByUsernameOrEmail(ctx, db, "x", "x@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("neither: want ErrNotFound, got %v", err)
	}
}

func TestEmailTaken(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	u := mustCreateUser(t, db, "ada")

	taken, err := EmailTaken(ctx, db, "ada@example.com", 0)
	if err != nil || !taken {
		t.Fatalf("taken = %v err = %v", taken, err)
	}
	// Excluding the owner makes their own email free (profile updates).
	taken, err = EmailTaken(ctx, db, "ada@example.com", u.ID)
	if err != nil || taken {
		t.Fatalf("self-excluded taken = %v err = %v", taken, err)
	}
	taken, err = EmailTaken(ctx, db, "free@example.com", 0)
	if err != nil || taken {
		t.Fatalf("free taken = %v err = %v", taken, err)
	}
}

func TestDeleteUser(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	u := mustCreateUser(t, db, "ada")
	if err := DeleteUser(ctx, db, u.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := DeleteUser(ctx, db, u.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete again: want ErrNotFound, got %v", err)
	}
}

func TestUserGroupMembership(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	u := mustCreateUser(t, db, "ada")
	g1 := &domain.Group{Name: "g1"}
	g2 := &domain.Group{Name: "g2"}
	if err := CreateGroup(ctx, db, g1); err != nil {
		t.Fatalf("g1: %v", err)
	}
	if err := CreateGroup(ctx, db, g2); err != nil {
		t.Fatalf("g2: %v", err)
	}

	if err := AddUserToGroup(ctx, db, u.ID, g1.ID); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := AddUserToGroup(ctx, db, u.ID, g2.ID); err != nil {
		t.Fatalf("add: %v", err)
	}
	// A second identical insert trips the composite primary key.
	if err := AddUserToGroup(ctx, db, u.ID, g1.ID); !IsUniqueViolation(err) {
		t.Fatalf("duplicate membership: want unique violation, got %v", err)
	}

	ids, err := ListUserGroupIDs(ctx, db, u.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("ids = %v", ids)
	}

	if err := DeleteUserGroups(ctx, db, u.ID); err != nil {
		t.Fatalf("clear: %v", err)
	}
	ids, err = ListUserGroupIDs(ctx, db, u.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("memberships survived: %v", ids)
	}
}
