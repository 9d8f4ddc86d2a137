package store

import (
	"context"
	"errors"
	"testing"

	"github.com/erazemk/cruisedesk/internal/db"
	"github.com/erazemk/cruisedesk/internal/model"
)

func registration(email string, role model.Role) model.Registration {
	return model.Registration{
		FullName: "Test User",
		Email:    email,
		Password: "ignored-here",
		Role:     role,
		Country:  "SI",
	}
}

func TestCreateAndGetUser(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, err := CreateUser(ctx, database, registration("agent@example.com", model.RoleAgent), "hash123")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.Email != "agent@example.com" {
		t.Errorf("expected email 'agent@example.com', got %q", user.Email)
	}
	if user.Role != model.RoleAgent {
		t.Errorf("expected role Agent, got %q", user.Role)
	}

	got, err := GetUser(ctx, database, user.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.PasswordHash != "hash123" {
		t.Errorf("expected stored hash, got %q", got.PasswordHash)
	}
}

func TestGetUserByEmailIgnoresCase(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if _, err := CreateUser(ctx, database, registration("Alice@Example.com", model.RoleAdmin), "hash"); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	user, err := GetUserByEmail(ctx, database, "alice@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if user == nil {
		t.Fatal("expected user, got nil")
	}

	missing, err := GetUserByEmail(ctx, database, "bob@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing user")
	}
}

func TestDuplicateEmailConflicts(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateUser(ctx, database, registration("a@example.com", model.RoleAgent), "hash")
	_, err := CreateUser(ctx, database, registration("A@example.com", model.RoleAgent), "hash")
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	n, err := CountUsers(ctx, database)
	if err != nil {
		t.Fatalf("CountUsers: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 user, got %d", n)
	}
}

func TestUpdateUserPassword(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, _ := CreateUser(ctx, database, registration("a@example.com", model.RoleAdmin), "old")
	if err := UpdateUserPassword(ctx, database, user.ID, "new"); err != nil {
		t.Fatalf("UpdateUserPassword: %v", err)
	}
	got, _ := GetUser(ctx, database, user.ID)
	if got.PasswordHash != "new" {
		t.Errorf("expected new hash, got %q", got.PasswordHash)
	}

	if err := UpdateUserPassword(ctx, database, 999, "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
