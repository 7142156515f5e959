package httpapi

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"restoledger/backend/internal/domain"
)

type userStoreStub struct {
	mu      sync.Mutex
	users   map[string]domain.UserAccount
	updates int
}

func (s *userStoreStub) CreateUser(_ context.Context, user domain.UserAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.users == nil {
		s.users = make(map[string]domain.UserAccount)
	}
	s.users[user.Username] = user
	return nil
}

func (s *userStoreStub) ListUsers(_ context.Context) ([]domain.UserAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.UserAccount, 0, len(s.users))
	for _, user := range s.users {
		out = append(out, user)
	}
	return out, nil
}

func (s *userStoreStub) UpdateUserPassword(_ context.Context, username string, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user := s.users[username]
	user.Password = password
	s.users[username] = user
	s.updates++
	return nil
}

func plainManagerStore() *userStoreStub {
	return &userStoreStub{
		users: map[string]domain.UserAccount{
			"manager": {
				Username:  "manager",
				Password:  "manager123",
				Role:      domain.RoleManager,
				Active:    true,
				CreatedAt: time.Now().UTC(),
			},
		},
	}
}

func TestAuthManagerUpgradesLegacyPlainPassword(t *testing.T) {
	store := plainManagerStore()
	ctx := context.Background()

	manager := NewAuthManager(ctx, "test-secret", time.Hour, store)
	resp, err := manager.Login(ctx, domain.LoginRequest{
		Username: "Manager",
		Password: "manager123",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if resp.Role != domain.RoleManager {
		t.Fatalf("expected manager role, got %s", resp.Role)
	}

	users, err := store.ListUsers(ctx)
	if err != nil {
		t.Fatalf("list users failed: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("expected 1 user, got %d", len(users))
	}
	if !strings.HasPrefix(users[0].Password, "$2") {
		t.Fatalf("expected bcrypt password hash, got %s", users[0].Password)
	}
}

func TestCreateStaffStoresPasswordHash(t *testing.T) {
	store := plainManagerStore()
	ctx := context.Background()

	manager := NewAuthManager(ctx, "test-secret", time.Hour, store)
	staff, err := manager.CreateStaff(ctx, domain.StaffCreateRequest{
		Username: "dapur01",
		Password: "pass1234",
	})
	if err != nil {
		t.Fatalf("create staff failed: %v", err)
	}
	if staff.Username != "dapur01" || staff.Role != domain.RoleStaff {
		t.Fatalf("unexpected staff %+v", staff)
	}

	saved := store.users["dapur01"]
	if saved.Password == "pass1234" || !strings.HasPrefix(saved.Password, "$2") {
		t.Fatalf("expected staff password to be hashed, got %s", saved.Password)
	}

	resp, err := manager.Login(ctx, domain.LoginRequest{Username: "dapur01", Password: "pass1234"})
	if err != nil {
		t.Fatalf("login with new staff failed: %v", err)
	}
	actor, err := manager.ParseToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if actor.Username != "dapur01" || actor.Role != domain.RoleStaff {
		t.Fatalf("unexpected actor %+v", actor)
	}

	listed := manager.ListStaff(ctx)
	if len(listed) != 1 || listed[0].Username != "dapur01" {
		t.Fatalf("expected only the staff account listed, got %+v", listed)
	}
}

func TestCreateStaffRejectsDuplicateAndShortInput(t *testing.T) {
	ctx := context.Background()
	manager := NewAuthManager(ctx, "test-secret", time.Hour, plainManagerStore())

	if _, err := manager.CreateStaff(ctx, domain.StaffCreateRequest{Username: "manager", Password: "pass1234"}); err == nil {
		t.Fatalf("expected duplicate username to be rejected")
	}
	if _, err := manager.CreateStaff(ctx, domain.StaffCreateRequest{Username: "abc", Password: "pass1234"}); err == nil {
		t.Fatalf("expected short username to be rejected")
	}
	if _, err := manager.CreateStaff(ctx, domain.StaffCreateRequest{Username: "dapur01", Password: "123"}); err == nil {
		t.Fatalf("expected short password to be rejected")
	}
}

func TestParseTokenRejectsForeignSecret(t *testing.T) {
	ctx := context.Background()
	store := plainManagerStore()
	issuer := NewAuthManager(ctx, "secret-one", time.Hour, store)
	verifier := NewAuthManager(ctx, "secret-two", time.Hour, store)

	resp, err := issuer.Login(ctx, domain.LoginRequest{Username: "manager", Password: "manager123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := verifier.ParseToken(resp.AccessToken); err == nil {
		t.Fatalf("expected token signed with another secret to be rejected")
	}
}
