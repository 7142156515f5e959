package main

import (
	"context"
	"testing"

	"restoledger/backend/internal/config"
	"restoledger/backend/internal/domain"
	"restoledger/backend/internal/store/memory"
	"restoledger/backend/internal/suggest"
)

func TestValidateSecurityConfigRejectsWeakValues(t *testing.T) {
	if err := validateSecurityConfig(config.Config{AuthSecret: "short"}); err == nil {
		t.Fatalf("expected short secret to be rejected")
	}
	err := validateSecurityConfig(config.Config{AuthSecret: "0123456789abcdef0123456789abcdef", SeedManagerPassword: "abc"})
	if err == nil {
		t.Fatalf("expected short seed password to be rejected")
	}
}

func TestValidateSecurityConfigAcceptsStrongValues(t *testing.T) {
	err := validateSecurityConfig(config.Config{AuthSecret: "0123456789abcdef0123456789abcdef"})
	if err != nil {
		t.Fatalf("expected strong config to pass, got %v", err)
	}
}

func TestBuildSuggesterUsesStaticWithoutKey(t *testing.T) {
	if _, ok := buildSuggester(config.Config{}).(suggest.Static); !ok {
		t.Fatalf("expected static suggester without an api key")
	}
	chain, ok := buildSuggester(config.Config{GeminiAPIKey: "key"}).(suggest.Chain)
	if !ok || len(chain) != 2 {
		t.Fatalf("expected gemini chain with fallback, got %T", chain)
	}
}

func TestEnsureManagerCreatesAccountOnce(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	if err := ensureManager(ctx, repo, "longpassword"); err != nil {
		t.Fatalf("ensure manager: %v", err)
	}
	if err := ensureManager(ctx, repo, "otherpassword"); err != nil {
		t.Fatalf("ensure manager twice: %v", err)
	}

	users, err := repo.ListUsers(ctx)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 1 || users[0].Role != domain.RoleManager || users[0].Password != "longpassword" {
		t.Fatalf("expected one manager account, got %+v", users)
	}
}

func TestEnsureManagerKeepsSeededAccounts(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewSeeded()

	if err := ensureManager(ctx, repo, "longpassword"); err != nil {
		t.Fatalf("ensure manager: %v", err)
	}
	users, err := repo.ListUsers(ctx)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected seeded accounts untouched, got %d", len(users))
	}
}
