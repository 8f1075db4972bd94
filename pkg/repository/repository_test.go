package repository_test

import (
	"context"
	"os"
	"testing"

	"github.com/andreycorp/grocfriend/pkg/domain/interfaces"
	"github.com/andreycorp/grocfriend/pkg/repository/memory"
	"github.com/andreycorp/grocfriend/pkg/repository/postgres"
)

func newMemoryRepository(t *testing.T) interfaces.Repository {
	t.Helper()
	return memory.New()
}

func newPostgresRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}

	ctx := context.Background()
	client, err := postgres.New(ctx, dsn)
	if err != nil {
		t.Fatalf("Failed to create postgres client: %v", err)
	}
	if err := client.Migrate(ctx); err != nil {
		t.Fatalf("Failed to migrate postgres schema: %v", err)
	}

	t.Cleanup(func() {
		if err := client.Close(); err != nil {
			t.Logf("Failed to close postgres client: %v", err)
		}
	})

	return client
}
