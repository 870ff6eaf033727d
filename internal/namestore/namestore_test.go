package namestore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"territoryd/internal/namestore"
)

func newTestStore(t *testing.T) *namestore.Store {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping namestore integration test in -short mode")
	}

	ctx := context.Background()
	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("territoryd"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(wait.ForListeningPort("5432/tcp").WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("starting postgres container: %v", err)
	}
	t.Cleanup(func() { _ = ctr.Terminate(ctx) })

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("getting connection string: %v", err)
	}

	if err := namestore.Migrate(ctx, dsn); err != nil {
		t.Fatalf("migrating: %v", err)
	}

	store, err := namestore.Open(ctx, dsn)
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(store.Close)
	return store
}

func TestCreateAndLookupRoundTrips(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Create(ctx, "uuid-1", "Alice"); err != nil {
		t.Fatalf("create: %v", err)
	}

	name, err := store.Lookup(ctx, "uuid-1")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if name != "Alice" {
		t.Fatalf("name = %q, want Alice", name)
	}
}

func TestLookupUnknownUUIDReturnsErrNotFound(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Lookup(context.Background(), "does-not-exist")
	if !errors.Is(err, namestore.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestCreateDuplicateNameReturnsErrNameTaken(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Create(ctx, "uuid-a", "Bob"); err != nil {
		t.Fatalf("create: %v", err)
	}
	err := store.Create(ctx, "uuid-b", "Bob")
	if !errors.Is(err, namestore.ErrNameTaken) {
		t.Fatalf("err = %v, want ErrNameTaken", err)
	}
}

func TestUpdateRenamesExistingPlayer(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Create(ctx, "uuid-c", "Carol"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.Update(ctx, "uuid-c", "Caroline"); err != nil {
		t.Fatalf("update: %v", err)
	}
	name, err := store.Lookup(ctx, "uuid-c")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if name != "Caroline" {
		t.Fatalf("name = %q, want Caroline", name)
	}
}

func TestUpdateUnknownUUIDReturnsErrNotFound(t *testing.T) {
	store := newTestStore(t)
	err := store.Update(context.Background(), "ghost", "Ghost")
	if !errors.Is(err, namestore.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestNameExists(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Create(ctx, "uuid-d", "Dave"); err != nil {
		t.Fatalf("create: %v", err)
	}

	exists, err := store.NameExists(ctx, "Dave")
	if err != nil {
		t.Fatalf("name exists: %v", err)
	}
	if !exists {
		t.Fatal("NameExists(Dave) = false, want true")
	}

	exists, err = store.NameExists(ctx, "Nobody")
	if err != nil {
		t.Fatalf("name exists: %v", err)
	}
	if exists {
		t.Fatal("NameExists(Nobody) = true, want false")
	}
}
