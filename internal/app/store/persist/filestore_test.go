// internal/app/store/persist/filestore_test.go
package persist

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/learnloop/learnloop/internal/domain/models"
)

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	ctx := context.Background()

	in := []models.User{
		{ID: "u1", Email: "a@test.com", Name: "Alice", CreatedAt: time.Now().UTC().Truncate(time.Second)},
		{ID: "u2", Email: "b@test.com", Name: "Bob", Groups: []string{"g1"}},
	}
	if err := store.Write(ctx, PartitionUsers, in); err != nil {
		t.Fatalf("Write: %v", err)
	}

	var out []models.User
	if err := store.Read(ctx, PartitionUsers, &out); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d users, want 2", len(out))
	}
	if out[0].ID != "u1" || out[1].ID != "u2" {
		t.Errorf("order not preserved: %s, %s", out[0].ID, out[1].ID)
	}
	if len(out[1].Groups) != 1 || out[1].Groups[0] != "g1" {
		t.Errorf("groups not round-tripped: %v", out[1].Groups)
	}
}

func TestFileStoreMissingPartition(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	out := []models.Group{{ID: "sentinel"}}
	if err := store.Read(context.Background(), PartitionGroups, &out); err != nil {
		t.Fatalf("Read of missing partition: %v", err)
	}
	// Dest must be left untouched when the partition does not exist.
	if len(out) != 1 || out[0].ID != "sentinel" {
		t.Errorf("dest modified on missing partition: %v", out)
	}
}

func TestFileStoreOverwrite(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	ctx := context.Background()

	if err := store.Write(ctx, PartitionMessages, []models.Message{{ID: "m1"}, {ID: "m2"}}); err != nil {
		t.Fatalf("first Write: %v", err)
	}
	if err := store.Write(ctx, PartitionMessages, []models.Message{{ID: "m3"}}); err != nil {
		t.Fatalf("second Write: %v", err)
	}

	var out []models.Message
	if err := store.Read(ctx, PartitionMessages, &out); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(out) != 1 || out[0].ID != "m3" {
		t.Errorf("write is not a wholesale replace: %v", out)
	}

	// No temp files may linger after a successful write.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) != ".json" {
			t.Errorf("unexpected leftover file %s", e.Name())
		}
	}
}

func TestFileStoreEmptySlice(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	ctx := context.Background()

	if err := store.Write(ctx, PartitionResponses, []models.Response{}); err != nil {
		t.Fatalf("Write empty: %v", err)
	}
	out := []models.Response{{ID: "stale"}}
	if err := store.Read(ctx, PartitionResponses, &out); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("got %d responses, want 0", len(out))
	}
}
