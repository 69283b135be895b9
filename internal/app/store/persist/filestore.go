// internal/app/store/persist/filestore.go
package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore keeps one <partition>.json file per partition under a base
// directory, each holding a JSON array. Records round-trip time.Time
// fields as RFC 3339 strings via encoding/json. Writes go to a temp
// file first and are renamed into place, so a crash mid-write leaves
// the previous partition contents intact.
type FileStore struct {
	dir string
}

// NewFileStore creates the data directory if missing.
func NewFileStore(dir string) (*FileStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("data directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) path(partition string) string {
	return filepath.Join(f.dir, partition+".json")
}

// Read decodes the partition file into dest. A missing file is not an
// error: the partition simply has no records yet.
func (f *FileStore) Read(ctx context.Context, partition string, dest any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := os.ReadFile(f.path(partition))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read partition %s: %w", partition, err)
	}
	if err := json.Unmarshal(b, dest); err != nil {
		return fmt.Errorf("decode partition %s: %w", partition, err)
	}
	return nil
}

// Write replaces the partition file with records.
func (f *FileStore) Write(ctx context.Context, partition string, records any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode partition %s: %w", partition, err)
	}

	tmp, err := os.CreateTemp(f.dir, partition+"-*.tmp")
	if err != nil {
		return fmt.Errorf("write partition %s: %w", partition, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write partition %s: %w", partition, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write partition %s: %w", partition, err)
	}
	if err := os.Rename(tmpName, f.path(partition)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write partition %s: %w", partition, err)
	}
	return nil
}
