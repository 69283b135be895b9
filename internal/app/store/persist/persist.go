// Package persist is the durable substrate under the entity repository:
// named partitions of JSON-serializable records, read and written
// wholesale. Two backends exist behind one contract: a JSON-file store
// (default) and a MongoDB store. Writes are last-write-wins at
// partition granularity; there is no cross-partition atomicity.
package persist

import "context"

// Partition names. Each partition is an independently read/written
// array of records.
const (
	PartitionUsers     = "users"
	PartitionGroups    = "groups"
	PartitionMessages  = "messages"
	PartitionResponses = "responses"
	PartitionSession   = "session"
)

// Store reads and writes whole partitions.
//
// Read decodes the partition into dest, which must be a pointer to a
// slice; a partition that has never been written leaves dest untouched
// and returns nil. Write replaces the partition with records (a slice).
// Errors are reported, never panicked; callers keep their last good
// in-memory snapshot on read failure.
type Store interface {
	Read(ctx context.Context, partition string, dest any) error
	Write(ctx context.Context, partition string, records any) error
}
