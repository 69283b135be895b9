// internal/app/store/persist/mongostore.go
package persist

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoStore maps each partition onto a MongoDB collection. Read loads
// every document; Write replaces the collection contents inside a
// transaction so a failed insert cannot leave the partition emptied.
// Standalone servers reject transactions, so Write falls back to a
// plain replace there; that fallback keeps the file backend's
// last-write-wins contract but not its all-or-nothing one.
type MongoStore struct {
	db *mongo.Database
}

// NewMongoStore wraps an already-connected database.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

// Read loads all documents in the partition's collection into dest.
func (m *MongoStore) Read(ctx context.Context, partition string, dest any) error {
	cur, err := m.db.Collection(partition).Find(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("read partition %s: %w", partition, err)
	}
	defer cur.Close(ctx)
	if err := cur.All(ctx, dest); err != nil {
		return fmt.Errorf("decode partition %s: %w", partition, err)
	}
	return nil
}

// Write replaces the partition's collection contents with records.
func (m *MongoStore) Write(ctx context.Context, partition string, records any) error {
	docs := toDocs(records)

	err := m.writeInTransaction(ctx, partition, docs)
	if err != nil && txnUnsupported(err) {
		return m.replace(ctx, partition, docs)
	}
	return err
}

func (m *MongoStore) writeInTransaction(ctx context.Context, partition string, docs []interface{}) error {
	sess, err := m.db.Client().StartSession()
	if err != nil {
		return fmt.Errorf("write partition %s: %w", partition, err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, m.replace(sc, partition, docs)
	})
	return err
}

func (m *MongoStore) replace(ctx context.Context, partition string, docs []interface{}) error {
	c := m.db.Collection(partition)
	if _, err := c.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("write partition %s: %w", partition, err)
	}
	if len(docs) == 0 {
		return nil
	}
	if _, err := c.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("write partition %s: %w", partition, err)
	}
	return nil
}

// txnUnsupported reports whether the error means the server cannot run
// multi-document transactions (standalone mongod, old wire version).
func txnUnsupported(err error) bool {
	if err == nil {
		return false
	}
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		switch cmdErr.Code {
		case 20, 51, 263: // IllegalOperation, OperationNotSupportedInTransaction, NoSuchTransaction variants
			return true
		}
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "transaction") && strings.Contains(msg, "replica set") {
		return true
	}
	if strings.Contains(msg, "session") && strings.Contains(msg, "not supported") {
		return true
	}
	return false
}

// toDocs converts a typed slice into the []interface{} InsertMany wants.
func toDocs(records any) []interface{} {
	v := reflect.ValueOf(records)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Slice {
		return nil
	}
	docs := make([]interface{}, v.Len())
	for i := 0; i < v.Len(); i++ {
		docs[i] = v.Index(i).Interface()
	}
	return docs
}
