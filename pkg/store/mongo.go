// Package store persists named graph snapshots.
package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dashfin/assetgraph/pkg/errors"
	"github.com/dashfin/assetgraph/pkg/graph"
)

// SnapshotInfo describes one stored snapshot.
type SnapshotInfo struct {
	Name    string    `bson:"_id" json:"name"`
	SavedAt time.Time `bson:"saved_at" json:"saved_at"`
}

// snapshotDoc is the stored document. The snapshot name doubles as the
// document id, so saves of the same name replace.
type snapshotDoc struct {
	Name     string          `bson:"_id"`
	SavedAt  time.Time       `bson:"saved_at"`
	Snapshot *graph.Snapshot `bson:"snapshot"`
}

// MongoStore keeps named snapshots in a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connecting to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStore, err, "pinging mongodb")
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}, nil
}

// Save upserts a snapshot under the given name.
func (s *MongoStore) Save(ctx context.Context, name string, snap *graph.Snapshot) error {
	if err := errors.ValidateSnapshotName(name); err != nil {
		return err
	}
	if snap == nil {
		return errors.New(errors.ErrCodeInvalidInput, "snapshot is nil")
	}
	doc := snapshotDoc{Name: name, SavedAt: time.Now().UTC(), Snapshot: snap}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": name}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "saving snapshot %q", name)
	}
	return nil
}

// Load fetches a snapshot by name.
func (s *MongoStore) Load(ctx context.Context, name string) (*graph.Snapshot, error) {
	if err := errors.ValidateSnapshotName(name); err != nil {
		return nil, err
	}
	var doc snapshotDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": name}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, errors.New(errors.ErrCodeSnapshotNotFound, "snapshot %q not found", name)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "loading snapshot %q", name)
	}
	return doc.Snapshot, nil
}

// Delete removes a snapshot by name. Deleting a missing snapshot returns
// a not-found error.
func (s *MongoStore) Delete(ctx context.Context, name string) error {
	if err := errors.ValidateSnapshotName(name); err != nil {
		return err
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": name})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "deleting snapshot %q", name)
	}
	if res.DeletedCount == 0 {
		return errors.New(errors.ErrCodeSnapshotNotFound, "snapshot %q not found", name)
	}
	return nil
}

// List returns the names and save times of all stored snapshots, newest
// first.
func (s *MongoStore) List(ctx context.Context) ([]SnapshotInfo, error) {
	opts := options.Find().
		SetProjection(bson.M{"_id": 1, "saved_at": 1}).
		SetSort(bson.M{"saved_at": -1})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "listing snapshots")
	}
	defer cur.Close(ctx)

	var infos []SnapshotInfo
	if err := cur.All(ctx, &infos); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "decoding snapshot list")
	}
	return infos, nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
