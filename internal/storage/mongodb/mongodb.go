// Package mongodb provides a MongoDB-backed implementation of the
// storage.Storage interface. Each record collection maps to a Mongo
// collection of the same name; documents are written using the records'
// bson tags.
package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aanand-mishra/museum-api/internal/config"
	"github.com/aanand-mishra/museum-api/internal/storage"
	"github.com/aanand-mishra/museum-api/internal/types"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Mongo struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// New connects to cfg.Storage.URI and verifies the connection with a ping.
func New(ctx context.Context, cfg *config.Config) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Storage.URI))
	if err != nil {
		return nil, fmt.Errorf("mongodb.New: connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongodb.New: ping: %w", err)
	}

	return &Mongo{
		Client: client,
		DB:     client.Database(cfg.Storage.Database),
	}, nil
}

func (m *Mongo) Insert(ctx context.Context, rec types.Record) (string, error) {
	res, err := m.DB.Collection(rec.Collection()).InsertOne(ctx, rec)
	if err != nil {
		return "", fmt.Errorf("Insert: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("Insert: unexpected id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

func (m *Mongo) Get(ctx context.Context, collection, id string) (storage.Document, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// Not a key this store could have issued.
		return nil, fmt.Errorf("no %s found with id %s: %w", collection, id, storage.ErrNotFound)
	}

	var raw bson.M
	err = m.DB.Collection(collection).FindOne(ctx, bson.M{"_id": oid}).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("no %s found with id %s: %w", collection, id, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("Get: %w", err)
	}

	return toDocument(raw), nil
}

func (m *Mongo) List(ctx context.Context, collection string) ([]storage.Document, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := m.DB.Collection(collection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("List: find: %w", err)
	}
	defer cursor.Close(ctx)

	var raws []bson.M
	if err := cursor.All(ctx, &raws); err != nil {
		return nil, fmt.Errorf("List: decode: %w", err)
	}

	docs := make([]storage.Document, 0, len(raws))
	for _, raw := range raws {
		docs = append(docs, toDocument(raw))
	}
	return docs, nil
}

// Update replaces the whole document, so fields dropped from rec are removed.
func (m *Mongo) Update(ctx context.Context, id string, rec types.Record) (storage.Document, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("no %s found with id %s: %w", rec.Collection(), id, storage.ErrNotFound)
	}

	res, err := m.DB.Collection(rec.Collection()).ReplaceOne(ctx, bson.M{"_id": oid}, rec)
	if err != nil {
		return nil, fmt.Errorf("Update: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, fmt.Errorf("no %s found with id %s: %w", rec.Collection(), id, storage.ErrNotFound)
	}

	return m.Get(ctx, rec.Collection(), id)
}

func (m *Mongo) Delete(ctx context.Context, collection, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("no %s found with id %s: %w", collection, id, storage.ErrNotFound)
	}

	res, err := m.DB.Collection(collection).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("no %s found with id %s: %w", collection, id, storage.ErrNotFound)
	}
	return nil
}

func (m *Mongo) Close() error {
	return m.Client.Disconnect(context.Background())
}

// toDocument renames _id to id and flattens BSON arrays so documents from
// both backends encode to the same JSON.
func toDocument(raw bson.M) storage.Document {
	doc := make(storage.Document, len(raw))
	for k, v := range raw {
		if k == "_id" {
			if oid, ok := v.(primitive.ObjectID); ok {
				doc["id"] = oid.Hex()
			} else {
				doc["id"] = v
			}
			continue
		}
		doc[k] = plain(v)
	}
	return doc
}

func plain(v any) any {
	switch t := v.(type) {
	case primitive.A:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = plain(e)
		}
		return out
	case bson.M:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = plain(e)
		}
		return out
	default:
		return v
	}
}
