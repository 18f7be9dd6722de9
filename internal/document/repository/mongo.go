package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/resumematch/resumematch/internal/document"
)

var _ Repository = (*MongoRepo)(nil)

// MongoRepo stores records of one kind in a MongoDB collection keyed by a
// string _id. file_name carries a non-unique index.
type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	return &MongoRepo{col: col}
}

// EnsureIndexes creates the secondary indexes used by filename lookups.
func (m *MongoRepo) EnsureIndexes(ctx context.Context) error {
	idx := mongo.IndexModel{
		Keys:    bson.D{{Key: "file_name", Value: 1}, {Key: "uploaded_at", Value: -1}},
		Options: options.Index().SetName("file_name_uploaded_at"),
	}
	if _, err := m.col.Indexes().CreateOne(ctx, idx); err != nil {
		return unavailable("create index", err)
	}
	return nil
}

func (m *MongoRepo) Insert(ctx context.Context, rec *document.Record) error {
	if _, err := m.col.InsertOne(ctx, rec); err != nil {
		return unavailable("insert", err)
	}
	return nil
}

func (m *MongoRepo) GetByID(ctx context.Context, id string) (*document.Record, error) {
	return m.findOne(ctx, bson.M{"_id": id}, nil)
}

func (m *MongoRepo) GetByFilename(ctx context.Context, name string) (*document.Record, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "uploaded_at", Value: -1}, {Key: "_id", Value: -1}})
	return m.findOne(ctx, bson.M{"file_name": name}, opts)
}

func (m *MongoRepo) ListByFilename(ctx context.Context, name string) ([]*document.Record, error) {
	opts := options.Find().SetSort(bson.D{{Key: "uploaded_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := m.col.Find(ctx, bson.M{"file_name": name}, opts)
	if err != nil {
		return nil, unavailable("find", err)
	}
	defer cur.Close(ctx)
	out := []*document.Record{}
	for cur.Next(ctx) {
		var d document.Record
		if err := cur.Decode(&d); err != nil {
			return nil, malformed(err)
		}
		out = append(out, &d)
	}
	if err := cur.Err(); err != nil {
		return nil, unavailable("cursor", err)
	}
	return out, nil
}

func (m *MongoRepo) Ping(ctx context.Context) error {
	if err := m.col.Database().Client().Ping(ctx, nil); err != nil {
		return unavailable("ping", err)
	}
	return nil
}

func (m *MongoRepo) findOne(ctx context.Context, filter bson.M, opts *options.FindOneOptions) (*document.Record, error) {
	var d document.Record
	var res *mongo.SingleResult
	if opts != nil {
		res = m.col.FindOne(ctx, filter, opts)
	} else {
		res = m.col.FindOne(ctx, filter)
	}
	if err := res.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, unavailable("find one", err)
	}
	if err := res.Decode(&d); err != nil {
		return nil, malformed(err)
	}
	return &d, nil
}

func malformed(err error) error {
	return fmt.Errorf("%w: %v", ErrMalformedRecord, err)
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: mongo %s: %v", ErrStoreUnavailable, op, err)
}
