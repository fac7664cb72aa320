package store

import (
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/daikumatan/shippai-knowledge-etl/pkg/errors"
	"github.com/daikumatan/shippai-knowledge-etl/pkg/fkd"
)

// MongoStore keeps case records in a MongoDB collection, upserted by
// case ID. The HTTP server uses it so extraction results survive
// restarts and are shared between instances.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to uri and uses the "cases" collection of the
// given database.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connect to %s", uri)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStore, err, "ping %s", uri)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection("cases"),
	}, nil
}

// Save upserts the record by case_id and returns its collection
// reference.
func (s *MongoStore) Save(ctx context.Context, c *fkd.Case) (string, error) {
	filter := bson.M{"case_id": c.CaseID}
	update := bson.M{"$set": c}
	opts := options.Update().SetUpsert(true)
	if _, err := s.coll.UpdateOne(ctx, filter, update, opts); err != nil {
		return "", errors.Wrap(errors.ErrCodeStore, err, "upsert case %s", c.CaseID)
	}
	return s.coll.Name() + "/" + c.CaseID, nil
}

// Load retrieves a record by case ID.
func (s *MongoStore) Load(ctx context.Context, caseID string) (*fkd.Case, error) {
	var c fkd.Case
	err := s.coll.FindOne(ctx, bson.M{"case_id": caseID}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, errors.New(errors.ErrCodeNotFound, "no record for case %s", caseID)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "load case %s", caseID)
	}
	return &c, nil
}

// List returns the stored case IDs, sorted.
func (s *MongoStore) List(ctx context.Context) ([]string, error) {
	cursor, err := s.coll.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"case_id": 1}))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "list cases")
	}
	defer cursor.Close(ctx)

	var ids []string
	for cursor.Next(ctx) {
		var doc struct {
			CaseID string `bson:"case_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStore, err, "decode case id")
		}
		ids = append(ids, doc.CaseID)
	}
	if err := cursor.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "iterate cases")
	}
	sort.Strings(ids)
	return ids, nil
}

// Close disconnects from the server.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
