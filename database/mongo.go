package database

import (
	"context"
	"errors"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ Backend = (*Mongo)(nil)

type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect opens a client for connString and pings it before returning.
func Connect(ctx context.Context, connString, databaseName string) (*Mongo, error) {
	clientOptions := options.Client().ApplyURI(connString)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to the db: %v", err)
	}

	err = client.Ping(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("db is not available: %v", err)
	}

	log.Printf("database: connected to mongo database %q", databaseName)
	return &Mongo{client: client, db: client.Database(databaseName)}, nil
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: malformed id %q", ErrNotFound, id)
	}
	return oid, nil
}

func (m *Mongo) Find(ctx context.Context, collection string, q Query, out interface{}) error {
	findOptions := options.Find()
	if q.OrderBy != "" {
		direction := 1
		if q.Descending {
			direction = -1
		}
		findOptions.SetSort(bson.D{primitive.E{Key: q.OrderBy, Value: direction}})
	}
	if q.Limit > 0 {
		findOptions.SetLimit(q.Limit)
	}

	cur, err := m.db.Collection(collection).Find(ctx, bson.D{}, findOptions)
	if err != nil {
		return err
	}
	defer cur.Close(ctx)

	raws := []bson.Raw{}
	for cur.Next(ctx) {
		raw := make(bson.Raw, len(cur.Current))
		copy(raw, cur.Current)
		raws = append(raws, raw)
	}
	if err := cur.Err(); err != nil {
		return err
	}

	return decodeAll(collection, raws, out)
}

func (m *Mongo) FindByID(ctx context.Context, collection, id string, out interface{}) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	return m.findOne(ctx, collection, bson.D{primitive.E{Key: "_id", Value: oid}}, out)
}

func (m *Mongo) FindOneBy(ctx context.Context, collection, field string, value interface{}, out interface{}) error {
	return m.findOne(ctx, collection, bson.D{primitive.E{Key: field, Value: value}}, out)
}

func (m *Mongo) findOne(ctx context.Context, collection string, filter bson.D, out interface{}) error {
	err := m.db.Collection(collection).FindOne(ctx, filter).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

func (m *Mongo) Insert(ctx context.Context, collection string, doc interface{}) (string, error) {
	res, err := m.db.Collection(collection).InsertOne(ctx, doc)
	if err != nil {
		return "", err
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Sprint(res.InsertedID), nil
	}
	return oid.Hex(), nil
}

func (m *Mongo) Update(ctx context.Context, collection, id string, fields bson.M) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := m.db.Collection(collection).UpdateOne(ctx,
		bson.D{primitive.E{Key: "_id", Value: oid}},
		bson.D{primitive.E{Key: "$set", Value: fields}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo) Delete(ctx context.Context, collection, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := m.db.Collection(collection).DeleteOne(ctx, bson.D{primitive.E{Key: "_id", Value: oid}})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo) Count(ctx context.Context, collection string) (int64, error) {
	return m.db.Collection(collection).CountDocuments(ctx, bson.D{})
}
