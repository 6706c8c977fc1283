package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo implements Store on top of a MongoDB database. Documents are stored
// with the port-level id as _id, so Set doubles as the keyed upsert the
// attendance ledger relies on.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
}

// ConnectMongo dials the database and verifies the connection with a ping
// before returning, so a bad URI fails at startup rather than on the first
// request.
func ConnectMongo(ctx context.Context, uri, database string) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	return &Mongo{client: client, db: client.Database(database)}, nil
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func (m *Mongo) Get(ctx context.Context, collection, id string) (Doc, error) {
	var raw bson.M
	err := m.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return fromBSON(raw), nil
}

func (m *Mongo) Query(ctx context.Context, collection string, q Query) ([]Snapshot, error) {
	filter := bson.M{}
	for _, f := range q.Filters {
		switch f.Op {
		case OpEq:
			filter[f.Field] = f.Value
		case OpGte:
			filter[f.Field] = bson.M{"$gte": f.Value}
		case OpLt:
			filter[f.Field] = bson.M{"$lt": f.Value}
		}
	}

	opts := options.Find()
	if len(q.Sort) > 0 {
		sort := bson.D{}
		for _, o := range q.Sort {
			dir := 1
			if o.Desc {
				dir = -1
			}
			sort = append(sort, bson.E{Key: o.Field, Value: dir})
		}
		opts.SetSort(sort)
	}

	cur, err := m.db.Collection(collection).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]Snapshot, 0)
	for cur.Next(ctx) {
		var raw bson.M
		if err := cur.Decode(&raw); err != nil {
			return nil, err
		}
		id, _ := raw["_id"].(string)
		out = append(out, Snapshot{ID: id, Doc: fromBSON(raw)})
	}
	return out, cur.Err()
}

func (m *Mongo) Set(ctx context.Context, collection, id string, doc Doc) error {
	_, err := m.db.Collection(collection).ReplaceOne(
		ctx, bson.M{"_id": id}, withID(doc, id), options.Replace().SetUpsert(true))
	return err
}

func (m *Mongo) Update(ctx context.Context, collection, id string, fields Doc) error {
	res, err := m.db.Collection(collection).UpdateOne(
		ctx, bson.M{"_id": id}, bson.M{"$set": bson.M(fields)})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo) Delete(ctx context.Context, collection, id string) error {
	_, err := m.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// BatchCommit runs every write inside one session transaction, so the
// cascading event delete is all-or-nothing even if the process dies midway.
func (m *Mongo) BatchCommit(ctx context.Context, writes []Write) error {
	session, err := m.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		for _, w := range writes {
			var err error
			switch w.Kind {
			case WriteSet:
				err = m.Set(sc, w.Collection, w.ID, w.Doc)
			case WriteUpdate:
				err = m.Update(sc, w.Collection, w.ID, w.Doc)
			case WriteDelete:
				err = m.Delete(sc, w.Collection, w.ID)
			}
			if err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	return err
}

func withID(doc Doc, id string) bson.M {
	out := bson.M{"_id": id}
	for k, v := range doc {
		out[k] = v
	}
	return out
}

// fromBSON strips the _id and rewrites driver types back into the plain
// values the port traffics in (primitive.DateTime decodes from what was
// written as time.Time).
func fromBSON(raw bson.M) Doc {
	out := make(Doc, len(raw))
	for k, v := range raw {
		if k == "_id" {
			continue
		}
		switch t := v.(type) {
		case primitive.DateTime:
			out[k] = t.Time().UTC()
		case int32:
			out[k] = int64(t)
		default:
			out[k] = v
		}
	}
	return out
}

// PingTimeout bounds the startup dial and ping.
const PingTimeout = 10 * time.Second
