package docstore

import (
	"context"
	"fmt"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ParentField holds the parent document path of nested collections.
// "users/42/orders" is stored in the "orders" collection with
// _parent = "users/42"; top-level documents carry no _parent.
const ParentField = "_parent"

type Mongo struct {
	db *mongo.Database
}

func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{db: db}
}

func (m *Mongo) ListCollection(ctx context.Context, path string) ([]Document, error) {
	parent, name, err := SplitPath(path)
	if err != nil {
		return nil, err
	}

	filter := bson.M{ParentField: bson.M{"$exists": false}}
	if parent != "" {
		filter = bson.M{ParentField: parent}
	}

	cur, err := m.db.Collection(name).Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("mongo find %s: %w", path, err)
	}
	defer cur.Close(ctx)

	var docs []Document
	for cur.Next(ctx) {
		var raw bson.M
		if err := cur.Decode(&raw); err != nil {
			return nil, fmt.Errorf("mongo decode %s: %w", path, err)
		}
		docs = append(docs, fromBSON(raw))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("mongo cursor %s: %w", path, err)
	}

	return docs, nil
}

func fromBSON(raw bson.M) Document {
	doc := Document{Fields: make(map[string]any, len(raw))}

	switch id := raw["_id"].(type) {
	case primitive.ObjectID:
		doc.ID = id.Hex()
	case string:
		doc.ID = id
	case nil:
	default:
		doc.ID = fmt.Sprint(id)
	}

	for k, v := range raw {
		if k == "_id" || k == ParentField {
			continue
		}
		if d, ok := v.(primitive.Decimal128); ok {
			if f, err := strconv.ParseFloat(d.String(), 64); err == nil {
				v = f
			}
		}
		doc.Fields[k] = v
	}

	return doc
}
