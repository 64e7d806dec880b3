package docstore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
)

// Firestore reads native nested collections; paths map one to one.
type Firestore struct {
	client *firestore.Client
}

func NewFirestore(client *firestore.Client) *Firestore {
	return &Firestore{client: client}
}

func (f *Firestore) ListCollection(ctx context.Context, path string) ([]Document, error) {
	if _, _, err := SplitPath(path); err != nil {
		return nil, err
	}

	snaps, err := f.client.Collection(path).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("firestore get %s: %w", path, err)
	}

	docs := make([]Document, 0, len(snaps))
	for _, s := range snaps {
		docs = append(docs, Document{ID: s.Ref.ID, Fields: s.Data()})
	}
	return docs, nil
}
