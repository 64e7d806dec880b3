package docstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestFromBSON(t *testing.T) {
	oid := primitive.NewObjectID()
	dec, err := primitive.ParseDecimal128("150.25")
	assert.NoError(t, err)

	doc := fromBSON(bson.M{
		"_id":       oid,
		ParentField: "users/42",
		"totalCost": dec,
		"status":    "pending",
	})

	assert.Equal(t, oid.Hex(), doc.ID)
	assert.NotContains(t, doc.Fields, "_id")
	assert.NotContains(t, doc.Fields, ParentField)
	assert.Equal(t, 150.25, doc.Number("totalCost"))
	status, _ := doc.String("status")
	assert.Equal(t, "pending", status)
}

func TestFromBSONStringID(t *testing.T) {
	doc := fromBSON(bson.M{"_id": "user-1", "totalCost": int32(10)})

	assert.Equal(t, "user-1", doc.ID)
	assert.Equal(t, 10.0, doc.Number("totalCost"))
}
