package mongo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

type record struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func TestStore_Key(t *testing.T) {
	assert.Equal(t, "att:users", (&Store{namespace: "att"}).key("users"))
	assert.Equal(t, "users", (&Store{}).key("users"))
}

func TestStore_MockDeployment(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("get decodes the stored value", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + kvCollection
		mt.AddMockResponses(mtest.CreateCursorResponse(1, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "att:users"},
			{Key: "value", Value: `[{"id":1,"name":"admin"}]`},
			{Key: "updated_at", Value: int64(1773480600)},
		}))

		var got []record
		found, err := NewStore(mt.DB, "att").Get(context.Background(), "users", &got)
		require.NoError(mt, err)
		assert.True(mt, found)
		assert.Equal(mt, []record{{ID: 1, Name: "admin"}}, got)
	})

	mt.Run("get reports absent keys", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + kvCollection
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		var got []record
		found, err := NewStore(mt.DB, "att").Get(context.Background(), "users", &got)
		require.NoError(mt, err)
		assert.False(mt, found)
		assert.Nil(mt, got)
	})

	mt.Run("set upserts", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		err := NewStore(mt.DB, "att").Set(context.Background(), "users", []record{{ID: 1}})
		require.NoError(mt, err)
	})

	mt.Run("set surfaces server errors", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    91,
			Name:    "ShutdownInProgress",
			Message: "shutting down",
		}))

		err := NewStore(mt.DB, "att").Set(context.Background(), "users", []record{})
		require.Error(mt, err)
		assert.Contains(mt, err.Error(), "mongo replace users")
	})

	mt.Run("delete", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		require.NoError(mt, NewStore(mt.DB, "att").Delete(context.Background(), "users"))
	})
}

func TestMongoTx_RejectsUndeclaredKeys(t *testing.T) {
	tx := &mongoTx{allowed: map[string]struct{}{"users": {}}, pending: map[string][]byte{}}

	_, err := tx.Get("attendance", &[]record{})
	assert.Error(t, err)
	assert.Error(t, tx.Set("attendance", []record{}))

	require.NoError(t, tx.Set("users", []record{{ID: 7}}))
	var got []record
	found, err := tx.Get("users", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 7, got[0].ID)
}
