package redis

import (
	"context"
	"errors"
	"testing"

	"github.com/go-redis/redismock/v9"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/clockwise/attendance-tracker/internal/core/domain"
	"github.com/clockwise/attendance-tracker/internal/core/ports"
)

func TestStore_GetAbsent(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewStore(client, "att")

	mock.ExpectGet("att:users").RedisNil()

	var users []domain.User
	found, err := store.Get(context.Background(), "users", &users)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, users)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_GetDecodes(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewStore(client, "att")

	mock.ExpectGet("att:sequences").SetVal(`{"users":1,"employees":0,"attendance":0}`)

	var seq domain.Sequences
	found, err := store.Get(context.Background(), "sequences", &seq)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, domain.Sequences{Users: 1}, seq)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_GetPropagatesErrors(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewStore(client, "att")

	mock.ExpectGet("att:users").SetErr(errors.New("connection refused"))

	var users []domain.User
	_, err := store.Get(context.Background(), "users", &users)
	assert.ErrorContains(t, err, "connection refused")
}

func TestStore_SetEncodesJSON(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewStore(client, "att")

	seq := domain.Sequences{Users: 2, Employees: 1}
	raw, err := json.Marshal(seq)
	require.NoError(t, err)

	mock.ExpectSet("att:sequences", raw, 0).SetVal("OK")

	require.NoError(t, store.Set(context.Background(), "sequences", seq))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_DeleteWithoutNamespace(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewStore(client, "")

	mock.ExpectDel("attendance").SetVal(1)

	require.NoError(t, store.Delete(context.Background(), "attendance"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Ping(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewStore(client, "att")

	mock.ExpectPing().SetVal("PONG")

	assert.NoError(t, store.Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func seqJSON(t *testing.T, seq domain.Sequences) []byte {
	t.Helper()
	raw, err := json.Marshal(seq)
	require.NoError(t, err)
	return raw
}

// bumpUsers is a transaction body that reads the sequences and advances Users.
func bumpUsers(tx ports.KVTx) error {
	var seq domain.Sequences
	if _, err := tx.Get("sequences", &seq); err != nil {
		return err
	}
	seq.Users++
	return tx.Set("sequences", seq)
}

func expectBumpUsers(t *testing.T, mock redismock.ClientMock, execErr error) {
	t.Helper()
	mock.ExpectWatch("att:sequences", "att:users")
	mock.ExpectGet("att:sequences").SetVal(`{"users":1,"employees":0,"attendance":0}`)
	mock.ExpectTxPipeline()
	mock.ExpectSet("att:sequences", seqJSON(t, domain.Sequences{Users: 2}), 0).SetVal("OK")
	exec := mock.ExpectTxPipelineExec()
	if execErr != nil {
		exec.SetErr(execErr)
	}
}

func TestStore_UpdateCommitsInMulti(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewStore(client, "att")

	expectBumpUsers(t, mock, nil)

	err := store.Update(context.Background(), []string{"sequences", "users"}, bumpUsers)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_UpdateWritesInDeclaredOrder(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewStore(client, "att")

	mock.ExpectWatch("att:users", "att:employees", "att:sequences")
	mock.ExpectTxPipeline()
	mock.ExpectSet("att:users", []byte(`[]`), 0).SetVal("OK")
	mock.ExpectSet("att:employees", []byte(`[]`), 0).SetVal("OK")
	mock.ExpectSet("att:sequences", seqJSON(t, domain.Sequences{}), 0).SetVal("OK")
	mock.ExpectTxPipelineExec()

	err := store.Update(context.Background(), []string{"users", "employees", "sequences"}, func(tx ports.KVTx) error {
		if err := tx.Set("sequences", domain.Sequences{}); err != nil {
			return err
		}
		if err := tx.Set("employees", []domain.Employee{}); err != nil {
			return err
		}
		return tx.Set("users", []domain.User{})
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_UpdateFnErrorSkipsMulti(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewStore(client, "att")

	mock.ExpectWatch("att:sequences")
	mock.ExpectGet("att:sequences").SetVal(`{"users":1,"employees":0,"attendance":0}`)

	err := store.Update(context.Background(), []string{"sequences"}, func(tx ports.KVTx) error {
		if err := bumpUsers(tx); err != nil {
			return err
		}
		return domain.ErrDuplicateUsername
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateUsername)
	// No MULTI, SET or EXEC was expected, so any of them would have failed here.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_UpdateRetriesLostRace(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewStore(client, "att")

	expectBumpUsers(t, mock, redis.TxFailedErr)
	expectBumpUsers(t, mock, nil)

	err := store.Update(context.Background(), []string{"sequences", "users"}, bumpUsers)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_UpdateGivesUpAfterRepeatedConflicts(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewStore(client, "att")

	for i := 0; i < maxTxAttempts; i++ {
		expectBumpUsers(t, mock, redis.TxFailedErr)
	}

	err := store.Update(context.Background(), []string{"sequences", "users"}, bumpUsers)
	assert.ErrorIs(t, err, domain.ErrStoreConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_UpdateRejectsUnwatchedKeys(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewStore(client, "att")

	mock.ExpectWatch("att:users")

	err := store.Update(context.Background(), []string{"users"}, func(tx ports.KVTx) error {
		return tx.Set("attendance", []domain.Attendance{})
	})
	assert.ErrorContains(t, err, "not watched")
	assert.NoError(t, mock.ExpectationsWereMet())
}
