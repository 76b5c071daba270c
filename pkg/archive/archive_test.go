package archive

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/connmat/pkg/connectivity"
	"github.com/matzehuels/connmat/pkg/errors"
)

func TestNewRecord(t *testing.T) {
	r := connectivity.FromLines([]string{"1 2", "2 1", "3 3", "1 2"}, connectivity.DefaultOptions())

	rec := NewRecord(r, "assignments.csv", "abc123")

	_, err := uuid.Parse(rec.ID)
	assert.NoError(t, err, "record IDs are UUIDs")
	assert.WithinDuration(t, time.Now(), rec.CreatedAt, time.Minute)
	assert.Equal(t, "assignments.csv", rec.Source)
	assert.Equal(t, "abc123", rec.InputHash)
	assert.True(t, rec.ZeroDiagonal)
	assert.Equal(t, 3, rec.Size)
	assert.Equal(t, 4, rec.PairCount)
	assert.Equal(t, []uint64{1, 2, 3}, rec.Labels)
	assert.Equal(t, [][]int{{0, 2, 0}, {1, 0, 0}, {0, 0, 0}}, rec.Rows)
}

func TestNewRecordUniqueIDs(t *testing.T) {
	r := connectivity.Build(nil, connectivity.DefaultOptions())

	assert.NotEqual(t, NewRecord(r, "a", "h").ID, NewRecord(r, "a", "h").ID)
}

func TestNewMongoStoreRequiresURI(t *testing.T) {
	_, err := NewMongoStore(context.Background(), MongoConfig{})

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
}

func TestNewMongoStoreInvalidURI(t *testing.T) {
	_, err := NewMongoStore(context.Background(), MongoConfig{URI: "not-a-mongo-uri"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
}
