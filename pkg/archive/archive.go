// Package archive keeps a durable record of every matrix a team builds.
//
// Each successful build can be saved as a [Record]: the input's content
// hash, the options used, the label order and the matrix rows. Records are
// append-only; rebuilding the same input creates a new record with a new ID.
//
// [MongoStore] is the production backend. Connection faults are retried
// with backoff before Save gives up.
package archive

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/connmat/pkg/connectivity"
)

// Record is one archived build.
type Record struct {
	ID           string    `bson:"_id" json:"id"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	Source       string    `bson:"source" json:"source"`
	InputHash    string    `bson:"input_hash" json:"input_hash"`
	ZeroDiagonal bool      `bson:"zero_diagonal" json:"zero_diagonal"`
	Size         int       `bson:"size" json:"size"`
	PairCount    int       `bson:"pair_count" json:"pair_count"`
	Labels       []uint64  `bson:"labels" json:"labels"`
	Rows         [][]int   `bson:"rows" json:"rows"`
}

// NewRecord captures r under a fresh ID. source names where the pairs came
// from (a path or "http").
func NewRecord(r *connectivity.Result, source, inputHash string) Record {
	return Record{
		ID:           uuid.NewString(),
		CreatedAt:    time.Now().UTC(),
		Source:       source,
		InputHash:    inputHash,
		ZeroDiagonal: r.Options.ZeroDiagonal,
		Size:         r.Size(),
		PairCount:    r.PairCount,
		Labels:       r.Labels(),
		Rows:         r.Matrix.Rows(),
	}
}

// Store persists records.
type Store interface {
	Save(ctx context.Context, rec Record) error
	Close(ctx context.Context) error
}
