package datasource

import (
	"github.com/dianpeng/vektur/types"
)

// DataSource is the capability every tabular input exposes to the catalog:
// a fixed schema and a lazy scan over record batches.
type DataSource interface {
	Schema() types.Schema
	Scan() BatchIterator
}

// BatchIterator is a forward-only, pull based sequence of record batches.
//
// Next returns io.EOF once the sequence is exhausted. Any other error is the
// item of that pull, the sequence is still alive and the caller decides
// whether to keep pulling. An iterator owns its underlying reader and must
// not be shared by concurrent callers; Close releases it early.
type BatchIterator interface {
	Next() (*types.RecordBatch, error)
	Close() error
}
