// Package checkpoint stores finished rate p-value tables in a bolt
// database, so an interrupted batch run can reuse completed results.
package checkpoint

import (
	"encoding/json"

	"github.com/op/go-logging"

	bolt "go.etcd.io/bbolt"
)

// log is the global logging variable.
var log = logging.MustGetLogger("checkpoint")

// MAIN is the key name for all results.
var MAIN = []byte("main")

// ResultRow is one gene's combined p-values; nil marks a missing
// value.
type ResultRow struct {
	Gene        string   `json:"gene"`
	Synthesis   *float64 `json:"synthesis"`
	Degradation *float64 `json:"degradation"`
	Processing  *float64 `json:"processing"`
}

// ResultData stores one finished computation. The key under which it
// is saved already encodes the input document and the configuration.
type ResultData struct {
	Rows  []ResultRow
	Final bool
}

// ResultIO provides checkpoint operations for a single input keyed by
// its content hash.
type ResultIO struct {
	db  *bolt.DB
	key []byte
}

// NewResultIO creates a new ResultIO.
func NewResultIO(db *bolt.DB, key []byte) *ResultIO {
	return &ResultIO{
		db:  db,
		key: key,
	}
}

// Save saves a finished result to the database.
func (s *ResultIO) Save(data *ResultData) error {
	dataB, err := json.Marshal(data)
	if err != nil {
		log.Error("Error serializing checkpoint", err)
		return err
	}
	err = SaveData(s.db, s.key, dataB)
	if err != nil {
		log.Error("Error saving checkpoint", err)
	}
	return err
}

// GetResult returns a previously saved final result, nil if there is
// none.
func (s *ResultIO) GetResult() (*ResultData, error) {
	var data *ResultData

	b, err := LoadData(s.db, s.key)
	if err != nil || b == nil {
		return nil, err
	}

	err = json.Unmarshal(b, &data)
	if err != nil {
		return nil, err
	}

	if data == nil || !data.Final {
		return nil, nil
	}

	log.Noticef("Found finished checkpoint (%d genes)", len(data.Rows))
	return data, nil
}

// SaveData saves values in bolt database.
func SaveData(db *bolt.DB, key []byte, data []byte) error {
	if db == nil {
		return nil
	}
	err := db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(MAIN)
		if err != nil {
			return err
		}

		err = b.Put(key, data)
		return err
	})
	return err
}

// LoadData loads data from bolt database.
func LoadData(db *bolt.DB, key []byte) ([]byte, error) {
	var data []byte
	if db == nil {
		return nil, nil
	}
	err := db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(MAIN)
		if b == nil {
			return nil
		}

		v := b.Get(key)
		if v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}
