// Package wallet keeps the console's local state: saved accounts with
// encrypted seeds, signer lists, regular key seeds, known issuers and
// custom destinations. Everything lives in a LevelDB under the data
// directory, the browser storage of an operator's machine.
package wallet

import (
	"encoding/json"
	"errors"
	"path/filepath"

	goleveldb "github.com/syndtr/goleveldb/leveldb"
	dberrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/xrplkit/walletconsole/log"
)

const dbDirName = "consoledb"

// key layout
const (
	keySelectedNetwork = "selected-network"
	keyKnownIssuers    = "known-issuers"
	keyDestinations    = "custom-destinations"

	prefixWallet     = "wallet:"
	prefixSigners    = "signers:"
	prefixRegularKey = "regularkey:"
)

// Store the console's local database
type Store struct {
	path string
	db   *goleveldb.DB
}

// OpenStore opens (or creates) the console database under dataDir
func OpenStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		return nil, errors.New("empty data directory")
	}
	path := filepath.Join(dataDir, dbDirName)
	options := &opt.Options{OpenFilesCacheCapacity: 16}
	db, err := goleveldb.OpenFile(path, options)
	if dberrors.IsCorrupted(err) {
		log.Warn("console database corrupted, recovering", "path", path)
		db, err = goleveldb.RecoverFile(path, nil)
	}
	if err != nil {
		return nil, err
	}
	log.Info("opened console database", "path", path)
	return &Store{path: path, db: db}, nil
}

// Close flushes and closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database directory
func (s *Store) Path() string {
	return s.path
}

func (s *Store) putJSON(key string, value interface{}) error {
	blob, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.db.Put([]byte(key), blob, nil)
}

// getJSON returns false without error when the key is absent
func (s *Store) getJSON(key string, out interface{}) (bool, error) {
	blob, err := s.db.Get([]byte(key), nil)
	if errors.Is(err, dberrors.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(blob, out)
}

func (s *Store) delete(key string) error {
	return s.db.Delete([]byte(key), nil)
}

// keysWithPrefix lists keys under a prefix, with the prefix stripped
func (s *Store) keysWithPrefix(prefix string) ([]string, error) {
	iter := s.db.NewIterator(util.BytesPrefix([]byte(prefix)), nil)
	defer iter.Release()
	var keys []string
	for iter.Next() {
		keys = append(keys, string(iter.Key())[len(prefix):])
	}
	return keys, iter.Error()
}
