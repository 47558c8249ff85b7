// Package database manages the LMDB wrapper for the application.
package database

import (
	"fmt"

	"github.com/Data-Corruption/lmdb-go/lmdb"
	"github.com/Data-Corruption/lmdb-go/wrap"
	"github.com/Data-Corruption/stdx/xlog"
)

/*
Database Layout:

Config
	"version" -> version string of database schema (not app version)
	"data" -> marshaled Settings struct
Stats
	<user id> -> marshaled UserStats struct
*/

const (
	ConfigVersionKey = "version"
	ConfigDataKey    = "data"

	// DBI Names
	ConfigDBIName = "config"
	StatsDBIName  = "stats"
)

// DBINameList exists for easy initialization; add new DBI names here too.
var DBINameList = []string{ConfigDBIName, StatsDBIName}

const schemaVersion = "1"

func New(directory string, logger *xlog.Logger) (*wrap.DB, error) {
	db, srClosed, err := wrap.New(directory, DBINameList)
	if err != nil {
		if db != nil {
			db.Close()
		}
		return nil, err
	}
	logger.Infof("LMDB initialized at %s", directory)
	if srClosed > 0 {
		logger.Warnf("LMDB had %d stale readers which were closed", srClosed)
	}

	if err := migrate(db, logger); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// migrate stamps the schema version, upgrading older layouts when the schema
// changes. There is only one schema so far.
func migrate(db *wrap.DB, logger *xlog.Logger) error {
	current, err := db.Read(ConfigDBIName, []byte(ConfigVersionKey))
	if err != nil && !lmdb.IsNotFound(err) {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if string(current) == schemaVersion {
		return nil
	}

	if err := db.Update(func(txn *lmdb.Txn) error {
		dbi, ok := db.GetDBis()[ConfigDBIName]
		if !ok {
			return fmt.Errorf("DBI %q not found", ConfigDBIName)
		}
		return txn.Put(dbi, []byte(ConfigVersionKey), []byte(schemaVersion), 0)
	}); err != nil {
		return fmt.Errorf("failed to write schema version: %w", err)
	}
	logger.Infof("database schema set to version %s", schemaVersion)
	return nil
}
