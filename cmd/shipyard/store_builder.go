package main

import (
	"fmt"
	"strings"
	"sync"

	"github.com/kompox/shipyard/adapters/store/inmem"
	"github.com/kompox/shipyard/adapters/store/rdb"
	"github.com/kompox/shipyard/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// findFlag recursively searches parents for a flag.
func findFlag(cmd *cobra.Command, name string) *pflag.Flag {
	for c := cmd; c != nil; c = c.Parent() {
		if f := c.Flags().Lookup(name); f != nil {
			return f
		}
		if f := c.PersistentFlags().Lookup(name); f != nil {
			return f
		}
	}
	return nil
}

// getDBURL extracts the db-url flag value from command hierarchy.
func getDBURL(cmd *cobra.Command) string {
	if f := findFlag(cmd, "db-url"); f != nil && f.Value.String() != "" {
		return f.Value.String()
	}
	return "sqlite:shipyard.db"
}

// store bundles the repositories and transaction boundary of one database.
type store struct {
	Repos *domain.Repositories
	UoW   domain.UnitOfWork
}

var (
	storesMu sync.Mutex
	stores   = map[string]*store{}
)

// buildStore opens the database named by db-url once per process. memory: keeps
// everything in process and is only useful for dry runs.
func buildStore(cmd *cobra.Command) (*store, error) {
	dbURL := getDBURL(cmd)
	storesMu.Lock()
	defer storesMu.Unlock()
	if s, ok := stores[dbURL]; ok {
		return s, nil
	}
	s, err := openStore(dbURL)
	if err != nil {
		return nil, err
	}
	stores[dbURL] = s
	return s, nil
}

func openStore(dbURL string) (*store, error) {
	switch {
	case strings.HasPrefix(dbURL, "memory:"):
		s := inmem.NewStore()
		return &store{Repos: s.Repositories(), UoW: inmem.NewUnitOfWork(s)}, nil
	case strings.HasPrefix(dbURL, "sqlite:"), strings.HasPrefix(dbURL, "sqlite3:"), strings.HasPrefix(dbURL, "mysql:"):
		db, err := rdb.OpenFromURL(dbURL)
		if err != nil {
			return nil, err
		}
		if err := rdb.AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("migrate %s: %w", dbURL, err)
		}
		return &store{Repos: rdb.NewRepositories(db), UoW: rdb.NewUnitOfWork(db)}, nil
	default:
		return nil, fmt.Errorf("unsupported db scheme: %s", dbURL)
	}
}
