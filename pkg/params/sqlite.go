package params

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/enermodel/capacity-planner/pkg/core"
)

// Dimensionality markers for persisted parameters.
const (
	dimLocTech = "loctech"
	dimTech    = "tech"
	dimNode    = "node"
)

// SQLiteStore is a Resolver backed by a SQLite parameter set. The external
// loading stage (or a parallel-run generator) writes parameters with the
// Write* methods; the whole set is loaded into memory on open, so lookups
// during model construction never touch the database.
type SQLiteStore struct {
	*Store
	db *sql.DB
}

// OpenSQLite opens (creating if needed) a SQLite parameter set at path and
// loads all stored parameters into memory.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS params (
		name TEXT NOT NULL,
		dim  TEXT NOT NULL,
		idx  TEXT NOT NULL,
		kind TEXT NOT NULL,
		num  REAL NOT NULL DEFAULT 0,
		flag INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (name, dim, idx)
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create params table: %w", err)
	}
	s := &SQLiteStore{Store: NewStore(), db: db}
	if err := s.load(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) load() error {
	rows, err := s.db.Query(`SELECT name, dim, idx, kind, num, flag FROM params`)
	if err != nil {
		return fmt.Errorf("select params: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var name, dim, idx, kind string
		var num float64
		var flag int
		if err := rows.Scan(&name, &dim, &idx, &kind, &num, &flag); err != nil {
			return fmt.Errorf("scan param: %w", err)
		}
		v, err := decodeValue(kind, num, flag)
		if err != nil {
			return fmt.Errorf("param %s[%s]: %w", name, idx, err)
		}
		switch dim {
		case dimLocTech:
			s.locTech[composite(name, idx)] = v
		case dimTech:
			s.tech[composite(name, idx)] = v
		case dimNode:
			s.node[composite(name, idx)] = v
		default:
			return fmt.Errorf("param %s[%s]: unknown dimensionality %q", name, idx, dim)
		}
	}
	return rows.Err()
}

// Write persists a per-loc::tech parameter and updates the in-memory view.
func (s *SQLiteStore) Write(name string, lt core.LocTech, v Value) error {
	if err := s.put(name, dimLocTech, lt.Key(), v); err != nil {
		return err
	}
	s.Store.Set(name, lt, v)
	return nil
}

// WriteTech persists a per-technology parameter.
func (s *SQLiteStore) WriteTech(name string, tech core.Tech, v Value) error {
	if err := s.put(name, dimTech, string(tech), v); err != nil {
		return err
	}
	s.Store.SetTech(name, tech, v)
	return nil
}

// WriteNode persists a per-node parameter.
func (s *SQLiteStore) WriteNode(name string, node core.Node, v Value) error {
	if err := s.put(name, dimNode, string(node), v); err != nil {
		return err
	}
	s.Store.SetNode(name, node, v)
	return nil
}

func (s *SQLiteStore) put(name, dim, idx string, v Value) error {
	kind, num, flag := encodeValue(v)
	if kind == "" {
		// Absent values are represented by row absence.
		_, err := s.db.Exec(`DELETE FROM params WHERE name = ? AND dim = ? AND idx = ?`, name, dim, idx)
		if err != nil {
			return fmt.Errorf("delete param %s[%s]: %w", name, idx, err)
		}
		return nil
	}
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO params (name, dim, idx, kind, num, flag) VALUES (?, ?, ?, ?, ?, ?)`,
		name, dim, idx, kind, num, flag,
	)
	if err != nil {
		return fmt.Errorf("write param %s[%s]: %w", name, idx, err)
	}
	return nil
}

// Close releases the underlying database handle. The in-memory view stays
// usable afterwards.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func encodeValue(v Value) (kind string, num float64, flag int) {
	switch v.kind {
	case kindNumber:
		return "number", v.num, 0
	case kindBool:
		if v.flag {
			return "bool", 0, 1
		}
		return "bool", 0, 0
	default:
		return "", 0, 0
	}
}

func decodeValue(kind string, num float64, flag int) (Value, error) {
	switch kind {
	case "number":
		return Number(num), nil
	case "bool":
		return Bool(flag != 0), nil
	default:
		return Value{}, fmt.Errorf("unknown value kind %q", kind)
	}
}

var _ Resolver = (*SQLiteStore)(nil)
