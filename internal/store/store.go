// Package store persists pipeline outputs (municipality registry,
// population figures, enriched rows, index records, raw API snapshots)
// in a single sqlite database file.
package store

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/socialmapbr/vulnidx/internal/core"
)

const ddl = `
CREATE TABLE IF NOT EXISTS municipalities (
	municipio_id INTEGER PRIMARY KEY,
	municipio    TEXT NOT NULL,
	uf           TEXT NOT NULL DEFAULT '',
	position     INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS population (
	municipio_id INTEGER NOT NULL,
	source       TEXT NOT NULL,
	municipio    TEXT NOT NULL DEFAULT '',
	populacao    REAL NOT NULL,
	PRIMARY KEY (municipio_id, source)
);
CREATE TABLE IF NOT EXISTS enriched (
	municipio_id INTEGER PRIMARY KEY,
	municipio    TEXT NOT NULL,
	uf           TEXT NOT NULL DEFAULT '',
	populacao    REAL,
	position     INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS indices (
	municipio_id INTEGER PRIMARY KEY,
	municipio    TEXT NOT NULL,
	uf           TEXT NOT NULL DEFAULT '',
	populacao    REAL,
	vuln_overall REAL NOT NULL,
	position     INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS snapshots (
	name       TEXT PRIMARY KEY,
	created_at TEXT NOT NULL DEFAULT (datetime('now')),
	body       BLOB NOT NULL
);
`

// Store wraps the sqlite database holding all pipeline state.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the sqlite database at path and
// ensures the schema exists.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("store path cannot be empty")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	if _, err := db.Exec(ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema in %s: %w", path, err)
	}

	log.Debug().Str("path", path).Msg("store opened")
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveMunicipalities replaces the municipality registry, recording the
// slice position so the registry order survives the round trip.
func (s *Store) SaveMunicipalities(ms []core.Municipality) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM municipalities`); err != nil {
		return fmt.Errorf("clear municipalities: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO municipalities (municipio_id, municipio, uf, position) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, m := range ms {
		if _, err := stmt.Exec(m.ID, m.Name, m.UF, i); err != nil {
			return fmt.Errorf("insert municipality %d: %w", m.ID, err)
		}
	}
	return tx.Commit()
}

// Municipalities returns the registry in its original order.
func (s *Store) Municipalities() ([]core.Municipality, error) {
	rows, err := s.db.Query(`SELECT municipio_id, municipio, uf FROM municipalities ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query municipalities: %w", err)
	}
	defer rows.Close()

	var ms []core.Municipality
	for rows.Next() {
		var m core.Municipality
		if err := rows.Scan(&m.ID, &m.Name, &m.UF); err != nil {
			return nil, fmt.Errorf("scan municipality: %w", err)
		}
		ms = append(ms, m)
	}
	return ms, rows.Err()
}

// SavePopulation replaces all population records of the given source.
func (s *Store) SavePopulation(records []core.PopulationRecord, source core.PopulationSource) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM population WHERE source = ?`, string(source)); err != nil {
		return fmt.Errorf("clear population source %s: %w", source, err)
	}
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO population (municipio_id, source, municipio, populacao) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.Exec(r.MunicipioID, string(source), r.Municipio, r.Populacao); err != nil {
			return fmt.Errorf("insert population %d: %w", r.MunicipioID, err)
		}
	}
	return tx.Commit()
}

// Population returns all records of the given source.
func (s *Store) Population(source core.PopulationSource) ([]core.PopulationRecord, error) {
	rows, err := s.db.Query(`SELECT municipio_id, municipio, populacao FROM population WHERE source = ? ORDER BY municipio_id`, string(source))
	if err != nil {
		return nil, fmt.Errorf("query population: %w", err)
	}
	defer rows.Close()

	var records []core.PopulationRecord
	for rows.Next() {
		var r core.PopulationRecord
		if err := rows.Scan(&r.MunicipioID, &r.Municipio, &r.Populacao); err != nil {
			return nil, fmt.Errorf("scan population: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// PopulationPreferReal returns real population records when any exist,
// the synthetic seed otherwise.
func (s *Store) PopulationPreferReal() ([]core.PopulationRecord, core.PopulationSource, error) {
	real, err := s.Population(core.SourceReal)
	if err != nil {
		return nil, "", err
	}
	if len(real) > 0 {
		return real, core.SourceReal, nil
	}
	seed, err := s.Population(core.SourceSeed)
	if err != nil {
		return nil, "", err
	}
	return seed, core.SourceSeed, nil
}

// SaveEnriched replaces the enriched table.
func (s *Store) SaveEnriched(rows []core.EnrichedRow) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM enriched`); err != nil {
		return fmt.Errorf("clear enriched: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO enriched (municipio_id, municipio, uf, populacao, position) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range rows {
		var pop any
		if r.Populacao != nil {
			pop = *r.Populacao
		}
		if _, err := stmt.Exec(r.MunicipioID, r.Municipio, r.UF, pop, i); err != nil {
			return fmt.Errorf("insert enriched %d: %w", r.MunicipioID, err)
		}
	}
	return tx.Commit()
}

// Enriched returns the enriched rows in their original order.
func (s *Store) Enriched() ([]core.EnrichedRow, error) {
	rows, err := s.db.Query(`SELECT municipio_id, municipio, uf, populacao FROM enriched ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query enriched: %w", err)
	}
	defer rows.Close()

	var out []core.EnrichedRow
	for rows.Next() {
		var r core.EnrichedRow
		var pop sql.NullFloat64
		if err := rows.Scan(&r.MunicipioID, &r.Municipio, &r.UF, &pop); err != nil {
			return nil, fmt.Errorf("scan enriched: %w", err)
		}
		if pop.Valid {
			v := pop.Float64
			r.Populacao = &v
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// SaveIndices replaces the index records.
func (s *Store) SaveIndices(records []core.IndexRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM indices`); err != nil {
		return fmt.Errorf("clear indices: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO indices (municipio_id, municipio, uf, populacao, vuln_overall, position) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		var pop any
		if r.Populacao != nil {
			pop = *r.Populacao
		}
		if _, err := stmt.Exec(r.MunicipioID, r.Municipio, r.UF, pop, r.VulnOverall, i); err != nil {
			return fmt.Errorf("insert index %d: %w", r.MunicipioID, err)
		}
	}
	return tx.Commit()
}

// Indices returns index records ordered by descending score. limit <= 0
// means no limit.
func (s *Store) Indices(limit int) ([]core.IndexRecord, error) {
	q := `SELECT municipio_id, municipio, uf, populacao, vuln_overall FROM indices ORDER BY vuln_overall DESC, municipio_id`
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = s.db.Query(q+` LIMIT ?`, limit)
	} else {
		rows, err = s.db.Query(q)
	}
	if err != nil {
		return nil, fmt.Errorf("query indices: %w", err)
	}
	defer rows.Close()

	var out []core.IndexRecord
	for rows.Next() {
		r, err := scanIndex(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// IndexByID returns the index record of one municipality.
func (s *Store) IndexByID(id int64) (core.IndexRecord, error) {
	rows, err := s.db.Query(`SELECT municipio_id, municipio, uf, populacao, vuln_overall FROM indices WHERE municipio_id = ?`, id)
	if err != nil {
		return core.IndexRecord{}, fmt.Errorf("query index %d: %w", id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return core.IndexRecord{}, err
		}
		return core.IndexRecord{}, sql.ErrNoRows
	}
	return scanIndex(rows)
}

func scanIndex(rows *sql.Rows) (core.IndexRecord, error) {
	var r core.IndexRecord
	var pop sql.NullFloat64
	if err := rows.Scan(&r.MunicipioID, &r.Municipio, &r.UF, &pop, &r.VulnOverall); err != nil {
		return core.IndexRecord{}, fmt.Errorf("scan index: %w", err)
	}
	if pop.Valid {
		v := pop.Float64
		r.Populacao = &v
	}
	return r, nil
}
