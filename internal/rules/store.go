package rules

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/danielpatrickdp/legality/go-checker/internal/logging"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS rule_sets (
	set_id       TEXT PRIMARY KEY,
	revision     TEXT NOT NULL,
	source       TEXT,
	imported_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS encounters (
	set_id       TEXT NOT NULL,
	seq          INTEGER NOT NULL,
	entry_id     TEXT NOT NULL,
	kind         TEXT NOT NULL,
	generation   INTEGER NOT NULL,
	species      INTEGER NOT NULL,
	payload      TEXT NOT NULL,
	PRIMARY KEY (set_id, entry_id),
	FOREIGN KEY (set_id) REFERENCES rule_sets(set_id)
);

CREATE TABLE IF NOT EXISTS evolutions (
	set_id       TEXT NOT NULL,
	seq          INTEGER NOT NULL,
	from_species INTEGER NOT NULL,
	from_form    INTEGER NOT NULL,
	to_species   INTEGER NOT NULL,
	to_form      INTEGER NOT NULL,
	method       TEXT NOT NULL,
	level        INTEGER NOT NULL,
	generation   INTEGER NOT NULL,
	FOREIGN KEY (set_id) REFERENCES rule_sets(set_id)
);

CREATE TABLE IF NOT EXISTS learnsets (
	set_id       TEXT NOT NULL,
	seq          INTEGER NOT NULL,
	generation   INTEGER NOT NULL,
	species      INTEGER NOT NULL,
	form         INTEGER NOT NULL,
	payload      TEXT NOT NULL,
	FOREIGN KEY (set_id) REFERENCES rule_sets(set_id)
);

CREATE INDEX IF NOT EXISTS idx_encounters_lookup ON encounters(set_id, generation, species);

CREATE TABLE IF NOT EXISTS active_set (
	id           INTEGER PRIMARY KEY CHECK (id = 1),
	set_id       TEXT NOT NULL,
	FOREIGN KEY (set_id) REFERENCES rule_sets(set_id)
);
`
// #endregion schema

// #region store-struct

// ErrNoActiveSet is returned when nothing has been imported yet.
var ErrNoActiveSet = errors.New("no active rule set")

// SetRecord describes one imported rule set.
type SetRecord struct {
	SetID      string
	Revision   string
	Source     string
	ImportedAt time.Time
}

// Stats counts the rows of one rule set.
type Stats struct {
	Encounters int
	Evolutions int
	Learnsets  int
}

// Store keeps imported rule sets in SQLite with one of them active.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor

// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if _, err := db.Exec(logging.Schema); err != nil {
		return nil, fmt.Errorf("migrate verdict log: %w", err)
	}
	return &Store{db: db}, nil
}

// DB exposes the connection for the verdict log.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// #endregion constructor

// #region import

// Import validates set, stores it under a fresh id and makes it active.
func (s *Store) Import(set Set, source string) (SetRecord, error) {
	if _, err := Compile(set, Options{}); err != nil {
		return SetRecord{}, err
	}

	rec := SetRecord{
		SetID:      uuid.New().String(),
		Revision:   set.Revision,
		Source:     source,
		ImportedAt: time.Now().UTC(),
	}

	tx, err := s.db.Begin()
	if err != nil {
		return SetRecord{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO rule_sets (set_id, revision, source, imported_at) VALUES (?, ?, ?, ?)`,
		rec.SetID, rec.Revision, nullIfEmpty(source), rec.ImportedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return SetRecord{}, fmt.Errorf("insert set: %w", err)
	}

	for i, row := range set.Encounters {
		payload, err := json.Marshal(row)
		if err != nil {
			return SetRecord{}, fmt.Errorf("marshal encounter %s: %w", row.ID, err)
		}
		_, err = tx.Exec(
			`INSERT INTO encounters (set_id, seq, entry_id, kind, generation, species, payload)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			rec.SetID, i, row.ID, row.Kind, row.Generation, row.Species, string(payload),
		)
		if err != nil {
			return SetRecord{}, fmt.Errorf("insert encounter %s: %w", row.ID, err)
		}
	}

	for i, row := range set.Evolutions {
		_, err = tx.Exec(
			`INSERT INTO evolutions (set_id, seq, from_species, from_form, to_species, to_form, method, level, generation)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.SetID, i, row.From, row.FromForm, row.To, row.ToForm, row.Method, row.Level, row.Generation,
		)
		if err != nil {
			return SetRecord{}, fmt.Errorf("insert evolution %d: %w", i, err)
		}
	}

	for i, row := range set.Learnsets {
		payload, err := json.Marshal(row)
		if err != nil {
			return SetRecord{}, fmt.Errorf("marshal learnset %d: %w", i, err)
		}
		_, err = tx.Exec(
			`INSERT INTO learnsets (set_id, seq, generation, species, form, payload) VALUES (?, ?, ?, ?, ?, ?)`,
			rec.SetID, i, row.Generation, row.Species, row.Form, string(payload),
		)
		if err != nil {
			return SetRecord{}, fmt.Errorf("insert learnset %d: %w", i, err)
		}
	}

	_, err = tx.Exec(
		`INSERT INTO active_set (id, set_id) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET set_id = excluded.set_id`,
		rec.SetID,
	)
	if err != nil {
		return SetRecord{}, fmt.Errorf("set active: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return SetRecord{}, fmt.Errorf("commit: %w", err)
	}
	return rec, nil
}

// #endregion import

// #region active

// Active returns the active rule set record.
func (s *Store) Active() (SetRecord, error) {
	var id string
	err := s.db.QueryRow(`SELECT set_id FROM active_set WHERE id = 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return SetRecord{}, ErrNoActiveSet
	}
	if err != nil {
		return SetRecord{}, fmt.Errorf("get active: %w", err)
	}
	return s.GetSet(id)
}

// GetSet retrieves a rule set record by id.
func (s *Store) GetSet(id string) (SetRecord, error) {
	var rec SetRecord
	var source sql.NullString
	var importedStr string
	err := s.db.QueryRow(
		`SELECT set_id, revision, source, imported_at FROM rule_sets WHERE set_id = ?`, id,
	).Scan(&rec.SetID, &rec.Revision, &source, &importedStr)
	if err != nil {
		return SetRecord{}, fmt.Errorf("get set %s: %w", id, err)
	}
	if source.Valid {
		rec.Source = source.String
	}
	rec.ImportedAt, _ = time.Parse(time.RFC3339Nano, importedStr)
	return rec, nil
}

// Activate points the active set at a previously imported one.
func (s *Store) Activate(id string) error {
	var exists int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM rule_sets WHERE set_id = ?`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check set: %w", err)
	}
	if exists == 0 {
		return fmt.Errorf("set %s not found", id)
	}
	_, err = s.db.Exec(
		`INSERT INTO active_set (id, set_id) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET set_id = excluded.set_id`, id,
	)
	if err != nil {
		return fmt.Errorf("activate: %w", err)
	}
	return nil
}

// ListSets returns the most recently imported rule sets.
func (s *Store) ListSets(limit int) ([]SetRecord, error) {
	rows, err := s.db.Query(
		`SELECT set_id, revision, source, imported_at FROM rule_sets ORDER BY imported_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list sets: %w", err)
	}
	defer rows.Close()

	var records []SetRecord
	for rows.Next() {
		var rec SetRecord
		var source sql.NullString
		var importedStr string
		if err := rows.Scan(&rec.SetID, &rec.Revision, &source, &importedStr); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if source.Valid {
			rec.Source = source.String
		}
		rec.ImportedAt, _ = time.Parse(time.RFC3339Nano, importedStr)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Stats counts the rows stored for a rule set.
func (s *Store) Stats(id string) (Stats, error) {
	var st Stats
	for _, q := range []struct {
		table string
		dst   *int
	}{
		{"encounters", &st.Encounters},
		{"evolutions", &st.Evolutions},
		{"learnsets", &st.Learnsets},
	} {
		if err := s.db.QueryRow(`SELECT COUNT(*) FROM `+q.table+` WHERE set_id = ?`, id).Scan(q.dst); err != nil {
			return Stats{}, fmt.Errorf("count %s: %w", q.table, err)
		}
	}
	return st, nil
}

// #endregion active

// #region load

// Load reads the active rule set back into its authored form.
func (s *Store) Load() (Set, error) {
	rec, err := s.Active()
	if err != nil {
		return Set{}, err
	}
	return s.LoadSet(rec.SetID)
}

// LoadSet reads one rule set by id, preserving authored row order.
func (s *Store) LoadSet(id string) (Set, error) {
	rec, err := s.GetSet(id)
	if err != nil {
		return Set{}, err
	}
	set := Set{Revision: rec.Revision}

	rows, err := s.db.Query(`SELECT payload FROM encounters WHERE set_id = ? ORDER BY seq`, id)
	if err != nil {
		return Set{}, fmt.Errorf("load encounters: %w", err)
	}
	for rows.Next() {
		var payload string
		var row EncounterRow
		if err := rows.Scan(&payload); err != nil {
			rows.Close()
			return Set{}, fmt.Errorf("scan encounter: %w", err)
		}
		if err := json.Unmarshal([]byte(payload), &row); err != nil {
			rows.Close()
			return Set{}, fmt.Errorf("unmarshal encounter: %w", err)
		}
		set.Encounters = append(set.Encounters, row)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return Set{}, fmt.Errorf("load encounters: %w", err)
	}

	rows, err = s.db.Query(
		`SELECT from_species, from_form, to_species, to_form, method, level, generation
		 FROM evolutions WHERE set_id = ? ORDER BY seq`, id,
	)
	if err != nil {
		return Set{}, fmt.Errorf("load evolutions: %w", err)
	}
	for rows.Next() {
		var row EvolutionRow
		if err := rows.Scan(&row.From, &row.FromForm, &row.To, &row.ToForm, &row.Method, &row.Level, &row.Generation); err != nil {
			rows.Close()
			return Set{}, fmt.Errorf("scan evolution: %w", err)
		}
		set.Evolutions = append(set.Evolutions, row)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return Set{}, fmt.Errorf("load evolutions: %w", err)
	}

	rows, err = s.db.Query(`SELECT payload FROM learnsets WHERE set_id = ? ORDER BY seq`, id)
	if err != nil {
		return Set{}, fmt.Errorf("load learnsets: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var payload string
		var row LearnsetRow
		if err := rows.Scan(&payload); err != nil {
			return Set{}, fmt.Errorf("scan learnset: %w", err)
		}
		if err := json.Unmarshal([]byte(payload), &row); err != nil {
			return Set{}, fmt.Errorf("unmarshal learnset: %w", err)
		}
		set.Learnsets = append(set.Learnsets, row)
	}
	return set, rows.Err()
}

// #endregion load

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
// #endregion helpers
