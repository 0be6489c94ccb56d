// Package registry keeps a record of the instances botctl has
// touched: where they live, when they were provisioned, run and
// cleaned, and which requirements checksum their virtualenv carries.
//
// The registry is advisory bookkeeping. Callers treat every write as
// best-effort: a failing registry update is logged and never fails
// the operation it accompanies.
package registry

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/botctl/botctl/pkg/errors"
	"github.com/botctl/botctl/pkg/instance"
	"github.com/botctl/botctl/pkg/logging"
)

const schema = `
CREATE TABLE IF NOT EXISTS instances (
	dir                   TEXT PRIMARY KEY,
	name                  TEXT NOT NULL,
	venv_path             TEXT NOT NULL,
	requirements_checksum TEXT NOT NULL DEFAULT '',
	provisioned_at        TIMESTAMP,
	last_run_at           TIMESTAMP,
	cleaned_at            TIMESTAMP
);
`

// Entry is one registered instance
type Entry struct {
	Name                 string     `json:"name"`
	Dir                  string     `json:"dir"`
	VenvPath             string     `json:"venvPath"`
	RequirementsChecksum string     `json:"requirementsChecksum,omitempty"`
	ProvisionedAt        *time.Time `json:"provisionedAt,omitempty"`
	LastRunAt            *time.Time `json:"lastRunAt,omitempty"`
	CleanedAt            *time.Time `json:"cleanedAt,omitempty"`
}

// Registry is the sqlite-backed instance registry
type Registry struct {
	db     *sql.DB
	logger zerolog.Logger
}

// Open opens (creating if necessary) the registry database at path
func Open(path string) (*Registry, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrapf(err, errors.ErrRegistry, "failed to create registry directory %s", dir)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrRegistry, "failed to open registry %s", path)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, errors.ErrRegistry, "failed to ping registry %s", path)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, errors.ErrRegistry, "failed to apply registry schema")
	}

	return &Registry{
		db:     db,
		logger: logging.GetLogger("registry"),
	}, nil
}

// Close closes the underlying database
func (r *Registry) Close() error {
	return r.db.Close()
}

// RecordProvision upserts the instance with a fresh provision
// timestamp and the checksum its virtualenv was built from
func (r *Registry) RecordProvision(inst *instance.Instance, checksum string) error {
	now := time.Now().UTC()
	_, err := r.db.Exec(`
		INSERT INTO instances (dir, name, venv_path, requirements_checksum, provisioned_at, cleaned_at)
		VALUES (?, ?, ?, ?, ?, NULL)
		ON CONFLICT(dir) DO UPDATE SET
			name = excluded.name,
			venv_path = excluded.venv_path,
			requirements_checksum = excluded.requirements_checksum,
			provisioned_at = excluded.provisioned_at,
			cleaned_at = NULL`,
		inst.Dir, inst.Name, inst.VenvPath(), checksum, now)
	if err != nil {
		return errors.Wrapf(err, errors.ErrRegistry, "failed to record provision for %s", inst.Name)
	}

	r.logger.Debug().Str("instance", inst.Name).Msg("Recorded provision")
	return nil
}

// RecordRun upserts the instance with a fresh last-run timestamp
func (r *Registry) RecordRun(inst *instance.Instance) error {
	now := time.Now().UTC()
	_, err := r.db.Exec(`
		INSERT INTO instances (dir, name, venv_path, last_run_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(dir) DO UPDATE SET
			name = excluded.name,
			venv_path = excluded.venv_path,
			last_run_at = excluded.last_run_at`,
		inst.Dir, inst.Name, inst.VenvPath(), now)
	if err != nil {
		return errors.Wrapf(err, errors.ErrRegistry, "failed to record run for %s", inst.Name)
	}

	r.logger.Debug().Str("instance", inst.Name).Msg("Recorded run")
	return nil
}

// RecordClean marks the instance's virtualenv as removed. The row
// stays so list still shows the instance's history.
func (r *Registry) RecordClean(inst *instance.Instance) error {
	now := time.Now().UTC()
	_, err := r.db.Exec(`
		INSERT INTO instances (dir, name, venv_path, requirements_checksum, cleaned_at)
		VALUES (?, ?, ?, '', ?)
		ON CONFLICT(dir) DO UPDATE SET
			name = excluded.name,
			requirements_checksum = '',
			cleaned_at = excluded.cleaned_at`,
		inst.Dir, inst.Name, inst.VenvPath(), now)
	if err != nil {
		return errors.Wrapf(err, errors.ErrRegistry, "failed to record clean for %s", inst.Name)
	}

	r.logger.Debug().Str("instance", inst.Name).Msg("Recorded clean")
	return nil
}

// Get returns the entry for an instance directory, or nil when the
// registry has never seen it
func (r *Registry) Get(dir string) (*Entry, error) {
	row := r.db.QueryRow(`
		SELECT dir, name, venv_path, requirements_checksum, provisioned_at, last_run_at, cleaned_at
		FROM instances WHERE dir = ?`, dir)

	entry, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrRegistry, "failed to look up %s", dir)
	}
	return entry, nil
}

// List returns all registered instances ordered by name
func (r *Registry) List() ([]Entry, error) {
	rows, err := r.db.Query(`
		SELECT dir, name, venv_path, requirements_checksum, provisioned_at, last_run_at, cleaned_at
		FROM instances ORDER BY name, dir`)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrRegistry, "failed to list instances")
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrRegistry, "failed to scan instance row")
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrRegistry, "failed to read instance rows")
	}

	return entries, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*Entry, error) {
	var entry Entry
	var provisioned, lastRun, cleaned sql.NullTime

	if err := s.Scan(&entry.Dir, &entry.Name, &entry.VenvPath, &entry.RequirementsChecksum,
		&provisioned, &lastRun, &cleaned); err != nil {
		return nil, err
	}

	if provisioned.Valid {
		entry.ProvisionedAt = &provisioned.Time
	}
	if lastRun.Valid {
		entry.LastRunAt = &lastRun.Time
	}
	if cleaned.Valid {
		entry.CleanedAt = &cleaned.Time
	}

	return &entry, nil
}
