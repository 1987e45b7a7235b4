// Package migrate applies ordered, reversible schema changesets against a
// gorm connection, tracking applied changesets in a ledger table.
package migrate

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"
)

// ErrNothingApplied is returned by Down when the ledger is empty.
var ErrNothingApplied = errors.New("no applied changesets to revert")

// Changeset is one forward/inverse pair of schema structural operations.
// ID is the changeset's sequence number; changesets apply in ascending ID
// order and each is applied at most once.
type Changeset struct {
	ID   int64
	Name string
	Up   func(tx *gorm.DB) error
	Down func(tx *gorm.DB) error
}

// MigrationError reports a changeset that failed to apply or revert.
// It is fatal at deployment time: the changeset was rolled back whole and
// the ledger does not mark it applied.
type MigrationError struct {
	Changeset string
	Err       error
}

func (e *MigrationError) Error() string {
	return fmt.Sprintf("changeset %s failed: %v", e.Changeset, e.Err)
}

func (e *MigrationError) Unwrap() error {
	return e.Err
}

// ledgerEntry is one row of the applied-changeset ledger.
type ledgerEntry struct {
	ID        int64     `gorm:"primaryKey;autoIncrement:false"`
	Name      string    `gorm:"size:255;not null"`
	AppliedAt time.Time `gorm:"not null"`
}

// TableName returns the ledger table name.
func (ledgerEntry) TableName() string {
	return "schema_changesets"
}

// Status describes one changeset's position in the ledger.
type Status struct {
	ID        int64
	Name      string
	Applied   bool
	AppliedAt time.Time
}

// Runner applies and reverts changesets. Changesets run serialized at
// deployment time, never concurrently with application traffic against the
// same schema version.
type Runner struct {
	db         *gorm.DB
	changesets []Changeset
}

// NewRunner creates a Runner for the given changesets. The slice is
// sorted by ID; duplicate IDs and missing Up/Down functions are rejected.
func NewRunner(db *gorm.DB, changesets []Changeset) (*Runner, error) {
	ordered := make([]Changeset, len(changesets))
	copy(ordered, changesets)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	seen := make(map[int64]string, len(ordered))
	for _, cs := range ordered {
		if prev, ok := seen[cs.ID]; ok {
			return nil, fmt.Errorf("duplicate changeset id %d (%s, %s)", cs.ID, prev, cs.Name)
		}
		seen[cs.ID] = cs.Name
		if cs.Up == nil || cs.Down == nil {
			return nil, fmt.Errorf("changeset %s must define both up and down", cs.Name)
		}
	}

	return &Runner{db: db, changesets: ordered}, nil
}

// Up applies every pending changeset in declared order. Each changeset
// runs in a single transaction together with its ledger insert: a failure
// rolls the whole changeset back and leaves the ledger untouched. It
// returns the number of changesets applied.
func (r *Runner) Up(ctx context.Context) (int, error) {
	applied, err := r.appliedIDs(ctx)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, cs := range r.changesets {
		if applied[cs.ID] {
			continue
		}
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := cs.Up(tx); err != nil {
				return err
			}
			return tx.Create(&ledgerEntry{
				ID:        cs.ID,
				Name:      cs.Name,
				AppliedAt: time.Now().UTC(),
			}).Error
		})
		if err != nil {
			return n, &MigrationError{Changeset: cs.Name, Err: err}
		}
		n++
	}
	return n, nil
}

// Down reverts exactly the most recently applied changeset, restoring the
// prior schema shape, and removes its ledger row in the same transaction.
func (r *Runner) Down(ctx context.Context) error {
	applied, err := r.appliedIDs(ctx)
	if err != nil {
		return err
	}

	var last *Changeset
	for i := range r.changesets {
		if applied[r.changesets[i].ID] {
			last = &r.changesets[i]
		}
	}
	if last == nil {
		return ErrNothingApplied
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := last.Down(tx); err != nil {
			return err
		}
		return tx.Delete(&ledgerEntry{}, "id = ?", last.ID).Error
	})
	if err != nil {
		return &MigrationError{Changeset: last.Name, Err: err}
	}
	return nil
}

// Status reports every changeset in order with its ledger state.
func (r *Runner) Status(ctx context.Context) ([]Status, error) {
	if err := r.ensureLedger(ctx); err != nil {
		return nil, err
	}

	var entries []ledgerEntry
	if err := r.db.WithContext(ctx).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}
	byID := make(map[int64]ledgerEntry, len(entries))
	for _, e := range entries {
		byID[e.ID] = e
	}

	out := make([]Status, 0, len(r.changesets))
	for _, cs := range r.changesets {
		st := Status{ID: cs.ID, Name: cs.Name}
		if e, ok := byID[cs.ID]; ok {
			st.Applied = true
			st.AppliedAt = e.AppliedAt
		}
		out = append(out, st)
	}
	return out, nil
}

func (r *Runner) ensureLedger(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&ledgerEntry{}); err != nil {
		return fmt.Errorf("failed to ensure ledger table: %w", err)
	}
	return nil
}

func (r *Runner) appliedIDs(ctx context.Context) (map[int64]bool, error) {
	if err := r.ensureLedger(ctx); err != nil {
		return nil, err
	}

	var entries []ledgerEntry
	if err := r.db.WithContext(ctx).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}
	applied := make(map[int64]bool, len(entries))
	for _, e := range entries {
		applied[e.ID] = true
	}
	return applied, nil
}
