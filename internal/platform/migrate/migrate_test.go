package migrate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db
}

func createTableChangeset(id int64, name, table string) Changeset {
	return Changeset{
		ID:   id,
		Name: name,
		Up: func(tx *gorm.DB) error {
			return tx.Exec("CREATE TABLE " + table + " (id INTEGER PRIMARY KEY)").Error
		},
		Down: func(tx *gorm.DB) error {
			return tx.Exec("DROP TABLE " + table).Error
		},
	}
}

func TestNewRunner_Validation(t *testing.T) {
	db := setupTestDB(t)

	t.Run("duplicate ids are rejected", func(t *testing.T) {
		_, err := NewRunner(db, []Changeset{
			createTableChangeset(1, "a", "a"),
			createTableChangeset(1, "b", "b"),
		})
		assert.ErrorContains(t, err, "duplicate changeset id 1")
	})

	t.Run("missing down is rejected", func(t *testing.T) {
		_, err := NewRunner(db, []Changeset{
			{ID: 1, Name: "one-way", Up: func(*gorm.DB) error { return nil }},
		})
		assert.ErrorContains(t, err, "must define both up and down")
	})

	t.Run("changesets are sorted by id", func(t *testing.T) {
		r, err := NewRunner(db, []Changeset{
			createTableChangeset(2, "second", "t2"),
			createTableChangeset(1, "first", "t1"),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), r.changesets[0].ID)
		assert.Equal(t, int64(2), r.changesets[1].ID)
	})
}

func TestRunner_Up(t *testing.T) {
	ctx := context.Background()

	t.Run("applies pending changesets in order and records the ledger", func(t *testing.T) {
		db := setupTestDB(t)
		r, err := NewRunner(db, []Changeset{
			createTableChangeset(2, "create_books", "books"),
			createTableChangeset(1, "create_authors", "authors"),
		})
		require.NoError(t, err)

		n, err := r.Up(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		assert.True(t, db.Migrator().HasTable("authors"))
		assert.True(t, db.Migrator().HasTable("books"))

		statuses, err := r.Status(ctx)
		require.NoError(t, err)
		require.Len(t, statuses, 2)
		for _, st := range statuses {
			assert.True(t, st.Applied, "changeset %s should be applied", st.Name)
			assert.False(t, st.AppliedAt.IsZero())
		}
	})

	t.Run("re-running is a no-op", func(t *testing.T) {
		db := setupTestDB(t)
		r, err := NewRunner(db, []Changeset{createTableChangeset(1, "create_authors", "authors")})
		require.NoError(t, err)

		_, err = r.Up(ctx)
		require.NoError(t, err)

		n, err := r.Up(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("a failed changeset leaves the ledger unmarked", func(t *testing.T) {
		db := setupTestDB(t)
		boom := errors.New("boom")
		r, err := NewRunner(db, []Changeset{
			createTableChangeset(1, "create_authors", "authors"),
			{
				ID:   2,
				Name: "broken",
				Up:   func(*gorm.DB) error { return boom },
				Down: func(*gorm.DB) error { return nil },
			},
			createTableChangeset(3, "create_books", "books"),
		})
		require.NoError(t, err)

		n, err := r.Up(ctx)
		assert.Equal(t, 1, n)

		var migErr *MigrationError
		require.ErrorAs(t, err, &migErr)
		assert.Equal(t, "broken", migErr.Changeset)
		assert.ErrorIs(t, err, boom)

		// The failure stops the run: later changesets stay pending and the
		// ledger records only what succeeded.
		assert.False(t, db.Migrator().HasTable("books"))
		statuses, err := r.Status(ctx)
		require.NoError(t, err)
		assert.True(t, statuses[0].Applied)
		assert.False(t, statuses[1].Applied)
		assert.False(t, statuses[2].Applied)
	})

	t.Run("picks up changesets added after an earlier run", func(t *testing.T) {
		db := setupTestDB(t)
		first := createTableChangeset(1, "create_authors", "authors")

		r1, err := NewRunner(db, []Changeset{first})
		require.NoError(t, err)
		_, err = r1.Up(ctx)
		require.NoError(t, err)

		r2, err := NewRunner(db, []Changeset{first, createTableChangeset(2, "create_books", "books")})
		require.NoError(t, err)
		n, err := r2.Up(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		assert.True(t, db.Migrator().HasTable("books"))
	})
}

func TestRunner_Down(t *testing.T) {
	ctx := context.Background()

	t.Run("reverts only the most recent changeset", func(t *testing.T) {
		db := setupTestDB(t)
		r, err := NewRunner(db, []Changeset{
			createTableChangeset(1, "create_authors", "authors"),
			createTableChangeset(2, "create_books", "books"),
		})
		require.NoError(t, err)
		_, err = r.Up(ctx)
		require.NoError(t, err)

		require.NoError(t, r.Down(ctx))
		assert.True(t, db.Migrator().HasTable("authors"))
		assert.False(t, db.Migrator().HasTable("books"))

		require.NoError(t, r.Down(ctx))
		assert.False(t, db.Migrator().HasTable("authors"))
	})

	t.Run("empty ledger", func(t *testing.T) {
		db := setupTestDB(t)
		r, err := NewRunner(db, []Changeset{createTableChangeset(1, "create_authors", "authors")})
		require.NoError(t, err)

		assert.ErrorIs(t, r.Down(ctx), ErrNothingApplied)
	})

	t.Run("a failed revert keeps the ledger row", func(t *testing.T) {
		db := setupTestDB(t)
		boom := errors.New("boom")
		r, err := NewRunner(db, []Changeset{
			{
				ID:   1,
				Name: "stuck",
				Up:   func(*gorm.DB) error { return nil },
				Down: func(*gorm.DB) error { return boom },
			},
		})
		require.NoError(t, err)
		_, err = r.Up(ctx)
		require.NoError(t, err)

		err = r.Down(ctx)
		var migErr *MigrationError
		require.ErrorAs(t, err, &migErr)
		assert.Equal(t, "stuck", migErr.Changeset)

		statuses, err := r.Status(ctx)
		require.NoError(t, err)
		assert.True(t, statuses[0].Applied)
	})

	t.Run("reverted changeset can be re-applied", func(t *testing.T) {
		db := setupTestDB(t)
		r, err := NewRunner(db, []Changeset{createTableChangeset(1, "create_authors", "authors")})
		require.NoError(t, err)

		_, err = r.Up(ctx)
		require.NoError(t, err)
		require.NoError(t, r.Down(ctx))

		n, err := r.Up(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		assert.True(t, db.Migrator().HasTable("authors"))
	})
}
