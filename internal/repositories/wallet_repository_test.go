package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// sqlRecorder captures the SQL gorm generates so statement shape can be
// asserted without a database.
type sqlRecorder struct {
	statements []string
}

func (r *sqlRecorder) LogMode(gormlogger.LogLevel) gormlogger.Interface { return r }
func (r *sqlRecorder) Info(context.Context, string, ...interface{})    {}
func (r *sqlRecorder) Warn(context.Context, string, ...interface{})    {}
func (r *sqlRecorder) Error(context.Context, string, ...interface{})   {}
func (r *sqlRecorder) Trace(_ context.Context, _ time.Time, fc func() (string, int64), _ error) {
	sql, _ := fc()
	r.statements = append(r.statements, sql)
}

func (r *sqlRecorder) last() string {
	if len(r.statements) == 0 {
		return ""
	}
	return r.statements[len(r.statements)-1]
}

func newDryRunDB(t *testing.T) (*gorm.DB, *sqlRecorder) {
	t.Helper()
	rec := &sqlRecorder{}
	db, err := gorm.Open(postgres.Open("host=localhost user=test dbname=test"), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               rec,
	})
	require.NoError(t, err)
	return db, rec
}

func TestGetByIDForUpdateLocksRow(t *testing.T) {
	db, rec := newDryRunDB(t)
	repo := NewWalletRepository(db)

	// The balance read inside a mutating unit must hold the row lock until
	// commit, or two concurrent debits can both pass the funds check.
	_, _ = repo.GetByIDForUpdate(context.Background(), 1)

	require.NotEmpty(t, rec.statements)
	assert.Contains(t, rec.last(), "FOR UPDATE")
}

func TestGetByIDDoesNotLock(t *testing.T) {
	db, rec := newDryRunDB(t)
	repo := NewWalletRepository(db)

	_, _ = repo.GetByID(context.Background(), 1)

	require.NotEmpty(t, rec.statements)
	assert.NotContains(t, rec.last(), "FOR UPDATE")
}
