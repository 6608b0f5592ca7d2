package scheduler

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	authdomain "github.com/convodash/convodash/internal/auth/domain"
	"github.com/convodash/convodash/internal/auth/repository"
	"github.com/convodash/convodash/internal/clock"
	"github.com/convodash/convodash/internal/config"
)

func setupScheduler(t *testing.T) (*Scheduler, *gorm.DB, *clock.FakeClock, *snowflake.Node) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&authdomain.Tenant{}, &authdomain.Session{}))

	node, err := snowflake.NewNode(3)
	require.NoError(t, err)
	fakeClock := clock.NewFakeClock(time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC))

	_, sessionRepo := repository.New(db)
	sched := New(Params{
		Log:         zap.NewNop(),
		SessionRepo: sessionRepo,
		Clock:       fakeClock,
		Config:      config.Config{SessionSweepInterval: time.Hour},
	})
	return sched, db, fakeClock, node
}

func seedSession(t *testing.T, db *gorm.DB, node *snowflake.Node, expiresAt time.Time, revokedAt *time.Time) snowflake.ID {
	t.Helper()
	session := &authdomain.Session{
		ID:        node.Generate(),
		TenantID:  node.Generate(),
		TokenHash: node.Generate().String(),
		ExpiresAt: expiresAt,
		RevokedAt: revokedAt,
		CreatedAt: expiresAt.Add(-time.Hour),
	}
	require.NoError(t, db.Create(session).Error)
	return session.ID
}

func TestSweepDeletesOnlyExpiredSessions(t *testing.T) {
	sched, db, fakeClock, node := setupScheduler(t)
	now := fakeClock.Now()

	expired := seedSession(t, db, node, now.Add(-time.Minute), nil)
	live := seedSession(t, db, node, now.Add(time.Hour), nil)

	revokedAt := now.Add(-2 * time.Hour)
	// Revoked but unexpired sessions survive the sweep.
	revokedLive := seedSession(t, db, node, now.Add(time.Hour), &revokedAt)

	deleted, err := sched.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	var remaining []authdomain.Session
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 2)
	ids := []snowflake.ID{remaining[0].ID, remaining[1].ID}
	assert.Contains(t, ids, live)
	assert.Contains(t, ids, revokedLive)
	assert.NotContains(t, ids, expired)
}

func TestSweepNothingToDelete(t *testing.T) {
	sched, db, fakeClock, node := setupScheduler(t)

	seedSession(t, db, node, fakeClock.Now().Add(time.Hour), nil)

	deleted, err := sched.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)
}

func TestSweepPicksUpAdvancingClock(t *testing.T) {
	sched, db, fakeClock, node := setupScheduler(t)

	seedSession(t, db, node, fakeClock.Now().Add(30*time.Minute), nil)

	deleted, err := sched.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)

	fakeClock.Advance(time.Hour)

	deleted, err = sched.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}
