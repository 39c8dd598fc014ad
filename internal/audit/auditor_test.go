package audit

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unicorn-byte/emergency-card/internal/crypto"
	"github.com/unicorn-byte/emergency-card/internal/models"
	"github.com/unicorn-byte/emergency-card/internal/repositories"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:audit-%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, repositories.Migrate(db))
	return db
}

func seedProfile(t *testing.T, db *gorm.DB) (*models.User, *models.EmergencyProfile) {
	t.Helper()
	user := &models.User{Username: "audited", Email: "audited@example.com", Password: "x", IsActive: true}
	require.NoError(t, db.Create(user).Error)

	env, err := crypto.New("audit-test-key")
	require.NoError(t, err)
	profile, err := repositories.CreateProfile(db, env, user.ID, repositories.ProfileInput{FullName: "Audited"})
	require.NoError(t, err)
	return user, profile
}

func TestAuditorPersistsQueuedEvents(t *testing.T) {
	db := newTestDB(t)
	user, profile := seedProfile(t, db)

	a := New(db, 16)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = a.Run(ctx)
		close(done)
	}()

	a.Record(profile.PublicID, "198.51.100.4", "Mozilla/5.0")

	assert.Eventually(t, func() bool {
		var count int64
		db.Model(&models.AccessLog{}).Where("user_id = ?", user.ID).Count(&count)
		return count == 1
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	<-done
}

func TestRecordNeverBlocksWhenQueueFull(t *testing.T) {
	db := newTestDB(t)
	_, profile := seedProfile(t, db)

	// No worker running, capacity one: the second record must drop
	// rather than block.
	a := New(db, 1)

	finished := make(chan struct{})
	go func() {
		a.Record(profile.PublicID, "198.51.100.4", "ua")
		a.Record(profile.PublicID, "198.51.100.5", "ua")
		a.Record(profile.PublicID, "198.51.100.6", "ua")
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("Record blocked on a full queue")
	}
}

func TestAuditorFlushesOnShutdown(t *testing.T) {
	db := newTestDB(t)
	user, profile := seedProfile(t, db)

	a := New(db, 16)
	a.Record(profile.PublicID, "198.51.100.7", "ua")
	a.Record(profile.PublicID, "198.51.100.8", "ua")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, a.Run(ctx))

	var count int64
	require.NoError(t, db.Model(&models.AccessLog{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}
