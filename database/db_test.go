package database

import (
	"path/filepath"
	"testing"

	"github.com/userdesk/userdesk/config"
	"github.com/userdesk/userdesk/database/model"
	"github.com/userdesk/userdesk/util/crypto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := config.GetDefaultDatabaseConfig()
	cfg.SQLite.Path = filepath.Join(t.TempDir(), "test.db")

	db, err := InitDB(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = CloseDB(db) })
	return db
}

func TestSeed(t *testing.T) {
	db := openTestDB(t)
	hasher := crypto.NewHasher(crypto.MinRounds)

	require.NoError(t, Seed(db, hasher))

	var perms []model.Permission
	require.NoError(t, db.Order("id ASC").Find(&perms).Error)
	assert.Equal(t, model.DefaultPermissions(), perms)

	var admin model.User
	require.NoError(t, db.Where("login = ?", "admin").First(&admin).Error)
	require.NotNil(t, admin.PermissionId)
	assert.Equal(t, model.PermAdminID, *admin.PermissionId)
	assert.True(t, hasher.Verify("admin", admin.Password))
	require.NotNil(t, admin.DateOfBirth)
	assert.Equal(t, "1970-01-01", admin.DateOfBirth.Format("2006-01-02"))
}

func TestSeedIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	hasher := crypto.NewHasher(crypto.MinRounds)

	require.NoError(t, Seed(db, hasher))
	require.NoError(t, Seed(db, hasher))

	var users, perms int64
	require.NoError(t, db.Model(&model.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&model.Permission{}).Count(&perms).Error)
	assert.EqualValues(t, 1, users)
	assert.EqualValues(t, 3, perms)
}

func TestUniqueLoginIsTranslated(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Seed(db, crypto.NewHasher(crypto.MinRounds)))

	err := db.Create(&model.User{Login: "admin", Password: "x"}).Error
	assert.True(t, IsDuplicate(err), "got %v", err)
}

func TestPermissionDeleteSetsNull(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Seed(db, crypto.NewHasher(crypto.MinRounds)))

	u := &model.User{Login: "reader", Password: "x"}
	require.NoError(t, db.Create(u).Error)

	var stored model.User
	require.NoError(t, db.First(&stored, u.Id).Error)
	require.NotNil(t, stored.PermissionId)
	assert.Equal(t, model.PermReadID, *stored.PermissionId)

	require.NoError(t, db.Delete(&model.Permission{}, model.PermReadID).Error)
	var orphan model.User
	require.NoError(t, db.First(&orphan, u.Id).Error)
	assert.Nil(t, orphan.PermissionId)
}

func TestCheckpoint(t *testing.T) {
	db := openTestDB(t)
	assert.NoError(t, Checkpoint(db))
}

func TestIsNotFound(t *testing.T) {
	db := openTestDB(t)
	err := db.First(&model.User{}, 42).Error
	assert.True(t, IsNotFound(err))
}
