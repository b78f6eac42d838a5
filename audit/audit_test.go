package audit

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"planhub/database"
)

// openTestDB opens a named in-memory sqlite database so each test gets
// an isolated store
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&database.User{},
		&database.ActivityLog{},
	))

	return db
}

func createUser(t *testing.T, db *gorm.DB, name string) *database.User {
	t.Helper()
	user := database.User{Name: name, Email: name + "@planhub.local", Role: database.RoleMember}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func TestIsValidEntityType(t *testing.T) {
	for _, entityType := range []string{
		EntityProject, EntityTask, EntityMilestone, EntityMember,
		EntityStakeholder, EntityBudgetItem, EntityFile,
	} {
		require.True(t, IsValidEntityType(entityType), entityType)
	}

	require.False(t, IsValidEntityType("order"))
	require.False(t, IsValidEntityType(""))
	require.False(t, IsValidEntityType("Task"))
}
