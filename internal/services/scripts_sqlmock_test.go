package services

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yjkim/hue/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// TestGetScriptsQueryShape verifies the listing SQL against the mysql
// dialect: owner filter, newest-first ordering, row cap.
func TestGetScriptsQueryShape(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"id", "owner_id", "is_design", "data"}).
		AddRow(12, 1, true, []byte(`{"script":"s2","name":"n2","properties":[],"job_id":null,"parameters":[],"resources":[]}`)).
		AddRow(5, 1100713, true, []byte(`{"script":"s1","name":"n1","properties":[],"job_id":null,"parameters":["p"],"resources":[]}`))

	mock.ExpectQuery("SELECT \\* FROM `pig_scripts` WHERE owner_id IN \\(\\?,\\?\\) ORDER BY id DESC LIMIT").
		WillReturnRows(rows)

	user := models.User{ID: 1, Username: "alice"}
	scripts, err := GetScripts(db, user, 1100713, 200)
	require.NoError(t, err)
	require.Len(t, scripts, 2)

	assert.Equal(t, uint64(12), scripts[0].ID)
	assert.Equal(t, "n2", scripts[0].Name)
	assert.Equal(t, uint64(5), scripts[1].ID)
	assert.Equal(t, []string{"p"}, scripts[1].Parameters)

	assert.NoError(t, mock.ExpectationsWereMet())
}
