package repository

import (
	"context"
	"testing"

	"gitee.com/autopuzzle/notification-center/internal/domain"
	"gitee.com/autopuzzle/notification-center/internal/repository/dao"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// 复制停用的模板，副本也必须是停用的，不能被新的发送选中
func TestTemplateRepository_CreateDuplicateOfInactive(t *testing.T) {
	t.Parallel()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	db, err := gorm.Open(gormmysql.New(gormmysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	src := domain.Template{
		ID:        3,
		Channel:   domain.ChannelSMS,
		Name:      "welcome",
		Message:   "hi {name}",
		Variables: []string{"name"},
		IsActive:  false,
	}
	mock.ExpectExec("INSERT INTO `notification_templates`").
		WithArgs("sms", "welcome"+domain.DuplicateSuffix, "", "hi {name}", `["name"]`, false,
			sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(8, 1))

	repo := NewTemplateRepository(dao.NewTemplateDAO(db), nil)
	res, err := repo.Create(context.Background(), src.Duplicate())
	require.NoError(t, err)
	assert.Equal(t, int64(8), res.ID)
	assert.False(t, res.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}
