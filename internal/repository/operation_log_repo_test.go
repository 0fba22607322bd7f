// Package repository 操作日志仓储单元测试
package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dmvillareal/hotel-backoffice/internal/common/utils"
	"github.com/dmvillareal/hotel-backoffice/internal/models"
)

func setupOperationLogTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.OperationLog{}))
	return db
}

func TestOperationLogRepository_List(t *testing.T) {
	db := setupOperationLogTestDB(t)
	repo := NewOperationLogRepository(db)
	ctx := context.Background()

	logs := []*models.OperationLog{
		{UserID: 1, Module: "reservation", Action: "create", TargetType: utils.StringPtr("reservation"), TargetID: utils.Int64Ptr(10), IP: "127.0.0.1"},
		{UserID: 1, Module: "reservation", Action: "cancel", TargetType: utils.StringPtr("reservation"), TargetID: utils.Int64Ptr(10), IP: "127.0.0.1"},
		{UserID: 2, Module: "billing", Action: "record_payment", TargetType: utils.StringPtr("billing"), TargetID: utils.Int64Ptr(5), IP: "127.0.0.1"},
	}
	for _, l := range logs {
		require.NoError(t, repo.Create(ctx, l))
	}

	_, total, err := repo.List(ctx, 0, 10, map[string]interface{}{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	// 按模块过滤
	got, total, err := repo.List(ctx, 0, 10, map[string]interface{}{"module": "reservation"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, got, 2)
	// id 倒序
	assert.Equal(t, "cancel", got[0].Action)

	// 按操作人过滤
	_, total, err = repo.List(ctx, 0, 10, map[string]interface{}{"user_id": int64(2)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	// 按操作对象过滤
	_, total, err = repo.List(ctx, 0, 10, map[string]interface{}{
		"target_type": "reservation",
		"target_id":   int64(10),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestOperationLogRepository_DeleteBefore(t *testing.T) {
	db := setupOperationLogTestDB(t)
	repo := NewOperationLogRepository(db)
	ctx := context.Background()

	stale := &models.OperationLog{UserID: 1, Module: "auth", Action: "login", IP: "127.0.0.1"}
	require.NoError(t, repo.Create(ctx, stale))
	fresh := &models.OperationLog{UserID: 1, Module: "auth", Action: "login", IP: "127.0.0.1"}
	require.NoError(t, repo.Create(ctx, fresh))

	// 把第一条日志挪到 100 天前
	old := time.Now().AddDate(0, 0, -100)
	require.NoError(t, db.Model(&models.OperationLog{}).
		Where("id = ?", stale.ID).
		Update("created_at", old).Error)

	deleted, err := repo.DeleteBefore(ctx, time.Now().AddDate(0, 0, -90))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	var count int64
	require.NoError(t, db.Model(&models.OperationLog{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
