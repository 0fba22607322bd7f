// Package repository 系统配置仓储单元测试
package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dmvillareal/hotel-backoffice/internal/common/utils"
	"github.com/dmvillareal/hotel-backoffice/internal/models"
)

func setupSystemConfigTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.SystemConfig{}))
	return db
}

func TestSystemConfigRepository_GetByKey(t *testing.T) {
	db := setupSystemConfigTestDB(t)
	repo := NewSystemConfigRepository(db)
	ctx := context.Background()

	err := repo.Create(ctx, &models.SystemConfig{
		Group:       "reservation",
		Key:         models.ConfigKeyDownpaymentRate,
		Value:       "0.30",
		Type:        models.ConfigTypeNumber,
		Description: utils.StringPtr("预订首付比例"),
	})
	require.NoError(t, err)

	config, err := repo.GetByKey(ctx, models.ConfigKeyDownpaymentRate)
	require.NoError(t, err)
	assert.Equal(t, "0.30", config.Value)

	_, err = repo.GetByKey(ctx, "not.exists")
	assert.Equal(t, gorm.ErrRecordNotFound, err)
}

func TestSystemConfigRepository_TypedGetters(t *testing.T) {
	db := setupSystemConfigTestDB(t)
	repo := NewSystemConfigRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.SystemConfig{
		Group: "reservation", Key: models.ConfigKeyDownpaymentRate, Value: "0.30", Type: models.ConfigTypeNumber,
	}))
	require.NoError(t, repo.Create(ctx, &models.SystemConfig{
		Group: "reservation", Key: models.ConfigKeyPendingExpireHours, Value: "48", Type: models.ConfigTypeNumber,
	}))
	require.NoError(t, repo.Create(ctx, &models.SystemConfig{
		Group: "reservation", Key: "reservation.bad_number", Value: "abc", Type: models.ConfigTypeNumber,
	}))

	assert.InDelta(t, 0.30, repo.GetFloat(ctx, models.ConfigKeyDownpaymentRate, 0.50), 0.001)
	assert.Equal(t, 48, repo.GetInt(ctx, models.ConfigKeyPendingExpireHours, 24))

	// 未配置或解析失败时返回默认值
	assert.InDelta(t, 0.50, repo.GetFloat(ctx, "not.exists", 0.50), 0.001)
	assert.Equal(t, 24, repo.GetInt(ctx, "reservation.bad_number", 24))
}

func TestSystemConfigRepository_UpdateValue(t *testing.T) {
	db := setupSystemConfigTestDB(t)
	repo := NewSystemConfigRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.SystemConfig{
		Group: "reservation", Key: models.ConfigKeyDownpaymentRate, Value: "0.50", Type: models.ConfigTypeNumber,
	}))

	require.NoError(t, repo.UpdateValue(ctx, models.ConfigKeyDownpaymentRate, "0.80"))

	config, err := repo.GetByKey(ctx, models.ConfigKeyDownpaymentRate)
	require.NoError(t, err)
	assert.Equal(t, "0.80", config.Value)
}

func TestSystemConfigRepository_Upsert(t *testing.T) {
	db := setupSystemConfigTestDB(t)
	repo := NewSystemConfigRepository(db)
	ctx := context.Background()

	// 不存在时插入
	err := repo.Upsert(ctx, &models.SystemConfig{
		Group: "reservation", Key: models.ConfigKeyPendingExpireHours, Value: "24", Type: models.ConfigTypeNumber,
	})
	require.NoError(t, err)

	// 已存在时覆盖
	err = repo.Upsert(ctx, &models.SystemConfig{
		Group: "reservation", Key: models.ConfigKeyPendingExpireHours, Value: "72", Type: models.ConfigTypeNumber,
	})
	require.NoError(t, err)

	config, err := repo.GetByKey(ctx, models.ConfigKeyPendingExpireHours)
	require.NoError(t, err)
	assert.Equal(t, "72", config.Value)

	var count int64
	require.NoError(t, db.Model(&models.SystemConfig{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSystemConfigRepository_GetByGroupAndList(t *testing.T) {
	db := setupSystemConfigTestDB(t)
	repo := NewSystemConfigRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.SystemConfig{
		Group: "reservation", Key: models.ConfigKeyDownpaymentRate, Value: "0.50", Type: models.ConfigTypeNumber,
	}))
	require.NoError(t, repo.Create(ctx, &models.SystemConfig{
		Group: "reservation", Key: models.ConfigKeyPendingExpireHours, Value: "24", Type: models.ConfigTypeNumber,
	}))
	require.NoError(t, repo.Create(ctx, &models.SystemConfig{
		Group: "hotel", Key: "hotel.name", Value: "测试酒店", Type: models.ConfigTypeString,
	}))

	configs, err := repo.GetByGroup(ctx, "reservation")
	require.NoError(t, err)
	assert.Len(t, configs, 2)

	_, total, err := repo.List(ctx, 0, 10, map[string]interface{}{"group": "hotel"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	_, total, err = repo.List(ctx, 0, 10, map[string]interface{}{"keyword": "downpayment"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}
