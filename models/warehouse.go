package models

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/stitchcraft/pos_backend/config"
	"github.com/stitchcraft/pos_backend/utils"
	"gorm.io/gorm"
)

const defaultWarehouseCacheKey = "defaultWarehouseId"

type Warehouse struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"size:100;not null;unique" json:"name" binding:"required"`
	Phone     string    `gorm:"size:20" json:"phone"`
	Address   string    `gorm:"type:text" json:"address"`
	City      string    `gorm:"size:100" json:"city"`
	Country   string    `gorm:"size:100" json:"country"`
	IsDefault *bool     `gorm:"not null;default:false" json:"is_default"`
	IsActive  *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewWarehouse struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	Country string `json:"country"`
}

// validate input for both create & update. (id = 0 for create)
func (input *NewWarehouse) validate(ctx context.Context, id int) error {
	if err := utils.ValidateUnique[Warehouse](ctx, "name", input.Name, id); err != nil {
		return err
	}
	if len(strings.TrimSpace(input.Phone)) > 0 {
		if err := utils.ValidatePhoneNumber(input.Phone, utils.CountryCode); err != nil {
			return utils.NewValidationError("phone", "invalid phone number")
		}
	}
	return nil
}

func CreateWarehouse(ctx context.Context, input *NewWarehouse) (*Warehouse, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	warehouse := Warehouse{
		Name:      input.Name,
		Phone:     input.Phone,
		Address:   input.Address,
		City:      input.City,
		Country:   input.Country,
		IsDefault: utils.NewFalse(),
		IsActive:  utils.NewTrue(),
	}

	// db action
	db := config.GetDB()
	err := db.WithContext(ctx).Create(&warehouse).Error
	if err != nil {
		return nil, err
	}
	return &warehouse, nil
}

func UpdateWarehouse(ctx context.Context, id int, input *NewWarehouse) (*Warehouse, error) {
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	warehouse, err := utils.FetchModel[Warehouse](ctx, id)
	if err != nil {
		return nil, err
	}

	// db action
	db := config.GetDB()
	err = db.WithContext(ctx).Model(&warehouse).Updates(map[string]interface{}{
		"Name":    input.Name,
		"Phone":   input.Phone,
		"Address": input.Address,
		"City":    input.City,
		"Country": input.Country,
	}).Error
	if err != nil {
		return nil, err
	}

	return warehouse, nil
}

func DeleteWarehouse(ctx context.Context, id int) (*Warehouse, error) {
	db := config.GetDB()
	result, err := utils.FetchModel[Warehouse](ctx, id)
	if err != nil {
		return nil, err
	}

	// check if warehouse still holds stock
	var count int64
	if err := db.WithContext(ctx).Model(&StockLevel{}).
		Where("warehouse_id = ? AND qty > 0", id).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, utils.NewValidationError("id", "warehouse has stock")
	}

	err = db.WithContext(ctx).Delete(&result).Error
	if err != nil {
		return nil, err
	}
	_ = config.RemoveRedisKey(defaultWarehouseCacheKey)
	return result, nil
}

func GetWarehouse(ctx context.Context, id int) (*Warehouse, error) {
	return utils.FetchModel[Warehouse](ctx, id)
}

func ListWarehouse(ctx context.Context, name *string) ([]*Warehouse, error) {
	db := config.GetDB()
	var results []*Warehouse

	dbCtx := db.WithContext(ctx)
	if name != nil && len(*name) > 0 {
		// search-as-you-type; cap the suggestion list
		dbCtx = dbCtx.Where("name LIKE ?", "%"+*name+"%").Limit(config.SearchLimit)
	}
	err := dbCtx.Order("name").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// SetDefaultWarehouse marks one warehouse as the POS default.
// At most one default may exist, so the previous default is unset
// inside the same transaction.
func SetDefaultWarehouse(ctx context.Context, id int) (*Warehouse, error) {
	warehouse, err := utils.FetchModel[Warehouse](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&Warehouse{}).Where("is_default = ?", true).
			Update("is_default", false).Error; err != nil {
			return err
		}
		return tx.Model(&warehouse).Update("is_default", true).Error
	})
	if err != nil {
		return nil, err
	}
	warehouse.IsDefault = utils.NewTrue()
	_ = config.RemoveRedisKey(defaultWarehouseCacheKey)
	return warehouse, nil
}

// GetDefaultWarehouse is on the hot path of every POS checkout, so the
// default's id is cached. SetDefaultWarehouse drops the entry.
func GetDefaultWarehouse(ctx context.Context) (*Warehouse, error) {
	if val, hit, err := config.GetRedisValue(defaultWarehouseCacheKey); err == nil && hit {
		if id, convErr := strconv.Atoi(val); convErr == nil {
			if warehouse, fetchErr := utils.FetchModel[Warehouse](ctx, id); fetchErr == nil {
				return warehouse, nil
			}
		}
	}

	db := config.GetDB()
	var warehouse Warehouse
	err := db.WithContext(ctx).Where("is_default = ?", true).First(&warehouse).Error
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	_ = config.SetRedisValue(defaultWarehouseCacheKey, strconv.Itoa(warehouse.ID), 5*time.Minute)
	return &warehouse, nil
}

func ToggleActiveWarehouse(ctx context.Context, id int, isActive bool) (*Warehouse, error) {
	warehouse, err := utils.FetchModel[Warehouse](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(&warehouse).Update("is_active", isActive).Error; err != nil {
		return nil, err
	}
	return warehouse, nil
}
