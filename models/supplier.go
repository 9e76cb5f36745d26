package models

import (
	"context"
	"strings"
	"time"

	"github.com/stitchcraft/pos_backend/config"
	"github.com/stitchcraft/pos_backend/utils"
)

type Supplier struct {
	ID           int          `gorm:"primary_key" json:"id"`
	Name         string       `gorm:"size:100;not null;unique" json:"name" binding:"required"`
	Email        string       `gorm:"size:100" json:"email"`
	Phone        string       `gorm:"size:20" json:"phone"`
	Mobile       string       `gorm:"size:20" json:"mobile"`
	Address      string       `gorm:"type:text" json:"address"`
	LeadTimeDays int          `gorm:"not null;default:1" json:"lead_time_days"`
	PaymentTerms PaymentTerms `gorm:"type:enum('Net15','Net30','Net45','Net60','DueMonthEnd','DueNextMonthEnd','DueOnReceipt','Custom');not null;default:'DueOnReceipt'" json:"payment_terms"`
	Notes        string       `gorm:"type:text" json:"notes"`
	IsActive     *bool        `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewSupplier struct {
	Name         string       `json:"name" binding:"required"`
	Email        string       `json:"email"`
	Phone        string       `json:"phone"`
	Mobile       string       `json:"mobile"`
	Address      string       `json:"address"`
	LeadTimeDays int          `json:"lead_time_days" binding:"required,min=1"`
	PaymentTerms PaymentTerms `json:"payment_terms" binding:"required"`
	Notes        string       `json:"notes"`
}

// validate input for both create & update. (id = 0 for create)
func (input *NewSupplier) validate(ctx context.Context, id int) error {
	if err := utils.ValidateUnique[Supplier](ctx, "name", input.Name, id); err != nil {
		return err
	}
	if !input.PaymentTerms.IsValid() {
		return utils.NewValidationError("payment_terms", "invalid payment terms")
	}
	if input.Email != "" && !utils.IsValidEmail(input.Email) {
		return utils.NewValidationError("email", "invalid email")
	}
	for field, number := range map[string]string{"phone": input.Phone, "mobile": input.Mobile} {
		if len(strings.TrimSpace(number)) > 0 {
			if err := utils.ValidatePhoneNumber(number, utils.CountryCode); err != nil {
				return utils.NewValidationError(field, "invalid phone number")
			}
		}
	}
	return nil
}

func CreateSupplier(ctx context.Context, input *NewSupplier) (*Supplier, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	supplier := Supplier{
		Name:         input.Name,
		Email:        input.Email,
		Phone:        input.Phone,
		Mobile:       input.Mobile,
		Address:      input.Address,
		LeadTimeDays: input.LeadTimeDays,
		PaymentTerms: input.PaymentTerms,
		Notes:        input.Notes,
		IsActive:     utils.NewTrue(),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&supplier).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

func UpdateSupplier(ctx context.Context, id int, input *NewSupplier) (*Supplier, error) {
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	supplier, err := utils.FetchModel[Supplier](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&supplier).Updates(map[string]interface{}{
		"Name":         input.Name,
		"Email":        input.Email,
		"Phone":        input.Phone,
		"Mobile":       input.Mobile,
		"Address":      input.Address,
		"LeadTimeDays": input.LeadTimeDays,
		"PaymentTerms": input.PaymentTerms,
		"Notes":        input.Notes,
	}).Error
	if err != nil {
		return nil, err
	}

	return supplier, nil
}

func DeleteSupplier(ctx context.Context, id int) (*Supplier, error) {
	db := config.GetDB()
	supplier, err := utils.FetchModel[Supplier](ctx, id)
	if err != nil {
		return nil, err
	}

	// don't delete a supplier that still owns products or open orders
	var count int64
	if err := db.WithContext(ctx).Model(&Product{}).
		Where("supplier_id = ?", id).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, utils.NewValidationError("id", "supplier has products")
	}
	if err := db.WithContext(ctx).Model(&PurchaseOrder{}).
		Where("supplier_id = ? AND current_status NOT IN ?", id,
			[]PurchaseOrderStatus{PurchaseOrderStatusReceived, PurchaseOrderStatusCancelled}).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, utils.NewValidationError("id", "supplier has open purchase orders")
	}

	if err := db.WithContext(ctx).Delete(&supplier).Error; err != nil {
		return nil, err
	}
	return supplier, nil
}

func GetSupplier(ctx context.Context, id int) (*Supplier, error) {
	return utils.FetchModel[Supplier](ctx, id)
}

func ListSupplier(ctx context.Context, name *string) ([]*Supplier, error) {
	db := config.GetDB()
	var results []*Supplier

	dbCtx := db.WithContext(ctx)
	if name != nil && len(*name) > 0 {
		dbCtx = dbCtx.Where("name LIKE ?", "%"+*name+"%").Limit(config.SearchLimit)
	}
	if err := dbCtx.Order("name").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func ToggleActiveSupplier(ctx context.Context, id int, isActive bool) (*Supplier, error) {
	supplier, err := utils.FetchModel[Supplier](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(&supplier).Update("is_active", isActive).Error; err != nil {
		return nil, err
	}
	return supplier, nil
}
