package models

type UserRole string

const (
	UserRoleManager UserRole = "M"
	UserRoleCashier UserRole = "C"
)

func (r UserRole) IsValid() bool {
	return r == UserRoleManager || r == UserRoleCashier
}

func (r UserRole) Name() string {
	switch r {
	case UserRoleManager:
		return "Manager"
	case UserRoleCashier:
		return "Cashier"
	}
	return string(r)
}

// ProductCategory is string-backed so new retail lines can be added
// without a schema change; the two launch categories are validated here.
type ProductCategory string

const (
	ProductCategoryApparel ProductCategory = "apparel"
	ProductCategoryCraft   ProductCategory = "craft"
)

func (c ProductCategory) IsValid() bool {
	return c == ProductCategoryApparel || c == ProductCategoryCraft
}

// ProductType distinguishes ledger rows for plain products vs variants.
type ProductType string

const (
	ProductTypeSingle  ProductType = "S"
	ProductTypeVariant ProductType = "V"
)

func (t ProductType) IsValid() bool {
	return t == ProductTypeSingle || t == ProductTypeVariant
}

type StockStatus string

const (
	StockStatusOutOfStock StockStatus = "OutOfStock"
	StockStatusLowStock   StockStatus = "LowStock"
	StockStatusInStock    StockStatus = "InStock"
)

// ClassifyStock derives the stock badge for a product or variant.
// Zero is checked first: a product with threshold 0 and stock 0 is
// OutOfStock, never LowStock. Boundary equality counts as low.
func ClassifyStock(stockLevel int, lowStockThreshold int) StockStatus {
	if stockLevel == 0 {
		return StockStatusOutOfStock
	}
	if stockLevel <= lowStockThreshold {
		return StockStatusLowStock
	}
	return StockStatusInStock
}

type PurchaseOrderStatus string

const (
	PurchaseOrderStatusDraft     PurchaseOrderStatus = "Draft"
	PurchaseOrderStatusPending   PurchaseOrderStatus = "Pending"
	PurchaseOrderStatusApproved  PurchaseOrderStatus = "Approved"
	PurchaseOrderStatusReceived  PurchaseOrderStatus = "Received"
	PurchaseOrderStatusCancelled PurchaseOrderStatus = "Cancelled"
)

func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusDraft, PurchaseOrderStatusPending, PurchaseOrderStatusApproved,
		PurchaseOrderStatusReceived, PurchaseOrderStatusCancelled:
		return true
	}
	return false
}

// IsReceivable reports whether stock may be posted against the order.
// Draft orders must be submitted first; Received and Cancelled are terminal.
func (s PurchaseOrderStatus) IsReceivable() bool {
	return s == PurchaseOrderStatusPending || s == PurchaseOrderStatusApproved
}

func (s PurchaseOrderStatus) IsTerminal() bool {
	return s == PurchaseOrderStatusReceived || s == PurchaseOrderStatusCancelled
}

type PaymentTerms string

const (
	PaymentTermsNet15             PaymentTerms = "Net15"
	PaymentTermsNet30             PaymentTerms = "Net30"
	PaymentTermsNet45             PaymentTerms = "Net45"
	PaymentTermsNet60             PaymentTerms = "Net60"
	PaymentTermsDueEndOfMonth     PaymentTerms = "DueMonthEnd"
	PaymentTermsDueEndOfNextMonth PaymentTerms = "DueNextMonthEnd"
	PaymentTermsDueOnReceipt      PaymentTerms = "DueOnReceipt"
	PaymentTermsCustom            PaymentTerms = "Custom"
)

func (p PaymentTerms) IsValid() bool {
	switch p {
	case PaymentTermsNet15, PaymentTermsNet30, PaymentTermsNet45, PaymentTermsNet60,
		PaymentTermsDueEndOfMonth, PaymentTermsDueEndOfNextMonth, PaymentTermsDueOnReceipt, PaymentTermsCustom:
		return true
	}
	return false
}

type DiscountType string

const (
	DiscountTypePercent DiscountType = "P"
	DiscountTypeAmount  DiscountType = "A"
)

func (t DiscountType) IsValid() bool {
	return t == DiscountTypePercent || t == DiscountTypeAmount
}

type AdjustmentDirection string

const (
	AdjustmentDirectionAdd    AdjustmentDirection = "add"
	AdjustmentDirectionRemove AdjustmentDirection = "remove"
)

func (d AdjustmentDirection) IsValid() bool {
	return d == AdjustmentDirectionAdd || d == AdjustmentDirectionRemove
}

// AdjustmentReason mirrors the reasons managers can pick on the
// stock adjustment form.
type AdjustmentReason string

const (
	AdjustmentReasonPurchase   AdjustmentReason = "purchase"
	AdjustmentReasonSale       AdjustmentReason = "sale"
	AdjustmentReasonReturn     AdjustmentReason = "return"
	AdjustmentReasonDamage     AdjustmentReason = "damage"
	AdjustmentReasonLoss       AdjustmentReason = "loss"
	AdjustmentReasonCorrection AdjustmentReason = "correction"
	AdjustmentReasonTransfer   AdjustmentReason = "transfer"
	AdjustmentReasonOther      AdjustmentReason = "other"
)

func (r AdjustmentReason) IsValid() bool {
	switch r {
	case AdjustmentReasonPurchase, AdjustmentReasonSale, AdjustmentReasonReturn,
		AdjustmentReasonDamage, AdjustmentReasonLoss, AdjustmentReasonCorrection,
		AdjustmentReasonTransfer, AdjustmentReasonOther:
		return true
	}
	return false
}

type MovementType string

const (
	MovementTypeRestock         MovementType = "Restock"
	MovementTypeAdjustmentIn    MovementType = "AdjustmentIn"
	MovementTypeAdjustmentOut   MovementType = "AdjustmentOut"
	MovementTypePurchaseReceipt MovementType = "PurchaseReceipt"
	MovementTypePosSale         MovementType = "PosSale"
)

type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "Cash"
	PaymentMethodCard PaymentMethod = "Card"
)

func (m PaymentMethod) IsValid() bool {
	return m == PaymentMethodCash || m == PaymentMethodCard
}
