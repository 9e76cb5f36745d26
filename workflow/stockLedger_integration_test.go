package workflow_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stitchcraft/pos_backend/config"
	"github.com/stitchcraft/pos_backend/models"
	"github.com/stitchcraft/pos_backend/utils"
	"github.com/stitchcraft/pos_backend/workflow"
)

// End-to-end ledger test against real MySQL + Redis. Covers the full
// movement surface: restock, clamped adjustment, one-shot purchase
// order receive, and the strict POS sale path.
func TestStockLedger_EndToEnd(t *testing.T) {
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	ctx := context.Background()

	redisName, redisPort := startRedisContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(redisName) })

	mysqlName, mysqlPort := startMySQLContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(mysqlName) })

	t.Setenv("REDIS_ADDRESS", fmt.Sprintf("127.0.0.1:%s", redisPort))
	t.Setenv("DB_USER", "root")
	t.Setenv("DB_PASSWORD", "testpw")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", mysqlPort)
	t.Setenv("DB_NAME", "pos_test")

	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()
	models.MigrateTable()

	logger := config.GetLogger()
	ctx = utils.SetUserIdInContext(ctx, 1)
	ctx = utils.SetUsernameInContext(ctx, "test")

	warehouse, err := models.CreateWarehouse(ctx, &models.NewWarehouse{Name: "Main Store"})
	if err != nil {
		t.Fatalf("CreateWarehouse: %v", err)
	}
	if _, err := models.SetDefaultWarehouse(ctx, warehouse.ID); err != nil {
		t.Fatalf("SetDefaultWarehouse: %v", err)
	}

	supplier, err := models.CreateSupplier(ctx, &models.NewSupplier{
		Name:         "Thread & Co",
		LeadTimeDays: 5,
		PaymentTerms: models.PaymentTermsNet30,
	})
	if err != nil {
		t.Fatalf("CreateSupplier: %v", err)
	}

	product, err := models.CreateProduct(ctx, &models.NewProduct{
		Sku:               "TSHIRT-001",
		Name:              "Plain Tee",
		Category:          models.ProductCategoryApparel,
		Price:             decimal.RequireFromString("25"),
		Cost:              decimal.RequireFromString("10"),
		LowStockThreshold: 10,
		SupplierId:        supplier.ID,
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	// restock 0 -> 8, still low
	_, err = workflow.Restock(ctx, logger, &workflow.RestockInput{
		ProductType: models.ProductTypeSingle,
		ProductId:   product.ID,
		WarehouseId: warehouse.ID,
		Qty:         8,
	})
	if err != nil {
		t.Fatalf("Restock: %v", err)
	}
	product = mustGetProduct(t, ctx, product.ID)
	if product.StockLevel != 8 || product.StockStatus() != models.StockStatusLowStock {
		t.Fatalf("after restock: level=%d status=%s", product.StockLevel, product.StockStatus())
	}

	// removing more than on hand clamps to zero instead of failing
	movement, err := workflow.Adjust(ctx, logger, &workflow.AdjustInput{
		ProductType: models.ProductTypeSingle,
		ProductId:   product.ID,
		WarehouseId: warehouse.ID,
		Direction:   models.AdjustmentDirectionRemove,
		Qty:         50,
		Reason:      models.AdjustmentReasonDamage,
	})
	if err != nil {
		t.Fatalf("Adjust remove: %v", err)
	}
	if movement.QtyAfter != 0 || movement.QtyChange != -8 {
		t.Fatalf("clamped adjustment: after=%d change=%d, want 0/-8", movement.QtyAfter, movement.QtyChange)
	}
	product = mustGetProduct(t, ctx, product.ID)
	if product.StockStatus() != models.StockStatusOutOfStock {
		t.Fatalf("after clamp: status=%s, want OutOfStock", product.StockStatus())
	}

	// purchase order: draft cannot be received, pending can, and only once
	order, err := models.CreatePurchaseOrder(ctx, &models.NewPurchaseOrder{
		SupplierId:  supplier.ID,
		WarehouseId: warehouse.ID,
		Details: []models.NewPurchaseOrderDetail{
			{ProductType: models.ProductTypeSingle, ProductId: product.ID, Qty: 13, UnitCost: decimal.RequireFromString("10")},
		},
	})
	if err != nil {
		t.Fatalf("CreatePurchaseOrder: %v", err)
	}
	if !order.TotalAmount.Equal(decimal.RequireFromString("130")) {
		t.Fatalf("order total = %s, want 130", order.TotalAmount)
	}

	if _, err := workflow.ReceivePurchaseOrder(ctx, logger, order.ID); err != utils.ErrorInvalidState {
		t.Fatalf("receiving a draft order: err=%v, want ErrorInvalidState", err)
	}

	if _, err := models.UpdatePurchaseOrderStatus(ctx, order.ID, models.PurchaseOrderStatusPending); err != nil {
		t.Fatalf("UpdatePurchaseOrderStatus: %v", err)
	}
	received, err := workflow.ReceivePurchaseOrder(ctx, logger, order.ID)
	if err != nil {
		t.Fatalf("ReceivePurchaseOrder: %v", err)
	}
	if received.CurrentStatus != models.PurchaseOrderStatusReceived || received.ReceivedDate == nil {
		t.Fatalf("received order: status=%s date=%v", received.CurrentStatus, received.ReceivedDate)
	}

	product = mustGetProduct(t, ctx, product.ID)
	if product.StockLevel != 13 || product.StockStatus() != models.StockStatusInStock {
		t.Fatalf("after receive: level=%d status=%s, want 13/InStock", product.StockLevel, product.StockStatus())
	}

	// a second receive must not double-post
	if _, err := workflow.ReceivePurchaseOrder(ctx, logger, order.ID); err != utils.ErrorInvalidState {
		t.Fatalf("second receive: err=%v, want ErrorInvalidState", err)
	}
	product = mustGetProduct(t, ctx, product.ID)
	if product.StockLevel != 13 {
		t.Fatalf("after second receive attempt: level=%d, want 13", product.StockLevel)
	}

	// POS sale decrements and writes a receipt
	receipt, err := workflow.CommitPosSale(ctx, logger, &models.NewPosSale{
		PaymentMethod:  models.PaymentMethodCash,
		AmountTendered: decimal.RequireFromString("100"),
		Items: []models.NewPosSaleItem{
			{ProductType: models.ProductTypeSingle, ProductId: product.ID, Qty: 3},
		},
	})
	if err != nil {
		t.Fatalf("CommitPosSale: %v", err)
	}
	if !receipt.TotalAmount.Equal(decimal.RequireFromString("75")) {
		t.Fatalf("receipt total = %s, want 75", receipt.TotalAmount)
	}
	if !receipt.ChangeDue.Equal(decimal.RequireFromString("25")) {
		t.Fatalf("change due = %s, want 25", receipt.ChangeDue)
	}
	product = mustGetProduct(t, ctx, product.ID)
	if product.StockLevel != 10 {
		t.Fatalf("after sale: level=%d, want 10", product.StockLevel)
	}

	// over-selling rolls back the whole cart
	_, err = workflow.CommitPosSale(ctx, logger, &models.NewPosSale{
		PaymentMethod:  models.PaymentMethodCard,
		AmountTendered: decimal.RequireFromString("1000"),
		Items: []models.NewPosSaleItem{
			{ProductType: models.ProductTypeSingle, ProductId: product.ID, Qty: 11},
		},
	})
	if err != workflow.ErrorInsufficientStock {
		t.Fatalf("over-sell: err=%v, want ErrorInsufficientStock", err)
	}
	product = mustGetProduct(t, ctx, product.ID)
	if product.StockLevel != 10 {
		t.Fatalf("after failed sale: level=%d, want 10 (no partial commit)", product.StockLevel)
	}

	// movement history is append-only and balanced
	movements, err := models.ListStockMovement(ctx, models.StockMovementFilter{
		ProductId: &product.ID,
	})
	if err != nil {
		t.Fatalf("ListStockMovement: %v", err)
	}
	if len(movements) != 4 {
		t.Fatalf("movement count = %d, want 4", len(movements))
	}
	sum := 0
	for _, m := range movements {
		if m.QtyBefore+m.QtyChange != m.QtyAfter {
			t.Fatalf("movement %d unbalanced: before=%d change=%d after=%d",
				m.ID, m.QtyBefore, m.QtyChange, m.QtyAfter)
		}
		sum += m.QtyChange
	}
	if sum != product.StockLevel {
		t.Fatalf("sum of changes = %d, level = %d; ledger out of balance", sum, product.StockLevel)
	}

	// opening stock posts a balanced movement through the same path
	seeded, err := models.CreateProduct(ctx, &models.NewProduct{
		Sku:               "SCARF-001",
		Name:              "Wool Scarf",
		Category:          models.ProductCategoryApparel,
		Price:             decimal.RequireFromString("15"),
		Cost:              decimal.RequireFromString("6"),
		LowStockThreshold: 5,
		SupplierId:        supplier.ID,
		OpeningStocks: []models.NewOpeningStock{
			{WarehouseId: warehouse.ID, Qty: 7},
		},
	})
	if err != nil {
		t.Fatalf("CreateProduct with opening stock: %v", err)
	}
	if seeded.StockLevel != 7 {
		t.Fatalf("seeded product level = %d, want 7", seeded.StockLevel)
	}
	single := models.ProductTypeSingle
	seededMovements, err := models.ListStockMovement(ctx, models.StockMovementFilter{
		ProductType: &single,
		ProductId:   &seeded.ID,
	})
	if err != nil {
		t.Fatalf("ListStockMovement (seeded): %v", err)
	}
	if len(seededMovements) != 1 {
		t.Fatalf("seeded movement count = %d, want 1", len(seededMovements))
	}
	if m := seededMovements[0]; m.QtyBefore != 0 || m.QtyAfter != 7 || m.QtyChange != 7 {
		t.Fatalf("opening stock movement: before=%d after=%d change=%d, want 0/7/7",
			m.QtyBefore, m.QtyAfter, m.QtyChange)
	}

	// a variant on an open order cannot be deleted, and a receive must
	// refuse lines whose target row is gone instead of posting to a
	// ghost stock level
	parent, err := models.CreateProduct(ctx, &models.NewProduct{
		Sku:               "HOODIE-001",
		Name:              "Zip Hoodie",
		Category:          models.ProductCategoryApparel,
		Price:             decimal.RequireFromString("40"),
		Cost:              decimal.RequireFromString("18"),
		LowStockThreshold: 3,
		SupplierId:        supplier.ID,
	})
	if err != nil {
		t.Fatalf("CreateProduct (parent): %v", err)
	}
	variant, err := models.CreateProductVariant(ctx, parent.ID, &models.NewProductVariant{
		Sku:  "HOODIE-001-M",
		Name: "Medium",
	})
	if err != nil {
		t.Fatalf("CreateProductVariant: %v", err)
	}
	variantOrder, err := models.CreatePurchaseOrder(ctx, &models.NewPurchaseOrder{
		SupplierId:  supplier.ID,
		WarehouseId: warehouse.ID,
		Details: []models.NewPurchaseOrderDetail{
			{ProductType: models.ProductTypeVariant, ProductId: variant.ID, Qty: 4, UnitCost: decimal.RequireFromString("18")},
		},
	})
	if err != nil {
		t.Fatalf("CreatePurchaseOrder (variant): %v", err)
	}
	if _, err := models.UpdatePurchaseOrderStatus(ctx, variantOrder.ID, models.PurchaseOrderStatusPending); err != nil {
		t.Fatalf("UpdatePurchaseOrderStatus (variant): %v", err)
	}

	if _, err := models.DeleteProductVariant(ctx, variant.ID); err == nil {
		t.Fatalf("deleting a variant on an open purchase order must fail")
	}

	// rows orphaned outside the API must still abort the receive
	if err := config.GetDB().Exec("DELETE FROM product_variants WHERE id = ?", variant.ID).Error; err != nil {
		t.Fatalf("orphan variant row: %v", err)
	}
	if _, err := workflow.ReceivePurchaseOrder(ctx, logger, variantOrder.ID); err != utils.ErrorRecordNotFound {
		t.Fatalf("receive with missing line target: err=%v, want ErrorRecordNotFound", err)
	}
	variantOrder, err = models.GetPurchaseOrder(ctx, variantOrder.ID)
	if err != nil {
		t.Fatalf("GetPurchaseOrder (variant): %v", err)
	}
	if variantOrder.CurrentStatus != models.PurchaseOrderStatusPending {
		t.Fatalf("order status after failed receive = %s, want Pending", variantOrder.CurrentStatus)
	}
	level, err := models.GetStockLevel(ctx, models.ProductTypeVariant, variant.ID, warehouse.ID)
	if err != nil {
		t.Fatalf("GetStockLevel (variant): %v", err)
	}
	if level.ID != 0 || level.Qty != 0 {
		t.Fatalf("ghost stock level committed for deleted variant: id=%d qty=%d", level.ID, level.Qty)
	}
}

func mustGetProduct(t *testing.T, ctx context.Context, id int) *models.Product {
	t.Helper()
	product, err := models.GetProduct(ctx, id)
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	return product
}

func startRedisContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("pos-test-redis-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-p", "127.0.0.1:0:6379",
		"redis:7-alpine",
	)
	if err != nil {
		t.Fatalf("start redis container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "6379/tcp")
	if err != nil {
		t.Fatalf("redis docker port: %v", err)
	}
	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "redis-cli", "ping")
		if err == nil {
			return name, port
		}
		time.Sleep(250 * time.Millisecond)
	}
	t.Fatalf("redis did not become ready")
	return "", ""
}

func startMySQLContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("pos-test-mysql-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-e", "MYSQL_ROOT_PASSWORD=testpw",
		"-e", "MYSQL_DATABASE=pos_test",
		"-p", "127.0.0.1:0:3306",
		"mysql:8.0",
		"--default-authentication-plugin=mysql_native_password",
	)
	if err != nil {
		t.Fatalf("start mysql container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "3306/tcp")
	if err != nil {
		t.Fatalf("mysql docker port: %v", err)
	}
	deadline := time.Now().Add(120 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "mysqladmin", "ping", "-h", "127.0.0.1", "-ptestpw", "--silent")
		if err == nil {
			return name, port
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("mysql did not become ready")
	return "", ""
}

func dockerHostPort(container, portProto string) (string, error) {
	out, err := dockerRun("port", container, portProto)
	if err != nil {
		return "", fmt.Errorf("docker port: %w: %s", err, out)
	}
	re := regexp.MustCompile(`:(\d+)`)
	m := re.FindStringSubmatch(out)
	if len(m) != 2 {
		return "", fmt.Errorf("unexpected docker port output: %q", out)
	}
	return m[1], nil
}

func dockerRmForce(container string) error {
	if strings.TrimSpace(container) == "" {
		return nil
	}
	_, err := dockerRun("rm", "-f", container)
	return err
}

func dockerRun(args ...string) (string, error) {
	cmd := exec.Command("docker", args...)
	b, err := cmd.CombinedOutput()
	return string(b), err
}
