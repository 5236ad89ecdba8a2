package tests

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/example/batchstock/internal/adapter/client"
	"github.com/example/batchstock/internal/adapter/handler"
	"github.com/example/batchstock/internal/adapter/storage"
	"github.com/example/batchstock/internal/core/domain"
	"github.com/example/batchstock/internal/core/service"
)

// testEnv wires both services against real MySQL, with the inventory
// service exposed over HTTP the way the order service talks to it in
// production.

type testEnv struct {
	mysql        *sql.DB
	inventorySvc *service.InventoryService
	inventoryURL string
	orderSvc     *service.OrderService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mysqlDSN := os.Getenv("MYSQL_DSN")
	if mysqlDSN == "" {
		mysqlDSN = "root:root@tcp(localhost:3306)/batchstock?parseTime=true"
	}

	db, err := sql.Open("mysql", mysqlDSN)
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Skipf("MySQL not available: %v", err)
	}

	logger := zap.NewNop()
	ctx := context.Background()

	inventoryRepo := storage.NewMySQLInventoryAdapter(db)
	if err := inventoryRepo.EnsureSchema(ctx); err != nil {
		t.Fatalf("inventory schema: %v", err)
	}
	orderRepo := storage.NewMySQLOrderAdapter(db)
	if err := orderRepo.EnsureSchema(ctx); err != nil {
		t.Fatalf("order schema: %v", err)
	}

	inventorySvc := service.NewInventoryService(inventoryRepo, logger)

	mux := http.NewServeMux()
	handler.NewInventoryHandler(inventorySvc, logger).Register(mux)
	inventoryServer := httptest.NewServer(mux)

	inventoryClient := client.NewInventoryHTTPClient(inventoryServer.URL, 5*time.Second, logger)
	orderSvc := service.NewOrderService(orderRepo, inventoryClient, logger)

	// Registered before any per-test cleanup so the connection outlives
	// the row deletions.
	t.Cleanup(func() {
		inventoryServer.Close()
		db.Close()
	})

	return &testEnv{
		mysql:        db,
		inventorySvc: inventorySvc,
		inventoryURL: inventoryServer.URL,
		orderSvc:     orderSvc,
	}
}

func (env *testEnv) seedProduct(t *testing.T, batches ...int64) string {
	t.Helper()
	ctx := context.Background()
	productID := fmt.Sprintf("itest-prod-%d", time.Now().UnixNano())

	if _, err := env.inventorySvc.CreateProduct(ctx, productID, "Integration Product"); err != nil {
		t.Fatalf("create product: %v", err)
	}
	for i, quantity := range batches {
		expiry := time.Now().UTC().AddDate(0, 3*(i+1), 0)
		_, err := env.inventorySvc.UpdateInventory(ctx, service.UpdateInventoryInput{
			ProductID:  productID,
			BatchRef:   fmt.Sprintf("%s-b%d", productID, i+1),
			Quantity:   quantity,
			ExpiryDate: &expiry,
		})
		if err != nil {
			t.Fatalf("seed batch %d: %v", i+1, err)
		}
	}
	t.Cleanup(func() {
		env.mysql.ExecContext(ctx, `DELETE FROM batches WHERE product_id = ?`, productID)
		env.mysql.ExecContext(ctx, `DELETE FROM products WHERE product_id = ?`, productID)
	})
	return productID
}

func (env *testEnv) totalStock(t *testing.T, productID string) int64 {
	t.Helper()
	batches, err := env.inventorySvc.ListBatchesByProduct(context.Background(), productID)
	if err != nil {
		t.Fatalf("list batches: %v", err)
	}
	var total int64
	for _, b := range batches {
		total += b.Quantity
	}
	return total
}

func TestIntegration_FullOrderFlow(t *testing.T) {
	env := setupTestEnv(t)

	ctx := context.Background()
	productID := env.seedProduct(t, 1000, 500)

	order, err := env.orderSvc.PlaceOrder(ctx, "customer-001", []domain.OrderItem{
		{ProductID: productID, Quantity: 1200},
	})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if order.Status != domain.OrderStatusConfirmed {
		t.Fatalf("expected CONFIRMED, got %s", order.Status)
	}

	// Earliest-expiring batch drains first, remainder comes off the next.
	batches, err := env.inventorySvc.ListBatchesByProduct(ctx, productID)
	if err != nil {
		t.Fatalf("list batches: %v", err)
	}
	if batches[0].Quantity != 0 || batches[1].Quantity != 300 {
		t.Errorf("expected batch quantities 0/300, got %d/%d",
			batches[0].Quantity, batches[1].Quantity)
	}

	got, err := env.orderSvc.GetOrderByID(ctx, order.OrderID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if got.Status != domain.OrderStatusConfirmed {
		t.Errorf("persisted status %s", got.Status)
	}

	t.Cleanup(func() {
		env.mysql.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = ?`, order.OrderID)
		env.mysql.ExecContext(ctx, `DELETE FROM orders WHERE order_id = ?`, order.OrderID)
	})
}

func TestIntegration_OrderFailsWhenStockShort(t *testing.T) {
	env := setupTestEnv(t)

	ctx := context.Background()
	productID := env.seedProduct(t, 100)

	order, err := env.orderSvc.PlaceOrder(ctx, "customer-002", []domain.OrderItem{
		{ProductID: productID, Quantity: 101},
	})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if order.Status != domain.OrderStatusFailed {
		t.Errorf("expected FAILED, got %s", order.Status)
	}
	if total := env.totalStock(t, productID); total != 100 {
		t.Errorf("stock changed on failed order: %d", total)
	}

	t.Cleanup(func() {
		env.mysql.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = ?`, order.OrderID)
		env.mysql.ExecContext(ctx, `DELETE FROM orders WHERE order_id = ?`, order.OrderID)
	})
}

func TestIntegration_UnknownProductRejectedBeforePersist(t *testing.T) {
	env := setupTestEnv(t)

	_, err := env.orderSvc.PlaceOrder(context.Background(), "customer-003", []domain.OrderItem{
		{ProductID: "no-such-product", Quantity: 1},
	})
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got: %v", err)
	}
}

// TestIntegration_ConcurrentOrders_NoOversell hammers one product with
// more demand than stock and verifies confirmed orders never exceed it.
func TestIntegration_ConcurrentOrders_NoOversell(t *testing.T) {
	env := setupTestEnv(t)

	ctx := context.Background()
	initialStock := int64(50)
	productID := env.seedProduct(t, initialStock)

	totalOrders := 100
	perOrder := int64(1)

	var confirmed, failed atomic.Int64
	var mu sync.Mutex
	var orderIDs []string
	var wg sync.WaitGroup

	for i := 0; i < totalOrders; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			order, err := env.orderSvc.PlaceOrder(ctx,
				fmt.Sprintf("customer-%03d", n),
				[]domain.OrderItem{{ProductID: productID, Quantity: perOrder}})
			if err != nil {
				return
			}
			mu.Lock()
			orderIDs = append(orderIDs, order.OrderID)
			mu.Unlock()
			switch order.Status {
			case domain.OrderStatusConfirmed:
				confirmed.Add(1)
			case domain.OrderStatusFailed:
				failed.Add(1)
			}
		}(i)
	}
	wg.Wait()

	t.Cleanup(func() {
		for _, id := range orderIDs {
			env.mysql.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = ?`, id)
			env.mysql.ExecContext(ctx, `DELETE FROM orders WHERE order_id = ?`, id)
		}
	})

	remaining := env.totalStock(t, productID)
	deducted := initialStock - remaining

	if confirmed.Load()*perOrder != deducted {
		t.Errorf("confirmed orders deduct %d but stock dropped by %d",
			confirmed.Load()*perOrder, deducted)
	}
	if confirmed.Load()*perOrder > initialStock {
		t.Errorf("oversold: %d confirmed against stock of %d", confirmed.Load(), initialStock)
	}
	if remaining < 0 {
		t.Errorf("stock went negative: %d", remaining)
	}
	t.Logf("confirmed=%d failed=%d remaining=%d", confirmed.Load(), failed.Load(), remaining)
}

// TestIntegration_CachedAvailability mirrors the order service's optional
// cache wiring: the cached client must agree with the direct client.
func TestIntegration_CachedAvailability(t *testing.T) {
	env := setupTestEnv(t)

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	defer rdb.Close()

	logger := zap.NewNop()
	ctx := context.Background()
	productID := env.seedProduct(t, 10)

	inner := client.NewInventoryHTTPClient(env.inventoryURL, 5*time.Second, logger)
	cached := client.NewCachedAvailabilityClient(inner, storage.NewRedisAdapter(rdb), time.Minute, logger)

	if err := cached.CheckAvailability(ctx, productID); err != nil {
		t.Fatalf("first check: %v", err)
	}
	// Second check is served from the cache.
	if err := cached.CheckAvailability(ctx, productID); err != nil {
		t.Fatalf("cached check: %v", err)
	}

	if err := cached.CheckAvailability(ctx, "itest-missing-product"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown product, got: %v", err)
	}
}
