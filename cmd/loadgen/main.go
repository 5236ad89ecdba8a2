// Command loadgen fires concurrent orders at the order service and checks
// that confirmed orders never exceed the available stock.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/example/batchstock/internal/adapter/httpapi"
)

func main() {
	orderURL := flag.String("order-url", "http://localhost:8080", "base URL of the order service")
	productID := flag.String("product", "WHEAT-001", "product to order")
	requests := flag.Int("requests", 50, "number of concurrent orders")
	quantity := flag.Int64("quantity", 1, "quantity per order")
	flag.Parse()

	httpClient := &http.Client{Timeout: 30 * time.Second}

	var confirmed, failed, rejected atomic.Int32
	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < *requests; i++ {
		wg.Add(1)
		go func(customer int) {
			defer wg.Done()

			body, _ := json.Marshal(httpapi.PlaceOrderRequest{
				CustomerID: fmt.Sprintf("load-customer-%d", customer),
				Items: []httpapi.OrderItemRequest{
					{ProductID: *productID, Quantity: *quantity},
				},
			})

			resp, err := httpClient.Post(*orderURL+"/orders", "application/json", bytes.NewReader(body))
			if err != nil {
				rejected.Add(1)
				return
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusCreated {
				rejected.Add(1)
				return
			}

			var order httpapi.OrderResponse
			if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
				rejected.Add(1)
				return
			}
			switch order.Status {
			case "CONFIRMED":
				confirmed.Add(1)
			default:
				failed.Add(1)
			}
		}(i)
	}

	wg.Wait()
	elapsed := time.Since(start)

	fmt.Println("========== LOAD TEST RESULTS ==========")
	fmt.Printf("Total Requests:  %d\n", *requests)
	fmt.Printf("Confirmed:       %d\n", confirmed.Load())
	fmt.Printf("Failed:          %d\n", failed.Load())
	fmt.Printf("Rejected:        %d\n", rejected.Load())
	fmt.Printf("Duration:        %v\n", elapsed)
	fmt.Println("=======================================")

	log.Printf("total quantity deducted by confirmed orders: %d", int64(confirmed.Load())*(*quantity))
}
