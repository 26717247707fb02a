package order

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MinhBui2k4/CDTT/internal/activity"
	"github.com/MinhBui2k4/CDTT/internal/address"
	"github.com/MinhBui2k4/CDTT/internal/api"
	"github.com/MinhBui2k4/CDTT/internal/apitest"
	"github.com/MinhBui2k4/CDTT/internal/product"
	"github.com/MinhBui2k4/CDTT/internal/user"
	"github.com/MinhBui2k4/CDTT/internal/web"
)

func setup(t *testing.T) (*apitest.Backend, *activity.Service, *fiber.App) {
	t.Helper()
	backend := apitest.NewBackend(t)
	client := backend.Client()
	log := apitest.Activity()
	h := NewHandler(NewService(client), address.NewService(client), user.NewService(client), product.NewService(client), log)
	return backend, log, apitest.App(h.RegisterProtectedRoutes)
}

func TestLabelAndTone(t *testing.T) {
	assert.Equal(t, "Shipped", Label(StatusShipped))
	assert.Equal(t, "LOST", Label("LOST"))
	assert.Equal(t, "danger", Tone(StatusCancelled))
	assert.Equal(t, "success", Tone(StatusCompleted))
	assert.Equal(t, 1250.0, Order{TotalAmount: 1000, ShippingCost: 250}.GrandTotal())
}

func TestParams_DefaultSort(t *testing.T) {
	p := params(api.PageQuery{})
	assert.Equal(t, api.Params{"page": 0, "size": 10, "sort": "orderDate", "sortOrder": "asc"}, p)
}

func TestService_ByStatusRejectsUnknown(t *testing.T) {
	backend := apitest.NewBackend(t)
	_, err := NewService(backend.Client()).ByStatus(context.Background(), nil, "lost", api.PageQuery{})
	assert.Error(t, err)
	assert.Empty(t, backend.Calls())
}

func TestHandler_ListNewestFirst(t *testing.T) {
	backend, _, app := setup(t)
	backend.JSON(http.MethodGet, "/orders/admin/all", http.StatusOK, apitest.Page([]Order{
		{ID: 31, UserID: 4, Status: StatusShipped, TotalAmount: 300000, ShippingCost: 30000, OrderDate: "2025-06-01T10:00:00"},
	}, 1, 1))

	body := apitest.Body(t, apitest.Get(t, app, "/admin/orders"))
	assert.Contains(t, body, "#31")
	assert.Contains(t, body, "330.000 ₫")
	assert.Contains(t, body, "Shipped")

	q := backend.CallsTo(http.MethodGet, "/orders/admin/all")[0].Query
	assert.Equal(t, "0", q.Get("page"))
	assert.Equal(t, "10", q.Get("size"))
	assert.Equal(t, "orderDate", q.Get("sort"))
	assert.Equal(t, "desc", q.Get("sortOrder"))
}

func TestHandler_ListByStatus(t *testing.T) {
	backend, _, app := setup(t)
	backend.JSON(http.MethodGet, "/orders/status/CANCELLED", http.StatusOK, apitest.Page([]Order{}, 0, 0))

	res := apitest.Get(t, app, "/admin/orders?status=CANCELLED")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Len(t, backend.CallsTo(http.MethodGet, "/orders/status/CANCELLED"), 1)
	assert.Empty(t, backend.CallsTo(http.MethodGet, "/orders/admin/all"))
}

func TestHandler_ViewJoinsDetails(t *testing.T) {
	backend, _, app := setup(t)
	addrID := int64(9)
	backend.JSON(http.MethodGet, "/orders/31", http.StatusOK, Order{
		ID: 31, UserID: 4, AddressID: &addrID, Status: StatusConfirmed,
		TotalAmount: 500000, ShippingCost: 25000,
		Items: []Item{
			{ProductID: 1, Quantity: 2, Price: 200000},
			{ProductID: 2, Quantity: 1, Price: 100000},
		},
		Timeline: []Timeline{{Status: StatusOrdered, Date: "2025-06-01T10:00:00"}, {Status: StatusConfirmed, Date: "2025-06-01T11:00:00"}},
	})
	backend.JSON(http.MethodGet, "/users/addresses/9", http.StatusOK, address.Address{FullName: "Mai", Street: "5 Hai Ba Trung", City: "Hanoi"})
	backend.JSON(http.MethodGet, "/users/4", http.StatusOK, user.User{ID: 4, FullName: "Mai", Email: "mai@shop.vn"})
	backend.JSON(http.MethodGet, "/products/1", http.StatusOK, product.Product{ID: 1, Name: "Headphones"})
	backend.Fail(http.MethodGet, "/products/2", http.StatusNotFound, "Product not found")

	res := apitest.Get(t, app, "/admin/orders/31")
	require.Equal(t, http.StatusOK, res.StatusCode)
	body := apitest.Body(t, res)

	assert.Contains(t, body, "mai@shop.vn")
	assert.Contains(t, body, "5 Hai Ba Trung, Hanoi")
	assert.Contains(t, body, "Headphones")
	assert.Contains(t, body, "400.000 ₫")
	assert.Contains(t, body, "Product #2 (unavailable)")
	assert.Contains(t, body, "525.000 ₫")
	assert.Contains(t, body, `<option value="CONFIRMED" selected>Confirmed</option>`)
	assert.NotContains(t, body, "Some order details are missing")
}

func TestHandler_ViewWithMissingCustomer(t *testing.T) {
	backend, _, app := setup(t)
	backend.JSON(http.MethodGet, "/orders/32", http.StatusOK, Order{ID: 32, UserID: 99, Status: StatusOrdered})
	backend.Fail(http.MethodGet, "/users/99", http.StatusNotFound, "User not found")

	body := apitest.Body(t, apitest.Get(t, app, "/admin/orders/32"))
	assert.Contains(t, body, "Order #32")
	assert.Contains(t, body, "Some order details are missing: User not found")
	assert.Contains(t, body, "User #99")
}

func TestHandler_ViewKeepsLookupsAfterAddressFails(t *testing.T) {
	backend, _, app := setup(t)
	addrID := int64(5)
	backend.JSON(http.MethodGet, "/orders/40", http.StatusOK, Order{
		ID: 40, UserID: 4, AddressID: &addrID, Status: StatusOrdered,
		TotalAmount: 150000,
		Items:       []Item{{ProductID: 7, Quantity: 1, Price: 150000}},
	})
	backend.Fail(http.MethodGet, "/users/addresses/5", http.StatusNotFound, "Address not found")
	backend.Handle(http.MethodGet, "/users/4", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(150 * time.Millisecond)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(user.User{ID: 4, FullName: "Lan", Email: "lan@shop.vn"})
	})
	backend.Handle(http.MethodGet, "/products/7", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(product.Product{ID: 7, Name: "Blue Kettle"})
	})

	res := apitest.Get(t, app, "/admin/orders/40")
	require.Equal(t, http.StatusOK, res.StatusCode)
	body := apitest.Body(t, res)

	assert.Contains(t, body, "Some order details are missing: Address not found")
	assert.Contains(t, body, "Blue Kettle")
	assert.NotContains(t, body, "Product #7 (unavailable)")
	assert.Contains(t, body, "lan@shop.vn")
}

func TestHandler_UpdateStatus(t *testing.T) {
	backend, log, app := setup(t)
	backend.JSON(http.MethodPut, "/orders/admin/31/status", http.StatusOK, Order{ID: 31, Status: StatusShipped})

	res := apitest.PostForm(t, app, "/admin/orders/31/status", url.Values{"status": {StatusShipped}})
	assert.Equal(t, "/admin/orders/31", res.Header.Get("Location"))
	assert.Equal(t, []web.Flash{{Kind: web.Success, Message: "Order marked Shipped"}}, apitest.Flashes(res))

	var sent map[string]string
	require.NoError(t, json.Unmarshal(backend.CallsTo(http.MethodPut, "/orders/admin/31/status")[0].Body, &sent))
	assert.Equal(t, StatusShipped, sent["status"])

	entries := apitest.Recorded(t, log)
	require.Len(t, entries, 1)
	assert.Equal(t, "order", entries[0].Resource)
	assert.Equal(t, activity.ActionStatus, entries[0].Action)
}
