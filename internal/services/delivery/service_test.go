package delivery

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/BearBump/DeliveryBox/internal/integrations/routing/osrm"
	"github.com/BearBump/DeliveryBox/internal/models"
	"github.com/BearBump/DeliveryBox/internal/services/eta"
	"github.com/BearBump/DeliveryBox/internal/storage/memorders"
	"github.com/stretchr/testify/require"
)

func TestService_EstimateETA_WithOSRM(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/route/v1/driving/-122.4,37.7;20,10", r.URL.Path)
		_, _ = w.Write([]byte(`{"code":"Ok","routes":[{"duration":600}]}`))
	}))
	defer srv.Close()

	svc := New(memorders.New(), eta.New(osrm.New(srv.URL, "driving")), nil, "")

	o, err := svc.RecordOrder(customerCtx, models.OrderCreateInput{CustomerName: "Alice", Address: "1 Main St"})
	require.NoError(t, err)
	_, err = svc.RecordUpdate(driverCtx, models.OrderUpdateInput{OrderID: o.ID, Status: "InTransit", Lat: "10.0", Lon: "20.0"})
	require.NoError(t, err)

	minutes, err := svc.EstimateETA(driverCtx, o.ID, "37.7,-122.4")
	require.NoError(t, err)
	require.Equal(t, 10.0, minutes)
}

func TestService_EstimateETA_ProviderUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	store := memorders.New()
	svc := New(store, eta.New(osrm.New(url, "", osrm.WithAttempts(1))), nil, "")

	o, err := svc.RecordOrder(customerCtx, models.OrderCreateInput{CustomerName: "Alice", Address: "1 Main St"})
	require.NoError(t, err)
	updated, err := svc.RecordUpdate(driverCtx, models.OrderUpdateInput{OrderID: o.ID, Status: "InTransit", Lat: "10", Lon: "20"})
	require.NoError(t, err)

	_, err = svc.EstimateETA(driverCtx, o.ID, "37.7,-122.4")
	require.ErrorIs(t, err, models.ErrRouteServiceUnavailable)
	require.Equal(t, []models.Order{updated}, store.List())
}

// A stalled provider must not block order mutations.
func TestService_SlowProviderDoesNotBlockStore(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
		_, _ = w.Write([]byte(`{"code":"Ok","routes":[{"duration":60}]}`))
	}))
	defer srv.Close()
	defer close(release)

	svc := New(memorders.New(), eta.New(osrm.New(srv.URL, "", osrm.WithAttempts(1))), nil, "")
	o, err := svc.RecordOrder(customerCtx, models.OrderCreateInput{CustomerName: "A", Address: "B"})
	require.NoError(t, err)
	_, err = svc.RecordUpdate(driverCtx, models.OrderUpdateInput{OrderID: o.ID, Status: "InTransit", Lat: "1", Lon: "1"})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := svc.EstimateETA(driverCtx, o.ID, "2,2")
		done <- err
	}()

	select {
	case <-started:
	case <-time.After(3 * time.Second):
		t.Fatal("route request was not sent")
	}

	for i := 0; i < 10; i++ {
		_, err := svc.RecordOrder(customerCtx, models.OrderCreateInput{CustomerName: "C", Address: "D"})
		require.NoError(t, err)
	}
	updated, err := svc.RecordUpdate(driverCtx, models.OrderUpdateInput{OrderID: o.ID, Status: "Delivered", Lat: "3", Lon: "3"})
	require.NoError(t, err)
	require.Equal(t, "Delivered", updated.Status)

	list, err := svc.ListOrders(customerCtx)
	require.NoError(t, err)
	require.Len(t, list, 11)

	select {
	case err := <-done:
		t.Fatalf("estimate finished before the provider answered: %v", err)
	default:
	}
}
