package order

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/example/pagdiwala/internal/infrastructure/store/mocks"
	"github.com/example/pagdiwala/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type notifyCall struct {
	OrderID string
	Status  model.OrderStatus
	Event   Event
}

// recordingNotifier records every notification and reports a fixed outcome
type recordingNotifier struct {
	calls  []notifyCall
	result bool
}

func (n *recordingNotifier) Notify(ctx context.Context, o *model.Order, event Event) bool {
	n.calls = append(n.calls, notifyCall{OrderID: o.ID, Status: o.Status, Event: event})
	return n.result
}

var fixedNow = time.Date(2024, 11, 2, 10, 30, 0, 0, time.UTC)

func newTestWorkflow(t *testing.T, opts ...Option) (*Workflow, *mocks.MockStore, *recordingNotifier) {
	t.Helper()
	ms := mocks.NewMockStore()
	seedCatalog(t, ms)
	n := &recordingNotifier{result: true}
	w := NewWorkflow(ms, n, opts...)
	w.now = func() time.Time { return fixedNow }
	seq := 0
	w.newID = func() string {
		seq++
		return fmt.Sprintf("id-%d", seq)
	}
	return w, ms, n
}

func seedCatalog(t *testing.T, ms *mocks.MockStore) {
	t.Helper()
	for _, id := range []string{"safa", "pagdi", "kalgi"} {
		require.NoError(t, ms.CreateProduct(context.Background(), &model.Product{ID: id, Name: id}))
	}
}

func testSnapshot() []model.CartItem {
	return []model.CartItem{
		{ProductID: "safa", Price: decimal.RequireFromString("249.99"), Quantity: 3},
		{ProductID: "pagdi", Price: decimal.RequireFromString("1200.50"), Quantity: 1},
	}
}

// ============================================
// Create Tests
// ============================================

func TestWorkflow_Create_Success(t *testing.T) {
	w, ms, n := newTestWorkflow(t)
	ctx := context.Background()

	o, err := w.Create(ctx, "cust-1", testSnapshot(), "7 Lake Palace Rd, Udaipur", "9123456780")

	require.NoError(t, err)
	assert.Equal(t, "id-1", o.ID)
	assert.Equal(t, "cust-1", o.CustomerID)
	assert.Equal(t, model.StatusPending, o.Status)
	assert.Equal(t, model.PaymentMethodCOD, o.PaymentMethod)
	assert.Equal(t, model.PaymentStatusPending, o.PaymentStatus)
	assert.Nil(t, o.DeliveryDate)
	assert.Equal(t, "1950.47", o.TotalAmount.StringFixed(2))
	require.Len(t, o.Items, 2)
	assert.Equal(t, o.ID, o.Items[0].OrderID)

	stored, err := ms.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Items, 2)

	require.Len(t, n.calls, 1)
	assert.Equal(t, EventOrderPlaced, n.calls[0].Event)
	assert.Equal(t, o.ID, n.calls[0].OrderID)
}

func TestWorkflow_Create_TotalIsExactSum(t *testing.T) {
	w, _, _ := newTestWorkflow(t)

	snapshots := [][]model.CartItem{
		{{ProductID: "safa", Price: decimal.RequireFromString("0.10"), Quantity: 3}},
		{{ProductID: "safa", Price: decimal.RequireFromString("0.01"), Quantity: 100}, {ProductID: "kalgi", Price: decimal.RequireFromString("99.99"), Quantity: 7}},
		testSnapshot(),
	}

	for i, snap := range snapshots {
		t.Run(fmt.Sprintf("snapshot_%d", i), func(t *testing.T) {
			want := decimal.Zero
			for _, item := range snap {
				want = want.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
			}

			o, err := w.Create(context.Background(), "cust-1", snap, "addr", "9123456780")

			require.NoError(t, err)
			assert.True(t, want.Equal(o.TotalAmount), "want %s got %s", want, o.TotalAmount)
		})
	}
}

func TestWorkflow_Create_CapturesSnapshotPrice(t *testing.T) {
	w, ms, _ := newTestWorkflow(t)
	ctx := context.Background()

	o, err := w.Create(ctx, "cust-1", testSnapshot(), "addr", "9123456780")
	require.NoError(t, err)

	_, err = ms.UpdateProduct(ctx, &model.Product{ID: "safa", Name: "safa", Price: decimal.NewFromInt(999)})
	require.NoError(t, err)

	stored, err := w.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "249.99", stored.Items[0].Price.StringFixed(2))
}

func TestWorkflow_Create_EmptySnapshot(t *testing.T) {
	w, ms, n := newTestWorkflow(t)

	o, err := w.Create(context.Background(), "cust-1", nil, "addr", "9123456780")

	assert.ErrorIs(t, err, ErrEmptyOrder)
	assert.Nil(t, o)
	assert.Empty(t, ms.InsertOrderCalls)
	assert.Empty(t, n.calls)
}

func TestWorkflow_Create_ItemInsertFailureCompensates(t *testing.T) {
	w, ms, n := newTestWorkflow(t)
	ms.InsertItemsErr = errors.New("foreign key violation")
	ctx := context.Background()

	o, err := w.Create(ctx, "cust-1", testSnapshot(), "addr", "9123456780")

	require.Error(t, err)
	assert.ErrorIs(t, err, ms.InsertItemsErr)
	assert.Nil(t, o)
	require.Len(t, ms.InsertOrderCalls, 1)
	assert.Equal(t, []string{ms.InsertOrderCalls[0].ID}, ms.DeleteOrderCalls)

	_, getErr := ms.GetOrder(ctx, ms.InsertOrderCalls[0].ID)
	assert.Error(t, getErr, "order row must not remain")
	assert.Empty(t, w.List(ctx, ""))
	assert.Empty(t, n.calls)
}

func TestWorkflow_Create_CompensationFailureStillReportsOriginalError(t *testing.T) {
	w, ms, _ := newTestWorkflow(t)
	ms.InsertItemsErr = errors.New("items rejected")
	ms.DeleteOrderErr = errors.New("delete timed out")

	_, err := w.Create(context.Background(), "cust-1", testSnapshot(), "addr", "9123456780")

	assert.ErrorIs(t, err, ms.InsertItemsErr)
	assert.Len(t, ms.DeleteOrderCalls, 1)
}

func TestWorkflow_Create_OrderInsertFailure(t *testing.T) {
	w, ms, _ := newTestWorkflow(t)
	ms.InsertOrderErr = errors.New("connection reset")

	_, err := w.Create(context.Background(), "cust-1", testSnapshot(), "addr", "9123456780")

	assert.ErrorIs(t, err, ms.InsertOrderErr)
	assert.Empty(t, ms.InsertItemsCalls)
	assert.Empty(t, ms.DeleteOrderCalls)
}

func TestWorkflow_Create_NotificationFailureDoesNotMatter(t *testing.T) {
	w, _, n := newTestWorkflow(t)
	n.result = false

	o, err := w.Create(context.Background(), "cust-1", testSnapshot(), "addr", "9123456780")

	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, o.Status)
	assert.Len(t, n.calls, 1)
}

func TestWorkflow_Create_WithoutNotifier(t *testing.T) {
	ms := mocks.NewMockStore()
	seedCatalog(t, ms)
	w := NewWorkflow(ms, nil)

	o, err := w.Create(context.Background(), "cust-1", testSnapshot(), "addr", "9123456780")

	require.NoError(t, err)
	assert.NotEmpty(t, o.ID)
}

func TestWorkflow_Create_AtomicStore(t *testing.T) {
	ms := mocks.NewMockAtomicStore()
	seedCatalog(t, ms.MockStore)
	w := NewWorkflow(ms, &recordingNotifier{result: true})

	o, err := w.Create(context.Background(), "cust-1", testSnapshot(), "addr", "9123456780")

	require.NoError(t, err)
	assert.Equal(t, 1, ms.InsertWithItemsCalls)
	assert.Empty(t, ms.InsertOrderCalls)
	assert.Empty(t, ms.InsertItemsCalls)

	stored, err := ms.GetOrder(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Items, 2)
}

func TestWorkflow_Create_AtomicStoreFailure(t *testing.T) {
	ms := mocks.NewMockAtomicStore()
	seedCatalog(t, ms.MockStore)
	ms.InsertWithItemsErr = errors.New("tx aborted")
	w := NewWorkflow(ms, nil)

	_, err := w.Create(context.Background(), "cust-1", testSnapshot(), "addr", "9123456780")

	assert.ErrorIs(t, err, ms.InsertWithItemsErr)
	assert.Empty(t, ms.DeleteOrderCalls)
}

// ============================================
// UpdateStatus Tests
// ============================================

func placeOrder(t *testing.T, w *Workflow) *model.Order {
	t.Helper()
	o, err := w.Create(context.Background(), "cust-1", testSnapshot(), "addr", "9123456780")
	require.NoError(t, err)
	return o
}

func TestWorkflow_UpdateStatus_ApproveSetsDeliveryDate(t *testing.T) {
	w, _, n := newTestWorkflow(t)
	o := placeOrder(t, w)
	date := time.Date(2024, 11, 20, 0, 0, 0, 0, time.UTC)

	updated, err := w.UpdateStatus(context.Background(), o.ID, model.StatusApproved, &date)

	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, updated.Status)
	require.NotNil(t, updated.DeliveryDate)
	assert.True(t, date.Equal(*updated.DeliveryDate))
	assert.Equal(t, fixedNow, updated.UpdatedAt)
	assert.Equal(t, EventOrderApproved, n.calls[len(n.calls)-1].Event)
}

func TestWorkflow_UpdateStatus_ShipKeepsDeliveryDate(t *testing.T) {
	w, ms, _ := newTestWorkflow(t)
	o := placeOrder(t, w)
	date := time.Date(2024, 11, 20, 0, 0, 0, 0, time.UTC)
	_, err := w.UpdateStatus(context.Background(), o.ID, model.StatusApproved, &date)
	require.NoError(t, err)

	updated, err := w.UpdateStatus(context.Background(), o.ID, model.StatusShipped, nil)

	require.NoError(t, err)
	assert.Equal(t, model.StatusShipped, updated.Status)
	require.NotNil(t, updated.DeliveryDate)
	assert.True(t, date.Equal(*updated.DeliveryDate))
	last := ms.UpdateStatusCalls[len(ms.UpdateStatusCalls)-1]
	assert.False(t, last.Update.SetDeliveryDate)
}

func TestWorkflow_UpdateStatus_ApproveWithoutDateStoresNull(t *testing.T) {
	w, ms, _ := newTestWorkflow(t)
	o := placeOrder(t, w)

	updated, err := w.UpdateStatus(context.Background(), o.ID, model.StatusApproved, nil)

	require.NoError(t, err)
	assert.Nil(t, updated.DeliveryDate)
	require.Len(t, ms.UpdateStatusCalls, 1)
	assert.True(t, ms.UpdateStatusCalls[0].Update.SetDeliveryDate)
}

func TestWorkflow_UpdateStatus_OutOfOrderAllowedByDefault(t *testing.T) {
	w, _, n := newTestWorkflow(t)
	o := placeOrder(t, w)

	updated, err := w.UpdateStatus(context.Background(), o.ID, model.StatusDelivered, nil)

	require.NoError(t, err)
	assert.Equal(t, model.StatusDelivered, updated.Status)
	assert.Equal(t, EventOrderDelivered, n.calls[len(n.calls)-1].Event)

	// re-applying and moving backwards are accepted too
	_, err = w.UpdateStatus(context.Background(), o.ID, model.StatusDelivered, nil)
	require.NoError(t, err)
	back, err := w.UpdateStatus(context.Background(), o.ID, model.StatusPending, nil)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, back.Status)
}

func TestWorkflow_UpdateStatus_NotificationsPerStatus(t *testing.T) {
	tests := []struct {
		status model.OrderStatus
		event  Event
		sends  bool
	}{
		{model.StatusApproved, EventOrderApproved, true},
		{model.StatusShipped, EventOrderShipped, true},
		{model.StatusDelivered, EventOrderDelivered, true},
		{model.StatusPending, "", false},
		{model.StatusCancelled, "", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			w, _, n := newTestWorkflow(t)
			o := placeOrder(t, w)
			n.calls = nil

			_, err := w.UpdateStatus(context.Background(), o.ID, tt.status, nil)

			require.NoError(t, err)
			if !tt.sends {
				assert.Empty(t, n.calls)
				return
			}
			require.Len(t, n.calls, 1)
			assert.Equal(t, tt.event, n.calls[0].Event)
			assert.Equal(t, tt.status, n.calls[0].Status)
		})
	}
}

func TestWorkflow_UpdateStatus_NotificationFailureDoesNotMatter(t *testing.T) {
	w, _, n := newTestWorkflow(t)
	o := placeOrder(t, w)
	n.result = false

	updated, err := w.UpdateStatus(context.Background(), o.ID, model.StatusShipped, nil)

	require.NoError(t, err)
	assert.Equal(t, model.StatusShipped, updated.Status)
}

func TestWorkflow_UpdateStatus_NotFound(t *testing.T) {
	w, _, n := newTestWorkflow(t)

	_, err := w.UpdateStatus(context.Background(), "missing", model.StatusShipped, nil)

	assert.ErrorIs(t, err, ErrOrderNotFound)
	assert.Empty(t, n.calls)
}

func TestWorkflow_UpdateStatus_StoreErrorPropagates(t *testing.T) {
	w, ms, n := newTestWorkflow(t)
	o := placeOrder(t, w)
	n.calls = nil
	ms.UpdateStatusErr = errors.New("deadlock detected")

	_, err := w.UpdateStatus(context.Background(), o.ID, model.StatusShipped, nil)

	assert.ErrorIs(t, err, ms.UpdateStatusErr)
	assert.Empty(t, n.calls)
}

func TestWorkflow_UpdateStatus_UnknownStatus(t *testing.T) {
	w, ms, _ := newTestWorkflow(t)
	o := placeOrder(t, w)

	_, err := w.UpdateStatus(context.Background(), o.ID, model.OrderStatus("returned"), nil)

	assert.ErrorIs(t, err, ErrUnknownStatus)
	assert.Empty(t, ms.UpdateStatusCalls)
}

func TestWorkflow_UpdateStatus_GuardRejectsIllegalSuccessor(t *testing.T) {
	w, ms, _ := newTestWorkflow(t, WithTransitionGuard(true))
	o := placeOrder(t, w)

	_, err := w.UpdateStatus(context.Background(), o.ID, model.StatusDelivered, nil)

	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Empty(t, ms.UpdateStatusCalls)
}

func TestWorkflow_UpdateStatus_GuardAllowsLifecycle(t *testing.T) {
	w, _, _ := newTestWorkflow(t, WithTransitionGuard(true))
	o := placeOrder(t, w)
	ctx := context.Background()
	date := fixedNow.AddDate(0, 0, 7)

	_, err := w.UpdateStatus(ctx, o.ID, model.StatusApproved, &date)
	require.NoError(t, err)
	_, err = w.UpdateStatus(ctx, o.ID, model.StatusShipped, nil)
	require.NoError(t, err)
	_, err = w.UpdateStatus(ctx, o.ID, model.StatusDelivered, nil)
	require.NoError(t, err)

	_, err = w.UpdateStatus(ctx, o.ID, model.StatusCancelled, nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestWorkflow_UpdateStatus_GuardNotFound(t *testing.T) {
	w, _, _ := newTestWorkflow(t, WithTransitionGuard(true))

	_, err := w.UpdateStatus(context.Background(), "missing", model.StatusApproved, nil)

	assert.ErrorIs(t, err, ErrOrderNotFound)
}

// ============================================
// List / Get Tests
// ============================================

func TestWorkflow_List(t *testing.T) {
	w, _, _ := newTestWorkflow(t)
	ctx := context.Background()
	placeOrder(t, w)
	_, err := w.Create(ctx, "cust-2", testSnapshot(), "addr", "9123456780")
	require.NoError(t, err)

	all := w.List(ctx, "")
	assert.Len(t, all, 2)

	mine := w.List(ctx, "cust-2")
	require.Len(t, mine, 1)
	require.Len(t, mine[0].Items, 2)
	require.NotNil(t, mine[0].Items[0].Product)
}

func TestWorkflow_List_ErrorYieldsEmpty(t *testing.T) {
	w, ms, _ := newTestWorkflow(t)
	placeOrder(t, w)
	ms.ListOrdersErr = errors.New("unreachable")

	orders := w.List(context.Background(), "")

	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}

func TestWorkflow_Get_NotFound(t *testing.T) {
	w, _, _ := newTestWorkflow(t)

	_, err := w.Get(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrOrderNotFound)
}
