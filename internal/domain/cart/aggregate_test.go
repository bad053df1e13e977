package cart

import (
	"context"
	"testing"

	"github.com/example/storefront/internal/infrastructure/store/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCartService() (*Service, *mocks.MockEventStore) {
	eventStore := mocks.NewMockEventStore()
	service := NewService(eventStore)
	return service, eventStore
}

func sampleLine() Line {
	return Line{
		ProductID: "prod-1",
		Name:      "Linen Shirt",
		UnitPrice: 12000,
		Quantity:  1,
	}
}

func TestLineID(t *testing.T) {
	assert.Equal(t, "prod-1", LineID("prod-1", ""))
	assert.Equal(t, "prod-1-M", LineID("prod-1", "M"))
}

func TestService_AddLine_NewLine(t *testing.T) {
	service, eventStore := newTestCartService()
	ctx := context.Background()

	err := service.AddLine(ctx, "user-1", sampleLine())

	require.NoError(t, err)
	require.Len(t, eventStore.AppendCalls, 1)
	assert.Equal(t, EventLineAdded, eventStore.AppendCalls[0].EventType)
	assert.Equal(t, GetCartID("user-1"), eventStore.AppendCalls[0].AggregateID)

	cart, err := service.Load(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 1, cart.Lines["prod-1"].Quantity)
}

func TestService_AddLine_MergesSameProductAndSize(t *testing.T) {
	service, _ := newTestCartService()
	ctx := context.Background()

	line := sampleLine()
	line.Size = "M"

	require.NoError(t, service.AddLine(ctx, "user-1", line))

	line.Quantity = 2
	require.NoError(t, service.AddLine(ctx, "user-1", line))

	cart, err := service.Load(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 3, cart.Lines["prod-1-M"].Quantity)
}

func TestService_AddLine_DifferentSizesStaySeparate(t *testing.T) {
	service, _ := newTestCartService()
	ctx := context.Background()

	lineM := sampleLine()
	lineM.Size = "M"
	lineL := sampleLine()
	lineL.Size = "L"

	require.NoError(t, service.AddLine(ctx, "user-1", lineM))
	require.NoError(t, service.AddLine(ctx, "user-1", lineL))

	cart, err := service.Load(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, cart.Lines, 2)
}

func TestService_AddLine_MergeKeepsPriceSnapshot(t *testing.T) {
	service, _ := newTestCartService()
	ctx := context.Background()

	line := sampleLine()
	require.NoError(t, service.AddLine(ctx, "user-1", line))

	// Price changed in the catalog between adds
	line.UnitPrice = 99000
	require.NoError(t, service.AddLine(ctx, "user-1", line))

	cart, err := service.Load(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 12000, cart.Lines["prod-1"].UnitPrice)
	assert.Equal(t, 2, cart.Lines["prod-1"].Quantity)
}

func TestService_AddLine_Validation(t *testing.T) {
	service, eventStore := newTestCartService()
	ctx := context.Background()

	line := sampleLine()
	line.ProductID = ""
	assert.ErrorIs(t, service.AddLine(ctx, "user-1", line), ErrInvalidProduct)

	line = sampleLine()
	line.Quantity = 0
	assert.ErrorIs(t, service.AddLine(ctx, "user-1", line), ErrInvalidQuantity)

	assert.Empty(t, eventStore.AppendCalls)
}

func TestService_SetQuantity(t *testing.T) {
	service, _ := newTestCartService()
	ctx := context.Background()

	require.NoError(t, service.AddLine(ctx, "user-1", sampleLine()))

	require.NoError(t, service.SetQuantity(ctx, "user-1", "prod-1", 5))

	cart, err := service.Load(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 5, cart.Lines["prod-1"].Quantity)
}

func TestService_SetQuantity_RejectsBelowOne(t *testing.T) {
	service, _ := newTestCartService()
	ctx := context.Background()

	require.NoError(t, service.AddLine(ctx, "user-1", sampleLine()))

	assert.ErrorIs(t, service.SetQuantity(ctx, "user-1", "prod-1", 0), ErrInvalidQuantity)
	assert.ErrorIs(t, service.SetQuantity(ctx, "user-1", "prod-1", -2), ErrInvalidQuantity)

	// Line is untouched
	cart, err := service.Load(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, cart.Lines["prod-1"].Quantity)
}

func TestService_SetQuantity_MissingLine(t *testing.T) {
	service, _ := newTestCartService()

	err := service.SetQuantity(context.Background(), "user-1", "missing", 2)

	assert.ErrorIs(t, err, ErrLineNotFound)
}

func TestService_RemoveLine(t *testing.T) {
	service, _ := newTestCartService()
	ctx := context.Background()

	require.NoError(t, service.AddLine(ctx, "user-1", sampleLine()))
	require.NoError(t, service.RemoveLine(ctx, "user-1", "prod-1"))

	cart, err := service.Load(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, cart.Lines)
}

func TestService_RemoveLine_MissingLine(t *testing.T) {
	service, _ := newTestCartService()

	err := service.RemoveLine(context.Background(), "user-1", "missing")

	assert.ErrorIs(t, err, ErrLineNotFound)
}

func TestService_ClearOrdered_RemovesOnlyGivenLines(t *testing.T) {
	service, _ := newTestCartService()
	ctx := context.Background()

	lineA := sampleLine()
	lineB := sampleLine()
	lineB.ProductID = "prod-2"

	require.NoError(t, service.AddLine(ctx, "user-1", lineA))
	require.NoError(t, service.AddLine(ctx, "user-1", lineB))

	service.ClearOrdered(ctx, "user-1", []string{"prod-1"})

	cart, err := service.Load(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Contains(t, cart.Lines, "prod-2")
}

func TestService_ClearOrdered_MissingLineDoesNotPanic(t *testing.T) {
	service, _ := newTestCartService()

	service.ClearOrdered(context.Background(), "user-1", []string{"missing"})
}

func TestService_SnapshotCreatedAtThreshold(t *testing.T) {
	service, eventStore := newTestCartService()
	ctx := context.Background()

	line := sampleLine()
	for i := 0; i < 10; i++ {
		require.NoError(t, service.AddLine(ctx, "user-1", line))
	}

	assert.GreaterOrEqual(t, eventStore.SaveSnapshotCalls, 1)
}
