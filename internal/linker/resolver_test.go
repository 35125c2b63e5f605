package linker_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ms-event-dashboard/internal/gateway"
	"ms-event-dashboard/internal/linker"
	"ms-event-dashboard/internal/models"
)

type MockDeleter struct {
	mock.Mock
}

func (m *MockDeleter) DeleteEntity(ctx context.Context, table, id string) error {
	args := m.Called(ctx, table, id)
	return args.Error(0)
}

type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) TicketsByID(ctx context.Context, ids []string) ([]models.Ticket, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Ticket), args.Error(1)
}

func (m *MockFetcher) CouponsByID(ctx context.Context, ids []string) ([]models.Coupon, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Coupon), args.Error(1)
}

func TestResolveLinksDropsUnknownIDs(t *testing.T) {
	ev := models.Event{
		FacilitatorIDs: []string{"rec_fac1", "rec_fac_gone", "rec_fac2"},
		CalendarIDs:    []string{"rec_cal1"},
	}
	facilitators := []models.Facilitator{
		{ID: "rec_fac1", Name: "Ana"},
		{ID: "rec_fac2", Name: "Ben"},
	}
	calendars := []models.Calendar{{ID: "rec_cal1", Name: "Main"}}

	facs, cals := linker.ResolveLinks(&ev, facilitators, calendars)

	require.Len(t, facs, 2)
	assert.Equal(t, "Ana", facs[0].Name)
	assert.Equal(t, "Ben", facs[1].Name)
	require.Len(t, cals, 1)
	assert.Equal(t, "Main", cals[0].Name)
}

func TestResolveTicketsAndCouponsEmptyListsCostNothing(t *testing.T) {
	fetcher := new(MockFetcher)
	ev := models.Event{}

	tickets, coupons, err := linker.ResolveTicketsAndCoupons(context.Background(), fetcher, &ev)

	require.NoError(t, err)
	assert.Empty(t, tickets)
	assert.Empty(t, coupons)
	fetcher.AssertNotCalled(t, "TicketsByID", mock.Anything, mock.Anything)
	fetcher.AssertNotCalled(t, "CouponsByID", mock.Anything, mock.Anything)
}

func TestResolveTicketsAndCouponsOneCallPerType(t *testing.T) {
	fetcher := new(MockFetcher)
	ev := models.Event{
		TicketIDs: []string{"rec_tkt1", "rec_tkt2"},
		CouponIDs: []string{"rec_cpn1"},
	}

	fetcher.On("TicketsByID", mock.Anything, ev.TicketIDs).Return([]models.Ticket{
		{ID: "rec_tkt1"}, {ID: "rec_tkt2"},
	}, nil).Once()
	fetcher.On("CouponsByID", mock.Anything, ev.CouponIDs).Return([]models.Coupon{
		{ID: "rec_cpn1"},
	}, nil).Once()

	tickets, coupons, err := linker.ResolveTicketsAndCoupons(context.Background(), fetcher, &ev)

	require.NoError(t, err)
	assert.Len(t, tickets, 2)
	assert.Len(t, coupons, 1)
	fetcher.AssertExpectations(t)
}

func TestCascadeDeleteRequiresConfirmationWhenCouponsDepend(t *testing.T) {
	deleter := new(MockDeleter)
	resolver := linker.New(deleter, nil)

	tickets := []models.Ticket{{ID: "rec_tkt1", Name: "Standard"}}
	coupons := []models.Coupon{
		{ID: "rec_cpn1", LinkedTicketID: "rec_tkt1"},
		{ID: "rec_cpn2", LinkedTicketID: "rec_tkt1"},
		{ID: "rec_cpn3"},
	}

	result, err := resolver.CascadeDeleteTicket(context.Background(), tickets, coupons, "rec_tkt1", false)

	require.NoError(t, err)
	assert.True(t, result.RequiresConfirmation)
	assert.Equal(t, 2, result.AffectedCoupons)

	// Nothing was deleted yet, the lists come back untouched.
	assert.Len(t, result.Tickets, 1)
	assert.Len(t, result.Coupons, 3)
	deleter.AssertNotCalled(t, "DeleteEntity", mock.Anything, mock.Anything, mock.Anything)
}

func TestCascadeDeleteConfirmedDeletesDependentsFirst(t *testing.T) {
	deleter := new(MockDeleter)
	resolver := linker.New(deleter, nil)

	var order []string
	deleter.On("DeleteEntity", mock.Anything, gateway.TableCoupons, "rec_cpn1").Run(func(args mock.Arguments) {
		order = append(order, "coupon")
	}).Return(nil)
	deleter.On("DeleteEntity", mock.Anything, gateway.TableTickets, "rec_tkt1").Run(func(args mock.Arguments) {
		order = append(order, "ticket")
	}).Return(nil)

	tickets := []models.Ticket{{ID: "rec_tkt1"}, {ID: "rec_tkt2"}}
	coupons := []models.Coupon{
		{ID: "rec_cpn1", LinkedTicketID: "rec_tkt1"},
		{ID: "rec_cpn2", LinkedTicketID: "rec_tkt2"},
	}

	result, err := resolver.CascadeDeleteTicket(context.Background(), tickets, coupons, "rec_tkt1", true)

	require.NoError(t, err)
	assert.False(t, result.RequiresConfirmation)
	assert.Equal(t, []string{"coupon", "ticket"}, order)

	// Both lists pruned of the deleted records.
	require.Len(t, result.Tickets, 1)
	assert.Equal(t, "rec_tkt2", result.Tickets[0].ID)
	require.Len(t, result.Coupons, 1)
	assert.Equal(t, "rec_cpn2", result.Coupons[0].ID)
}

func TestCascadeDeleteKeepsGoingOnCouponFailure(t *testing.T) {
	deleter := new(MockDeleter)
	resolver := linker.New(deleter, nil)

	deleter.On("DeleteEntity", mock.Anything, gateway.TableCoupons, "rec_cpn1").Return(errors.New("store down"))
	deleter.On("DeleteEntity", mock.Anything, gateway.TableCoupons, "rec_cpn2").Return(nil)
	deleter.On("DeleteEntity", mock.Anything, gateway.TableTickets, "rec_tkt1").Return(nil)

	tickets := []models.Ticket{{ID: "rec_tkt1"}}
	coupons := []models.Coupon{
		{ID: "rec_cpn1", LinkedTicketID: "rec_tkt1"},
		{ID: "rec_cpn2", LinkedTicketID: "rec_tkt1"},
	}

	result, err := resolver.CascadeDeleteTicket(context.Background(), tickets, coupons, "rec_tkt1", true)

	require.NoError(t, err)
	assert.Empty(t, result.Tickets)
	assert.Empty(t, result.Coupons)
	deleter.AssertExpectations(t)
}

func TestCascadeDeleteTicketFailureReturnsError(t *testing.T) {
	deleter := new(MockDeleter)
	resolver := linker.New(deleter, nil)

	deleter.On("DeleteEntity", mock.Anything, gateway.TableTickets, "rec_tkt1").Return(errors.New("store down"))

	_, err := resolver.CascadeDeleteTicket(context.Background(), []models.Ticket{{ID: "rec_tkt1"}}, nil, "rec_tkt1", true)
	assert.Error(t, err)
}

func TestCascadeDeleteSkipsRemoteCallsForTempIDs(t *testing.T) {
	deleter := new(MockDeleter)
	resolver := linker.New(deleter, nil)

	tempTicket := models.NewTempID()
	tempCoupon := models.NewTempID()

	tickets := []models.Ticket{{ID: tempTicket}}
	coupons := []models.Coupon{{ID: tempCoupon, LinkedTicketID: tempTicket}}

	result, err := resolver.CascadeDeleteTicket(context.Background(), tickets, coupons, tempTicket, true)

	require.NoError(t, err)
	assert.Empty(t, result.Tickets)
	assert.Empty(t, result.Coupons)

	// Records that never reached the store need no remote delete.
	deleter.AssertNotCalled(t, "DeleteEntity", mock.Anything, mock.Anything, mock.Anything)
}
