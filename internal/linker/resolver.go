package linker

import (
	"context"
	"fmt"

	"ms-event-dashboard/internal/gateway"
	"ms-event-dashboard/internal/logger"
	"ms-event-dashboard/internal/models"
)

// Fetcher resolves id sets into full records, one batched call per
// entity type.
type Fetcher interface {
	TicketsByID(ctx context.Context, ids []string) ([]models.Ticket, error)
	CouponsByID(ctx context.Context, ids []string) ([]models.Coupon, error)
}

// Deleter removes a single record from a table.
type Deleter interface {
	DeleteEntity(ctx context.Context, table, id string) error
}

// Resolver converts between id-reference and resolved-object
// representations of an event's links and keeps them referentially
// consistent during ticket deletion.
type Resolver struct {
	Store  Deleter
	Logger *logger.Logger
}

func New(store Deleter, log *logger.Logger) *Resolver {
	return &Resolver{Store: store, Logger: log}
}

// ResolveLinks maps the event's facilitator and calendar id lists onto
// catalog entries. Ids with no matching catalog entry are dropped; the
// display list may be shorter than the stored id list.
func ResolveLinks(ev *models.Event, facilitators []models.Facilitator, calendars []models.Calendar) ([]models.Facilitator, []models.Calendar) {
	facByID := make(map[string]models.Facilitator, len(facilitators))
	for _, f := range facilitators {
		facByID[f.ID] = f
	}
	calByID := make(map[string]models.Calendar, len(calendars))
	for _, c := range calendars {
		calByID[c.ID] = c
	}

	resolvedFacs := make([]models.Facilitator, 0, len(ev.FacilitatorIDs))
	for _, id := range ev.FacilitatorIDs {
		if f, ok := facByID[id]; ok {
			resolvedFacs = append(resolvedFacs, f)
		}
	}
	resolvedCals := make([]models.Calendar, 0, len(ev.CalendarIDs))
	for _, id := range ev.CalendarIDs {
		if c, ok := calByID[id]; ok {
			resolvedCals = append(resolvedCals, c)
		}
	}
	return resolvedFacs, resolvedCals
}

// ResolveTicketsAndCoupons fetches the full ticket and coupon records
// behind the event's id lists. Each entity type costs at most one round
// trip; an empty id list costs none.
func ResolveTicketsAndCoupons(ctx context.Context, fetcher Fetcher, ev *models.Event) ([]models.Ticket, []models.Coupon, error) {
	var tickets []models.Ticket
	var coupons []models.Coupon

	if len(ev.TicketIDs) > 0 {
		fetched, err := fetcher.TicketsByID(ctx, ev.TicketIDs)
		if err != nil {
			return nil, nil, fmt.Errorf("resolve tickets: %w", err)
		}
		tickets = fetched
	}
	if len(ev.CouponIDs) > 0 {
		fetched, err := fetcher.CouponsByID(ctx, ev.CouponIDs)
		if err != nil {
			return nil, nil, fmt.Errorf("resolve coupons: %w", err)
		}
		coupons = fetched
	}
	return tickets, coupons, nil
}

// CascadeResult reports the outcome of a ticket deletion attempt.
type CascadeResult struct {
	// RequiresConfirmation is set when dependent coupons exist and the
	// caller has not confirmed yet; AffectedCoupons carries the count
	// to surface in the confirmation prompt.
	RequiresConfirmation bool            `json:"requires_confirmation"`
	AffectedCoupons      int             `json:"affected_coupons"`
	Tickets              []models.Ticket `json:"tickets"`
	Coupons              []models.Coupon `json:"coupons"`
}

// CascadeDeleteTicket removes a ticket and every coupon referencing it.
// Dependent coupons are deleted first, best-effort: an individual
// failure is logged and the remaining deletes still run. The parent
// ticket is only deleted after all dependents were attempted. Both
// lists come back pruned.
func (r *Resolver) CascadeDeleteTicket(ctx context.Context, tickets []models.Ticket, coupons []models.Coupon, ticketID string, confirmed bool) (CascadeResult, error) {
	var dependents []models.Coupon
	remaining := make([]models.Coupon, 0, len(coupons))
	for _, c := range coupons {
		if c.LinkedTicketID == ticketID {
			dependents = append(dependents, c)
		} else {
			remaining = append(remaining, c)
		}
	}

	if len(dependents) > 0 && !confirmed {
		return CascadeResult{
			RequiresConfirmation: true,
			AffectedCoupons:      len(dependents),
			Tickets:              tickets,
			Coupons:              coupons,
		}, nil
	}

	for _, c := range dependents {
		if !models.HasExternalID(c.ID) {
			continue
		}
		if err := r.Store.DeleteEntity(ctx, gateway.TableCoupons, c.ID); err != nil {
			// No transaction exists; completed deletes stay done.
			if r.Logger != nil {
				r.Logger.Error("CASCADE", fmt.Sprintf("failed to delete coupon %s: %v", c.ID, err))
			}
		}
	}

	prunedTickets := make([]models.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if t.ID != ticketID {
			prunedTickets = append(prunedTickets, t)
		}
	}

	if models.HasExternalID(ticketID) {
		if err := r.Store.DeleteEntity(ctx, gateway.TableTickets, ticketID); err != nil {
			return CascadeResult{}, fmt.Errorf("delete ticket %s: %w", ticketID, err)
		}
	}

	return CascadeResult{
		AffectedCoupons: len(dependents),
		Tickets:         prunedTickets,
		Coupons:         remaining,
	}, nil
}
