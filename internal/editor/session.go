package editor

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"

	"ms-event-dashboard/internal/linker"
	"ms-event-dashboard/internal/logger"
	"ms-event-dashboard/internal/models"
	"ms-event-dashboard/internal/utils"
)

// Store is the record-gateway surface the editor persists through.
type Store interface {
	FetchEvent(ctx context.Context, id string) (models.Event, error)
	TicketsByID(ctx context.Context, ids []string) ([]models.Ticket, error)
	CouponsByID(ctx context.Context, ids []string) ([]models.Coupon, error)
	UpsertEvent(ctx context.Context, ev models.Event) (models.Event, error)
	UpsertTickets(ctx context.Context, eventID string, tickets []models.Ticket) ([]models.Ticket, map[string]string, error)
	UpsertCoupons(ctx context.Context, eventID string, coupons []models.Coupon) ([]models.Coupon, error)
	DeleteEntity(ctx context.Context, table, id string) error
}

// Catalogs supplies the facilitator and calendar catalogs, loaded once
// per session.
type Catalogs interface {
	Facilitators(ctx context.Context) ([]models.Facilitator, error)
	Calendars(ctx context.Context) ([]models.Calendar, error)
}

// Publisher receives best-effort notifications after successful saves.
type Publisher interface {
	PublishEventSaved(ev models.Event) error
}

// Session lifecycle states.
type State string

const (
	StateLoading State = "loading"
	StateClean   State = "clean"
	StateDirty   State = "dirty"
	StateSaving  State = "saving"
	StateClosed  State = "closed"
)

// Editor tabs.
type Tab string

const (
	TabDetails      Tab = "details"
	TabPricing      Tab = "pricing"
	TabMoreSettings Tab = "more_settings"
)

// Pending-navigation kinds.
type NavKind string

const (
	NavTab    NavKind = "tab"
	NavClose  NavKind = "close"
	NavSwitch NavKind = "switch"
)

// Decisions for a raised unsaved-changes confirmation.
type Decision string

const (
	DecisionSave    Decision = "save"
	DecisionDiscard Decision = "discard"
	DecisionCancel  Decision = "cancel"
)

var (
	ErrSessionClosed = errors.New("editor session is closed")
	ErrNoPending     = errors.New("no pending navigation to resolve")
	ErrSaveInFlight  = errors.New("a save is already in flight")
)

// Aggregate is one event plus its owned tickets and coupons — the unit
// the editor drafts, snapshots and saves.
type Aggregate struct {
	Event   models.Event    `json:"event"`
	Tickets []models.Ticket `json:"tickets"`
	Coupons []models.Coupon `json:"coupons"`
}

type pendingNav struct {
	Kind        NavKind
	TargetTab   Tab
	TargetEvent string
}

// Session owns one event-editing lifecycle: the live draft, the
// last-synced snapshot, the dirty state derived from comparing them,
// and the unsaved-changes confirmation policy.
type Session struct {
	ID       string
	VendorID string

	mu       sync.Mutex
	state    State
	tab      Tab
	draft    Aggregate
	snapshot Aggregate
	pending  *pendingNav

	facCatalog []models.Facilitator
	calCatalog []models.Calendar

	store       Store
	catalogs    Catalogs
	resolver    *linker.Resolver
	publisher   Publisher
	logger      *logger.Logger
	saveTimeout time.Duration
	autosaver   *Autosaver
}

// SessionView is the read-only snapshot handed to the API layer.
type SessionView struct {
	ID                  string               `json:"session_id"`
	EventID             string               `json:"event_id,omitempty"`
	State               State                `json:"state"`
	Tab                 Tab                  `json:"tab"`
	Dirty               bool                 `json:"dirty"`
	Draft               Aggregate            `json:"draft"`
	Facilitators        []models.Facilitator `json:"facilitators"`
	Calendars           []models.Calendar    `json:"calendars"`
	PendingConfirmation bool                 `json:"pending_confirmation"`
	PendingKind         NavKind              `json:"pending_kind,omitempty"`
}

// Load fetches the event, resolves its links, and primes draft and
// snapshot with the same aggregate. The catalogs are fetched here and
// reused for the rest of the session.
func (s *Session) Load(ctx context.Context, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx, eventID)
}

func (s *Session) loadLocked(ctx context.Context, eventID string) error {
	if s.state == StateClosed {
		return ErrSessionClosed
	}
	s.state = StateLoading

	ev, err := s.store.FetchEvent(ctx, eventID)
	if err != nil {
		s.state = StateClosed
		return err
	}

	if s.facCatalog == nil {
		if s.facCatalog, err = s.catalogs.Facilitators(ctx); err != nil {
			s.state = StateClosed
			return fmt.Errorf("load facilitator catalog: %w", err)
		}
	}
	if s.calCatalog == nil {
		if s.calCatalog, err = s.catalogs.Calendars(ctx); err != nil {
			s.state = StateClosed
			return fmt.Errorf("load calendar catalog: %w", err)
		}
	}

	tickets, coupons, err := linker.ResolveTicketsAndCoupons(ctx, s.store, &ev)
	if err != nil {
		s.state = StateClosed
		return err
	}

	agg := Aggregate{Event: ev, Tickets: tickets, Coupons: coupons}
	normalizeAggregate(&agg)
	s.draft = cloneAggregate(agg)
	s.snapshot = cloneAggregate(agg)
	s.pending = nil
	s.tab = TabDetails
	s.state = StateClean

	if s.logger != nil {
		s.logger.LogSession("LOAD", s.ID, fmt.Sprintf("event %s loaded (%d tickets, %d coupons)", eventID, len(tickets), len(coupons)))
	}
	return nil
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// View returns the session as the API presents it, with facilitator and
// calendar ids resolved against the session catalogs.
func (s *Session) View() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	facs, cals := linker.ResolveLinks(&s.draft.Event, s.facCatalog, s.calCatalog)
	view := SessionView{
		ID:           s.ID,
		EventID:      s.draft.Event.ID,
		State:        s.state,
		Tab:          s.tab,
		Dirty:        s.state == StateDirty,
		Draft:        cloneAggregate(s.draft),
		Facilitators: facs,
		Calendars:    cals,
	}
	if s.pending != nil {
		view.PendingConfirmation = true
		view.PendingKind = s.pending.Kind
	}
	return view
}

// SetField mutates one draft field and recomputes dirtiness.
func (s *Session) SetField(name string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateClosed {
		return ErrSessionClosed
	}
	if s.state == StateSaving {
		return ErrSaveInFlight
	}
	setter, ok := eventSetters[name]
	if !ok {
		return fmt.Errorf("unknown event field %q", name)
	}
	if err := setter(&s.draft.Event, value); err != nil {
		return fmt.Errorf("set field %q: %w", name, err)
	}
	s.recomputeDirtyLocked()
	return nil
}

// SetTickets replaces the draft ticket list. Tickets without any id get
// a temp id so coupons can reference them before the first save.
func (s *Session) SetTickets(tickets []models.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateClosed {
		return ErrSessionClosed
	}
	if s.state == StateSaving {
		return ErrSaveInFlight
	}
	for i := range tickets {
		if tickets[i].ID == "" {
			tickets[i].ID = models.NewTempID()
		}
	}
	s.draft.Tickets = tickets
	normalizeAggregate(&s.draft)
	s.recomputeDirtyLocked()
	return nil
}

// SetCoupons replaces the draft coupon list. Coupons get a temp id and,
// when the code is blank, an auto-generated one.
func (s *Session) SetCoupons(coupons []models.Coupon) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateClosed {
		return ErrSessionClosed
	}
	if s.state == StateSaving {
		return ErrSaveInFlight
	}
	for i := range coupons {
		if coupons[i].ID == "" {
			coupons[i].ID = models.NewTempID()
		}
		if coupons[i].Code == "" {
			coupons[i].Code = utils.GenerateCouponCode()
		}
	}
	s.draft.Coupons = coupons
	normalizeAggregate(&s.draft)
	s.recomputeDirtyLocked()
	return nil
}

func (s *Session) recomputeDirtyLocked() {
	if s.state == StateSaving || s.state == StateClosed || s.state == StateLoading {
		return
	}
	if aggregatesEqual(s.draft, s.snapshot) {
		s.state = StateClean
	} else {
		s.state = StateDirty
		if s.autosaver != nil {
			s.autosaver.Touch()
		}
	}
}

// RequestTabSwitch switches immediately when clean; when dirty it
// defers the switch and reports that confirmation is required.
func (s *Session) RequestTabSwitch(tab Tab) (confirmRequired bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateClosed {
		return false, ErrSessionClosed
	}
	if s.state != StateDirty {
		s.tab = tab
		return false, nil
	}
	s.pending = &pendingNav{Kind: NavTab, TargetTab: tab}
	return true, nil
}

// RequestClose follows the same deferred-confirmation pattern as tab
// switches.
func (s *Session) RequestClose() (confirmRequired bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateClosed {
		return false, nil
	}
	if s.state != StateDirty {
		s.closeLocked()
		return false, nil
	}
	s.pending = &pendingNav{Kind: NavClose}
	return true, nil
}

// RequestSwitchEvent defers to confirmation when dirty, otherwise loads
// the other event into this session.
func (s *Session) RequestSwitchEvent(ctx context.Context, otherEventID string) (confirmRequired bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateClosed {
		return false, ErrSessionClosed
	}
	if s.state != StateDirty {
		return false, s.loadLocked(ctx, otherEventID)
	}
	s.pending = &pendingNav{Kind: NavSwitch, TargetEvent: otherEventID}
	return true, nil
}

// Resolve completes a raised confirmation: Save persists then proceeds,
// Discard drops the draft then proceeds, Cancel aborts the navigation
// and keeps the current draft.
func (s *Session) Resolve(ctx context.Context, decision Decision) error {
	s.mu.Lock()

	if s.state == StateClosed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if s.pending == nil {
		s.mu.Unlock()
		return ErrNoPending
	}
	nav := *s.pending
	s.pending = nil

	switch decision {
	case DecisionCancel:
		s.mu.Unlock()
		return nil
	case DecisionDiscard:
		s.draft = cloneAggregate(s.snapshot)
		s.state = StateClean
	case DecisionSave:
		s.mu.Unlock()
		if err := s.Save(ctx); err != nil {
			return err
		}
		s.mu.Lock()
	default:
		s.mu.Unlock()
		return fmt.Errorf("unknown decision %q", decision)
	}
	defer s.mu.Unlock()

	switch nav.Kind {
	case NavTab:
		s.tab = nav.TargetTab
	case NavClose:
		s.closeLocked()
	case NavSwitch:
		return s.loadLocked(ctx, nav.TargetEvent)
	}
	return nil
}

// Save validates and persists the draft: tickets first, then coupons
// (so coupon links can point at freshly assigned ticket ids), then the
// event record embedding the final id lists. The session lock is not
// held across the store calls, so reads stay responsive during a save;
// mutations arriving while one is in flight get ErrSaveInFlight.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if s.state == StateSaving {
		s.mu.Unlock()
		return ErrSaveInFlight
	}
	if verr := ValidateDraft(&s.draft); verr != nil {
		s.mu.Unlock()
		return verr
	}
	s.state = StateSaving
	work := cloneAggregate(s.draft)
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.saveTimeout)
	defer cancel()

	err := s.persist(ctx, &work)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateClosed {
		return ErrSessionClosed
	}
	if err != nil {
		// Fail closed: a hung or failed store call returns the session
		// to Dirty so no work is lost.
		s.state = StateDirty
		if s.logger != nil {
			s.logger.Error("EDITOR", fmt.Sprintf("save failed for session %s: %v", s.ID, err))
		}
		return err
	}

	s.draft = work
	s.snapshot = cloneAggregate(work)
	s.state = StateClean

	if s.publisher != nil {
		if err := s.publisher.PublishEventSaved(s.draft.Event); err != nil && s.logger != nil {
			s.logger.Warn("KAFKA", fmt.Sprintf("event saved notification failed: %v", err))
		}
	}
	if s.logger != nil {
		s.logger.LogSession("SAVE", s.ID, fmt.Sprintf("event %s saved", s.draft.Event.ID))
	}
	return nil
}

func (s *Session) persist(ctx context.Context, work *Aggregate) error {
	if work.Event.Slug == "" {
		work.Event.Slug = GenerateSlug(work.Event.Title)
	}

	// An event drafted offline has no record yet; create the shell
	// first so tickets and coupons can back-reference it.
	if !models.HasExternalID(work.Event.ID) {
		shell := work.Event
		shell.ID = ""
		shell.TicketIDs = nil
		shell.CouponIDs = nil
		created, err := s.store.UpsertEvent(ctx, shell)
		if err != nil {
			return err
		}
		work.Event.ID = created.ID
	}
	eventID := work.Event.ID

	tickets, assigned, err := s.store.UpsertTickets(ctx, eventID, work.Tickets)
	if err != nil {
		return err
	}
	work.Tickets = tickets

	// Relink coupons that referenced not-yet-created tickets.
	for i := range work.Coupons {
		if newID, ok := assigned[work.Coupons[i].LinkedTicketID]; ok {
			work.Coupons[i].LinkedTicketID = newID
		}
	}

	coupons, err := s.store.UpsertCoupons(ctx, eventID, work.Coupons)
	if err != nil {
		return err
	}
	work.Coupons = coupons

	// The event record goes last: only now are all id lists known.
	ev := work.Event
	ev.TicketIDs = collectIDs(len(tickets), func(i int) string { return tickets[i].ID })
	ev.CouponIDs = collectIDs(len(coupons), func(i int) string { return coupons[i].ID })

	saved, err := s.store.UpsertEvent(ctx, ev)
	if err != nil {
		return err
	}
	work.Event = saved
	normalizeAggregate(work)
	return nil
}

// DeleteTicket removes a ticket from the draft, cascading over
// dependent coupons. When dependents exist and confirmed is false, no
// deletion happens and the result carries the count for the prompt.
func (s *Session) DeleteTicket(ctx context.Context, ticketID string, confirmed bool) (linker.CascadeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateClosed {
		return linker.CascadeResult{}, ErrSessionClosed
	}
	if s.state == StateSaving {
		return linker.CascadeResult{}, ErrSaveInFlight
	}

	result, err := s.resolver.CascadeDeleteTicket(ctx, s.draft.Tickets, s.draft.Coupons, ticketID, confirmed)
	if err != nil {
		return linker.CascadeResult{}, err
	}
	if result.RequiresConfirmation {
		return result, nil
	}

	s.draft.Tickets = result.Tickets
	s.draft.Coupons = result.Coupons
	normalizeAggregate(&s.draft)
	s.recomputeDirtyLocked()
	return result, nil
}

func (s *Session) closeLocked() {
	s.state = StateClosed
	s.draft = Aggregate{}
	s.pending = nil
	if s.autosaver != nil {
		s.autosaver.Stop()
	}
	if s.logger != nil {
		s.logger.LogSession("CLOSE", s.ID, "session closed")
	}
}

// Dirty comparison helpers. Equality is structural over the typed
// aggregate, never serialize-and-compare.

func aggregatesEqual(a, b Aggregate) bool {
	normalizeAggregate(&a)
	normalizeAggregate(&b)
	return reflect.DeepEqual(a, b)
}

func normalizeAggregate(agg *Aggregate) {
	if agg.Tickets == nil {
		agg.Tickets = []models.Ticket{}
	}
	if agg.Coupons == nil {
		agg.Coupons = []models.Coupon{}
	}
	ev := &agg.Event
	for _, ids := range []*[]string{&ev.FacilitatorIDs, &ev.CalendarIDs, &ev.TicketIDs, &ev.CouponIDs} {
		if *ids == nil {
			*ids = []string{}
		}
	}
}

func cloneAggregate(agg Aggregate) Aggregate {
	out := Aggregate{Event: agg.Event}
	out.Event.FacilitatorIDs = append([]string{}, agg.Event.FacilitatorIDs...)
	out.Event.CalendarIDs = append([]string{}, agg.Event.CalendarIDs...)
	out.Event.TicketIDs = append([]string{}, agg.Event.TicketIDs...)
	out.Event.CouponIDs = append([]string{}, agg.Event.CouponIDs...)
	out.Tickets = append([]models.Ticket{}, agg.Tickets...)
	out.Coupons = append([]models.Coupon{}, agg.Coupons...)
	return out
}

func collectIDs(n int, get func(i int) string) []string {
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		if id := get(i); models.HasExternalID(id) {
			ids = append(ids, id)
		}
	}
	return ids
}
