package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"aircon_booking_backend/internal/bookings/repository"
	"aircon_booking_backend/internal/bookings/transport"
	"aircon_booking_backend/internal/events"
	"aircon_booking_backend/platform/apperr"
	"aircon_booking_backend/platform/logger"
)

// fakeStore is an in-memory Store that mirrors the repository's
// concurrency guarantees: capacity is checked under the same lock as the
// insert, and transitions only apply when the status still matches.
type fakeStore struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*repository.Booking
	guests   map[uuid.UUID]*repository.Guest
	maxDaily map[uuid.UUID]int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		bookings: make(map[uuid.UUID]*repository.Booking),
		guests:   make(map[uuid.UUID]*repository.Guest),
		maxDaily: make(map[uuid.UUID]int),
	}
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func (s *fakeStore) Create(_ context.Context, b *repository.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.bookings {
		if existing.BookingNumber == b.BookingNumber {
			return apperr.Conflict("booking number already issued")
		}
	}
	if b.TechnicianID != nil {
		max, ok := s.maxDaily[*b.TechnicianID]
		if ok {
			active := 0
			for _, existing := range s.bookings {
				if existing.TechnicianID != nil && *existing.TechnicianID == *b.TechnicianID &&
					sameDay(existing.ScheduledDate, b.ScheduledDate) && existing.Status != string(StatusCancelled) {
					active++
				}
			}
			if active >= max {
				return apperr.Conflict("technician is fully booked on this date")
			}
		}
	}
	cp := *b
	s.bookings[b.ID] = &cp
	return nil
}

func (s *fakeStore) GetByID(_ context.Context, id uuid.UUID) (*repository.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, apperr.NotFound("booking not found")
	}
	cp := *b
	return &cp, nil
}

func (s *fakeStore) GetByNumber(_ context.Context, number string) (*repository.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bookings {
		if b.BookingNumber == number {
			cp := *b
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("booking not found")
}

func (s *fakeStore) List(_ context.Context, params repository.ListParams) ([]repository.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []repository.Booking
	for _, b := range s.bookings {
		if params.Status != "" && b.Status != params.Status {
			continue
		}
		out = append(out, *b)
	}
	return out, nil
}

func (s *fakeStore) ApplyTransition(_ context.Context, id uuid.UUID, expected, newStatus string, upd repository.TransitionUpdate) (*repository.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, apperr.NotFound("booking not found")
	}
	if b.Status != expected {
		return nil, apperr.Conflict("booking status changed concurrently")
	}
	b.Status = newStatus
	if upd.PaymentStatus != nil {
		b.PaymentStatus = *upd.PaymentStatus
	}
	if upd.ConfirmedAt != nil {
		b.ConfirmedAt = upd.ConfirmedAt
		b.ConfirmedBy = upd.ConfirmedBy
	}
	if upd.CompletedAt != nil {
		b.CompletedAt = upd.CompletedAt
	}
	if upd.CancelRequestedAt != nil {
		b.CancelRequestedAt = upd.CancelRequestedAt
		b.CancelReason = upd.CancelReason
		b.CancelDetails = upd.CancelDetails
	}
	if upd.CancelProcessedAt != nil {
		b.CancelProcessedAt = upd.CancelProcessedAt
		b.CancelProcessedBy = upd.CancelProcessedBy
	}
	if upd.ClearCancellation {
		b.CancelRequestedAt = nil
		b.CancelReason = nil
		b.CancelDetails = nil
		b.CancelProcessedAt = nil
		b.CancelProcessedBy = nil
	}
	cp := *b
	return &cp, nil
}

func (s *fakeStore) UpdateEstimate(_ context.Context, id uuid.UUID, serviceID, airconTypeID uuid.UUID, units int, totalCents int64, minutes, days int) (*repository.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, apperr.NotFound("booking not found")
	}
	b.ServiceID = serviceID
	b.AirconTypeID = airconTypeID
	b.NumberOfUnits = units
	b.TotalCents = totalCents
	b.EstimatedMinutes = minutes
	b.EstimatedDays = days
	cp := *b
	return &cp, nil
}

func (s *fakeStore) CreateGuest(_ context.Context, g *repository.Guest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *g
	s.guests[g.ID] = &cp
	return nil
}

func (s *fakeStore) GetGuest(_ context.Context, id uuid.UUID) (*repository.Guest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.guests[id]
	if !ok {
		return nil, apperr.NotFound("guest not found")
	}
	cp := *g
	return &cp, nil
}

type fakeCatalog struct {
	services  map[uuid.UUID]*CatalogService
	types     map[uuid.UUID]*CatalogAirconType
	overrides map[[2]uuid.UUID]int64
	slots     map[uuid.UUID]*CatalogTimeslot
}

func (c *fakeCatalog) GetService(_ context.Context, id uuid.UUID) (*CatalogService, error) {
	svc, ok := c.services[id]
	if !ok {
		return nil, apperr.NotFound("service not found")
	}
	return svc, nil
}

func (c *fakeCatalog) GetAirconType(_ context.Context, id uuid.UUID) (*CatalogAirconType, error) {
	at, ok := c.types[id]
	if !ok {
		return nil, apperr.NotFound("aircon type not found")
	}
	return at, nil
}

func (c *fakeCatalog) ActivePriceCents(_ context.Context, serviceID, airconTypeID uuid.UUID) (*int64, error) {
	if cents, ok := c.overrides[[2]uuid.UUID{serviceID, airconTypeID}]; ok {
		return &cents, nil
	}
	return nil, nil
}

func (c *fakeCatalog) GetTimeslot(_ context.Context, id uuid.UUID) (*CatalogTimeslot, error) {
	slot, ok := c.slots[id]
	if !ok {
		return nil, apperr.NotFound("timeslot not found")
	}
	return slot, nil
}

type fakeTechs struct {
	known map[uuid.UUID]bool
}

func (t *fakeTechs) TechnicianExists(_ context.Context, id uuid.UUID) (bool, error) {
	return t.known[id], nil
}

type fakeBus struct {
	mu        sync.Mutex
	published []events.Event
}

func (b *fakeBus) Publish(_ context.Context, e events.Event) {
	b.mu.Lock()
	b.published = append(b.published, e)
	b.mu.Unlock()
}

func (b *fakeBus) PublishSync(ctx context.Context, e events.Event) error {
	b.Publish(ctx, e)
	return nil
}

func (b *fakeBus) Subscribe(string, events.Handler) {}

func (b *fakeBus) names() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.published))
	for _, e := range b.published {
		out = append(out, e.EventName())
	}
	return out
}

type testPolicy struct {
	notice time.Duration
}

func (p testPolicy) GetBookingNumberPrefix() string       { return "KMT" }
func (p testPolicy) GetCancellationNotice() time.Duration { return p.notice }

type fakeReminders struct {
	mu        sync.Mutex
	scheduled []time.Time
}

func (r *fakeReminders) ScheduleBookingReminder(_ context.Context, _ uuid.UUID, startAt time.Time) error {
	r.mu.Lock()
	r.scheduled = append(r.scheduled, startAt)
	r.mu.Unlock()
	return nil
}

type fixture struct {
	svc     *Service
	store   *fakeStore
	bus     *fakeBus
	techs   *fakeTechs
	service uuid.UUID
	aircon  uuid.UUID
	slot    uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	serviceID := uuid.New()
	airconID := uuid.New()
	slotID := uuid.New()

	catalog := &fakeCatalog{
		services: map[uuid.UUID]*CatalogService{
			serviceID: {ID: serviceID, Name: "General Cleaning", Category: "cleaning", BasePriceCents: 80000, DurationMinutes: 90},
		},
		types: map[uuid.UUID]*CatalogAirconType{
			airconID: {ID: airconID, Name: "Wall Mounted"},
		},
		overrides: map[[2]uuid.UUID]int64{},
		slots: map[uuid.UUID]*CatalogTimeslot{
			slotID: {ID: slotID, Label: "09:00 - 12:00", StartMinutes: 540, EndMinutes: 720},
		},
	}

	store := newFakeStore()
	bus := &fakeBus{}
	techs := &fakeTechs{known: map[uuid.UUID]bool{}}
	svc := New(store, catalog, techs, &MemorySequencer{}, bus, testPolicy{notice: 48 * time.Hour}, logger.New("test"))

	// Bookings in these tests are scheduled for 2026-03-20; pin the
	// clock well outside the cancellation notice window.
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) }

	return &fixture{svc: svc, store: store, bus: bus, techs: techs, service: serviceID, aircon: airconID, slot: slotID}
}

func (f *fixture) createInput(t *testing.T, units int) CreateInput {
	t.Helper()
	ref, err := LegacyNameCustomer("Walk-in Customer")
	if err != nil {
		t.Fatalf("customer ref: %v", err)
	}
	return CreateInput{
		Customer:     ref,
		ServiceID:    f.service,
		AirconTypeID: f.aircon,
		Units:        units,
		Date:         time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC),
		TimeslotID:   f.slot,
		Address:      "Blk 123 Ang Mo Kio Ave 4",
	}
}

func TestCreateBooking(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Create(context.Background(), f.createInput(t, 3))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if resp.BookingNumber != "KMT-000001" {
		t.Errorf("booking number = %q, want KMT-000001", resp.BookingNumber)
	}
	if resp.Status != string(StatusPending) {
		t.Errorf("status = %q, want pending", resp.Status)
	}
	if resp.PaymentStatus != string(PaymentPending) {
		t.Errorf("payment status = %q, want pending", resp.PaymentStatus)
	}
	if resp.TotalCents != 216000 {
		t.Errorf("total = %d, want 216000", resp.TotalCents)
	}
	if resp.EstimatedDurationMinutes != 234 {
		t.Errorf("estimated minutes = %d, want 234", resp.EstimatedDurationMinutes)
	}
	if resp.EstimatedDays != 1 {
		t.Errorf("estimated days = %d, want 1", resp.EstimatedDays)
	}
	if resp.Customer.Kind != string(CustomerLegacyName) {
		t.Errorf("customer kind = %q, want legacy_name", resp.Customer.Kind)
	}

	got := f.bus.names()
	if len(got) != 1 || got[0] != "bookings.created" {
		t.Errorf("published events = %v, want [bookings.created]", got)
	}
}

func TestCreateUsesPricingOverride(t *testing.T) {
	f := newFixture(t)
	catalog := f.svc.catalog.(*fakeCatalog)
	catalog.overrides[[2]uuid.UUID{f.service, f.aircon}] = 60000

	resp, err := f.svc.Create(context.Background(), f.createInput(t, 2))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if resp.TotalCents != 108000 {
		t.Errorf("total = %d, want 108000 (override 600.00 x2 at 90%%)", resp.TotalCents)
	}
}

func TestCreateUnknownReferences(t *testing.T) {
	f := newFixture(t)

	in := f.createInput(t, 1)
	in.ServiceID = uuid.New()
	if _, err := f.svc.Create(context.Background(), in); apperr.GetKind(err) != apperr.KindNotFound {
		t.Errorf("unknown service: got %v, want not found", err)
	}

	in = f.createInput(t, 1)
	in.TimeslotID = uuid.New()
	if _, err := f.svc.Create(context.Background(), in); apperr.GetKind(err) != apperr.KindNotFound {
		t.Errorf("unknown timeslot: got %v, want not found", err)
	}

	in = f.createInput(t, 1)
	unknown := uuid.New()
	in.TechnicianID = &unknown
	if _, err := f.svc.Create(context.Background(), in); apperr.GetKind(err) != apperr.KindNotFound {
		t.Errorf("unknown technician: got %v, want not found", err)
	}
}

func TestCreateConcurrentNumbersUnique(t *testing.T) {
	f := newFixture(t)
	const n = 30

	numbers := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := f.svc.Create(context.Background(), f.createInput(t, 1))
			if err != nil {
				t.Errorf("Create: %v", err)
				return
			}
			numbers <- resp.BookingNumber
		}()
	}
	wg.Wait()
	close(numbers)

	seen := make(map[string]bool)
	for num := range numbers {
		if seen[num] {
			t.Fatalf("duplicate booking number %s", num)
		}
		seen[num] = true
	}
	if len(seen) != n {
		t.Fatalf("got %d numbers, want %d", len(seen), n)
	}
}

func TestCreateRespectsDailyCapacity(t *testing.T) {
	f := newFixture(t)
	techID := uuid.New()
	f.techs.known[techID] = true
	f.store.maxDaily[techID] = 2

	const attempts = 8
	results := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			in := f.createInput(t, 1)
			in.TechnicianID = &techID
			_, err := f.svc.Create(context.Background(), in)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	created, conflicts := 0, 0
	for err := range results {
		switch {
		case err == nil:
			created++
		case apperr.GetKind(err) == apperr.KindConflict:
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if created != 2 {
		t.Errorf("created = %d, want 2", created)
	}
	if conflicts != attempts-2 {
		t.Errorf("conflicts = %d, want %d", conflicts, attempts-2)
	}
}

func TestTransitionConfirm(t *testing.T) {
	f := newFixture(t)
	reminders := &fakeReminders{}
	f.svc.SetReminderScheduler(reminders)

	resp, err := f.svc.Create(context.Background(), f.createInput(t, 1))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	id := uuid.MustParse(resp.ID)

	admin := uuid.New()
	updated, err := f.svc.Transition(context.Background(), id, TransitionInput{Action: ActionConfirm, ActorID: &admin})
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if updated.Status != string(StatusConfirmed) {
		t.Errorf("status = %q, want confirmed", updated.Status)
	}
	if updated.ConfirmedAt == nil {
		t.Error("confirmed_at not set")
	}

	reminders.mu.Lock()
	defer reminders.mu.Unlock()
	if len(reminders.scheduled) != 1 {
		t.Fatalf("scheduled reminders = %d, want 1", len(reminders.scheduled))
	}
	want := time.Date(2026, 3, 20, 9, 0, 0, 0, time.UTC)
	if !reminders.scheduled[0].Equal(want) {
		t.Errorf("reminder start = %v, want %v", reminders.scheduled[0], want)
	}
}

func TestTransitionDisallowedLeavesBookingUnchanged(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Create(context.Background(), f.createInput(t, 1))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	id := uuid.MustParse(resp.ID)
	before, _ := f.store.GetByID(context.Background(), id)

	_, err = f.svc.Transition(context.Background(), id, TransitionInput{Action: ActionComplete})
	if apperr.GetKind(err) != apperr.KindState {
		t.Fatalf("got %v, want state error", err)
	}

	after, _ := f.store.GetByID(context.Background(), id)
	if *before != *after {
		t.Errorf("booking changed by rejected transition:\nbefore %+v\nafter  %+v", before, after)
	}
}

func TestAcceptCancellationMarksUnpaid(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Create(context.Background(), f.createInput(t, 1))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	id := uuid.MustParse(resp.ID)

	if _, err := f.svc.Transition(context.Background(), id, TransitionInput{
		Action: ActionRequestCancel, ReasonCategory: "schedule_conflict", ReasonDetails: "overseas that week",
	}); err != nil {
		t.Fatalf("request cancellation: %v", err)
	}

	updated, err := f.svc.Transition(context.Background(), id, TransitionInput{Action: ActionAcceptCancellation})
	if err != nil {
		t.Fatalf("accept cancellation: %v", err)
	}
	if updated.Status != string(StatusCancelled) {
		t.Errorf("status = %q, want cancelled", updated.Status)
	}
	if updated.PaymentStatus != string(PaymentUnpaid) {
		t.Errorf("payment status = %q, want unpaid", updated.PaymentStatus)
	}
	if updated.Cancellation == nil || updated.Cancellation.ProcessedAt == nil {
		t.Error("cancellation processing metadata not recorded")
	}
}

func TestRejectCancellationRestoresBooking(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Create(context.Background(), f.createInput(t, 1))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	id := uuid.MustParse(resp.ID)

	if _, err := f.svc.Transition(context.Background(), id, TransitionInput{
		Action: ActionRequestCancel, ReasonCategory: "other",
	}); err != nil {
		t.Fatalf("request cancellation: %v", err)
	}

	updated, err := f.svc.Transition(context.Background(), id, TransitionInput{Action: ActionRejectCancellation})
	if err != nil {
		t.Fatalf("reject cancellation: %v", err)
	}
	if updated.Status != string(StatusPending) {
		t.Errorf("status = %q, want pending", updated.Status)
	}
	if updated.PaymentStatus != string(PaymentPending) {
		t.Errorf("payment status = %q, want pending (untouched)", updated.PaymentStatus)
	}
	if updated.Cancellation != nil {
		t.Errorf("cancellation metadata not cleared: %+v", updated.Cancellation)
	}
}

func TestRequestCancellationInsideNotice(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Create(context.Background(), f.createInput(t, 1))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	id := uuid.MustParse(resp.ID)

	// Scheduled start is 2026-03-20 09:00 UTC; 25 hours before is
	// inside a 48 hour notice window.
	f.svc.now = func() time.Time { return time.Date(2026, 3, 19, 8, 0, 0, 0, time.UTC) }

	_, err = f.svc.Transition(context.Background(), id, TransitionInput{
		Action: ActionRequestCancel, ReasonCategory: "schedule_conflict",
	})
	if apperr.GetKind(err) != apperr.KindPolicyViolation {
		t.Fatalf("got %v, want policy violation", err)
	}

	after, _ := f.store.GetByID(context.Background(), id)
	if after.Status != string(StatusPending) {
		t.Errorf("status = %q, want pending (unchanged)", after.Status)
	}

	// Three days out is fine.
	f.svc.now = func() time.Time { return time.Date(2026, 3, 17, 8, 0, 0, 0, time.UTC) }
	updated, err := f.svc.Transition(context.Background(), id, TransitionInput{
		Action: ActionRequestCancel, ReasonCategory: "schedule_conflict",
	})
	if err != nil {
		t.Fatalf("request outside notice window: %v", err)
	}
	if updated.Status != string(StatusCancelRequested) {
		t.Errorf("status = %q, want cancel_requested", updated.Status)
	}
}

func TestRequestCancellationRequiresReason(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Create(context.Background(), f.createInput(t, 1))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	id := uuid.MustParse(resp.ID)

	_, err = f.svc.Transition(context.Background(), id, TransitionInput{Action: ActionRequestCancel})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("got %v, want validation error", err)
	}
}

func TestEstimate(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Estimate(context.Background(), f.service, f.aircon, 5)
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	if resp.TotalCents != 340000 {
		t.Errorf("total = %d, want 340000", resp.TotalCents)
	}
	if resp.TotalAmount != "3400.00" {
		t.Errorf("amount = %q, want 3400.00", resp.TotalAmount)
	}
	if resp.EstimatedDurationMinutes != 378 {
		t.Errorf("minutes = %d, want 378", resp.EstimatedDurationMinutes)
	}
	if resp.EstimatedDays != 1 {
		t.Errorf("days = %d, want 1", resp.EstimatedDays)
	}

	if _, err := f.svc.Estimate(context.Background(), uuid.New(), f.aircon, 1); apperr.GetKind(err) != apperr.KindNotFound {
		t.Errorf("unknown service: got %v, want not found", err)
	}
	if _, err := f.svc.Estimate(context.Background(), f.service, f.aircon, 0); apperr.GetKind(err) != apperr.KindValidation {
		t.Errorf("units=0: got %v, want validation error", err)
	}
}

func TestUpdateDetailsRederivesTotals(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Create(context.Background(), f.createInput(t, 1))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	id := uuid.MustParse(resp.ID)

	units := 6
	updated, err := f.svc.UpdateDetails(context.Background(), id, transport.UpdateBookingDetailsRequest{NumberOfUnits: &units})
	if err != nil {
		t.Fatalf("UpdateDetails: %v", err)
	}
	if updated.NumberOfUnits != 6 {
		t.Errorf("units = %d, want 6", updated.NumberOfUnits)
	}
	if updated.TotalCents != 384000 {
		t.Errorf("total = %d, want 384000", updated.TotalCents)
	}
	if updated.EstimatedDurationMinutes != 432 {
		t.Errorf("minutes = %d, want 432", updated.EstimatedDurationMinutes)
	}
}

func TestTransitionEventNames(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Create(context.Background(), f.createInput(t, 1))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	id := uuid.MustParse(resp.ID)

	steps := []struct {
		in   TransitionInput
		want string
	}{
		{TransitionInput{Action: ActionConfirm}, "bookings.confirmed"},
		{TransitionInput{Action: ActionRequestCancel, ReasonCategory: "other"}, "bookings.cancellation_requested"},
		{TransitionInput{Action: ActionRejectCancellation}, "bookings.cancellation_rejected"},
	}
	for _, step := range steps {
		if _, err := f.svc.Transition(context.Background(), id, step.in); err != nil {
			t.Fatalf("transition %s: %v", step.in.Action, err)
		}
	}

	got := f.bus.names()
	want := []string{"bookings.created", "bookings.confirmed", "bookings.cancellation_requested", "bookings.cancellation_rejected"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("published = %v, want %v", got, want)
	}
}
