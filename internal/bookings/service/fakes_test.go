package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sort"
	"sync"
	"time"

	bookingserrors "ambulink/internal/bookings/errors"
	"ambulink/internal/bookings/lifecycle"
	"ambulink/internal/bookings/repository"
	"ambulink/internal/bookings/validator"
	"ambulink/internal/directory"
	"ambulink/pkg/config"
	mongotx "ambulink/pkg/db/mongo"
	"ambulink/pkg/geo"
	"ambulink/pkg/logger"
	"ambulink/pkg/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ────────────────────────────────────────────────
// In-memory world shared by the fakes. Writes follow the same conditional
// rules as the Mongo repositories.
// ────────────────────────────────────────────────

type world struct {
	mu       sync.Mutex
	bookings map[string]*model.Booking
	drivers  map[string]*model.Driver
	users    map[string]*model.User
	vehicles map[string]*model.Vehicle

	transactional bool
	now           time.Time

	createErr       error
	setAvailableErr error
	beforeAssign    func(bookingID string)

	events []model.BookingEvent
}

func newWorld() *world {
	return &world{
		bookings: map[string]*model.Booking{},
		drivers:  map[string]*model.Driver{},
		users:    map[string]*model.User{},
		vehicles: map[string]*model.Vehicle{},
		now:      time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC),
	}
}

func newID() string {
	return primitive.NewObjectID().Hex()
}

func cloneBooking(b *model.Booking) *model.Booking {
	c := *b
	return &c
}

func cloneDriver(d *model.Driver) *model.Driver {
	c := *d
	return &c
}

func (w *world) addUser(role string) *model.User {
	w.mu.Lock()
	defer w.mu.Unlock()
	u := &model.User{ID: newID(), Name: "User " + role, Email: role + "@example.com", Phone: "+919876543210", Role: role, Status: model.UserStatusActive}
	w.users[u.ID] = u
	return u
}

// addDriver registers an eligible driver with a vehicle at lng/lat.
func (w *world) addDriver(lng, lat float64) *model.Driver {
	user := w.addUser(model.RoleDriver)

	w.mu.Lock()
	defer w.mu.Unlock()
	v := &model.Vehicle{ID: newID(), RegistrationNumber: "KA01AB" + fmt.Sprint(len(w.vehicles)), Type: "Basic Life Support", Status: model.VehicleStatusActive}
	w.vehicles[v.ID] = v
	d := &model.Driver{
		ID:              newID(),
		User:            user.ID,
		LicenseNumber:   "DL" + fmt.Sprint(len(w.drivers)),
		Vehicle:         v.ID,
		IsAvailable:     true,
		IsVerified:      true,
		Status:          model.DriverStatusActive,
		CurrentLocation: model.NewGeoPoint(lng, lat),
	}
	w.drivers[d.ID] = d
	return d
}

func (w *world) putBooking(b *model.Booking) *model.Booking {
	w.mu.Lock()
	defer w.mu.Unlock()
	if b.ID == "" {
		b.ID = newID()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = w.now
	}
	w.bookings[b.ID] = cloneBooking(b)
	return b
}

func (w *world) booking(id string) *model.Booking {
	w.mu.Lock()
	defer w.mu.Unlock()
	return cloneBooking(w.bookings[id])
}

func (w *world) driver(id string) *model.Driver {
	w.mu.Lock()
	defer w.mu.Unlock()
	return cloneDriver(w.drivers[id])
}

func (w *world) eventTypes() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	types := make([]string, 0, len(w.events))
	for _, e := range w.events {
		types = append(types, e.Type)
	}
	return types
}

// snapshot copies bookings and drivers so a failed transaction can roll back.
func (w *world) snapshot() (map[string]*model.Booking, map[string]*model.Driver) {
	bookings := make(map[string]*model.Booking, len(w.bookings))
	for k, v := range w.bookings {
		bookings[k] = cloneBooking(v)
	}
	drivers := make(map[string]*model.Driver, len(w.drivers))
	for k, v := range w.drivers {
		drivers[k] = cloneDriver(v)
	}
	return bookings, drivers
}

// ────────────────────────────────────────────────
// Booking repository
// ────────────────────────────────────────────────

type fakeBookingRepo struct {
	w         *world
	lastQuery repository.Query
}

func (r *fakeBookingRepo) Create(ctx context.Context, booking *model.Booking) error {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	if r.w.createErr != nil {
		return r.w.createErr
	}
	booking.ID = newID()
	booking.CreatedAt = r.w.now
	booking.UpdatedAt = r.w.now
	r.w.bookings[booking.ID] = cloneBooking(booking)
	return nil
}

func (r *fakeBookingRepo) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if !primitive.IsValidObjectID(id) {
		return nil, bookingserrors.ErrInvalidID
	}
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	b, ok := r.w.bookings[id]
	if !ok {
		return nil, bookingserrors.ErrNotFound
	}
	return cloneBooking(b), nil
}

func matches(b *model.Booking, q repository.Query) bool {
	if len(q.Statuses) > 0 && !slices.Contains(q.Statuses, b.Status) {
		return false
	}
	if q.BookingType != "" && b.BookingType != q.BookingType {
		return false
	}
	if q.User != "" && b.User != q.User {
		return false
	}
	if q.Driver != "" && b.Driver != q.Driver {
		return false
	}
	if q.From != nil && b.CreatedAt.Before(*q.From) {
		return false
	}
	if q.To != nil && b.CreatedAt.After(*q.To) {
		return false
	}
	return true
}

func (r *fakeBookingRepo) Find(ctx context.Context, q repository.Query, limit int, offset int64) ([]*model.Booking, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	r.lastQuery = q

	var out []*model.Booking
	for _, b := range r.w.bookings {
		if matches(b, q) {
			out = append(out, cloneBooking(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if int(offset) >= len(out) {
		return []*model.Booking{}, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeBookingRepo) Count(ctx context.Context, q repository.Query) (int64, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	var n int64
	for _, b := range r.w.bookings {
		if matches(b, q) {
			n++
		}
	}
	return n, nil
}

func (r *fakeBookingRepo) AssignDriver(ctx context.Context, id, driverID, vehicleID string, at time.Time) (*model.Booking, error) {
	if r.w.beforeAssign != nil {
		r.w.beforeAssign(id)
	}
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	b, ok := r.w.bookings[id]
	if !ok || b.Status != model.BookingStatusPending || b.Driver != "" {
		return nil, bookingserrors.ErrStatusConflict
	}
	b.Driver, b.Vehicle, b.Status, b.UpdatedAt = driverID, vehicleID, model.BookingStatusConfirmed, at
	return cloneBooking(b), nil
}

func (r *fakeBookingRepo) Transition(ctx context.Context, id, fromStatus string, u lifecycle.Update) (*model.Booking, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	b, ok := r.w.bookings[id]
	if !ok || b.Status != fromStatus {
		return nil, bookingserrors.ErrStatusConflict
	}
	u.Merge(b)
	return cloneBooking(b), nil
}

func (r *fakeBookingRepo) SetRating(ctx context.Context, id string, rating model.Rating) (*model.Booking, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	b, ok := r.w.bookings[id]
	if !ok || b.Status != model.BookingStatusCompleted || b.IsRated() {
		return nil, bookingserrors.ErrAlreadyRated
	}
	b.Rating = &rating
	return cloneBooking(b), nil
}

func (r *fakeBookingRepo) AverageRatingForDriver(ctx context.Context, driverID string) (float64, int64, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	var sum, n int64
	for _, b := range r.w.bookings {
		if b.Driver == driverID && b.Status == model.BookingStatusCompleted && b.IsRated() {
			sum += int64(b.Rating.Value)
			n++
		}
	}
	if n == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(n), n, nil
}

func (r *fakeBookingRepo) HasActiveForDriver(ctx context.Context, driverID, excludeBookingID string) (bool, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	for _, b := range r.w.bookings {
		if b.ID != excludeBookingID && b.Driver == driverID && !b.IsTerminal() {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBookingRepo) CountByField(ctx context.Context, field string) (map[string]int64, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	counts := map[string]int64{}
	for _, b := range r.w.bookings {
		switch field {
		case "status":
			counts[b.Status]++
		case "booking_type":
			counts[b.BookingType]++
		}
	}
	return counts, nil
}

func (r *fakeBookingRepo) DriverEarnings(ctx context.Context, driverID string, since *time.Time) (repository.Earnings, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	var e repository.Earnings
	for _, b := range r.w.bookings {
		if b.Driver != driverID || b.Status != model.BookingStatusCompleted {
			continue
		}
		if since != nil && (b.EndTime == nil || b.EndTime.Before(*since)) {
			continue
		}
		e.Trips++
		e.Amount += b.Fare.Amount
	}
	return e, nil
}

func (r *fakeBookingRepo) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	if !r.w.transactional {
		return fn(ctx)
	}
	r.w.mu.Lock()
	bookings, drivers := r.w.snapshot()
	r.w.mu.Unlock()

	if err := fn(ctx); err != nil {
		r.w.mu.Lock()
		r.w.bookings, r.w.drivers = bookings, drivers
		r.w.mu.Unlock()
		return err
	}
	return nil
}

// ────────────────────────────────────────────────
// Ledger, locator, directory, pricer, events
// ────────────────────────────────────────────────

type fakeLedger struct{ w *world }

func (l *fakeLedger) Claim(ctx context.Context, driverID string) (bool, error) {
	l.w.mu.Lock()
	defer l.w.mu.Unlock()
	d, ok := l.w.drivers[driverID]
	if !ok || !d.Eligible() {
		return false, nil
	}
	d.IsAvailable = false
	return true, nil
}

func (l *fakeLedger) Release(ctx context.Context, driverID string, notAfter time.Time) (bool, error) {
	l.w.mu.Lock()
	defer l.w.mu.Unlock()
	if l.w.setAvailableErr != nil {
		return false, l.w.setAvailableErr
	}
	d, ok := l.w.drivers[driverID]
	if !ok {
		return false, errors.New("driver not found")
	}
	if d.IsAvailable || !d.IsVerified || d.Status != model.DriverStatusActive {
		return false, nil
	}
	if !notAfter.IsZero() && d.UpdatedAt.After(notAfter) {
		return false, nil
	}
	d.IsAvailable = true
	return true, nil
}

func (l *fakeLedger) RecordRating(ctx context.Context, driverID string, rating float64) error {
	l.w.mu.Lock()
	defer l.w.mu.Unlock()
	d, ok := l.w.drivers[driverID]
	if !ok {
		return errors.New("driver not found")
	}
	d.Rating = rating
	d.TotalTrips++
	return nil
}

type fakeLocator struct {
	w          *world
	nearCalled bool
}

func (l *fakeLocator) FindEligibleNear(ctx context.Context, lng, lat float64, radiusMeters, limit int) ([]*model.Driver, error) {
	l.w.mu.Lock()
	defer l.w.mu.Unlock()
	l.nearCalled = true

	type candidate struct {
		d    *model.Driver
		dist float64
	}
	var cs []candidate
	for _, d := range l.w.drivers {
		if !d.Eligible() || d.CurrentLocation == nil {
			continue
		}
		dist := geo.HaversineKm(lng, lat, d.CurrentLocation.Coordinates[0], d.CurrentLocation.Coordinates[1]) * 1000
		if dist <= float64(radiusMeters) {
			cs = append(cs, candidate{cloneDriver(d), dist})
		}
	}
	sort.Slice(cs, func(i, j int) bool { return cs[i].dist < cs[j].dist })

	var out []*model.Driver
	for _, c := range cs {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, c.d)
	}
	return out, nil
}

func (l *fakeLocator) FindEligible(ctx context.Context, limit int) ([]*model.Driver, error) {
	l.w.mu.Lock()
	defer l.w.mu.Unlock()
	var out []*model.Driver
	for _, d := range l.w.drivers {
		if d.Eligible() {
			out = append(out, cloneDriver(d))
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

type fakeDirectory struct {
	w *world

	searchedTerm string
}

func (d *fakeDirectory) FindUser(ctx context.Context, id string) (*model.User, error) {
	d.w.mu.Lock()
	defer d.w.mu.Unlock()
	u, ok := d.w.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: user %s", directory.ErrNotFound, id)
	}
	c := *u
	return &c, nil
}

func (d *fakeDirectory) FindDriver(ctx context.Context, id string) (*model.Driver, error) {
	d.w.mu.Lock()
	defer d.w.mu.Unlock()
	drv, ok := d.w.drivers[id]
	if !ok {
		return nil, fmt.Errorf("%w: driver %s", directory.ErrNotFound, id)
	}
	return cloneDriver(drv), nil
}

func (d *fakeDirectory) FindDriverByUser(ctx context.Context, userID string) (*model.Driver, error) {
	d.w.mu.Lock()
	defer d.w.mu.Unlock()
	for _, drv := range d.w.drivers {
		if drv.User == userID {
			return cloneDriver(drv), nil
		}
	}
	return nil, fmt.Errorf("%w: driver for user %s", directory.ErrNotFound, userID)
}

func (d *fakeDirectory) FindVehicle(ctx context.Context, id string) (*model.Vehicle, error) {
	d.w.mu.Lock()
	defer d.w.mu.Unlock()
	v, ok := d.w.vehicles[id]
	if !ok {
		return nil, fmt.Errorf("%w: vehicle %s", directory.ErrNotFound, id)
	}
	c := *v
	return &c, nil
}

func (d *fakeDirectory) SearchUserIDs(ctx context.Context, term string) ([]string, error) {
	d.searchedTerm = term
	d.w.mu.Lock()
	defer d.w.mu.Unlock()
	var ids []string
	for _, u := range d.w.users {
		if u.Name == term {
			ids = append(ids, u.ID)
		}
	}
	return ids, nil
}

func (d *fakeDirectory) DriverIDsForUsers(ctx context.Context, userIDs []string) ([]string, error) {
	d.w.mu.Lock()
	defer d.w.mu.Unlock()
	var ids []string
	for _, drv := range d.w.drivers {
		if slices.Contains(userIDs, drv.User) {
			ids = append(ids, drv.ID)
		}
	}
	return ids, nil
}

type fakePricer struct{}

func (fakePricer) Quote(ctx context.Context, req model.FareQuoteRequest) (*model.FareQuote, error) {
	total := 500.0
	if req.BookingType == model.BookingTypeEmergency {
		total += 100
	}
	return &model.FareQuote{Total: total, Currency: "INR", DistanceKm: 5, EstimatedMinutes: 10}, nil
}

func (fakePricer) Timezone(ctx context.Context) *time.Location {
	return time.UTC
}

type fakeEvents struct{ w *world }

func (e *fakeEvents) Publish(ctx context.Context, event model.BookingEvent) error {
	e.w.mu.Lock()
	defer e.w.mu.Unlock()
	e.w.events = append(e.w.events, event)
	return nil
}

// ────────────────────────────────────────────────
// Harness
// ────────────────────────────────────────────────

type harness struct {
	w       *world
	repo    *fakeBookingRepo
	locator *fakeLocator
	dir     *fakeDirectory
	svc     *bookingService
	cfg     *config.Config
}

func newHarness() *harness {
	w := newWorld()
	log := logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		Output:    io.Discard,
		AddSource: false,
		Service:   "test",
	})
	cfg := &config.Config{
		Log:                   log,
		EmergencyRadiusMeters: 10000,
		AutoAssignCandidates:  3,
		ReadTimeout:           5 * time.Second,
		WriteTimeout:          5 * time.Second,
	}

	h := &harness{
		w:       w,
		repo:    &fakeBookingRepo{w: w},
		locator: &fakeLocator{w: w},
		dir:     &fakeDirectory{w: w},
		cfg:     cfg,
	}
	svc := NewBookingService(h.repo, Dependencies{
		Directory: h.dir,
		Ledger:    &fakeLedger{w: w},
		Locator:   h.locator,
		Pricer:    fakePricer{},
		Events:    &fakeEvents{w: w},
	}, validator.NewBookingValidator(log), cfg).(*bookingService)
	svc.now = func() time.Time { return w.now }
	h.svc = svc
	return h
}

func (h *harness) useTransactions() {
	h.w.transactional = true
	h.cfg.UseTransactions = true
}

func admin() model.Caller {
	return model.Caller{UserID: newID(), Role: model.RoleAdmin}
}

func callerFor(u *model.User) model.Caller {
	return model.Caller{UserID: u.ID, Role: u.Role}
}

// Bengaluru MG Road.
const pickupLng, pickupLat = 77.6101, 12.9756

func newEmergency() *model.Booking {
	return &model.Booking{
		BookingType:    model.BookingTypeEmergency,
		PatientDetails: model.PatientDetails{Name: "Asha Rao", Age: 64},
		PickupLocation: model.Location{Address: "12 MG Road, Bengaluru", Coordinates: []float64{pickupLng, pickupLat}},
	}
}

func newScheduled() *model.Booking {
	return &model.Booking{
		BookingType:    model.BookingTypeScheduled,
		PatientDetails: model.PatientDetails{Name: "Vikram Iyer"},
		PickupLocation: model.Location{Address: "44 Residency Road, Bengaluru"},
		DropLocation:   &model.Location{Address: "Manipal Hospital, Old Airport Road"},
	}
}

// pendingBooking stores a pending booking requested by user.
func (h *harness) pendingBooking(user *model.User) *model.Booking {
	b := newScheduled()
	b.User = user.ID
	b.Status = model.BookingStatusPending
	return h.w.putBooking(b)
}

// assignedBooking stores a booking of user bound to driver in status, with
// the driver marked unavailable.
func (h *harness) assignedBooking(user *model.User, driver *model.Driver, status string) *model.Booking {
	b := newScheduled()
	b.User = user.ID
	b.Driver = driver.ID
	b.Vehicle = driver.Vehicle
	b.Status = status
	b.Fare = model.Fare{Amount: 400, Currency: "INR"}
	if status == model.BookingStatusInProgress || status == model.BookingStatusCompleted {
		start := h.w.now.Add(-time.Hour)
		b.StartTime = &start
	}
	if status == model.BookingStatusCompleted {
		end := h.w.now.Add(-10 * time.Minute)
		b.EndTime = &end
	}

	h.w.mu.Lock()
	h.w.drivers[driver.ID].IsAvailable = lifecycle.IsTerminal(status)
	h.w.mu.Unlock()
	return h.w.putBooking(b)
}
