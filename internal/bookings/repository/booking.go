package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "ambulink/internal/bookings/errors"
	"ambulink/internal/bookings/lifecycle"
	"ambulink/pkg/config"
	mongotx "ambulink/pkg/db/mongo"
	"ambulink/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Bookings"
)

type mongoBookingRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

// Earnings aggregates completed trips for one driver.
type Earnings struct {
	Trips  int64   `bson:"trips"`
	Amount float64 `bson:"amount"`
}

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	Find(ctx context.Context, q Query, limit int, offset int64) ([]*model.Booking, error)
	Count(ctx context.Context, q Query) (int64, error)
	AssignDriver(ctx context.Context, id, driverID, vehicleID string, at time.Time) (*model.Booking, error)
	Transition(ctx context.Context, id, fromStatus string, update lifecycle.Update) (*model.Booking, error)
	SetRating(ctx context.Context, id string, rating model.Rating) (*model.Booking, error)
	AverageRatingForDriver(ctx context.Context, driverID string) (float64, int64, error)
	HasActiveForDriver(ctx context.Context, driverID, excludeBookingID string) (bool, error)
	CountByField(ctx context.Context, field string) (map[string]int64, error)
	DriverEarnings(ctx context.Context, driverID string, since *time.Time) (Earnings, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewManager(cfg.Client.Mongo, cfg.UseTransactions),
	}
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// A SessionContext is returned unchanged; wrapping it would drop the session.
func (r *mongoBookingRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}
	return oid, nil
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	booking.CreatedAt = now
	booking.UpdatedAt = now
	result, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid.Hex()
	}
	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var booking model.Booking
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return &booking, nil
}

func (r *mongoBookingRepository) Find(ctx context.Context, q Query, limit int, offset int64) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(offset)
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, buildFilter(q), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []*model.Booking{}
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, nil
}

func (r *mongoBookingRepository) Count(ctx context.Context, q Query) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, buildFilter(q))
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

// AssignDriver binds driver and vehicle to a pending, unassigned booking and
// confirms it. It returns ErrStatusConflict when the booking is no longer in
// that state.
func (r *mongoBookingRepository) AssignDriver(ctx context.Context, id, driverID, vehicleID string, at time.Time) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	filter := bson.M{
		"_id":    oid,
		"status": model.BookingStatusPending,
		"driver": bson.M{"$in": bson.A{nil, ""}},
	}
	update := bson.M{"$set": bson.M{
		"driver":     driverID,
		"vehicle":    vehicleID,
		"status":     model.BookingStatusConfirmed,
		"updated_at": at.UTC().Truncate(time.Millisecond),
	}}

	return r.findOneAndUpdate(ctx, filter, update, bookingserrors.ErrStatusConflict)
}

// Transition applies a lifecycle update only while the booking is still in
// fromStatus.
func (r *mongoBookingRepository) Transition(ctx context.Context, id, fromStatus string, u lifecycle.Update) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{
		"status":     u.Status,
		"updated_at": u.UpdatedAt,
	}
	if u.StartTime != nil {
		set["start_time"] = *u.StartTime
	}
	if u.EndTime != nil {
		set["end_time"] = *u.EndTime
	}
	if u.ActualTime != nil {
		set["actual_time"] = *u.ActualTime
	}
	if u.CancellationReason != "" {
		set["cancellation_reason"] = u.CancellationReason
	}
	if u.CancelledBy != "" {
		set["cancelled_by"] = u.CancelledBy
	}

	filter := bson.M{"_id": oid, "status": fromStatus}
	return r.findOneAndUpdate(ctx, filter, bson.M{"$set": set}, bookingserrors.ErrStatusConflict)
}

// SetRating stores the rating on a completed booking that has none yet.
func (r *mongoBookingRepository) SetRating(ctx context.Context, id string, rating model.Rating) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	filter := bson.M{
		"_id":          oid,
		"status":       model.BookingStatusCompleted,
		"rating.value": bson.M{"$exists": false},
	}
	update := bson.M{"$set": bson.M{
		"rating":     rating,
		"updated_at": rating.CreatedAt,
	}}

	return r.findOneAndUpdate(ctx, filter, update, bookingserrors.ErrAlreadyRated)
}

func (r *mongoBookingRepository) findOneAndUpdate(ctx context.Context, filter, update bson.M, conflict error) (*model.Booking, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var booking model.Booking
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, conflict
		}
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}
	return &booking, nil
}

// AverageRatingForDriver returns the mean rating over the driver's rated,
// completed bookings and how many there are.
func (r *mongoBookingRepository) AverageRatingForDriver(ctx context.Context, driverID string) (float64, int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"driver":       driverID,
			"status":       model.BookingStatusCompleted,
			"rating.value": bson.M{"$gte": 1},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":     nil,
			"average": bson.M{"$avg": "$rating.value"},
			"count":   bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to aggregate driver rating: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Average float64 `bson:"average"`
		Count   int64   `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, 0, fmt.Errorf("failed to decode driver rating: %w", err)
	}
	if len(rows) == 0 {
		return 0, 0, nil
	}
	return rows[0].Average, rows[0].Count, nil
}

// HasActiveForDriver reports whether the driver holds a non-terminal booking
// other than excludeBookingID.
func (r *mongoBookingRepository) HasActiveForDriver(ctx context.Context, driverID, excludeBookingID string) (bool, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"driver": driverID,
		"status": bson.M{"$in": []string{model.BookingStatusConfirmed, model.BookingStatusInProgress}},
	}
	if excludeBookingID != "" {
		oid, err := objectID(excludeBookingID)
		if err != nil {
			return false, err
		}
		filter["_id"] = bson.M{"$ne": oid}
	}

	count, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check active bookings: %w", err)
	}
	return count > 0, nil
}

// CountByField groups all bookings by a top-level field such as status or
// booking_type.
func (r *mongoBookingRepository) CountByField(ctx context.Context, field string) (map[string]int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$" + field,
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to group bookings by %s: %w", field, err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Key   string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode booking groups: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Key] = row.Count
	}
	return counts, nil
}

// DriverEarnings sums completed trips and fares, optionally only those that
// ended at or after since.
func (r *mongoBookingRepository) DriverEarnings(ctx context.Context, driverID string, since *time.Time) (Earnings, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	match := bson.M{
		"driver": driverID,
		"status": model.BookingStatusCompleted,
	}
	if since != nil {
		match["end_time"] = bson.M{"$gte": since.UTC()}
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":    nil,
			"trips":  bson.M{"$sum": 1},
			"amount": bson.M{"$sum": "$fare.amount"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return Earnings{}, fmt.Errorf("failed to aggregate driver earnings: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []Earnings
	if err := cursor.All(ctx, &rows); err != nil {
		return Earnings{}, fmt.Errorf("failed to decode driver earnings: %w", err)
	}
	if len(rows) == 0 {
		return Earnings{}, nil
	}
	return rows[0], nil
}

func (r *mongoBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
