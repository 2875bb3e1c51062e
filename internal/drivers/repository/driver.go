package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	driverserrors "ambulink/internal/drivers/errors"
	"ambulink/pkg/config"
	mongotx "ambulink/pkg/db/mongo"
	"ambulink/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Drivers"
)

// DriverRepository stores driver profiles. It also serves as the
// availability ledger and the geospatial locator for booking assignment.
type DriverRepository interface {
	Create(ctx context.Context, driver *model.Driver) error
	FindByID(ctx context.Context, id string) (*model.Driver, error)
	FindByUser(ctx context.Context, userID string) (*model.Driver, error)
	Find(ctx context.Context, filter model.DriverFilter, limit int, offset int64) ([]*model.Driver, error)
	Count(ctx context.Context, filter model.DriverFilter) (int64, error)
	IDsForUsers(ctx context.Context, userIDs []string) ([]string, error)
	ExistsByVehicle(ctx context.Context, vehicleID string) (bool, error)
	Update(ctx context.Context, id string, fields bson.M) (*model.Driver, error)

	Claim(ctx context.Context, id string) (bool, error)
	Release(ctx context.Context, id string, notAfter time.Time) (bool, error)
	SetAvailable(ctx context.Context, id string, available bool) error
	RecordRating(ctx context.Context, id string, rating float64) error
	FindEligibleNear(ctx context.Context, lng, lat float64, radiusMeters, limit int) ([]*model.Driver, error)
	FindEligible(ctx context.Context, limit int) ([]*model.Driver, error)

	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoDriverRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoDriverRepository(cfg *config.Config) DriverRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoDriverRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewManager(cfg.Client.Mongo, cfg.UseTransactions),
	}
}

func (r *mongoDriverRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if hasDeadline && time.Until(deadline) < timeout {
		return context.WithDeadline(ctx, deadline)
	}
	return context.WithTimeout(ctx, timeout)
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %s", driverserrors.ErrInvalidID, id)
	}
	return oid, nil
}

// eligibleFilter matches drivers that may be bound to a booking.
func eligibleFilter() bson.M {
	return bson.M{
		"is_available": true,
		"is_verified":  true,
		"status":       model.DriverStatusActive,
	}
}

func (r *mongoDriverRepository) Create(ctx context.Context, driver *model.Driver) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	driver.CreatedAt = now
	driver.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, driver)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			if strings.Contains(err.Error(), "license_number") {
				return driverserrors.ErrDuplicateLicense
			}
			return driverserrors.ErrAlreadyRegistered
		}
		return fmt.Errorf("failed to create driver: %w", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		driver.ID = oid.Hex()
	}
	return nil
}

func (r *mongoDriverRepository) FindByID(ctx context.Context, id string) (*model.Driver, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *mongoDriverRepository) FindByUser(ctx context.Context, userID string) (*model.Driver, error) {
	return r.findOne(ctx, bson.M{"user": userID})
}

func (r *mongoDriverRepository) findOne(ctx context.Context, filter bson.M) (*model.Driver, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var driver model.Driver
	if err := r.collection.FindOne(ctx, filter).Decode(&driver); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, driverserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find driver: %w", err)
	}
	return &driver, nil
}

func buildFilter(f model.DriverFilter) bson.M {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.IsVerified != nil {
		filter["is_verified"] = *f.IsVerified
	}
	if f.IsAvailable != nil {
		filter["is_available"] = *f.IsAvailable
	}
	return filter
}

func (r *mongoDriverRepository) Find(ctx context.Context, f model.DriverFilter, limit int, offset int64) ([]*model.Driver, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(offset)
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return r.find(ctx, buildFilter(f), opts)
}

func (r *mongoDriverRepository) find(ctx context.Context, filter any, opts *options.FindOptions) ([]*model.Driver, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find drivers: %w", err)
	}
	defer cursor.Close(ctx)

	drivers := []*model.Driver{}
	if err := cursor.All(ctx, &drivers); err != nil {
		return nil, fmt.Errorf("failed to decode drivers: %w", err)
	}
	return drivers, nil
}

func (r *mongoDriverRepository) Count(ctx context.Context, f model.DriverFilter) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, buildFilter(f))
	if err != nil {
		return 0, fmt.Errorf("failed to count drivers: %w", err)
	}
	return count, nil
}

func (r *mongoDriverRepository) IDsForUsers(ctx context.Context, userIDs []string) ([]string, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	drivers, err := r.find(ctx, bson.M{"user": bson.M{"$in": userIDs}}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(drivers))
	for _, d := range drivers {
		ids = append(ids, d.ID)
	}
	return ids, nil
}

func (r *mongoDriverRepository) ExistsByVehicle(ctx context.Context, vehicleID string) (bool, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"vehicle": vehicleID}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check vehicle usage: %w", err)
	}
	return count > 0, nil
}

// Update sets fields and returns the updated driver.
func (r *mongoDriverRepository) Update(ctx context.Context, id string, fields bson.M) (*model.Driver, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": time.Now().UTC().Truncate(time.Millisecond)}
	for k, v := range fields {
		set[k] = v
	}

	var driver model.Driver
	err = r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&driver)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, driverserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update driver: %w", err)
	}
	return &driver, nil
}

// Claim marks an eligible driver unavailable in one conditional write, so of
// two concurrent claims exactly one succeeds.
func (r *mongoDriverRepository) Claim(ctx context.Context, id string) (bool, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return false, err
	}

	filter := eligibleFilter()
	filter["_id"] = oid
	update := bson.M{"$set": bson.M{
		"is_available": false,
		"updated_at":   time.Now().UTC().Truncate(time.Millisecond),
	}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to claim driver: %w", err)
	}
	return result.ModifiedCount == 1, nil
}

// Release marks a verified, active, unavailable driver available in one
// conditional write. A non-zero notAfter also requires that the driver was
// not modified after it, so a claim or an off-duty switch made since then
// is never overwritten. It reports false when the conditions did not hold.
func (r *mongoDriverRepository) Release(ctx context.Context, id string, notAfter time.Time) (bool, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return false, err
	}

	filter := bson.M{
		"_id":          oid,
		"is_available": false,
		"is_verified":  true,
		"status":       model.DriverStatusActive,
	}
	if !notAfter.IsZero() {
		filter["updated_at"] = bson.M{"$lte": notAfter.UTC()}
	}
	update := bson.M{"$set": bson.M{
		"is_available": true,
		"updated_at":   time.Now().UTC().Truncate(time.Millisecond),
	}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to release driver: %w", err)
	}
	return result.ModifiedCount == 1, nil
}

func (r *mongoDriverRepository) SetAvailable(ctx context.Context, id string, available bool) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return err
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"is_available": available,
		"updated_at":   time.Now().UTC().Truncate(time.Millisecond),
	}})
	if err != nil {
		return fmt.Errorf("failed to set driver availability: %w", err)
	}
	if result.MatchedCount == 0 {
		return driverserrors.ErrNotFound
	}
	return nil
}

func (r *mongoDriverRepository) RecordRating(ctx context.Context, id string, rating float64) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return err
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{"rating": rating, "updated_at": time.Now().UTC().Truncate(time.Millisecond)},
		"$inc": bson.M{"total_trips": 1},
	})
	if err != nil {
		return fmt.Errorf("failed to record driver rating: %w", err)
	}
	if result.MatchedCount == 0 {
		return driverserrors.ErrNotFound
	}
	return nil
}

// FindEligibleNear relies on the 2dsphere index on current_location; $near
// returns results nearest-first.
func (r *mongoDriverRepository) FindEligibleNear(ctx context.Context, lng, lat float64, radiusMeters, limit int) ([]*model.Driver, error) {
	filter := eligibleFilter()
	filter["current_location"] = bson.M{
		"$near": bson.M{
			"$geometry":    model.NewGeoPoint(lng, lat),
			"$maxDistance": radiusMeters,
		},
	}

	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return r.find(ctx, filter, opts)
}

func (r *mongoDriverRepository) FindEligible(ctx context.Context, limit int) ([]*model.Driver, error) {
	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return r.find(ctx, eligibleFilter(), opts)
}

func (r *mongoDriverRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
