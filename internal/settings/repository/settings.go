package repository

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	settingserrors "ambulink/internal/settings/errors"
	"ambulink/pkg/config"
	"ambulink/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Settings"
)

// SettingsRepository stores one document per section. Load reports false
// when the section has never been saved.
type SettingsRepository interface {
	Load(ctx context.Context, section string, out any) (bool, error)
	Save(ctx context.Context, section string, value any, updatedBy string) error
}

type mongoSettingsRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoSettingsRepository(cfg *config.Config) SettingsRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSettingsRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

// NewSettingsRepository returns the Mongo repository, fronted by the Redis
// cache when a Redis client is configured.
func NewSettingsRepository(cfg *config.Config) SettingsRepository {
	repo := NewMongoSettingsRepository(cfg)
	if cfg.Client.Redis == nil {
		return repo
	}
	return NewCachedSettingsRepository(repo, cfg.Client.Redis, cfg.SettingsCacheTTL, cfg.Log)
}

func checkSection(section string) error {
	if !slices.Contains(model.SettingsSections, section) {
		return fmt.Errorf("%w: %s", settingserrors.ErrUnknownSection, section)
	}
	return nil
}

func (r *mongoSettingsRepository) Load(ctx context.Context, section string, out any) (bool, error) {
	if err := checkSection(section); err != nil {
		return false, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var doc struct {
		Value bson.Raw `bson:"value"`
	}
	err := r.collection.FindOne(ctx, bson.M{"_id": section}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load %s settings: %w", section, err)
	}

	if err := bson.Unmarshal(doc.Value, out); err != nil {
		return false, fmt.Errorf("%w: %s: %v", settingserrors.ErrCorruptDocument, section, err)
	}
	return true, nil
}

func (r *mongoSettingsRepository) Save(ctx context.Context, section string, value any, updatedBy string) error {
	if err := checkSection(section); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": section},
		bson.M{"$set": bson.M{
			"value":      value,
			"updated_at": time.Now().UTC().Truncate(time.Millisecond),
			"updated_by": updatedBy,
		}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to save %s settings: %w", section, err)
	}
	return nil
}
