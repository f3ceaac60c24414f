package storage

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yourname/renescens/internal"
)

// MongoStorage stores each record type as documents of its own collection.
// Records are addressed by their user_id / id fields; the driver-generated
// _id is never read back.
type MongoStorage struct {
	client   *mongo.Client
	profiles *mongo.Collection
	progress *mongo.Collection
	entries  *mongo.Collection
	emotions *mongo.Collection
	analyses *mongo.Collection
	logger   internal.Logger
}

func NewMongoStorage(ctx context.Context, uri, database string, logger internal.Logger) (*MongoStorage, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		logger.Errorf("failed to connect to mongo: %v", err)
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		logger.Errorf("failed to ping mongo: %v", err)
		return nil, err
	}
	db := client.Database(database)
	s := &MongoStorage{
		client:   client,
		profiles: db.Collection("profiles"),
		progress: db.Collection("cycleProgress"),
		entries:  db.Collection("cycles"),
		emotions: db.Collection("emotionLogs"),
		analyses: db.Collection("analyses"),
		logger:   logger,
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

func (s *MongoStorage) ensureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	indexes := []struct {
		coll  *mongo.Collection
		model mongo.IndexModel
	}{
		{s.profiles, mongo.IndexModel{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: unique}},
		{s.progress, mongo.IndexModel{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: unique}},
		{s.entries, mongo.IndexModel{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique}},
		{s.emotions, mongo.IndexModel{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique}},
		{s.emotions, mongo.IndexModel{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: 1}}}},
		{s.analyses, mongo.IndexModel{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique}},
		{s.analyses, mongo.IndexModel{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}}},
	}
	for _, ix := range indexes {
		if _, err := ix.coll.Indexes().CreateOne(ctx, ix.model); err != nil {
			return wrapErr("index", ix.coll.Name(), "", err)
		}
	}
	return nil
}

func (s *MongoStorage) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func mongoNotFound(err error) bool { return errors.Is(err, mongo.ErrNoDocuments) }

func upsert() *options.ReplaceOptions { return options.Replace().SetUpsert(true) }

// --- ProfileRepository ---
func (s *MongoStorage) CreateProfile(ctx context.Context, p *internal.Profile) error {
	_, err := s.profiles.InsertOne(ctx, p)
	if mongo.IsDuplicateKeyError(err) {
		return wrapErr("create", "profile", p.UserID, ErrAlreadyExists)
	}
	return wrapErr("create", "profile", p.UserID, err)
}

func (s *MongoStorage) SaveProfile(ctx context.Context, p *internal.Profile) error {
	_, err := s.profiles.ReplaceOne(ctx, bson.M{"user_id": p.UserID}, p, upsert())
	return wrapErr("save", "profile", p.UserID, err)
}

func (s *MongoStorage) GetProfile(ctx context.Context, userID string) (*internal.Profile, error) {
	var p internal.Profile
	err := s.profiles.FindOne(ctx, bson.M{"user_id": userID}).Decode(&p)
	if mongoNotFound(err) {
		return nil, wrapErr("get", "profile", userID, ErrNotFound)
	}
	if err != nil {
		return nil, wrapErr("get", "profile", userID, err)
	}
	return &p, nil
}

// --- CycleRepository ---
func (s *MongoStorage) GetProgress(ctx context.Context, userID string) (*internal.CycleProgress, error) {
	var p internal.CycleProgress
	err := s.progress.FindOne(ctx, bson.M{"user_id": userID}).Decode(&p)
	if mongoNotFound(err) {
		return nil, wrapErr("get", "cycle progress", userID, ErrNotFound)
	}
	if err != nil {
		return nil, wrapErr("get", "cycle progress", userID, err)
	}
	return &p, nil
}

func (s *MongoStorage) SaveProgress(ctx context.Context, p *internal.CycleProgress) error {
	_, err := s.progress.ReplaceOne(ctx, bson.M{"user_id": p.UserID}, p, upsert())
	return wrapErr("save", "cycle progress", p.UserID, err)
}

func (s *MongoStorage) SaveEntry(ctx context.Context, e *internal.CycleEntry) error {
	_, err := s.entries.ReplaceOne(ctx, bson.M{"id": e.ID}, e, upsert())
	return wrapErr("save", "cycle entry", e.ID, err)
}

func (s *MongoStorage) ListEntries(ctx context.Context, userID string) ([]internal.CycleEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "day_number", Value: 1}})
	cur, err := s.entries.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, wrapErr("list", "cycle entry", "", err)
	}
	out := make([]internal.CycleEntry, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, wrapErr("list", "cycle entry", "", err)
	}
	return out, nil
}

// --- EmotionRepository ---
func (s *MongoStorage) AddEmotionLog(ctx context.Context, l *internal.EmotionLog) error {
	_, err := s.emotions.InsertOne(ctx, l)
	if mongo.IsDuplicateKeyError(err) {
		return wrapErr("add", "emotion log", l.ID, ErrAlreadyExists)
	}
	return wrapErr("add", "emotion log", l.ID, err)
}

func (s *MongoStorage) ListEmotionLogs(ctx context.Context, userID string) ([]internal.EmotionLog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "created_at", Value: 1}})
	cur, err := s.emotions.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, wrapErr("list", "emotion log", "", err)
	}
	out := make([]internal.EmotionLog, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, wrapErr("list", "emotion log", "", err)
	}
	return out, nil
}

// --- AnalysisRepository ---
func (s *MongoStorage) SaveAnalysis(ctx context.Context, a *internal.Analysis) error {
	_, err := s.analyses.ReplaceOne(ctx, bson.M{"id": a.ID}, a, upsert())
	return wrapErr("save", "analysis", a.ID, err)
}

func (s *MongoStorage) GetAnalysis(ctx context.Context, userID, id string) (*internal.Analysis, error) {
	var a internal.Analysis
	err := s.analyses.FindOne(ctx, bson.M{"id": id, "user_id": userID}).Decode(&a)
	if mongoNotFound(err) {
		return nil, wrapErr("get", "analysis", id, ErrNotFound)
	}
	if err != nil {
		return nil, wrapErr("get", "analysis", id, err)
	}
	return &a, nil
}

func (s *MongoStorage) ListAnalyses(ctx context.Context, userID string) ([]internal.Analysis, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.analyses.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, wrapErr("list", "analysis", "", err)
	}
	out := make([]internal.Analysis, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, wrapErr("list", "analysis", "", err)
	}
	return out, nil
}

func (s *MongoStorage) CountAnalysesSince(ctx context.Context, userID string, since time.Time) (int, error) {
	n, err := s.analyses.CountDocuments(ctx, bson.M{"user_id": userID, "created_at": bson.M{"$gte": since}})
	if err != nil {
		return 0, wrapErr("count", "analysis", "", err)
	}
	return int(n), nil
}

// --- Compile-time assertions ---
var _ ProfileRepository = (*MongoStorage)(nil)
var _ CycleRepository = (*MongoStorage)(nil)
var _ EmotionRepository = (*MongoStorage)(nil)
var _ AnalysisRepository = (*MongoStorage)(nil)
