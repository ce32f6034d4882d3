package models

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const SavedColName = "saved_events"

type SavedItem struct {
	EventID string    `bson:"event_id" json:"event_id"`
	SavedAt time.Time `bson:"saved_at" json:"saved_at"`
}

// SavedEvents is one document per user; items are keyed by event id so a
// save/unsave is a single $set/$unset.
type SavedEvents struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	UserID    string               `bson:"user_id" json:"user_id"`
	Items     map[string]SavedItem `bson:"items" json:"items"`
	CreatedAt time.Time            `bson:"created_at,omitempty" json:"created_at,omitempty"`
	UpdatedAt time.Time            `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

type SavedRepo interface {
	AddSaved(ctx context.Context, userID, eventID string) error
	RemoveSaved(ctx context.Context, userID, eventID string) error
	ListSaved(ctx context.Context, userID string) ([]string, error)
}

func (mdb *MongodbRepo) AddSaved(ctx context.Context, userID, eventID string) error {
	col, err := mdb.GetCollection(SavedColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %w", err)
	}

	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"updated_at": now,
			fmt.Sprintf("items.%s", eventID): SavedItem{EventID: eventID, SavedAt: now},
		},
		"$setOnInsert": bson.M{
			"user_id":    userID,
			"created_at": now,
		},
	}

	opts := options.Update().SetUpsert(true)
	if _, err := col.UpdateOne(ctx, bson.M{"user_id": userID}, update, opts); err != nil {
		return fmt.Errorf("error saving event: %w", err)
	}
	return nil
}

func (mdb *MongodbRepo) RemoveSaved(ctx context.Context, userID, eventID string) error {
	col, err := mdb.GetCollection(SavedColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %w", err)
	}

	update := bson.M{
		"$unset": bson.M{fmt.Sprintf("items.%s", eventID): ""},
		"$set":   bson.M{"updated_at": time.Now()},
	}
	if _, err := col.UpdateOne(ctx, bson.M{"user_id": userID}, update); err != nil {
		return fmt.Errorf("error unsaving event: %w", err)
	}
	return nil
}

// ListSaved returns the user's saved event ids, oldest save first.
func (mdb *MongodbRepo) ListSaved(ctx context.Context, userID string) ([]string, error) {
	col, err := mdb.GetCollection(SavedColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}

	var doc SavedEvents
	err = col.FindOne(ctx, bson.M{"user_id": userID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error finding saved events: %w", err)
	}

	items := make([]SavedItem, 0, len(doc.Items))
	for _, item := range doc.Items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].SavedAt.Before(items[j].SavedAt) })

	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.EventID
	}
	return ids, nil
}

// EnsureIndexes creates the unique per-user index on the saved collection.
func (mdb *MongodbRepo) EnsureIndexes(ctx context.Context) error {
	col, err := mdb.GetCollection(SavedColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %w", err)
	}

	_, err = col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("user_id_unique"),
	})
	if err != nil {
		return fmt.Errorf("error creating indexes: %w", err)
	}
	return nil
}
