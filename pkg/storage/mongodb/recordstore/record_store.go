/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package recordstore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/trustbloc/batterypass/pkg/dataprotect"
	"github.com/trustbloc/batterypass/pkg/envelope"
	"github.com/trustbloc/batterypass/pkg/storage/mongodb"
	"github.com/trustbloc/batterypass/pkg/trusterr"
)

const (
	collectionName = "batterypass_records"
	idFieldName    = "_id"
)

type mongoDocument struct {
	ID          string             `bson:"_id"`
	Envelope    *envelope.Envelope `bson:"envelope"`
	Compression string             `bson:"compression"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

// Store keeps sealed records in MongoDB, one document per record identifier.
type Store struct {
	mongoClient *mongodb.Client
}

// NewStore creates Store.
func NewStore(mongoClient *mongodb.Client) *Store {
	return &Store{mongoClient: mongoClient}
}

// Create inserts a new record. Conflict when one already exists.
func (s *Store) Create(ctx context.Context, id string, data *dataprotect.EncryptedData) error {
	ctxWithTimeout, cancel := s.mongoClient.ContextWithTimeout(ctx)
	defer cancel()

	_, err := s.collection().InsertOne(ctxWithTimeout, toDocument(id, data))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return trusterr.Newf(trusterr.Conflict, "create record", "record %s already exists", id)
		}

		return trusterr.New(trusterr.Unavailable, "create record", err)
	}

	return nil
}

// Update replaces an existing record. NotFound when there is none.
func (s *Store) Update(ctx context.Context, id string, data *dataprotect.EncryptedData) error {
	ctxWithTimeout, cancel := s.mongoClient.ContextWithTimeout(ctx)
	defer cancel()

	res, err := s.collection().ReplaceOne(ctxWithTimeout, bson.M{idFieldName: id}, toDocument(id, data))
	if err != nil {
		return trusterr.New(trusterr.Unavailable, "update record", err)
	}

	if res.MatchedCount == 0 {
		return trusterr.Newf(trusterr.NotFound, "update record", "record %s does not exist", id)
	}

	return nil
}

// Get returns the sealed record.
func (s *Store) Get(ctx context.Context, id string) (*dataprotect.EncryptedData, error) {
	ctxWithTimeout, cancel := s.mongoClient.ContextWithTimeout(ctx)
	defer cancel()

	doc := &mongoDocument{}

	err := s.collection().FindOne(ctxWithTimeout, bson.M{idFieldName: id}).Decode(doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, trusterr.Newf(trusterr.NotFound, "get record", "record %s does not exist", id)
		}

		return nil, trusterr.New(trusterr.Unavailable, "get record", err)
	}

	return &dataprotect.EncryptedData{Envelope: doc.Envelope, Compression: doc.Compression}, nil
}

// Delete removes the record.
func (s *Store) Delete(ctx context.Context, id string) error {
	ctxWithTimeout, cancel := s.mongoClient.ContextWithTimeout(ctx)
	defer cancel()

	res, err := s.collection().DeleteOne(ctxWithTimeout, bson.M{idFieldName: id})
	if err != nil {
		return trusterr.New(trusterr.Unavailable, "delete record", err)
	}

	if res.DeletedCount == 0 {
		return trusterr.Newf(trusterr.NotFound, "delete record", "record %s does not exist", id)
	}

	return nil
}

func (s *Store) collection() *mongo.Collection {
	return s.mongoClient.Collection(collectionName)
}

func toDocument(id string, data *dataprotect.EncryptedData) *mongoDocument {
	return &mongoDocument{
		ID:          id,
		Envelope:    data.Envelope,
		Compression: data.Compression,
		UpdatedAt:   time.Now().UTC(),
	}
}
