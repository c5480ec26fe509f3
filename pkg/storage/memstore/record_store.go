/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package memstore provides in-memory stores for development and tests.
package memstore

import (
	"context"
	"sync"

	"github.com/trustbloc/batterypass/pkg/dataprotect"
	"github.com/trustbloc/batterypass/pkg/trusterr"
)

// RecordStore keeps sealed records in a map.
type RecordStore struct {
	mu      sync.RWMutex
	records map[string]*dataprotect.EncryptedData
}

// NewRecordStore creates an empty RecordStore.
func NewRecordStore() *RecordStore {
	return &RecordStore{records: map[string]*dataprotect.EncryptedData{}}
}

func (s *RecordStore) Create(_ context.Context, id string, data *dataprotect.EncryptedData) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; ok {
		return trusterr.Newf(trusterr.Conflict, "create record", "record %s already exists", id)
	}

	s.records[id] = clone(data)

	return nil
}

func (s *RecordStore) Update(_ context.Context, id string, data *dataprotect.EncryptedData) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return trusterr.Newf(trusterr.NotFound, "update record", "record %s does not exist", id)
	}

	s.records[id] = clone(data)

	return nil
}

func (s *RecordStore) Get(_ context.Context, id string) (*dataprotect.EncryptedData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.records[id]
	if !ok {
		return nil, trusterr.Newf(trusterr.NotFound, "get record", "record %s does not exist", id)
	}

	return clone(data), nil
}

func (s *RecordStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return trusterr.Newf(trusterr.NotFound, "delete record", "record %s does not exist", id)
	}

	delete(s.records, id)

	return nil
}

func clone(data *dataprotect.EncryptedData) *dataprotect.EncryptedData {
	cp := *data

	if data.Envelope != nil {
		env := *data.Envelope
		cp.Envelope = &env
	}

	return &cp
}
