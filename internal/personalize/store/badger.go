// Pulse - News Personalization and Trend Analytics
// Copyright 2026 NewsBot AI
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/newsbot-ai/pulse

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/newsbot-ai/pulse/internal/personalize"
)

// Keys for BadgerDB storage. State is two JSON blobs, rewritten whole.
const (
	profilesKey = "personalize:profiles"
	featuresKey = "personalize:features"
)

// BadgerRepository persists engine state in BadgerDB. Suitable for
// single-node production use with persistence across restarts.
type BadgerRepository struct {
	db     *badger.DB
	logger zerolog.Logger
}

// NewBadgerRepository creates a BadgerDB-backed repository on an open db.
func NewBadgerRepository(db *badger.DB, logger zerolog.Logger) *BadgerRepository {
	return &BadgerRepository{
		db:     db,
		logger: logger.With().Str("component", "personalize_store").Logger(),
	}
}

// Load reads both state blobs. A missing key loads as an empty map; a blob
// that fails to decode is logged and dropped so the engine can cold-start
// instead of refusing to boot.
func (r *BadgerRepository) Load(ctx context.Context) (map[string]*personalize.Profile, map[string]personalize.ArticleFeatures, error) {
	var profileData, featureData []byte

	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		if profileData, err = readBlob(txn, profilesKey); err != nil {
			return err
		}
		featureData, err = readBlob(txn, featuresKey)
		return err
	})
	if err != nil {
		return nil, nil, fmt.Errorf("load state: %w", err)
	}

	profiles := make(map[string]*personalize.Profile)
	if len(profileData) > 0 {
		if err := json.Unmarshal(profileData, &profiles); err != nil {
			r.logger.Error().Err(err).Str("key", profilesKey).Msg("discarding corrupt state blob")
			profiles = make(map[string]*personalize.Profile)
		}
	}

	features := make(map[string]personalize.ArticleFeatures)
	if len(featureData) > 0 {
		if err := json.Unmarshal(featureData, &features); err != nil {
			r.logger.Error().Err(err).Str("key", featuresKey).Msg("discarding corrupt state blob")
			features = make(map[string]personalize.ArticleFeatures)
		}
	}

	return profiles, features, nil
}

// readBlob copies one value out of the transaction. Not-found returns nil.
func readBlob(txn *badger.Txn, key string) ([]byte, error) {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return item.ValueCopy(nil)
}

// SaveAll rewrites both state blobs in a single transaction.
func (r *BadgerRepository) SaveAll(ctx context.Context, profiles map[string]*personalize.Profile, features map[string]personalize.ArticleFeatures) error {
	profileData, err := json.Marshal(profiles)
	if err != nil {
		return fmt.Errorf("marshal profiles: %w", err)
	}
	featureData, err := json.Marshal(features)
	if err != nil {
		return fmt.Errorf("marshal features: %w", err)
	}

	return r.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(profilesKey), profileData); err != nil {
			return fmt.Errorf("set %s: %w", profilesKey, err)
		}
		if err := txn.Set([]byte(featuresKey), featureData); err != nil {
			return fmt.Errorf("set %s: %w", featuresKey, err)
		}
		return nil
	})
}
