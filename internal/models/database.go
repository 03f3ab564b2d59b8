package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/timshannon/bolthold"
	"go.etcd.io/bbolt"
)

// Fixed store keys. One profile blob per signed-in session, one preferences
// record; mirrors the original's single localStorage entry per concern.
const (
	profileKey     = "streamflix_user"
	preferencesKey = "streamflix_prefs"
)

// Preferences holds small persisted flags independent of the profile
type Preferences struct {
	DarkTheme bool
}

// Database wraps the bolthold store
type Database struct {
	store *bolthold.Store
}

// NewDatabase creates a new database connection
func NewDatabase(path string) (*Database, error) {
	store, err := bolthold.Open(path, 0600, &bolthold.Options{
		Options: &bbolt.Options{
			Timeout: 1 * time.Second,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Database{store: store}, nil
}

// Close closes the database connection
func (db *Database) Close() error {
	return db.store.Close()
}

// Profile operations

// SaveProfile persists the full profile blob, replacing any prior record
func (db *Database) SaveProfile(profile *UserProfile) error {
	profile.UpdatedAt = time.Now()
	return db.store.Upsert(profileKey, profile)
}

// GetProfile retrieves the current profile, or nil if signed out
func (db *Database) GetProfile() (*UserProfile, error) {
	var profile UserProfile
	err := db.store.Get(profileKey, &profile)
	if errors.Is(err, bolthold.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// DeleteProfile removes the durable profile record
func (db *Database) DeleteProfile() error {
	err := db.store.Delete(profileKey, &UserProfile{})
	if errors.Is(err, bolthold.ErrNotFound) {
		return nil
	}
	return err
}

// Preference operations

// SavePreferences persists the preference flags
func (db *Database) SavePreferences(prefs *Preferences) error {
	return db.store.Upsert(preferencesKey, prefs)
}

// GetPreferences retrieves the preference flags, defaulting when unset
func (db *Database) GetPreferences() (*Preferences, error) {
	var prefs Preferences
	err := db.store.Get(preferencesKey, &prefs)
	if errors.Is(err, bolthold.ErrNotFound) {
		return &Preferences{}, nil
	}
	if err != nil {
		return nil, err
	}
	return &prefs, nil
}
