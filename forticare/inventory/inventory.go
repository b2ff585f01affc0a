// Package inventory records the assets registered by a run so operators can
// reconcile serial numbers, registration codes and management addresses later.
//
// It is an output sink: nothing here is read back to skip or resume registrations.
package inventory

import (
	"context"
	"time"
)

// Asset is one successfully registered license.
type Asset struct {
	Serial           string    `json:"serial" bson:"serial" cbor:"1,keyasint"`
	SKU              string    `json:"sku" bson:"sku" cbor:"2,keyasint"`
	RegistrationCode string    `json:"registration_code" bson:"registration_code" cbor:"3,keyasint"`
	IPv4             string    `json:"ipv4,omitempty" bson:"ipv4" cbor:"4,keyasint,omitempty"`
	LicensePath      string    `json:"license_path,omitempty" bson:"license_path" cbor:"5,keyasint,omitempty"`
	RunID            string    `json:"run_id" bson:"run_id" cbor:"6,keyasint"`
	RegisteredAt     time.Time `json:"registered_at" bson:"registered_at" cbor:"7,keyasint"`
}

// Store persists registered assets.
type Store interface {
	// Record creates or replaces the asset with the same serial.
	Record(ctx context.Context, asset Asset) error

	// Get returns the asset with the given serial, or ErrNotFound.
	Get(ctx context.Context, serial string) (*Asset, error)

	// List returns the assets recorded by a run, in registration order.
	// An empty runID lists every asset.
	List(ctx context.Context, runID string) ([]Asset, error)

	// Count returns the number of recorded assets.
	Count(ctx context.Context) (int, error)

	// Close releases any resources held by the store.
	Close(ctx context.Context) error
}
