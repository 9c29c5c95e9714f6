package dataType

import "errors"

var (
	ErrInvalidMaxTTL           = errors.New("max TTL must be greater than 0")
	ErrInvalidRelayProbability = errors.New("relay probability must be within [0, 1]")
	ErrInvalidBeaconInterval   = errors.New("beacon interval must be greater than 0")
	ErrInvalidRouteTimeout     = errors.New("route timeout must be greater than 0")
	ErrInvalidCacheCapacity    = errors.New("cache capacity must be greater than 0")
)

// DefaultCacheCapacity bounds the duplicate suppression cache.
const DefaultCacheCapacity = 1000

// ProtocolParams are read once at node start.
type ProtocolParams struct {
	MaxTTL           int
	RelayProbability float64
	BeaconInterval   SimTime
	RouteTimeout     SimTime
	CacheCapacity    int
}

// Validate rejects values that would make the flood misbehave.
func (p ProtocolParams) Validate() error {
	if p.MaxTTL <= 0 {
		return ErrInvalidMaxTTL
	}
	if p.RelayProbability < 0 || p.RelayProbability > 1 {
		return ErrInvalidRelayProbability
	}
	if p.BeaconInterval <= 0 {
		return ErrInvalidBeaconInterval
	}
	if p.RouteTimeout <= 0 {
		return ErrInvalidRouteTimeout
	}
	if p.CacheCapacity <= 0 {
		return ErrInvalidCacheCapacity
	}
	return nil
}
