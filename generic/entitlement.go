/*
entitlement.go - Entitlement type registration and lookup

PURPOSE:
  Provides a registry for domain packages to register their entitlement
  types. This enables deserialization from storage/JSON back to concrete
  types while keeping this package domain-agnostic.

HOW IT WORKS:
  1. Domain packages define their Entitlement implementations
  2. Domain packages register them on init()
  3. Storage and the API use the registry to reconstruct types

USAGE:
  // In leave/types.go
  func init() {
      generic.RegisterEntitlement(Annual)
      generic.RegisterEntitlement(Personal)
  }

  // In the store
  ent := generic.LookupEntitlement("annual_leave")  // returns leave.Annual
*/
package generic

import (
	"fmt"
	"sync"
)

// =============================================================================
// ENTITLEMENT REGISTRY
// =============================================================================

var (
	entitlementRegistry = make(map[string]Entitlement)
	registryMu          sync.RWMutex
)

// RegisterEntitlement adds an entitlement type to the global registry.
// Call this from domain package init() functions.
func RegisterEntitlement(e Entitlement) {
	registryMu.Lock()
	defer registryMu.Unlock()
	entitlementRegistry[e.EntitlementID()] = e
}

// LookupEntitlement finds a registered entitlement by ID. Returns nil if
// not found.
func LookupEntitlement(id string) Entitlement {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return entitlementRegistry[id]
}

// MustLookupEntitlement finds a registered entitlement or panics.
// Use in tests or when you're certain the entitlement exists.
func MustLookupEntitlement(id string) Entitlement {
	e := LookupEntitlement(id)
	if e == nil {
		panic(fmt.Sprintf("entitlement not registered: %s", id))
	}
	return e
}

// ListEntitlements returns all registered entitlement types.
func ListEntitlements() []Entitlement {
	registryMu.RLock()
	defer registryMu.RUnlock()
	result := make([]Entitlement, 0, len(entitlementRegistry))
	for _, e := range entitlementRegistry {
		result = append(result, e)
	}
	return result
}

// =============================================================================
// STRING ENTITLEMENT - For testing and fallback
// =============================================================================

// StringEntitlement is a simple string-based entitlement type.
// Use only for testing or as a fallback during deserialization when the
// owning domain package isn't loaded.
type StringEntitlement struct {
	ID     string
	Domain string
}

func (e StringEntitlement) EntitlementID() string     { return e.ID }
func (e StringEntitlement) EntitlementDomain() string { return e.Domain }

// GetOrCreateEntitlement looks up an entitlement, or creates a
// StringEntitlement fallback with "unknown" domain.
func GetOrCreateEntitlement(id string) Entitlement {
	if e := LookupEntitlement(id); e != nil {
		return e
	}
	return StringEntitlement{ID: id, Domain: "unknown"}
}
