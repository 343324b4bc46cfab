package backend

import "slices"

// Capability represents a capability that a backend can provide
type Capability string

const (
	CapabilityObjectStorage Capability = "object_storage"
	// Listing is grouped by the store itself instead of client side.
	CapabilityDelimiter Capability = "delimiter"
	// Objects survive a restart of the process.
	CapabilityPersistent Capability = "persistent"
	// The store keeps the content type of uploaded objects.
	CapabilityContentType Capability = "content_type"
)

// Capabilities describes what a backend supports
type Capabilities struct {
	Capabilities []Capability `json:"capabilities"`
	// MaxObjectSize limits the size of a single object, 0 means unlimited.
	MaxObjectSize int64 `json:"max_object_size"`
}

// Contains checks if a capability is supported
func (c *Capabilities) Contains(cap Capability) bool {
	return slices.Contains(c.Capabilities, cap)
}

// Allows reports whether an object of size bytes can be stored.
func (c *Capabilities) Allows(size int64) bool {
	return c.MaxObjectSize <= 0 || size <= c.MaxObjectSize
}
