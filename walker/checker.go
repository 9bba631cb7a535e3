package walker

import "github.com/golineage/lineage"

// Checker decides whether an instance can be viewed through the shape of
// an entity, returning the narrowed view on success.
type Checker interface {
	Check(e lineage.Entity, instance any) (any, bool)
}

// DefaultChecker narrows through the entity's own Narrow function.
// Entities without one accept every instance unchanged.
type DefaultChecker struct{}

// Check attempts the entity's narrowing cast.
func (DefaultChecker) Check(e lineage.Entity, instance any) (any, bool) {
	if e.Narrow == nil {
		return instance, true
	}
	return e.Narrow(instance)
}

// NullChecker accepts every instance unchanged. Walks use it when
// narrowing checks are disabled.
type NullChecker struct{}

// Check always passes.
func (NullChecker) Check(_ lineage.Entity, instance any) (any, bool) {
	return instance, true
}

// Verify interface compliance
var _ Checker = DefaultChecker{}
var _ Checker = NullChecker{}
