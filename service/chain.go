package service

import "github.com/golineage/lineage"

// RelationChain implements lineage.Relation by consulting several
// relations in order. A pair is related as soon as any member says so;
// transitivity across members is not computed.
type RelationChain struct {
	relations []lineage.Relation
}

// NewRelationChain creates a chain over the given relations.
func NewRelationChain(relations ...lineage.Relation) *RelationChain {
	return &RelationChain{relations: relations}
}

// DerivesFrom tries each relation until one claims the pair.
func (c *RelationChain) DerivesFrom(ancestorID, id string) bool {
	for _, rel := range c.relations {
		if rel.DerivesFrom(ancestorID, id) {
			return true
		}
	}
	return false
}

// Add appends a relation to the chain.
func (c *RelationChain) Add(rel lineage.Relation) {
	c.relations = append(c.relations, rel)
}

// IdentityRelation relates every entity only to itself.
type IdentityRelation struct{}

// DerivesFrom returns true only when both IDs are equal.
func (IdentityRelation) DerivesFrom(ancestorID, id string) bool {
	return ancestorID == id
}

// Verify interface compliance
var (
	_ lineage.Relation = (*RelationChain)(nil)
	_ lineage.Relation = IdentityRelation{}
)
