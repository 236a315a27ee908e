package aggregates

// WriteTxOwnership says who opens the transaction a catalog write commits in.
type WriteTxOwnership string

const (
	// WriteTxOwnedByAggregate: the aggregate opens and commits the
	// transaction. Callers never pass one in.
	WriteTxOwnedByAggregate WriteTxOwnership = "aggregate_owned"
)

// ReadPolicy says which reads an aggregate performs.
type ReadPolicy string

const (
	// ReadPolicyInvariantScoped allows only the reads a write needs to check
	// uniqueness and references. List views read table repos directly.
	ReadPolicyInvariantScoped ReadPolicy = "invariant_scoped_reads"
)

// Contract is the policy an aggregate declares. App wiring logs it at startup.
type Contract struct {
	Name             string
	WriteTxOwnership WriteTxOwnership
	ReadPolicy       ReadPolicy
	Notes            string
}

type Aggregate interface {
	Contract() Contract
}

func (c Contract) RequiresAggregateOwnedTx() bool {
	return c.WriteTxOwnership == WriteTxOwnedByAggregate
}
