package query

// Collection is a lazily evaluated, narrowable set of rows.
//
// Every method returns a new Collection and leaves the receiver untouched.
// Several predicates passed to one call are combined with AND; Exclude
// negates that conjunction as a whole. Implementations defer errors (unknown
// attributes, unsupported lookups) until the collection is realised.
type Collection interface {
	Filter(preds ...Predicate) Collection
	Exclude(preds ...Predicate) Collection
	Distinct() Collection
}
