package query

// Field names a sortable or filterable attribute of a record. Some fields
// are relations or derived values that only a store can evaluate.
type Field string

const (
	FieldID             Field = "id"
	FieldParentID       Field = "parent_id"
	FieldAuthorID       Field = "author_id"
	FieldTitle          Field = "title"
	FieldName           Field = "name"
	FieldScore          Field = "score"
	FieldMarked         Field = "marked"
	FieldDeleted        Field = "deleted"
	FieldAddedAt        Field = "added_at"
	FieldLastActivityAt Field = "last_activity_at"
	FieldUsedCount      Field = "used_count"

	// FieldText matches keywords against the record's title and body.
	FieldText Field = "text"
	// FieldTagIDs is the set of tag identifiers attached to a question.
	FieldTagIDs Field = "tag_ids"
	// FieldAnsweredBy relates a question to the authors of its answers.
	FieldAnsweredBy Field = "answered_by"
	// FieldSubscribedBy relates a question to its subscribers.
	FieldSubscribedBy Field = "subscribed_by"
	// FieldLiveAnswers relates a question to its non-deleted answers.
	FieldLiveAnswers Field = "live_answers"

	// FieldRecentChildren is derived by an Activity annotation.
	FieldRecentChildren Field = "recent_children"
	// FieldRank is derived by a ranked TextSearch.
	FieldRank Field = "rank"
)

// Op is a comparison operator.
type Op int

const (
	OpEq Op = iota
	OpLt
	OpGt
	// OpIn matches a scalar field against a list of values.
	OpIn
	// OpAnyOf matches a set field that shares at least one value with the list.
	OpAnyOf
	// OpContains is a case-insensitive substring match.
	OpContains
	// OpExists matches when the relation named by Field holds for Value.
	OpExists
)

func (o Op) String() string {
	switch o {
	case OpEq:
		return "eq"
	case OpLt:
		return "lt"
	case OpGt:
		return "gt"
	case OpIn:
		return "in"
	case OpAnyOf:
		return "any_of"
	case OpContains:
		return "contains"
	case OpExists:
		return "exists"
	default:
		return "unknown"
	}
}

// Condition is a predicate over a single record. A condition with Any or
// All set is a disjunction or conjunction of its children and ignores
// Field, Op and Value.
type Condition struct {
	Field  Field
	Op     Op
	Value  any
	Negate bool
	Any    []Condition
	All    []Condition
}

// IsGroup reports whether c combines other conditions.
func (c Condition) IsGroup() bool {
	return c.Any != nil || c.All != nil
}

func Eq(f Field, v any) Condition { return Condition{Field: f, Op: OpEq, Value: v} }
func Lt(f Field, v any) Condition { return Condition{Field: f, Op: OpLt, Value: v} }
func Gt(f Field, v any) Condition { return Condition{Field: f, Op: OpGt, Value: v} }
func In(f Field, v []int64) Condition { return Condition{Field: f, Op: OpIn, Value: v} }
func AnyOf(f Field, v []int64) Condition { return Condition{Field: f, Op: OpAnyOf, Value: v} }
func Contains(f Field, s string) Condition {
	return Condition{Field: f, Op: OpContains, Value: s}
}

// Exists builds a relation condition. arg is the relation argument, for
// example a user ID for FieldAnsweredBy; it may be nil.
func Exists(f Field, arg any) Condition {
	return Condition{Field: f, Op: OpExists, Value: arg}
}

// Not inverts c.
func Not(c Condition) Condition {
	c.Negate = !c.Negate
	return c
}

// Or matches when any child matches. Or() with no children matches nothing.
func Or(conds ...Condition) Condition {
	if conds == nil {
		conds = []Condition{}
	}
	return Condition{Any: conds}
}

// And matches when every child matches.
func And(conds ...Condition) Condition {
	if conds == nil {
		conds = []Condition{}
	}
	return Condition{All: conds}
}
