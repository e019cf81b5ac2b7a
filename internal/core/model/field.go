package model

// Kind is the value type a field accepts.
type Kind int

const (
	KindString Kind = iota + 1
	KindNumber
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	default:
		return "unknown"
	}
}

// Field is a filterable movie attribute. Names use the document store's dotted path notation.
type Field string

const (
	FieldGenre            Field = "genres.name"
	FieldKeyword          Field = "keywords.name"
	FieldVoteAverage      Field = "vote_average"
	FieldRuntime          Field = "runtime"
	FieldOriginalLanguage Field = "original_language"
)

// Fields lists the schema in prompt order.
var Fields = []Field{
	FieldGenre,
	FieldKeyword,
	FieldVoteAverage,
	FieldRuntime,
	FieldOriginalLanguage,
}

var fieldKinds = map[Field]Kind{
	FieldGenre:            KindString,
	FieldKeyword:          KindString,
	FieldVoteAverage:      KindNumber,
	FieldRuntime:          KindNumber,
	FieldOriginalLanguage: KindString,
}

// LookupField returns the schema field with the given name.
func LookupField(name string) (Field, bool) {
	f := Field(name)
	_, ok := fieldKinds[f]
	return f, ok
}

func (f Field) Kind() Kind { return fieldKinds[f] }

// Operator is a comparison applied to a field value.
type Operator string

const (
	OpEq  Operator = "$eq"
	OpNe  Operator = "$ne"
	OpGt  Operator = "$gt"
	OpGte Operator = "$gte"
	OpLt  Operator = "$lt"
	OpLte Operator = "$lte"
)

var operatorKinds = map[Operator][]Kind{
	OpEq:  {KindString, KindNumber},
	OpNe:  {KindString, KindNumber},
	OpGt:  {KindNumber},
	OpGte: {KindNumber},
	OpLt:  {KindNumber},
	OpLte: {KindNumber},
}

// LookupOperator returns the operator with the given name.
func LookupOperator(name string) (Operator, bool) {
	op := Operator(name)
	_, ok := operatorKinds[op]
	return op, ok
}

// Supports reports whether the operator can be applied to values of kind k.
func (o Operator) Supports(k Kind) bool {
	for _, allowed := range operatorKinds[o] {
		if allowed == k {
			return true
		}
	}
	return false
}

// OperatorsFor lists the operators allowed on a field of kind k.
func OperatorsFor(k Kind) []Operator {
	var ops []Operator
	for _, op := range []Operator{OpEq, OpNe, OpGt, OpGte, OpLt, OpLte} {
		if op.Supports(k) {
			ops = append(ops, op)
		}
	}
	return ops
}
