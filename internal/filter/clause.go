package filter

import "strings"

// Field identifies the user attribute a clause filters on.
// Values match the labels sent by the dashboard filter UI.
type Field string

const (
	FieldID        Field = "ID"
	FieldName      Field = "Nome"
	FieldPhone     Field = "Telefone"
	FieldIsActive  Field = "Status"
	FieldCreatedAt Field = "Data de cadastro"
)

// Operator is the comparison requested by a clause.
type Operator string

const (
	OpEquals      Operator = "é"
	OpOr          Operator = "ou"
	OpContains    Operator = "contém"
	OpGreaterThan Operator = "maior que"
	OpLessThan    Operator = "menor que"
)

// Fields lists all filterable fields in display order
var Fields = []Field{FieldID, FieldName, FieldPhone, FieldIsActive, FieldCreatedAt}

var fieldAliases = map[string]Field{
	"id":               FieldID,
	"nome":             FieldName,
	"name":             FieldName,
	"telefone":         FieldPhone,
	"phone":            FieldPhone,
	"status":           FieldIsActive,
	"isactive":         FieldIsActive,
	"is_active":        FieldIsActive,
	"data de cadastro": FieldCreatedAt,
	"createdat":        FieldCreatedAt,
	"created_at":       FieldCreatedAt,
}

var operatorAliases = map[string]Operator{
	"é":           OpEquals,
	"equals":      OpEquals,
	"eq":          OpEquals,
	"ou":          OpOr,
	"or":          OpOr,
	"contém":      OpContains,
	"contains":    OpContains,
	"maior que":   OpGreaterThan,
	"greaterthan": OpGreaterThan,
	"gt":          OpGreaterThan,
	"menor que":   OpLessThan,
	"lessthan":    OpLessThan,
	"lt":          OpLessThan,
}

var legalOperators = map[Field][]Operator{
	FieldID:        {OpEquals},
	FieldName:      {OpEquals, OpContains},
	FieldPhone:     {OpEquals, OpContains},
	FieldIsActive:  {OpEquals},
	FieldCreatedAt: {OpEquals, OpGreaterThan, OpLessThan},
}

// ParseField resolves a UI label or an English alias, case-insensitively
func ParseField(s string) (Field, bool) {
	f, ok := fieldAliases[strings.ToLower(strings.TrimSpace(s))]
	return f, ok
}

// ParseOperator resolves a UI label or an English alias, case-insensitively
func ParseOperator(s string) (Operator, bool) {
	op, ok := operatorAliases[strings.ToLower(strings.TrimSpace(s))]
	return op, ok
}

// LegalOperators returns the comparison operators the UI offers for a field.
// Or is accepted on every field as a join marker and is not listed.
func LegalOperators(f Field) []Operator {
	ops := legalOperators[f]
	out := make([]Operator, len(ops))
	copy(out, ops)
	return out
}

// Clause is a single {field, operator, value} filter entry.
// Only the value matching the field's kind is consulted.
type Clause struct {
	Field        Field
	Operator     Operator
	Value        *string
	DateValue    *string
	BooleanValue *bool
}

// ValueKind names which value of a Clause a field consults
type ValueKind string

const (
	KindNumber  ValueKind = "number"
	KindText    ValueKind = "text"
	KindBoolean ValueKind = "boolean"
	KindDate    ValueKind = "date"
)

// KindOf returns the value kind of a field, empty for unknown fields
func KindOf(f Field) ValueKind {
	switch f {
	case FieldID:
		return KindNumber
	case FieldName, FieldPhone:
		return KindText
	case FieldIsActive:
		return KindBoolean
	case FieldCreatedAt:
		return KindDate
	}
	return ""
}
