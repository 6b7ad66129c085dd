// Package filter compiles dashboard filter clauses into SQL predicates.
//
// Compilation is permissive per clause: a clause without a usable value for
// its field is dropped, never reported. Surviving clauses are chained in input
// order; a clause whose operator is Or joins the chain with OR, every other
// clause joins with AND. There is no grouping: the lowered expression is the
// fragments joined left to right and SQL precedence applies.
package filter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrCompileFault is returned when a chain cannot be lowered to SQL
var ErrCompileFault = errors.New("filter compile fault")

// JoinMode is the keyword linking a predicate to the chain before it
type JoinMode int

const (
	JoinAnd JoinMode = iota
	JoinOr
)

func (j JoinMode) String() string {
	if j == JoinOr {
		return "OR"
	}
	return "AND"
}

// Predicate is a compiled clause: a condition bound to named parameters
type Predicate struct {
	Condition string
	Params    map[string]any
}

// Link is a predicate plus the join mode that attaches it to the chain.
// The join mode of the first link is never rendered.
type Link struct {
	Predicate Predicate
	Join      JoinMode
}

// PredicateChain is the ordered result of Compile
type PredicateChain struct {
	links []Link
}

// NoPredicate means "no filtering": every row, default ordering
var NoPredicate = PredicateChain{}

// IsEmpty reports whether the chain is the NoPredicate sentinel
func (c PredicateChain) IsEmpty() bool {
	return len(c.links) == 0
}

// Len returns the number of compiled predicates
func (c PredicateChain) Len() int {
	return len(c.links)
}

// Links returns a copy of the chain's links
func (c PredicateChain) Links() []Link {
	out := make([]Link, len(c.links))
	copy(out, c.links)
	return out
}

// Where lowers the chain into a WHERE expression with named parameters.
// The sentinel lowers to an empty expression.
func (c PredicateChain) Where() (string, map[string]any, error) {
	if c.IsEmpty() {
		return "", map[string]any{}, nil
	}

	var sb strings.Builder
	params := make(map[string]any)

	for i, link := range c.links {
		if strings.TrimSpace(link.Predicate.Condition) == "" {
			return "", nil, fmt.Errorf("%w: empty condition at position %d", ErrCompileFault, i)
		}
		if i > 0 {
			sb.WriteString(" ")
			sb.WriteString(link.Join.String())
			sb.WriteString(" ")
		}
		sb.WriteString("(")
		sb.WriteString(link.Predicate.Condition)
		sb.WriteString(")")

		for name, value := range link.Predicate.Params {
			if _, exists := params[name]; exists {
				return "", nil, fmt.Errorf("%w: duplicate parameter %q", ErrCompileFault, name)
			}
			params[name] = value
		}
	}

	return sb.String(), params, nil
}

// Compile turns clauses into a predicate chain, dropping the ones that carry
// no usable value. It never fails.
func Compile(clauses []Clause) PredicateChain {
	chain, _ := CompileWithStats(clauses)
	return chain
}

// CompileWithStats is Compile that also reports how many clauses were dropped
func CompileWithStats(clauses []Clause) (PredicateChain, int) {
	var links []Link
	dropped := 0
	isFirstCondition := true

	for _, clause := range clauses {
		pred, ok := compileClause(clause, len(links))
		if !ok {
			dropped++
			continue
		}

		join := JoinAnd
		if clause.Operator == OpOr && !isFirstCondition {
			join = JoinOr
		}
		links = append(links, Link{Predicate: pred, Join: join})
		isFirstCondition = false
	}

	if len(links) == 0 {
		return NoPredicate, dropped
	}
	return PredicateChain{links: links}, dropped
}

// compileClause builds the predicate for a single clause. seq is the clause's
// position in the chain and keeps parameter names unique.
func compileClause(c Clause, seq int) (Predicate, bool) {
	switch c.Field {
	case FieldID:
		if c.Value == nil {
			return Predicate{}, false
		}
		id, err := strconv.ParseInt(strings.TrimSpace(*c.Value), 10, 64)
		if err != nil {
			return Predicate{}, false
		}
		name := param("id", seq)
		return Predicate{
			Condition: "id = :" + name,
			Params:    map[string]any{name: id},
		}, true

	case FieldName:
		if c.Value == nil {
			return Predicate{}, false
		}
		name := param("name", seq)
		if c.Operator == OpEquals {
			return Predicate{
				Condition: "LOWER(name) = LOWER(:" + name + ")",
				Params:    map[string]any{name: *c.Value},
			}, true
		}
		return Predicate{
			Condition: "LOWER(name) LIKE LOWER(:" + name + ")",
			Params:    map[string]any{name: "%" + *c.Value + "%"},
		}, true

	case FieldPhone:
		if c.Value == nil {
			return Predicate{}, false
		}
		name := param("phone", seq)
		if c.Operator == OpContains {
			return Predicate{
				Condition: "phone LIKE :" + name,
				Params:    map[string]any{name: "%" + *c.Value + "%"},
			}, true
		}
		return Predicate{
			Condition: "phone = :" + name,
			Params:    map[string]any{name: *c.Value},
		}, true

	case FieldIsActive:
		if c.BooleanValue == nil {
			return Predicate{}, false
		}
		name := param("is_active", seq)
		return Predicate{
			Condition: "is_active = :" + name,
			Params:    map[string]any{name: *c.BooleanValue},
		}, true

	case FieldCreatedAt:
		if c.DateValue == nil {
			return Predicate{}, false
		}
		date, ok := ParseDate(*c.DateValue)
		if !ok {
			return Predicate{}, false
		}
		name := param("created_at", seq)
		var cond string
		switch c.Operator {
		case OpGreaterThan:
			cond = "created_at > :" + name
		case OpLessThan:
			cond = "created_at < :" + name
		default:
			cond = "DATE(created_at) = DATE(:" + name + ")"
		}
		return Predicate{
			Condition: cond,
			Params:    map[string]any{name: date},
		}, true
	}

	return Predicate{}, false
}

func param(base string, seq int) string {
	return fmt.Sprintf("%s_%d", base, seq)
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseDate accepts a calendar date or a timestamp in the formats the UI
// date pickers produce
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
