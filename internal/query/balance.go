package query

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Op is a balance comparison operator.
type Op string

const (
	OpEq  Op = "eq"
	OpLt  Op = "lt"
	OpLte Op = "lte"
	OpGt  Op = "gt"
	OpGte Op = "gte"
)

// Ops lists the operators in display order.
var Ops = []Op{OpEq, OpLt, OpLte, OpGt, OpGte}

func (o Op) valid() bool {
	for _, op := range Ops {
		if op == o {
			return true
		}
	}
	return false
}

// Symbol is the operator as shown in the filter bar.
func (o Op) Symbol() string {
	switch o {
	case OpEq:
		return "="
	case OpLt:
		return "<"
	case OpLte:
		return "≤"
	case OpGt:
		return ">"
	case OpGte:
		return "≥"
	}
	return string(o)
}

// Comparison is a decoded balance filter.
type Comparison struct {
	Op    Op
	Value decimal.Decimal
}

// ParseComparison decodes "<op>_<value>" by splitting on the first underscore.
func ParseComparison(s string) (Comparison, error) {
	op, value, ok := strings.Cut(strings.TrimSpace(s), "_")
	if !ok {
		return Comparison{}, fmt.Errorf("balance filter %q must look like <op>_<value>", s)
	}
	if !Op(op).valid() {
		return Comparison{}, fmt.Errorf("unknown balance operator %q", op)
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Comparison{}, fmt.Errorf("balance value %q is not a number", value)
	}
	return Comparison{Op: Op(op), Value: d}, nil
}

// String encodes the comparison back into its query form.
func (c Comparison) String() string {
	return string(c.Op) + "_" + c.Value.String()
}

// Equal compares numerically, so 500.50 equals 500.5.
func (c Comparison) Equal(o Comparison) bool {
	return c.Op == o.Op && c.Value.Equal(o.Value)
}
