package condition

import (
	"fmt"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/rulego/groupbytime/types"
	"github.com/rulego/groupbytime/utils/timex"
	"github.com/spf13/cast"
)

type Condition interface {
	Evaluate(env interface{}) bool
}

var _ Condition = (*ExprCondition)(nil)

type ExprCondition struct {
	program *vm.Program
}

// rangeEnv is the variable set visible to range expressions
type rangeEnv struct {
	Start int64 `expr:"start"`
	End   int64 `expr:"end"`
	Width int64 `expr:"width"`
}

func NewExprCondition(expression string, options ...expr.Option) (*ExprCondition, error) {
	options = append(options, expr.AsBool())
	program, err := expr.Compile(expression, options...)
	if err != nil {
		return nil, err
	}
	return &ExprCondition{program: program}, nil
}

func (ec *ExprCondition) Evaluate(env interface{}) bool {
	result, err := expr.Run(ec.program, env)
	if err != nil {
		return false
	}
	return result.(bool)
}

// RangeCondition filters time ranges with an expression over start, end and width.
// Calendar functions read timestamps in UTC at the configured precision:
//
//	year(ts) month(ts) day(ts) hour(ts) weekday(ts)
//	duration("1h") - a Go duration in timestamp ticks
//
// Example: width >= duration("24h") && month(start) == 2
type RangeCondition struct {
	expression string
	cond       *ExprCondition
}

// NewRangeCondition compiles expression against the range variables
func NewRangeCondition(expression string, p timex.Precision) (*RangeCondition, error) {
	if !p.IsValid() {
		return nil, fmt.Errorf("%w: %q", types.ErrInvalidPrecision, p)
	}
	cond, err := NewExprCondition(expression, append(rangeFunctions(p), expr.Env(rangeEnv{}))...)
	if err != nil {
		return nil, fmt.Errorf("compile range filter %q: %w", expression, err)
	}
	return &RangeCondition{expression: expression, cond: cond}, nil
}

// Match reports whether r satisfies the expression. Evaluation errors count as no match.
func (rc *RangeCondition) Match(r types.TimeRange) bool {
	return rc.cond.Evaluate(rangeEnv{Start: r.Min, End: r.Max, Width: r.Width()})
}

func (rc *RangeCondition) String() string {
	return rc.expression
}

func rangeFunctions(p timex.Precision) []expr.Option {
	calendar := func(name string, field func(t time.Time) int) expr.Option {
		return expr.Function(name, func(params ...any) (any, error) {
			if len(params) != 1 {
				return nil, fmt.Errorf("%s function requires 1 parameter", name)
			}
			ts, err := cast.ToInt64E(params[0])
			if err != nil {
				return nil, fmt.Errorf("%s function requires a timestamp: %w", name, err)
			}
			return field(timex.ToTime(ts, p)), nil
		})
	}
	return []expr.Option{
		calendar("year", func(t time.Time) int { return t.Year() }),
		calendar("month", func(t time.Time) int { return int(t.Month()) }),
		calendar("day", func(t time.Time) int { return t.Day() }),
		calendar("hour", func(t time.Time) int { return t.Hour() }),
		calendar("weekday", func(t time.Time) int { return int(t.Weekday()) }),
		expr.Function("duration", func(params ...any) (any, error) {
			if len(params) != 1 {
				return nil, fmt.Errorf("duration function requires 1 parameter")
			}
			s, ok := params[0].(string)
			if !ok {
				return nil, fmt.Errorf("duration function requires a string parameter")
			}
			d, err := time.ParseDuration(s)
			if err != nil {
				return nil, err
			}
			return p.FromDuration(d), nil
		}),
	}
}
