package core

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// notComputableLabel is how NotComputable values appear on the wire.
const notComputableLabel = "N/A"

// Cost is either a computed amount or NotComputable.
type Cost struct {
	amount float64
	known  bool
}

// NotComputable is the Cost returned when inputs do not allow a finite result.
var NotComputable = Cost{}

// Computable wraps a finite amount. Non-finite amounts collapse to NotComputable.
func Computable(amount float64) Cost {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return NotComputable
	}
	return Cost{amount: amount, known: true}
}

// Amount returns the value and whether it was computable.
func (c Cost) Amount() (float64, bool) {
	return c.amount, c.known
}

// IsComputable reports whether the cost carries a number.
func (c Cost) IsComputable() bool {
	return c.known
}

func (c Cost) String() string {
	if !c.known {
		return notComputableLabel
	}
	return strconv.FormatFloat(c.amount, 'f', -1, 64)
}

func (c Cost) MarshalJSON() ([]byte, error) {
	if !c.known {
		return json.Marshal(notComputableLabel)
	}
	return json.Marshal(c.amount)
}

func (c *Cost) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if v, ok := ParseNumber(raw); ok {
		*c = Computable(v)
		return nil
	}
	*c = NotComputable
	return nil
}

// Cheaper is the robot-vs-human verdict, undefined when the robot cost is NotComputable.
type Cheaper struct {
	value bool
	known bool
}

// CheaperUnknown is the verdict for robots whose cost could not be computed.
var CheaperUnknown = Cheaper{}

// CompareToHuman returns whether cost is strictly below the human cost per minute.
func CompareToHuman(cost Cost, humanCostPerMin float64) Cheaper {
	amount, ok := cost.Amount()
	if !ok {
		return CheaperUnknown
	}
	return Cheaper{value: amount < humanCostPerMin, known: true}
}

// Value returns the verdict and whether it is known.
func (c Cheaper) Value() (bool, bool) {
	return c.value, c.known
}

func (c Cheaper) MarshalJSON() ([]byte, error) {
	if !c.known {
		return json.Marshal(notComputableLabel)
	}
	return json.Marshal(c.value)
}

func (c *Cheaper) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if b, ok := raw.(bool); ok {
		*c = Cheaper{value: b, known: true}
		return nil
	}
	*c = CheaperUnknown
	return nil
}

// ParseNumber coerces a decoded JSON/YAML value into a finite float64.
// Numeric strings are accepted; anything else, NaN and ±Inf are rejected.
func ParseNumber(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// TaskID is a task reference from generated output. Generators sometimes quote
// numbers, so both 3 and "3" decode to the same id.
type TaskID int

func (id *TaskID) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	f, ok := ParseNumber(raw)
	if !ok || f != math.Trunc(f) {
		return fmt.Errorf("task_id %s is not an integer", string(data))
	}
	*id = TaskID(int(f))
	return nil
}
