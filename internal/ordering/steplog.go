package ordering

import (
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// StepResult is one entry of the placement log attached to the order; it
// records whether a saga step committed and why not.
type StepResult struct {
	Step   string    `json:"step"`
	OK     bool      `json:"ok"`
	Detail string    `json:"detail,omitempty"`
	At     time.Time `json:"at"`
}

type stepLog struct {
	steps []StepResult
}

func (l *stepLog) add(step string, ok bool, detail string) {
	l.steps = append(l.steps, StepResult{
		Step:   step,
		OK:     ok,
		Detail: detail,
		At:     time.Now(),
	})
}

// JSON marshals the accumulated step results; marshal failure yields an
// empty string and the log is simply not attached.
func (l *stepLog) JSON() string {
	out, err := json.MarshalToString(l.steps)
	if err != nil {
		return ""
	}
	return out
}

// ParsePlacementLog decodes a stored placement log column.
func ParsePlacementLog(raw string) ([]StepResult, error) {
	var steps []StepResult
	if raw == "" {
		return steps, nil
	}
	err := json.UnmarshalFromString(raw, &steps)
	return steps, err
}
