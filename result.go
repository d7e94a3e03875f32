package pipe80

import (
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
)

// Result summarizes one pipeline run: the rendered output text plus the
// record counts at the boundaries. The core never logs on its own behalf;
// Result implements slog.LogValuer so drivers can log runs structurally.
type Result struct {
	RunID       uuid.UUID
	Output      string
	InputCount  int
	OutputCount int
}

// LogValue implements slog.LogValuer for structured driver logging.
func (r *Result) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("run_id", r.RunID.String()),
		slog.Int("input_records", r.InputCount),
		slog.Int("output_records", r.OutputCount),
	)
}

// resultJSON is the JSON representation for marshaling Result.
type resultJSON struct {
	RunID       string `json:"run_id"`
	Output      string `json:"output"`
	InputCount  int    `json:"input_records"`
	OutputCount int    `json:"output_records"`
}

// MarshalJSON implements json.Marshaler.
func (r *Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(resultJSON{
		RunID:       r.RunID.String(),
		Output:      r.Output,
		InputCount:  r.InputCount,
		OutputCount: r.OutputCount,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Result) UnmarshalJSON(data []byte) error {
	var v resultJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	id, err := uuid.Parse(v.RunID)
	if err != nil {
		return err
	}
	r.RunID = id
	r.Output = v.Output
	r.InputCount = v.InputCount
	r.OutputCount = v.OutputCount
	return nil
}
