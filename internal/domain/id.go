package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ProjectID identifies a repository by its "owner/name" path. Some API
// endpoints return it as a string, others as a number, so it accepts both
// on the wire.
type ProjectID struct {
	value string
}

func NewProjectID(v string) ProjectID { return ProjectID{value: v} }

func (id ProjectID) String() string { return id.value }
func (id ProjectID) IsZero() bool   { return id.value == "" }

func (id *ProjectID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		id.value = s
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("project id: expected string or number, got %s", string(b))
	}
	id.value = n.String()
	return nil
}

func (id ProjectID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.value)
}

// PipelineID identifies one workflow run.
type PipelineID struct {
	value uint64
}

func NewPipelineID(v uint64) PipelineID { return PipelineID{value: v} }

func (id PipelineID) String() string { return strconv.FormatUint(id.value, 10) }
func (id PipelineID) IsZero() bool   { return id.value == 0 }

func (id *PipelineID) UnmarshalJSON(b []byte) error {
	v, err := parseNumericID(b, "pipeline id")
	if err != nil {
		return err
	}
	id.value = v
	return nil
}

func (id PipelineID) MarshalJSON() ([]byte, error) {
	return []byte(id.String()), nil
}

// JobID identifies one job within a workflow run.
type JobID struct {
	value uint64
}

func NewJobID(v uint64) JobID { return JobID{value: v} }

func (id JobID) String() string { return strconv.FormatUint(id.value, 10) }
func (id JobID) IsZero() bool   { return id.value == 0 }

// Less reports numeric ordering, used when sorting job lists.
func (id JobID) Less(other JobID) bool { return id.value < other.value }

func (id *JobID) UnmarshalJSON(b []byte) error {
	v, err := parseNumericID(b, "job id")
	if err != nil {
		return err
	}
	id.value = v
	return nil
}

func (id JobID) MarshalJSON() ([]byte, error) {
	return []byte(id.String()), nil
}

// parseNumericID accepts both 123 and "123".
func parseNumericID(b []byte, what string) (uint64, error) {
	s := strings.Trim(string(b), `"`)
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: expected string or number, got %s", what, string(b))
	}
	return v, nil
}
