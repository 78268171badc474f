package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectID_UnmarshalStringAndNumber(t *testing.T) {
	var fromString ProjectID
	require.NoError(t, json.Unmarshal([]byte(`"acme/widgets"`), &fromString))
	assert.Equal(t, "acme/widgets", fromString.String())

	var fromNumber ProjectID
	require.NoError(t, json.Unmarshal([]byte(`12345`), &fromNumber))
	assert.Equal(t, "12345", fromNumber.String())

	var bad ProjectID
	assert.Error(t, json.Unmarshal([]byte(`true`), &bad))
}

func TestProjectID_MarshalRoundTrip(t *testing.T) {
	b, err := json.Marshal(NewProjectID("acme/widgets"))
	require.NoError(t, err)
	assert.Equal(t, `"acme/widgets"`, string(b))
}

func TestPipelineID_UnmarshalStringAndNumber(t *testing.T) {
	var fromNumber PipelineID
	require.NoError(t, json.Unmarshal([]byte(`42`), &fromNumber))
	assert.Equal(t, "42", fromNumber.String())

	var fromString PipelineID
	require.NoError(t, json.Unmarshal([]byte(`"42"`), &fromString))
	assert.Equal(t, fromNumber, fromString)

	var bad PipelineID
	assert.Error(t, json.Unmarshal([]byte(`"not-a-number"`), &bad))
}

func TestJobID_Ordering(t *testing.T) {
	assert.True(t, NewJobID(1).Less(NewJobID(2)))
	assert.False(t, NewJobID(2).Less(NewJobID(1)))
	assert.False(t, NewJobID(2).Less(NewJobID(2)))
}

func TestIDs_Zero(t *testing.T) {
	assert.True(t, ProjectID{}.IsZero())
	assert.True(t, PipelineID{}.IsZero())
	assert.True(t, JobID{}.IsZero())
	assert.False(t, NewProjectID("a/b").IsZero())
	assert.False(t, NewPipelineID(1).IsZero())
	assert.False(t, NewJobID(1).IsZero())
}
