package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrichedResponsesMarshalPreservesOrder(t *testing.T) {
	enriched := EnrichedResponses{
		{Question: "Zebra question?", Answer: "Yes"},
		{Question: "Apple question?", Answer: "No"},
		{Question: "Middle one?", Answer: "Maybe"},
	}

	out, err := json.Marshal(enriched)
	require.NoError(t, err)

	// A plain map would sort these keys; the slice order must survive.
	assert.Equal(t, `{"Zebra question?":"Yes","Apple question?":"No","Middle one?":"Maybe"}`, string(out))
}

func TestEnrichedResponsesMarshalEmpty(t *testing.T) {
	out, err := json.Marshal(EnrichedResponses{})
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(out))
}

func TestCourseAccessors(t *testing.T) {
	t.Run("KnownFields", func(t *testing.T) {
		c := Course{"SubjectGroupName": "Science", "SemesterName": "Third"}
		assert.Equal(t, "Science", c.SubjectGroupName())
		assert.Equal(t, "Third", c.SemesterName())
	})

	t.Run("AbsentFields", func(t *testing.T) {
		c := Course{"SubjectName": "Physics"}
		assert.Equal(t, "", c.SubjectGroupName())
		assert.Equal(t, "", c.SemesterName())
	})

	t.Run("NonStringValues", func(t *testing.T) {
		c := Course{"SubjectGroupName": 42, "SemesterName": nil}
		assert.Equal(t, "", c.SubjectGroupName())
		assert.Equal(t, "", c.SemesterName())
	})

	t.Run("ExtraFieldsSurviveRoundTrip", func(t *testing.T) {
		raw := `{"SubjectGroupName": "Science", "Credits": 4, "Faculty": "Dr. Rao"}`
		var c Course
		require.NoError(t, json.Unmarshal([]byte(raw), &c))

		out, err := json.Marshal(c)
		require.NoError(t, err)
		assert.JSONEq(t, raw, string(out))
	})
}
