package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConditionConfig(t *testing.T) {
	for _, conditionType := range ConditionTypes() {
		cfg, err := NewConditionConfig(conditionType)
		require.NoError(t, err)
		assert.Equal(t, conditionType, cfg.ConditionType())
	}

	_, err := NewConditionConfig("nonsense")
	assert.Error(t, err)
}

func TestDecodeConditionConfig(t *testing.T) {
	cfg, err := DecodeConditionConfig(ConditionTypeTimer, []byte(`{"delay_hours": 48}`))
	require.NoError(t, err)

	timer, ok := cfg.(TimerCondition)
	require.True(t, ok)
	assert.Equal(t, 48, timer.DelayHours)

	// Empty payload decodes to the zero-value variant
	cfg, err = DecodeConditionConfig(ConditionTypeApproval, nil)
	require.NoError(t, err)
	assert.Equal(t, ApprovalCondition{RequiredRoles: []ApproverRole{}}, cfg)

	_, err = DecodeConditionConfig(ConditionTypeTimer, []byte(`{"delay_hours": "soon"}`))
	assert.Error(t, err)
}

func TestTimerConditionValidate(t *testing.T) {
	assert.NoError(t, TimerCondition{DelayHours: 1}.Validate())
	assert.Error(t, TimerCondition{DelayHours: 0}.Validate())
	assert.Error(t, TimerCondition{DelayHours: -24}.Validate())
}

func TestApprovalConditionValidate(t *testing.T) {
	valid := ApprovalCondition{RequiredRoles: []ApproverRole{RoleReviewer, RoleLegalCounsel}}
	assert.NoError(t, valid.Validate())

	invalid := ApprovalCondition{RequiredRoles: []ApproverRole{"janitor"}}
	assert.Error(t, invalid.Validate())
}

func TestConditionalConditionValidate(t *testing.T) {
	assert.NoError(t, ConditionalCondition{Expression: `status == "ready"`}.Validate())
	assert.Error(t, ConditionalCondition{}.Validate())

	// Expressions are compiled at authoring time
	assert.Error(t, ConditionalCondition{Expression: "status =="}.Validate())
}

func TestTransitionJSONRoundTrip(t *testing.T) {
	original := Transition{
		ID:          PersistedID("tr-1"),
		FromStageID: PersistedID("stage-a"),
		ToStageID:   PersistedID("stage-b"),
		Condition:   ConditionTypeTimer,
		Config:      TimerCondition{DelayHours: 72},
	}

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded Transition

	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, original.ID, decoded.ID)
	assert.Equal(t, original.Condition, decoded.Condition)
	assert.Equal(t, TimerCondition{DelayHours: 72}, decoded.Config)
}

func TestTransitionJSONRoundTripWithoutConfig(t *testing.T) {
	original := Transition{
		ID:          NewPendingID(),
		FromStageID: PersistedID("a"),
		ToStageID:   PersistedID("b"),
		Condition:   ConditionTypeManual,
	}

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded Transition

	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, ManualCondition{}, decoded.Config)
	assert.False(t, decoded.ID.Persisted)
}
