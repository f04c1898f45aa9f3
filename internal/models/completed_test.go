package models

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func completedData(value string) UserData {
	return UserData{UserDataKeyCompleted: {Value: value, Permission: PermissionPrivate}}
}

func TestNewPlayerCompleted_Defaults(t *testing.T) {
	c := NewPlayerCompleted()

	assert.True(t, c.InitialGrantIssued())
	assert.NotNil(t, c.CompletedCheckpoints())
	assert.Empty(t, c.CompletedCheckpoints())
}

func TestPlayerCompletedFrom_NilSource(t *testing.T) {
	assert.True(t, PlayerCompletedFrom(nil).Equal(NewPlayerCompleted()))

	var data UserData
	assert.True(t, PlayerCompletedFrom(data).Equal(NewPlayerCompleted()))
}

func TestPlayerCompletedFrom_MissingKey(t *testing.T) {
	data := UserData{"Inventory": {Value: `{"initialGrant":false,"checkpoints":["ch1"]}`}}

	got := PlayerCompletedFrom(data)
	if diff := cmp.Diff(NewPlayerCompleted(), got); diff != "" {
		t.Errorf("unexpected snapshot (-want +got):\n%s", diff)
	}
}

func TestPlayerCompletedFrom_MalformedPayload(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"empty string", ""},
		{"truncated", `{"initialGrant": false, "checkpoints": ["ch1"`},
		{"null", "null"},
		{"array", `["ch1"]`},
		{"string", `"Completed"`},
		{"wrong field type", `{"initialGrant": "no"}`},
		{"trailing garbage", `{"initialGrant": false} x`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PlayerCompletedFrom(completedData(tt.value))
			assert.True(t, got.InitialGrantIssued())
			assert.Equal(t, []string{}, got.CompletedCheckpoints())
		})
	}
}

func TestPlayerCompletedFrom_DecodedPayload(t *testing.T) {
	got := PlayerCompletedFrom(completedData(`{"initialGrant": false, "checkpoints": ["ch1","ch2"]}`))
	assert.False(t, got.InitialGrantIssued())
	assert.Equal(t, []string{"ch1", "ch2"}, got.CompletedCheckpoints())

	got = PlayerCompletedFrom(completedData(`{"initialGrant": true, "checkpoints": []}`))
	assert.True(t, got.InitialGrantIssued())
	assert.Equal(t, []string{}, got.CompletedCheckpoints())
}

func TestPlayerCompletedFrom_PartialPayloadKeepsDefaults(t *testing.T) {
	got := PlayerCompletedFrom(completedData(`{"checkpoints": ["ch3"]}`))
	assert.True(t, got.InitialGrantIssued())
	assert.Equal(t, []string{"ch3"}, got.CompletedCheckpoints())

	got = PlayerCompletedFrom(completedData(`{"initialGrant": false, "checkpoints": null}`))
	assert.False(t, got.InitialGrantIssued())
	assert.Equal(t, []string{}, got.CompletedCheckpoints())
}

func TestPlayerCompletedFrom_IgnoresUnknownFields(t *testing.T) {
	plain := PlayerCompletedFrom(completedData(`{"initialGrant": false, "checkpoints": ["ch1"]}`))
	extra := PlayerCompletedFrom(completedData(`{"initialGrant": false, "foo": 1, "checkpoints": ["ch1"]}`))

	if diff := cmp.Diff(plain, extra); diff != "" {
		t.Errorf("unknown field changed the snapshot (-plain +extra):\n%s", diff)
	}
}

func TestPlayerCompleted_IsImmutable(t *testing.T) {
	c := PlayerCompletedFrom(completedData(`{"initialGrant": false, "checkpoints": ["ch1"]}`))

	checkpoints := c.CompletedCheckpoints()
	checkpoints[0] = "changed"
	assert.Equal(t, []string{"ch1"}, c.CompletedCheckpoints())

	next := c.WithCheckpoint("ch2").WithInitialGrant(true)
	assert.Equal(t, []string{"ch1"}, c.CompletedCheckpoints())
	assert.False(t, c.InitialGrantIssued())
	assert.Equal(t, []string{"ch1", "ch2"}, next.CompletedCheckpoints())
	assert.True(t, next.InitialGrantIssued())
}

func TestPlayerCompleted_WithCheckpointIsIdempotent(t *testing.T) {
	c := NewPlayerCompleted().WithCheckpoint("ch1").WithCheckpoint("ch1")
	assert.Equal(t, []string{"ch1"}, c.CompletedCheckpoints())
}

func TestProperty_CompletedPayloadRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		checkpoints := rapid.SliceOf(rapid.String()).Draw(t, "checkpoints")
		original := newPlayerCompleted(rapid.Bool().Draw(t, "initialGrant"), checkpoints)

		payload, err := original.Payload()
		if err != nil {
			t.Fatalf("Payload failed: %v", err)
		}

		decoded := PlayerCompletedFrom(completedData(payload))
		if !decoded.Equal(original) {
			t.Fatalf("round trip mismatch: %q decoded to %v/%v", payload,
				decoded.InitialGrantIssued(), decoded.CompletedCheckpoints())
		}
	})
}

func TestProperty_ArbitraryValueNeverFails(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		value := rapid.String().Draw(t, "value")

		c := PlayerCompletedFrom(completedData(value))
		if c == nil {
			t.Fatalf("nil snapshot for %q", value)
		}
		if c.CompletedCheckpoints() == nil {
			t.Fatalf("nil checkpoints for %q", value)
		}
		if _, ok := decodeCompleted(value); !ok && !c.Equal(NewPlayerCompleted()) {
			t.Fatalf("undecodable %q did not fall back to defaults", value)
		}
	})
}
