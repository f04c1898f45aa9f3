package models

import (
	"encoding/json"
	"slices"
)

// PlayerCompleted is a read-only snapshot of the content a player has
// finished. It is never modified after construction; the With* methods return
// new snapshots.
type PlayerCompleted struct {
	initialGrant bool
	checkpoints  []string
}

type completedPayload struct {
	InitialGrant bool     `json:"initialGrant"`
	Checkpoints  []string `json:"checkpoints"`
}

// NewPlayerCompleted returns the snapshot of a player with no stored record.
// A missing record counts as the starter grant having been issued already.
func NewPlayerCompleted() *PlayerCompleted {
	return &PlayerCompleted{
		initialGrant: true,
		checkpoints:  []string{},
	}
}

// PlayerCompletedFrom reads the Completed key from src. A nil source, a
// missing key or an undecodable value all yield NewPlayerCompleted().
func PlayerCompletedFrom(src UserDataSource) *PlayerCompleted {
	if src == nil {
		return NewPlayerCompleted()
	}

	record, ok := src.Get(UserDataKeyCompleted)
	if !ok {
		return NewPlayerCompleted()
	}

	payload, ok := decodeCompleted(record.Value)
	if !ok {
		return NewPlayerCompleted()
	}

	return newPlayerCompleted(payload.InitialGrant, payload.Checkpoints)
}

func newPlayerCompleted(initialGrant bool, checkpoints []string) *PlayerCompleted {
	c := &PlayerCompleted{
		initialGrant: initialGrant,
		checkpoints:  slices.Clone(checkpoints),
	}
	if c.checkpoints == nil {
		c.checkpoints = []string{}
	}
	return c
}

// decodeCompleted fills a default payload from value. JSON null and syntax
// errors report !ok.
func decodeCompleted(value string) (completedPayload, bool) {
	payload := &completedPayload{
		InitialGrant: true,
		Checkpoints:  []string{},
	}
	if err := json.Unmarshal([]byte(value), &payload); err != nil {
		return completedPayload{}, false
	}
	if payload == nil {
		return completedPayload{}, false
	}
	return *payload, true
}

func (c *PlayerCompleted) InitialGrantIssued() bool {
	return c.initialGrant
}

func (c *PlayerCompleted) CompletedCheckpoints() []string {
	return slices.Clone(c.checkpoints)
}

func (c *PlayerCompleted) HasCheckpoint(id string) bool {
	return slices.Contains(c.checkpoints, id)
}

func (c *PlayerCompleted) WithInitialGrant(issued bool) *PlayerCompleted {
	return newPlayerCompleted(issued, c.checkpoints)
}

// WithCheckpoint appends id unless it is already completed.
func (c *PlayerCompleted) WithCheckpoint(id string) *PlayerCompleted {
	if c.HasCheckpoint(id) {
		return newPlayerCompleted(c.initialGrant, c.checkpoints)
	}
	return newPlayerCompleted(c.initialGrant, append(slices.Clone(c.checkpoints), id))
}

// Payload encodes the snapshot in the stored Completed format.
func (c *PlayerCompleted) Payload() (string, error) {
	data, err := json.Marshal(completedPayload{
		InitialGrant: c.initialGrant,
		Checkpoints:  c.checkpoints,
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (c *PlayerCompleted) Equal(other *PlayerCompleted) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.initialGrant == other.initialGrant && slices.Equal(c.checkpoints, other.checkpoints)
}
