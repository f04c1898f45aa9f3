package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

type ActivityStatus string

const (
	ActivityInProgress ActivityStatus = "in_progress"
	ActivitySuccessful ActivityStatus = "successful"
	ActivityFailed     ActivityStatus = "failed"
)

// StatusOf maps the tri-state outcome of a call; nil means it has not
// returned yet.
func StatusOf(isSuccessful *bool) ActivityStatus {
	if isSuccessful == nil {
		return ActivityInProgress
	}
	if *isSuccessful {
		return ActivitySuccessful
	}
	return ActivityFailed
}

func (s ActivityStatus) Title() string {
	switch s {
	case ActivityInProgress:
		return "In progress"
	case ActivitySuccessful:
		return "Successful"
	default:
		return "Failed"
	}
}

type APIFamily string

const (
	APIFamilyClient      APIFamily = "Client"
	APIFamilyEconomy     APIFamily = "Economy"
	APIFamilyCloudScript APIFamily = "CloudScript"
	APIFamilyOther       APIFamily = "Other"
)

// ActivityEvent is one logged call to the game backend.
type ActivityEvent struct {
	ID           uuid.UUID       `json:"id"`
	API          string          `json:"api"`
	Title        string          `json:"title"`
	Date         time.Time       `json:"date"`
	Request      json.RawMessage `json:"request,omitempty"`
	Result       json.RawMessage `json:"result,omitempty"`
	IsSuccessful *bool           `json:"isSuccessful,omitempty"`
}

func (e *ActivityEvent) Status() ActivityStatus {
	return StatusOf(e.IsSuccessful)
}

func (e *ActivityEvent) ShortAPI() string {
	return APIShortName(e.API)
}

func (e *ActivityEvent) Family() APIFamily {
	return FamilyOf(e.API)
}

// Name is the qualified operation name, e.g. "ClientApi.GetUserData".
func (e *ActivityEvent) Name() string {
	return e.API + "." + e.Title
}

// APIShortName drops the first "Api" from an API name: "ClientApi" -> "Client".
func APIShortName(api string) string {
	return strings.Replace(api, "Api", "", 1)
}

func FamilyOf(api string) APIFamily {
	switch short := APIFamily(APIShortName(api)); short {
	case APIFamilyClient, APIFamilyEconomy, APIFamilyCloudScript:
		return short
	default:
		return APIFamilyOther
	}
}
