package models

import (
	"testing"

	"pgregory.net/rapid"
)

func TestStatusOf(t *testing.T) {
	yes, no := true, false

	if got := StatusOf(nil); got != ActivityInProgress {
		t.Errorf("StatusOf(nil) = %s", got)
	}
	if got := StatusOf(&yes); got != ActivitySuccessful {
		t.Errorf("StatusOf(true) = %s", got)
	}
	if got := StatusOf(&no); got != ActivityFailed {
		t.Errorf("StatusOf(false) = %s", got)
	}
	if ActivityInProgress.Title() != "In progress" || ActivitySuccessful.Title() != "Successful" || ActivityFailed.Title() != "Failed" {
		t.Error("unexpected status titles")
	}
}

func TestFamilyOf(t *testing.T) {
	tests := map[string]APIFamily{
		"ClientApi":      APIFamilyClient,
		"EconomyApi":     APIFamilyEconomy,
		"CloudScriptApi": APIFamilyCloudScript,
		"ServerApi":      APIFamilyOther,
		"":               APIFamilyOther,
	}
	for api, want := range tests {
		if got := FamilyOf(api); got != want {
			t.Errorf("FamilyOf(%q) = %s, want %s", api, got, want)
		}
	}
}

func TestProperty_APIShortNameDropsOneSuffix(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		name := rapid.StringMatching(`[A-Z][a-z]{0,10}`).Draw(t, "name")

		if got := APIShortName(name + "Api"); got != name {
			t.Fatalf("APIShortName(%q) = %q", name+"Api", got)
		}
		if got := APIShortName(name + "ApiApi"); got != name+"Api" {
			t.Fatalf("APIShortName(%q) = %q", name+"ApiApi", got)
		}
	})
}

func TestActivityEvent_Name(t *testing.T) {
	e := &ActivityEvent{API: "ClientApi", Title: "GetUserData"}
	if e.Name() != "ClientApi.GetUserData" {
		t.Errorf("Name() = %s", e.Name())
	}
	if e.ShortAPI() != "Client" || e.Family() != APIFamilyClient {
		t.Errorf("ShortAPI/Family = %s/%s", e.ShortAPI(), e.Family())
	}
}
