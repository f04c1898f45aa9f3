package services

import (
	"github.com/binabdulkhalim-prog/winter-starfall/internal/db"
	"github.com/binabdulkhalim-prog/winter-starfall/internal/models"
)

const (
	APIServer = "ServerApi"

	OpGetUserReadOnlyData    = "GetUserReadOnlyData"
	OpUpdateUserReadOnlyData = "UpdateUserReadOnlyData"
	OpDeleteUserReadOnlyData = "DeleteUserReadOnlyData"
)

// UserDataStore is the subset of the user data API the services rely on.
type UserDataStore interface {
	GetUserData(playerID string, keys ...string) (models.UserData, uint32, error)
	UpdateUserData(playerID string, values map[string]string, permission models.UserDataPermission, ifVersion *uint32) (uint32, error)
	DeleteUserData(playerID string, keys ...string) (uint32, error)
}

var _ UserDataStore = (*db.UserDataRepository)(nil)

type getUserDataRequest struct {
	PlayFabID string   `json:"PlayFabId"`
	Keys      []string `json:"Keys,omitempty"`
}

type getUserDataResult struct {
	Data        models.UserData `json:"Data"`
	DataVersion uint32          `json:"DataVersion"`
}

type updateUserDataRequest struct {
	PlayFabID                string                    `json:"PlayFabId"`
	Data                     map[string]string         `json:"Data,omitempty"`
	KeysToRemove             []string                  `json:"KeysToRemove,omitempty"`
	Permission               models.UserDataPermission `json:"Permission,omitempty"`
	IfChangedFromDataVersion *uint32                   `json:"IfChangedFromDataVersion,omitempty"`
}

type updateUserDataResult struct {
	DataVersion uint32 `json:"DataVersion"`
}

// TrackedUserData records every call on the wrapped store in an ActivityLog.
type TrackedUserData struct {
	store UserDataStore
	log   *ActivityLog
}

func NewTrackedUserData(store UserDataStore, log *ActivityLog) *TrackedUserData {
	return &TrackedUserData{store: store, log: log}
}

func (t *TrackedUserData) GetUserData(playerID string, keys ...string) (models.UserData, uint32, error) {
	id := t.log.Begin(APIServer, OpGetUserReadOnlyData, getUserDataRequest{PlayFabID: playerID, Keys: keys})

	data, version, err := t.store.GetUserData(playerID, keys...)
	if err != nil {
		t.log.Finish(id, nil, err)
		return nil, 0, err
	}
	t.log.Finish(id, getUserDataResult{Data: data, DataVersion: version}, nil)
	return data, version, nil
}

func (t *TrackedUserData) UpdateUserData(playerID string, values map[string]string, permission models.UserDataPermission, ifVersion *uint32) (uint32, error) {
	id := t.log.Begin(APIServer, OpUpdateUserReadOnlyData, updateUserDataRequest{
		PlayFabID:                playerID,
		Data:                     values,
		Permission:               permission,
		IfChangedFromDataVersion: ifVersion,
	})

	version, err := t.store.UpdateUserData(playerID, values, permission, ifVersion)
	if err != nil {
		t.log.Finish(id, nil, err)
		return 0, err
	}
	t.log.Finish(id, updateUserDataResult{DataVersion: version}, nil)
	return version, nil
}

func (t *TrackedUserData) DeleteUserData(playerID string, keys ...string) (uint32, error) {
	id := t.log.Begin(APIServer, OpDeleteUserReadOnlyData, updateUserDataRequest{PlayFabID: playerID, KeysToRemove: keys})

	version, err := t.store.DeleteUserData(playerID, keys...)
	if err != nil {
		t.log.Finish(id, nil, err)
		return 0, err
	}
	t.log.Finish(id, updateUserDataResult{DataVersion: version}, nil)
	return version, nil
}
