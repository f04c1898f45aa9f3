package models

import "time"

// Well-known read-only user data keys.
const (
	UserDataKeyCompleted = "Completed"
)

type UserDataPermission string

const (
	PermissionPrivate UserDataPermission = "Private"
	PermissionPublic  UserDataPermission = "Public"
)

// UserDataRecord is one stored value together with its metadata. Only Value
// is interpreted by the models in this package.
type UserDataRecord struct {
	Value       string             `json:"Value"`
	LastUpdated time.Time          `json:"LastUpdated"`
	Permission  UserDataPermission `json:"Permission,omitempty"`
}

// UserDataSource is a read-only lookup into a player's user data.
type UserDataSource interface {
	Get(key string) (UserDataRecord, bool)
}

// UserData is the key/value map returned by the user data API.
type UserData map[string]UserDataRecord

func (d UserData) Get(key string) (UserDataRecord, bool) {
	if d == nil {
		return UserDataRecord{}, false
	}
	record, ok := d[key]
	return record, ok
}

func (d UserData) Keys() []string {
	keys := make([]string, 0, len(d))
	for key := range d {
		keys = append(keys, key)
	}
	return keys
}

func ParsePermission(value string) UserDataPermission {
	if value == string(PermissionPublic) {
		return PermissionPublic
	}
	return PermissionPrivate
}
