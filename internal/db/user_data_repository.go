package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/binabdulkhalim-prog/winter-starfall/internal/models"
)

var ErrDataVersionConflict = errors.New("user data version conflict")

type UserDataRepository struct {
	queue *DBQueue
}

func NewUserDataRepository(queue *DBQueue) *UserDataRepository {
	return &UserDataRepository{queue: queue}
}

type userDataResult struct {
	data    models.UserData
	version uint32
}

// GetUserData returns the requested keys (all keys when none are given) and
// the player's current data version. A player without data gets an empty map
// and version 0.
func (r *UserDataRepository) GetUserData(playerID string, keys ...string) (models.UserData, uint32, error) {
	result, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		version, err := readVersion(db, playerID)
		if err != nil {
			return nil, err
		}

		query := `SELECT key, value, permission, last_updated FROM user_data WHERE player_id = ?`
		args := []interface{}{playerID}
		if len(keys) > 0 {
			query += ` AND key IN (?` + strings.Repeat(`, ?`, len(keys)-1) + `)`
			for _, key := range keys {
				args = append(args, key)
			}
		}

		rows, err := db.Query(query, args...)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		data := models.UserData{}
		for rows.Next() {
			var key, value, permission string
			var lastUpdated sql.NullTime
			if err := rows.Scan(&key, &value, &permission, &lastUpdated); err != nil {
				return nil, err
			}
			data[key] = models.UserDataRecord{
				Value:       value,
				LastUpdated: lastUpdated.Time,
				Permission:  models.ParsePermission(permission),
			}
		}
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return &userDataResult{data: data, version: version}, nil
	})
	if err != nil {
		return nil, 0, err
	}
	res := result.(*userDataResult)
	return res.data, res.version, nil
}

// UpdateUserData upserts values in one transaction and returns the new data
// version. When ifVersion is set and does not match the stored version,
// nothing is written and ErrDataVersionConflict is returned.
func (r *UserDataRepository) UpdateUserData(playerID string, values map[string]string, permission models.UserDataPermission, ifVersion *uint32) (uint32, error) {
	if permission == "" {
		permission = models.PermissionPrivate
	}
	return r.write(playerID, ifVersion, func(tx *sql.Tx, now time.Time) error {
		for key, value := range values {
			_, err := tx.Exec(`
				INSERT INTO user_data (player_id, key, value, permission, last_updated)
				VALUES (?, ?, ?, ?, ?)
				ON CONFLICT(player_id, key) DO UPDATE SET
					value = excluded.value,
					permission = excluded.permission,
					last_updated = excluded.last_updated
			`, playerID, key, value, string(permission), now)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *UserDataRepository) DeleteUserData(playerID string, keys ...string) (uint32, error) {
	return r.write(playerID, nil, func(tx *sql.Tx, _ time.Time) error {
		for _, key := range keys {
			if _, err := tx.Exec(`DELETE FROM user_data WHERE player_id = ? AND key = ?`, playerID, key); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *UserDataRepository) Players() ([]string, error) {
	result, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		rows, err := db.Query(`SELECT DISTINCT player_id FROM user_data ORDER BY player_id`)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var players []string
		for rows.Next() {
			var playerID string
			if err := rows.Scan(&playerID); err != nil {
				return nil, err
			}
			players = append(players, playerID)
		}
		return players, rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return result.([]string), nil
}

func (r *UserDataRepository) write(playerID string, ifVersion *uint32, apply func(*sql.Tx, time.Time) error) (uint32, error) {
	result, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		tx, err := db.Begin()
		if err != nil {
			return nil, err
		}
		defer tx.Rollback()

		current, err := readVersion(tx, playerID)
		if err != nil {
			return nil, err
		}
		if ifVersion != nil && *ifVersion != current {
			return nil, fmt.Errorf("%w: player %s is at version %d, expected %d", ErrDataVersionConflict, playerID, current, *ifVersion)
		}

		if err := apply(tx, time.Now().UTC()); err != nil {
			return nil, err
		}

		next := current + 1
		_, err = tx.Exec(`
			INSERT INTO player_data_version (player_id, version) VALUES (?, ?)
			ON CONFLICT(player_id) DO UPDATE SET version = excluded.version
		`, playerID, next)
		if err != nil {
			return nil, err
		}
		if err := tx.Commit(); err != nil {
			return nil, err
		}
		return next, nil
	})
	if err != nil {
		return 0, err
	}
	return result.(uint32), nil
}

type queryRower interface {
	QueryRow(query string, args ...interface{}) *sql.Row
}

func readVersion(q queryRower, playerID string) (uint32, error) {
	var version int64
	err := q.QueryRow(`SELECT version FROM player_data_version WHERE player_id = ?`, playerID).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return uint32(version), nil
}
