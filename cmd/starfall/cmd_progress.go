package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/binabdulkhalim-prog/winter-starfall/internal/models"
	"github.com/binabdulkhalim-prog/winter-starfall/internal/services"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *app) progressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "progress [player-id]",
		Short: "Show the completed record of a player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			completed, version, err := a.progress.LoadCompleted(args[0])
			if err != nil {
				return err
			}
			printCompleted(cmd.OutOrStdout(), args[0], completed)
			fmt.Fprintf(cmd.OutOrStdout(), "Data version: %d\n", version)
			return nil
		},
	}
}

func (a *app) pendingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pending [player-id] [checkpoint...]",
		Short: "List the given checkpoints the player has not completed, in order",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			completed, _, err := a.progress.LoadCompleted(args[0])
			if err != nil {
				return err
			}
			for _, id := range services.PendingCheckpoints(completed, args[1:]) {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
}

func (a *app) grantCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "grant [player-id]",
		Short: "Record that the starter grant was issued",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			completed, err := a.progress.MarkInitialGrant(args[0])
			if err != nil {
				return err
			}
			printCompleted(cmd.OutOrStdout(), args[0], completed)
			return nil
		},
	}
}

func (a *app) completeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete [player-id] [checkpoint]",
		Short: "Record a completed checkpoint",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			completed, err := a.progress.CompleteCheckpoint(args[0], args[1])
			if err != nil {
				return err
			}
			printCompleted(cmd.OutOrStdout(), args[0], completed)
			return nil
		},
	}
}

func (a *app) importCmd() *cobra.Command {
	var public bool

	cmd := &cobra.Command{
		Use:   "import [player-id] [file]",
		Short: "Load a user data export into the store",
		Long: `Reads a JSON object mapping user data keys to either a plain string or a
record of the form {"Value": "...", "Permission": "Public"} and stores every
key for the player. Records keep their own permission; plain strings and
records without one use --public. Use "-" to read from stdin.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if args[1] != "-" {
				f, err := os.Open(args[1])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}

			fallback := models.PermissionPrivate
			if public {
				fallback = models.PermissionPublic
			}
			records, err := parseUserDataExport(r, fallback)
			if err != nil {
				return fmt.Errorf("failed to parse %s: %w", args[1], err)
			}

			var version uint32
			for _, permission := range []models.UserDataPermission{models.PermissionPrivate, models.PermissionPublic} {
				values := valuesWithPermission(records, permission)
				if len(values) == 0 {
					continue
				}
				version, err = a.store.UpdateUserData(args[0], values, permission, nil)
				if err != nil {
					return err
				}
			}
			a.logger.Info("user data imported", zap.String("player", args[0]), zap.Int("keys", len(records)))
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d keys for %s (data version %d)\n", len(records), args[0], version)
			return nil
		},
	}
	cmd.Flags().BoolVar(&public, "public", false, "Store plain values with Public permission")
	return cmd
}

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [player-id] [key...]",
		Short: "Remove user data keys of a player",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := a.store.DeleteUserData(args[0], args[1:]...)
			if err != nil {
				return err
			}
			a.logger.Info("user data deleted", zap.String("player", args[0]), zap.Strings("keys", args[1:]))
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d keys for %s (data version %d)\n", len(args)-1, args[0], version)
			return nil
		},
	}
}

func (a *app) playersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "players",
		Short: "List players with stored user data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			players, err := a.repo.Players()
			if err != nil {
				return err
			}
			for _, p := range players {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
}

func printCompleted(w io.Writer, playerID string, c *models.PlayerCompleted) {
	grant := "issued"
	if services.NeedsInitialGrant(c) {
		grant = "pending"
	}
	fmt.Fprintf(w, "Player: %s\n", playerID)
	fmt.Fprintf(w, "Starter grant: %s\n", grant)

	checkpoints := c.CompletedCheckpoints()
	if len(checkpoints) == 0 {
		fmt.Fprintln(w, "Completed checkpoints: none")
		return
	}
	fmt.Fprintf(w, "Completed checkpoints (%d): %s\n", len(checkpoints), strings.Join(checkpoints, ", "))
}

// parseUserDataExport accepts {"key": "value"} and
// {"key": {"Value": "value", "Permission": "Public"}} entries in the same
// document. Entries without a permission get fallback. null entries are
// rejected.
func parseUserDataExport(r io.Reader, fallback models.UserDataPermission) (map[string]models.UserDataRecord, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, err
	}

	records := make(map[string]models.UserDataRecord, len(raw))
	for key, entry := range raw {
		if bytes.Equal(bytes.TrimSpace(entry), []byte("null")) {
			return nil, fmt.Errorf("key %q: null value", key)
		}
		var s string
		if err := json.Unmarshal(entry, &s); err == nil {
			records[key] = models.UserDataRecord{Value: s, Permission: fallback}
			continue
		}
		var record models.UserDataRecord
		if err := json.Unmarshal(entry, &record); err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		if record.Permission == "" {
			record.Permission = fallback
		} else {
			record.Permission = models.ParsePermission(string(record.Permission))
		}
		records[key] = record
	}
	return records, nil
}

func valuesWithPermission(records map[string]models.UserDataRecord, permission models.UserDataPermission) map[string]string {
	values := make(map[string]string)
	for key, record := range records {
		if record.Permission == permission {
			values[key] = record.Value
		}
	}
	return values
}
