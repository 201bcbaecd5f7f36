package system

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/noor/internal/cli"
	"github.com/julianstephens/noor/internal/keyring"
	"github.com/julianstephens/noor/internal/storage/postgres"
)

type KeyringCmd struct {
	Set    KeyringSetCmd    `cmd:"" help:"Store a secret in the OS keyring."`
	Get    KeyringGetCmd    `cmd:"" help:"Show a stored secret (masked)."`
	Delete KeyringDeleteCmd `cmd:"" help:"Remove a secret from the OS keyring."`
	Status KeyringStatusCmd `cmd:"" help:"Check OS keyring availability."`
}

// KeyringSetCmd stores the remote connection string or the admin secret
type KeyringSetCmd struct {
	Entry string `arg:"" help:"remote or admin."`
	Value string `arg:"" optional:"" help:"Value to store. Prompted for when omitted."`
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	key, err := keyring.ParseKey(cmd.Entry)
	if err != nil {
		return err
	}

	value := cmd.Value
	if value == "" {
		value, err = cli.PromptSecret(fmt.Sprintf("Value for %s", key))
		if err != nil {
			return err
		}
	}

	if key == keyring.ConnectionString {
		if err := checkRemoteURL(ctx, value); err != nil {
			return err
		}
	}

	if err := keyring.Set(key, value); err != nil {
		return err
	}
	cli.Successf(ctx.Out, "%s stored in OS keyring", key)
	return nil
}

// checkRemoteURL validates a remote before it is stored. Passwords in
// Postgres URLs are allowed here since the keyring is encrypted.
func checkRemoteURL(ctx *cli.Context, value string) error {
	if postgres.IsURL(value) || strings.Contains(value, "host=") {
		if _, err := postgres.ValidateConnString(value); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				cli.Warnf(ctx.Out, "Connection string contains a password; it will be kept in the encrypted OS keyring.")
				return nil
			}
			return fmt.Errorf("invalid connection string: %w", err)
		}
		return nil
	}
	if _, err := cli.OpenRemote(value); err != nil {
		return err
	}
	return nil
}

type KeyringGetCmd struct {
	Entry string `arg:"" help:"remote or admin."`
}

func (cmd *KeyringGetCmd) Run(ctx *cli.Context) error {
	key, err := keyring.ParseKey(cmd.Entry)
	if err != nil {
		return err
	}
	value, err := keyring.Get(key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no %s found in keyring, use 'noor keyring set %s'", key, cmd.Entry)
		}
		return err
	}

	if key == keyring.AdminSecret {
		fmt.Fprintln(ctx.Out, strings.Repeat("*", len(value)))
		return nil
	}
	fmt.Fprintln(ctx.Out, maskPassword(value))
	return nil
}

type KeyringDeleteCmd struct {
	Entry string `arg:"" help:"remote or admin."`
}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	key, err := keyring.ParseKey(cmd.Entry)
	if err != nil {
		return err
	}
	if err := keyring.Delete(key); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no %s found in keyring", key)
		}
		return err
	}
	cli.Successf(ctx.Out, "%s deleted from OS keyring", key)
	return nil
}

type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		fmt.Fprintln(ctx.Out, "❌ OS keyring is not available on this system")
		return keyring.ErrKeyringUnavailable
	}
	cli.Successf(ctx.Out, "OS keyring is available")
	for _, key := range keyring.Keys {
		if _, err := keyring.Get(key); err == nil {
			cli.Successf(ctx.Out, "%s is stored", key)
		} else {
			fmt.Fprintf(ctx.Out, "ℹ No %s stored\n", key)
		}
	}
	return nil
}

// maskPassword hides the password part of a URL or DSN connection string
func maskPassword(connStr string) string {
	if idx := strings.Index(connStr, "://"); idx != -1 {
		rest := connStr[idx+3:]
		if at := strings.LastIndex(rest, "@"); at != -1 {
			userInfo := rest[:at]
			if colon := strings.Index(userInfo, ":"); colon != -1 {
				return connStr[:idx+3] + userInfo[:colon] + ":****" + rest[at:]
			}
		}
		return connStr
	}

	if strings.Contains(connStr, "password=") {
		parts := strings.Fields(connStr)
		for i, part := range parts {
			if strings.HasPrefix(part, "password=") {
				parts[i] = "password=****"
			}
		}
		return strings.Join(parts, " ")
	}
	return connStr
}
