// Package cli implementa registryctl, el cliente de línea de comandos del registro.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"creature-registry/internal/platform/httpclient"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "REGISTRYCTL"

// NewRootCmd arma el árbol de comandos. Flags, variables REGISTRYCTL_* y el
// archivo de config (--config) se resuelven con viper, en ese orden de prioridad.
func NewRootCmd(out io.Writer) *cobra.Command {
	v := viper.New()
	var cfgFile string

	root := &cobra.Command{
		Use:           "registryctl",
		Short:         "Client for the creature registry API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(v, cfgFile)
		},
	}
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "c", "", "config file (yaml)")
	pf.String("server", "http://localhost:8080", "registry base URL")
	pf.String("account", "", "account to act as (dev mode, sent as X-Debug-Account-ID)")
	pf.String("token", "", "bearer token (takes precedence over --account)")
	pf.Duration("timeout", 10*time.Second, "HTTP timeout")
	for _, name := range []string{"server", "account", "token", "timeout"} {
		_ = v.BindPFlag(name, pf.Lookup(name))
	}

	client := func() (*apiClient, error) {
		return newAPIClient(v.GetString("server"), v.GetString("account"), v.GetString("token"), v.GetDuration("timeout"))
	}
	run := func(fn func(cmd *cobra.Command, c *apiClient, args []string) (any, error)) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			c, err := client()
			if err != nil {
				return err
			}
			res, err := fn(cmd, c, args)
			if err != nil {
				return describe(err)
			}
			return printJSON(cmd.OutOrStdout(), res)
		}
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "create",
			Short: "Create a genesis creature for the current account",
			Args:  cobra.NoArgs,
			RunE: run(func(cmd *cobra.Command, c *apiClient, _ []string) (any, error) {
				return c.Create(cmd.Context())
			}),
		},
		&cobra.Command{
			Use:   "transfer <id> <to>",
			Short: "Transfer a creature to another account",
			Args:  cobra.ExactArgs(2),
			RunE: run(func(cmd *cobra.Command, c *apiClient, args []string) (any, error) {
				id, err := parseID(args[0])
				if err != nil {
					return nil, err
				}
				return c.Transfer(cmd.Context(), id, args[1])
			}),
		},
		&cobra.Command{
			Use:   "breed <id1> <id2>",
			Short: "Breed two creatures; the child belongs to the current account",
			Args:  cobra.ExactArgs(2),
			RunE: run(func(cmd *cobra.Command, c *apiClient, args []string) (any, error) {
				id1, err := parseID(args[0])
				if err != nil {
					return nil, err
				}
				id2, err := parseID(args[1])
				if err != nil {
					return nil, err
				}
				return c.Breed(cmd.Context(), id1, id2)
			}),
		},
		&cobra.Command{
			Use:   "get <id>",
			Short: "Show a creature",
			Args:  cobra.ExactArgs(1),
			RunE: run(func(cmd *cobra.Command, c *apiClient, args []string) (any, error) {
				id, err := parseID(args[0])
				if err != nil {
					return nil, err
				}
				return c.Get(cmd.Context(), id)
			}),
		},
		&cobra.Command{
			Use:   "lineage <id>",
			Short: "Show parents, children, partners and siblings of a creature",
			Args:  cobra.ExactArgs(1),
			RunE: run(func(cmd *cobra.Command, c *apiClient, args []string) (any, error) {
				id, err := parseID(args[0])
				if err != nil {
					return nil, err
				}
				return c.Lineage(cmd.Context(), id)
			}),
		},
		&cobra.Command{
			Use:   "list [account]",
			Short: "List creatures owned by an account (default: current account)",
			Args:  cobra.MaximumNArgs(1),
			RunE: run(func(cmd *cobra.Command, c *apiClient, args []string) (any, error) {
				account := ""
				if len(args) == 1 {
					account = args[0]
				}
				return c.List(cmd.Context(), account)
			}),
		},
		newEventsCmd(run),
	)

	return root
}

func newEventsCmd(run func(func(*cobra.Command, *apiClient, []string) (any, error)) func(*cobra.Command, []string) error) *cobra.Command {
	var (
		account    string
		creatureID int64
		limit      int
	)
	cmd := &cobra.Command{
		Use:   "events",
		Short: "List registry events, newest first",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, c *apiClient, _ []string) (any, error) {
			var id *uint32
			if creatureID >= 0 {
				v := uint32(creatureID)
				id = &v
			}
			return c.Events(cmd.Context(), account, id, limit)
		}),
	}
	cmd.Flags().StringVar(&account, "for", "", "only events where this account is sender or receiver")
	cmd.Flags().Int64Var(&creatureID, "creature", -1, "only events of this creature id")
	cmd.Flags().IntVar(&limit, "limit", 0, "max events (1-200, server default 50)")
	return cmd
}

func initConfig(v *viper.Viper, cfgFile string) error {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile == "" {
		return nil
	}
	v.SetConfigFile(cfgFile)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func parseID(s string) (uint32, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid creature id %q", s)
	}
	return uint32(n), nil
}

// describe convierte la respuesta de error del servidor en un mensaje legible.
func describe(err error) error {
	var he *httpclient.HTTPError
	if errors.As(err, &he) {
		if he.Message != "" {
			return fmt.Errorf("%s (%d)", he.Message, he.StatusCode)
		}
		return fmt.Errorf("request failed with status %d", he.StatusCode)
	}
	return err
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
