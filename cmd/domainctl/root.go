package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/leozw/domainhub/internal/config"
	"github.com/leozw/domainhub/internal/core"
	"github.com/leozw/domainhub/internal/registrar"
	"github.com/leozw/domainhub/internal/registrar/factory"
)

const cliUser = "domainctl"

type options struct {
	Registrar string
	Timeout   time.Duration
	JSON      bool
	Verbose   bool

	// Derived in PersistentPreRunE.
	conn    *core.RegistrarConnection
	client  registrar.Client
	clients registrar.Factory
	logger  *zap.Logger
	out     io.Writer
}

func newRootCmd(ver string) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "domainctl",
		Short:         "Inspect and manage domains at a single registrar account",
		Version:       ver,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetFlagErrorFunc(usageErr)

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.Registrar, "registrar", "r", "", "Registrar: godaddy|namecheap|dynadot (required)")
	pf.DurationVar(&opts.Timeout, "timeout", 30*time.Second, "Overall timeout for the command")
	pf.BoolVar(&opts.JSON, "json", false, "Print JSON instead of a table")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "Log registrar calls to stderr")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return opts.setup(cmd)
	}

	root.AddCommand(
		newTestCmd(opts),
		newListCmd(opts),
		newSearchCmd(opts),
		newSetNSCmd(opts),
	)
	return root
}

// setup builds the registrar client from config credentials for the chosen
// registrar.
func (o *options) setup(cmd *cobra.Command) error {
	reg := core.Registrar(strings.ToLower(strings.TrimSpace(o.Registrar)))
	if !reg.Valid() {
		return usageErr(cmd, fmt.Errorf("--registrar must be one of godaddy, namecheap, dynadot"))
	}

	o.out = cmd.OutOrStdout()

	cfg, err := config.Load()
	if err != nil {
		return &cliError{Code: 1, Err: fmt.Errorf("load config: %w", err)}
	}

	o.conn, err = connectionFor(reg, cfg.Registrars)
	if err != nil {
		return &cliError{Code: 2, Err: err, Cmd: cmd}
	}

	if o.Verbose {
		o.logger, err = zap.NewDevelopment()
		if err != nil {
			return err
		}
	} else {
		o.logger = zap.NewNop()
	}

	o.clients = factory.New(factory.OptionsFromConfig(cfg.Registrars, nil))
	o.client, err = o.clients(o.conn)
	return err
}

func connectionFor(reg core.Registrar, cfg config.RegistrarsConfig) (*core.RegistrarConnection, error) {
	conn := &core.RegistrarConnection{
		ID:        "cli-" + string(reg),
		UserID:    cliUser,
		Registrar: reg,
		IsActive:  true,
		CreatedAt: time.Now(),
	}

	var secret string
	switch reg {
	case core.RegistrarGoDaddy:
		conn.APIKey, secret = cfg.GoDaddy.APIKey, cfg.GoDaddy.APISecret
		if conn.APIKey == "" || secret == "" {
			return nil, fmt.Errorf("GODADDY_API_KEY and GODADDY_API_SECRET are required")
		}
	case core.RegistrarNamecheap:
		conn.APIKey, secret = cfg.Namecheap.APIKey, cfg.Namecheap.Username
		if conn.APIKey == "" || secret == "" {
			return nil, fmt.Errorf("NAMECHEAP_API_KEY and NAMECHEAP_USERNAME are required")
		}
	case core.RegistrarDynadot:
		conn.APIKey = cfg.Dynadot.APIKey
		if conn.APIKey == "" {
			return nil, fmt.Errorf("DYNADOT_API_TOKEN is required")
		}
	}
	if secret != "" {
		conn.APISecret = &secret
	}
	return conn, nil
}
