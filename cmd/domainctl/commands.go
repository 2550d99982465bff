package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/leozw/domainhub/internal/core"
	"github.com/leozw/domainhub/internal/search"
	"github.com/leozw/domainhub/internal/storage/memory"
)

func newTestCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Check that the configured credentials are accepted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), o.Timeout)
			defer cancel()

			ok, err := o.client.TestConnection(ctx)
			if err != nil {
				return &cliError{Code: 1, Err: err}
			}
			if !ok {
				return &cliError{Code: 1, Err: fmt.Errorf("%s rejected the credentials", o.conn.Registrar)}
			}
			fmt.Fprintf(o.out, "%s: credentials ok\n", o.conn.Registrar)
			return nil
		},
	}
}

func newListCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the domains in the account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), o.Timeout)
			defer cancel()

			domains, err := o.client.GetDomains(ctx)
			if err != nil {
				return &cliError{Code: 1, Err: err}
			}
			if o.JSON {
				return o.printJSON(domains)
			}

			tw := tabwriter.NewWriter(o.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tSTATUS\tEXPIRES\tNAMESERVERS")
			for _, d := range domains {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
					d.Name,
					core.NormalizeStatus(d.Status),
					d.ExpirationDate.Format(time.DateOnly),
					strings.Join(d.Nameservers, ","),
				)
			}
			return tw.Flush()
		},
	}
}

func newSearchCmd(o *options) *cobra.Command {
	var showPrice bool
	var currency string

	cmd := &cobra.Command{
		Use:   "search <domain...>",
		Short: "Check availability of one or more names",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), o.Timeout)
			defer cancel()

			// The search service reads connections from a store; a throwaway
			// one holding just the CLI connection is enough.
			store := memory.New()
			if err := store.CreateRegistrarConnection(ctx, o.conn); err != nil {
				return err
			}
			svc := search.NewService(store, o.clients, o.logger, search.Options{})

			var results []core.DomainResult
			if len(args) == 1 {
				out, err := svc.Search(ctx, cliUser, search.Request{
					DomainName: args[0],
					Registrar:  o.conn.Registrar,
					ShowPrice:  showPrice,
					Currency:   currency,
				})
				if err != nil {
					return &cliError{Code: 1, Err: err}
				}
				for _, r := range out {
					results = append(results, r.Result)
				}
			} else {
				out, err := svc.BulkSearch(ctx, cliUser, search.BulkRequest{
					DomainNames: args,
					Registrar:   o.conn.Registrar,
				})
				if err != nil {
					return &cliError{Code: 1, Err: err}
				}
				for _, r := range out {
					results = append(results, r.Results...)
				}
			}

			if o.JSON {
				return o.printJSON(results)
			}

			tw := tabwriter.NewWriter(o.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "DOMAIN\tAVAILABLE\tPRICE\tNOTE")
			for _, r := range results {
				price := ""
				if len(r.PriceList) > 0 {
					price = strings.TrimSpace(r.PriceList[0].Price + " " + r.PriceList[0].Currency)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.DomainName, r.Available, price, r.Message)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&showPrice, "price", false, "Ask for pricing where the registrar supports it")
	cmd.Flags().StringVar(&currency, "currency", "USD", "Currency for pricing")
	return cmd
}

func newSetNSCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "set-ns <domain> <nameserver...>",
		Short: "Replace the nameservers of a domain",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ns, err := core.ValidateNameservers(args[1:])
			if err != nil {
				return usageErr(cmd, err)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), o.Timeout)
			defer cancel()

			ok, err := o.client.UpdateNameservers(ctx, args[0], ns)
			if err != nil {
				return &cliError{Code: 1, Err: err}
			}
			if !ok {
				return &cliError{Code: 1, Err: fmt.Errorf("%s rejected the nameserver update", o.conn.Registrar)}
			}
			fmt.Fprintf(o.out, "%s: nameservers set to %s\n", args[0], strings.Join(ns, ", "))
			return nil
		},
	}
}

func (o *options) printJSON(v any) error {
	enc := json.NewEncoder(o.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
