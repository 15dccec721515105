package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"contentcore/pkg/domain"
)

type pageOps struct {
	get func(ctx context.Context) any
	set func(ctx context.Context, data []byte) (any, domain.Result, error)
}

func pages(a *app) map[string]pageOps {
	return map[string]pageOps{
		"home": {
			get: func(ctx context.Context) any { return a.svc.HomePage(ctx) },
			set: func(ctx context.Context, data []byte) (any, domain.Result, error) {
				doc := a.svc.HomePage(ctx)
				if err := json.Unmarshal(data, &doc); err != nil {
					return nil, domain.Result{}, fmt.Errorf("decode home page: %w", err)
				}
				return asAny(a.svc.SetHomePage(ctx, doc))
			},
		},
		"about": {
			get: func(ctx context.Context) any { return a.svc.AboutPage(ctx) },
			set: func(ctx context.Context, data []byte) (any, domain.Result, error) {
				doc := a.svc.AboutPage(ctx)
				if err := json.Unmarshal(data, &doc); err != nil {
					return nil, domain.Result{}, fmt.Errorf("decode about page: %w", err)
				}
				return asAny(a.svc.SetAboutPage(ctx, doc))
			},
		},
		"payment": {
			get: func(ctx context.Context) any { return a.svc.PaymentSettings(ctx) },
			set: func(ctx context.Context, data []byte) (any, domain.Result, error) {
				doc := a.svc.PaymentSettings(ctx)
				if err := json.Unmarshal(data, &doc); err != nil {
					return nil, domain.Result{}, fmt.Errorf("decode payment settings: %w", err)
				}
				return asAny(a.svc.SetPaymentSettings(ctx, doc))
			},
		},
	}
}

func newPageCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "page",
		Short: "Read or replace the singleton page documents",
	}

	get := &cobra.Command{
		Use:   "get <home|about|payment>",
		Short: "Print a page document (the built-in default when unset)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ops, ok := pages(a)[args[0]]
			if !ok {
				return fmt.Errorf("unknown page %q", args[0])
			}
			return printJSON(cmd.OutOrStdout(), ops.get(cmd.Context()))
		},
	}

	var file string
	set := &cobra.Command{
		Use:   "set <home|about|payment>",
		Short: "Merge a JSON document over the stored page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ops, ok := pages(a)[args[0]]
			if !ok {
				return fmt.Errorf("unknown page %q", args[0])
			}
			data, err := readRecordFile(file)
			if err != nil {
				return err
			}
			doc, res, err := ops.set(cmd.Context(), data)
			if err != nil {
				return err
			}
			a.reportResult(res)
			return printJSON(cmd.OutOrStdout(), doc)
		},
	}
	set.Flags().StringVarP(&file, "file", "f", "-", "JSON document file ('-' for stdin)")

	cmd.AddCommand(get, set)
	return cmd
}

func newSubscribeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "subscribe <user-id> <plan-id>",
		Short: "Point a user account at a subscription plan",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, res, err := a.svc.Subscribe(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			a.reportResult(res)
			return printJSON(cmd.OutOrStdout(), user)
		},
	}
}

func newUnsubscribeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "unsubscribe <user-id>",
		Short: "Clear a user account's subscription",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, res, err := a.svc.Unsubscribe(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a.reportResult(res)
			return printJSON(cmd.OutOrStdout(), user)
		},
	}
}
