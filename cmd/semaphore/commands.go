package main

import (
	"context"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/interactive-solutions/go-semaphore"
	"github.com/interactive-solutions/go-semaphore/internal/env"
)

type rootOptions struct {
	envFile string
	sender  string
	retries int
}

func newRootCommand(logger *logrus.Logger) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "semaphore",
		Short:         "Send sms and inspect the account through the Semaphore api",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file to read configuration from")
	cmd.PersistentFlags().StringVar(&opts.sender, "sender", "", "sender name, overrides SENDER_NAME")
	cmd.PersistentFlags().IntVar(&opts.retries, "retries", 0, "number of times a failed query is retried, sends are never retried")

	cmd.AddCommand(
		newQueryCommand(logger, opts, "balance", "Check the balance of the account", semaphore.Gateway.Balance),
		newQueryCommand(logger, opts, "account", "Show the account details", semaphore.Gateway.Account),
		newQueryCommand(logger, opts, "users", "List the users of the account", semaphore.Gateway.Users),
		newQueryCommand(logger, opts, "sendernames", "List the sender names of the account", semaphore.Gateway.SenderNames),
		newQueryCommand(logger, opts, "transactions", "List the transactions of the account", semaphore.Gateway.Transactions),
		newSendCommand(logger, opts),
		newDispatchesCommand(logger, opts),
		newServeCommand(logger, opts),
	)

	return cmd
}

// loadEnv reads the environment and applies LOG_LEVEL to logger.
func loadEnv(logger *logrus.Logger, opts *rootOptions) (*env.Env, error) {
	e, err := env.Load(opts.envFile)
	if err != nil {
		return nil, err
	}

	logger.SetLevel(e.LogLevel())

	return e, nil
}

func newClient(logger *logrus.Logger, opts *rootOptions, e *env.Env, options ...semaphore.ClientOption) (*semaphore.Client, error) {
	options = append([]semaphore.ClientOption{
		semaphore.SetLogger(logger),
		semaphore.SetSenderName(opts.sender),
		semaphore.SetRetryMax(opts.retries),
	}, options...)

	client, err := semaphore.NewClient(e.Config(), options...)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to create semaphore client")
	}

	return client, nil
}

func newQueryCommand(
	logger *logrus.Logger,
	opts *rootOptions,
	use, short string,
	call func(semaphore.Gateway, context.Context) (semaphore.Response, error),
) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(logger, opts)
			if err != nil {
				return err
			}

			client, err := newClient(logger, opts, e)
			if err != nil {
				return err
			}

			response, err := call(client, cmd.Context())
			return printResponse(cmd.OutOrStdout(), response, err)
		},
	}
}

func newSendCommand(logger *logrus.Logger, opts *rootOptions) *cobra.Command {
	var to, message string

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a message to one or more comma separated numbers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(logger, opts)
			if err != nil {
				return err
			}

			client, err := newClient(logger, opts, e)
			if err != nil {
				return err
			}

			response, err := client.Send(cmd.Context(), to, message)
			return printResponse(cmd.OutOrStdout(), response, err)
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "recipient numbers, comma separated")
	cmd.Flags().StringVar(&message, "message", "", "message text")
	cmd.MarkFlagRequired("to")
	cmd.MarkFlagRequired("message")

	return cmd
}

// printResponse writes the gateway body to out. Bodies of rejected requests
// are printed before the error is returned.
func printResponse(out io.Writer, response semaphore.Response, err error) error {
	if err != nil && !semaphore.IsStatusError(err) {
		return err
	}

	if _, werr := fmt.Fprintln(out, response.String()); werr != nil {
		return werr
	}

	return err
}
