package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bft-labs/credrot/pkg/credrot"
	"github.com/bft-labs/credrot/pkg/log"
)

func newRunCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the host loop: resume the stored session after every start",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.hosting = true
			h, err := c.newHost(withStoreWatcher())
			if err != nil {
				return err
			}
			defer h.Close()

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGUSR1, syscall.SIGHUP)
			defer signal.Stop(sigCh)

			go func() {
				for {
					select {
					case <-ctx.Done():
						return
					case sig := <-sigCh:
						switch sig {
						case syscall.SIGUSR1:
							if !h.canceler.Cancel() {
								c.logger.Info("no step to cancel")
							}
							continue
						case syscall.SIGHUP:
							c.logger.Info("restart requested")
							if err := h.restarter.Restart(ctx); err != nil {
								c.logger.Error("restart failed", log.Err(err))
							}
							continue
						}
						c.logger.Info("received signal, stopping...", log.String("signal", sig.String()))
						cancel()
						return
					}
				}
			}()

			return h.rotor.Run(ctx)
		},
	}
}

func newStartCommand(c *cli) *cobra.Command {
	var file string
	var destination string

	cmd := &cobra.Command{
		Use:   "start [credentials...|-]",
		Short: "Validate a batch of credentials and store it as the new session",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readCredentials(file, args, cmd.InOrStdin())
			if err != nil {
				return err
			}

			h, err := c.newHost()
			if err != nil {
				return err
			}
			defer h.Close()

			report, err := h.rotor.Start(cmd.Context(), raw, destination)
			if err != nil {
				if errors.Is(err, credrot.ErrNoValidCredentials) {
					return fmt.Errorf("%w (%d rejected)", err, report.Invalid)
				}
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "session %s: %d valid, %d invalid\n",
				report.SessionID, report.Valid, report.Invalid)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "read credentials from file")
	cmd.Flags().StringVar(&destination, "to", "", "notification destination for this session")
	return cmd
}

func newStopCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Clear the stored session; a pending step will not activate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := c.newHost()
			if err != nil {
				return err
			}
			defer h.Close()

			_, existed := h.rotor.Session(cmd.Context())
			if err := h.rotor.Stop(cmd.Context()); err != nil {
				return err
			}
			if existed {
				fmt.Fprintln(cmd.OutOrStdout(), "session stopped")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "no session")
			}
			return nil
		},
	}
}

func newLoginCommand(c *cli) *cobra.Command {
	var destination string

	cmd := &cobra.Command{
		Use:   "login <credential|->",
		Short: "Validate one credential, discard any session and activate it now",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readCredentials("", args, cmd.InOrStdin())
			if err != nil {
				return err
			}

			h, err := c.newHost()
			if err != nil {
				return err
			}
			defer h.Close()

			identity, err := h.rotor.Login(cmd.Context(), raw, destination)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "activated %s\n", identity.DisplayName())
			return nil
		},
	}

	cmd.Flags().StringVar(&destination, "to", "", "notification destination")
	return cmd
}

func newApplyCommand(c *cli) *cobra.Command {
	var file string
	var destination string

	cmd := &cobra.Command{
		Use:   "apply <target> [credentials...|-]",
		Short: "Run the action command against target once per credential",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := args[0]
			raw, err := readCredentials(file, args[1:], cmd.InOrStdin())
			if err != nil {
				return err
			}

			h, err := c.newHost()
			if err != nil {
				return err
			}
			defer h.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			report, err := h.rotor.Apply(ctx, target, raw, destination)
			renderBulkReport(cmd.OutOrStdout(), report)
			return err
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "read credentials from file")
	cmd.Flags().StringVar(&destination, "to", "", "notification destination")
	return cmd
}

func newStatusCommand(c *cli) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the stored session and whether a host is running",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := c.newHost()
			if err != nil {
				return err
			}
			defer h.Close()

			st := collectStatus(cmd.Context(), h.rotor, c.cfg.StateDir)
			if asJSON {
				return writeStatusJSON(cmd.OutOrStdout(), st)
			}
			renderStatus(cmd.OutOrStdout(), st)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print status as JSON")
	return cmd
}
