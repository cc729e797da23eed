package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"pkt.systems/acmectl"
	"pkt.systems/acmectl/internal/appconfig"
	"pkt.systems/acmectl/internal/logx"
	"pkt.systems/acmectl/schema"
)

func newWatchCmd() *cobra.Command {
	var opts windowOpts
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream window events to stdout until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := appconfig.Load(opts.cfgPath)
			if err != nil {
				return err
			}
			id := schema.WinID(strings.TrimSpace(opts.winID))
			if id == "" {
				id, err = acmectl.WindowIDFromEnv()
				if err != nil {
					return err
				}
			}
			log := logx.WithWin(cmd.Context(), id)
			ctx := logx.ContextWithWinLogger(cmd.Context(), log, id)

			sess, err := acmectl.Attach(ctx, sessionConfig(cfg, string(id)), acmectl.Deps{})
			if err != nil {
				return err
			}
			defer func() { _ = sess.Close() }()
			for {
				event, err := sess.NextEvent(ctx)
				if err != nil {
					if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
						return nil
					}
					if errors.Is(err, schema.ErrStreamClosed) {
						log.Info("event stream closed", "err", err)
						return nil
					}
					return err
				}
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), event.Text); err != nil {
					return err
				}
			}
		},
	}
	addWindowFlags(cmd, &opts)
	return cmd
}
