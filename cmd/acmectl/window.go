package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"pkt.systems/acmectl"
	"pkt.systems/acmectl/internal/appconfig"
)

// windowOpts carries the flags shared by every command that targets a
// window.
type windowOpts struct {
	winID   string
	cfgPath string
}

func addWindowFlags(cmd *cobra.Command, opts *windowOpts) {
	cmd.Flags().StringVarP(&opts.winID, "winid", "w", "", "window id (defaults to $winid)")
	cmd.Flags().StringVarP(&opts.cfgPath, "config", "c", "", "path to config file")
}

// attach loads config and binds a session to the selected window. The
// explicit --winid flag wins; otherwise the ambient winid variable is
// consulted inside Attach.
func (o *windowOpts) attach(ctx context.Context) (*acmectl.Session, error) {
	cfg, err := appconfig.Load(o.cfgPath)
	if err != nil {
		return nil, err
	}
	return acmectl.Attach(ctx, sessionConfig(cfg, o.winID), acmectl.Deps{})
}

func sessionConfig(cfg appconfig.Config, winID string) acmectl.Config {
	return acmectl.Config{
		WindowID:        winID,
		NinePBinary:     cfg.Plan9.NinePBinary,
		AcmeEventBinary: cfg.Plan9.AcmeEventBinary,
		ExtraArgs:       cfg.Plan9.ExtraArgs,
		Env:             cfg.Plan9.Env,
		EventBuffer:     cfg.Events.Buffer,
		StopGrace:       time.Duration(cfg.Events.StopGraceSeconds) * time.Second,
	}
}
