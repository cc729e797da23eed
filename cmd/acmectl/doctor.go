package main

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"pkt.systems/acmectl"
	"pkt.systems/acmectl/internal/appconfig"
	"pkt.systems/acmectl/internal/logx"
	"pkt.systems/acmectl/schema"
	"pkt.systems/pslog"
)

func newDoctorCmd() *cobra.Command {
	var opts windowOpts
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Run acmectl diagnostics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := pslog.Ctx(cmd.Context())

			cfg, err := appconfig.Load(opts.cfgPath)
			if err != nil {
				return err
			}
			configPath := opts.cfgPath
			if strings.TrimSpace(configPath) == "" {
				path, err := appconfig.DefaultConfigPath()
				if err != nil {
					return err
				}
				configPath = path
			}
			logger.Info("doctor start", "config", configPath)

			ninePath, err := exec.LookPath(cfg.Plan9.NinePBinary)
			if err != nil {
				return fmt.Errorf("9p binary: %w", err)
			}
			logger.Info("doctor 9p ok", "path", ninePath)

			eventPath, err := exec.LookPath(cfg.Plan9.AcmeEventBinary)
			if err != nil {
				return fmt.Errorf("acmeevent binary: %w", err)
			}
			logger.Info("doctor acmeevent ok", "path", eventPath)

			winID := strings.TrimSpace(opts.winID)
			if winID == "" {
				if id, err := acmectl.WindowIDFromEnv(); err == nil {
					winID = string(id)
				}
			}
			if winID == "" {
				logger.Warn("doctor found no window id; skipping control file check")
				return nil
			}
			log := logx.WithWin(cmd.Context(), schema.WinID(winID))

			sess, err := acmectl.Attach(cmd.Context(), sessionConfig(cfg, winID), acmectl.Deps{})
			if err != nil {
				return err
			}
			defer func() { _ = sess.Close() }()
			data, err := sess.Window().ReadFile(cmd.Context(), "ctl")
			if err != nil {
				return err
			}
			log.Info("doctor control file ok", "bytes", len(data))
			log.Info("doctor complete")
			return nil
		},
	}
	addWindowFlags(cmd, &opts)
	return cmd
}
