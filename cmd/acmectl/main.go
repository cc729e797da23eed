package main

import (
	"context"
	"log"
	"os"

	"github.com/spf13/cobra"

	"pkt.systems/psi"
	"pkt.systems/pslog"
)

func main() {
	psi.Run(submain)
}

func submain(ctx context.Context) int {
	logger := pslog.LoggerFromEnv(
		pslog.WithEnvWriter(os.Stderr),
		pslog.WithEnvOptions(pslog.Options{Mode: pslog.ModeConsole}),
	)
	ctx = pslog.ContextWithLogger(ctx, logger)
	log.SetOutput(pslog.LogLogger(logger).Writer())
	log.SetFlags(0)

	root := newRootCmd()
	root.SetArgs(os.Args[1:])

	if err := root.ExecuteContext(ctx); err != nil {
		pslog.Ctx(ctx).With("err", err).Error("acmectl command failed")
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "acmectl",
		Short:         "Control acme windows and stream their events",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.AddCommand(newReadCmd())
	root.AddCommand(newWriteCmd())
	root.AddCommand(newCleanCmd())
	root.AddCommand(newDirtyCmd())
	root.AddCommand(newClearTagCmd())
	root.AddCommand(newReloadCmd())
	root.AddCommand(newSaveCmd())
	root.AddCommand(newDelCmd())
	root.AddCommand(newShowCmd())
	root.AddCommand(newNameCmd())
	root.AddCommand(newTagsCmd())
	root.AddCommand(newWatchCmd())
	root.AddCommand(newDoctorCmd())
	root.AddCommand(newConfigCmd())
	root.AddCommand(newVersionCmd())

	return root
}
