package main

import (
	"context"

	"github.com/spf13/cobra"

	"pkt.systems/acmectl/core"
)

// newCtlCmd builds one fixed ctl-verb command.
func newCtlCmd(use, short string, op func(context.Context, *core.Window) error) *cobra.Command {
	var opts windowOpts
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := opts.attach(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = sess.Close() }()
			return op(cmd.Context(), sess.Window())
		},
	}
	addWindowFlags(cmd, &opts)
	return cmd
}

func newCleanCmd() *cobra.Command {
	return newCtlCmd("clean", "Mark the window clean", func(ctx context.Context, w *core.Window) error {
		return w.MarkClean(ctx)
	})
}

func newDirtyCmd() *cobra.Command {
	return newCtlCmd("dirty", "Mark the window dirty", func(ctx context.Context, w *core.Window) error {
		return w.MarkDirty(ctx)
	})
}

func newClearTagCmd() *cobra.Command {
	return newCtlCmd("cleartag", "Remove everything after the | in the tag", func(ctx context.Context, w *core.Window) error {
		return w.ClearTag(ctx)
	})
}

func newReloadCmd() *cobra.Command {
	return newCtlCmd("reload", "Reload the window body from disk (Get)", func(ctx context.Context, w *core.Window) error {
		return w.Reload(ctx)
	})
}

func newSaveCmd() *cobra.Command {
	return newCtlCmd("save", "Write the window body to disk (Put)", func(ctx context.Context, w *core.Window) error {
		return w.Save(ctx)
	})
}

func newDelCmd() *cobra.Command {
	return newCtlCmd("del", "Delete the window (Del)", func(ctx context.Context, w *core.Window) error {
		return w.Delete(ctx)
	})
}

func newShowCmd() *cobra.Command {
	return newCtlCmd("show", "Make the window visible on screen", func(ctx context.Context, w *core.Window) error {
		return w.Show(ctx)
	})
}
