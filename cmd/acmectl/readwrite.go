package main

import (
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func newReadCmd() *cobra.Command {
	var opts windowOpts
	cmd := &cobra.Command{
		Use:   "read <file>",
		Short: "Read a window control file to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := opts.attach(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = sess.Close() }()
			data, err := sess.Window().ReadFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	addWindowFlags(cmd, &opts)
	return cmd
}

func newWriteCmd() *cobra.Command {
	var opts windowOpts
	cmd := &cobra.Command{
		Use:   "write <file> [text...]",
		Short: "Write text (or stdin) to a window control file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := opts.attach(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = sess.Close() }()
			var data []byte
			if len(args) > 1 {
				data = []byte(strings.Join(args[1:], " "))
			} else {
				data, err = io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
			}
			return sess.Window().WriteFile(cmd.Context(), args[0], data)
		},
	}
	addWindowFlags(cmd, &opts)
	return cmd
}
