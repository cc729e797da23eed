package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newNameCmd() *cobra.Command {
	var opts windowOpts
	cmd := &cobra.Command{
		Use:   "name [newname]",
		Short: "Print the window name, or retitle the window",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := opts.attach(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = sess.Close() }()
			if len(args) == 1 {
				return sess.Window().SetName(cmd.Context(), args[0])
			}
			name, err := sess.Window().Name(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), name)
			return err
		},
	}
	addWindowFlags(cmd, &opts)
	return cmd
}

func newTagsCmd() *cobra.Command {
	var opts windowOpts
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Print the user-added tag words, one per line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := opts.attach(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = sess.Close() }()
			info, err := sess.Window().NameAndTags(cmd.Context())
			if err != nil {
				return err
			}
			for _, tag := range info.Tags {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), tag); err != nil {
					return err
				}
			}
			return nil
		},
	}
	addWindowFlags(cmd, &opts)
	return cmd
}
