package main

import (
	"fmt"

	cachekeys "agency/internal/utils/cache"

	"github.com/spf13/cobra"
)

func cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the read-through cache",
	}

	invalidate := &cobra.Command{
		Use:       "invalidate [collection]",
		Short:     "Drop every cached key of a collection",
		Args:      cobra.ExactArgs(1),
		ValidArgs: collectionNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			collection, err := cachekeys.ParseCollection(args[0])
			if err != nil {
				return err
			}

			e, err := openEnv(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer e.Close()

			prefix := cachekeys.Prefix(collection)
			if err := e.cache.DelPattern(cmd.Context(), prefix); err != nil {
				return fmt.Errorf("invalidate %s: %w", prefix, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "invalidated %s*\n", prefix)
			return nil
		},
	}

	cmd.AddCommand(invalidate)
	return cmd
}

func collectionNames() []string {
	names := make([]string, 0, len(cachekeys.Collections))
	for _, c := range cachekeys.Collections {
		names = append(names, string(c))
	}
	return names
}
