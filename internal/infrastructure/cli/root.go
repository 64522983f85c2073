package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/agrovoice/agrovoice-go/internal/app"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

// NewRootCmd wires the cobra root command.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, error) {
	container, err := app.BuildContainer(ctx, opts.Verbose)
	if err != nil {
		return nil, err
	}

	askCmd := newAskCommand(container)

	root := &cobra.Command{
		Use:   "agrovoice [question]",
		Short: "AgroVoice - offline-first farming advisory assistant",
		Long:  "AgroVoice answers agricultural questions from a local knowledge base,\ncached AI responses and online collaborators, degrading gracefully offline.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			// A bare question is shorthand for the ask subcommand.
			return askCmd.RunE(cmd, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(askCmd)
	root.AddCommand(newSyncCommand(container))
	root.AddCommand(newCacheCommand(container))
	root.AddCommand(newDiagnoseCommand(container))
	root.AddCommand(newDoctorCommand(container))
	return root, nil
}
