package cmd

import (
	"context"

	"github.com/salmonumbrella/draftpm/internal/output"
)

func structuredOutputRequested() bool {
	return output.IsStructured(GetOutputFormat())
}

// printOutput writes data to the command's stdout in the selected format.
func printOutput(ctx context.Context, data interface{}) error {
	ctx = contextOrRoot(ctx)
	printer := output.NewPrinter(stdoutFromContext(ctx), GetOutputFormat())
	return printer.Print(ctx, data)
}

func contextOrRoot(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	if rootCmd != nil && rootCmd.Context() != nil {
		return rootCmd.Context()
	}
	return context.Background()
}
