package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/turtacn/netmodel/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/netmodel/internal/infrastructure/storage/minio"
	"github.com/turtacn/netmodel/pkg/errors"
)

// stdioPath selects stdin for inputs and stdout for outputs.
const stdioPath = "-"

// readSource loads a whole input file from stdin, the object store
// (minio://bucket/key) or the local filesystem.
func readSource(ctx context.Context, cmd *cobra.Command, cliCtx *CLIContext, path string) ([]byte, error) {
	switch {
	case path == stdioPath:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeReadFailed, "failed to read stdin")
		}
		return data, nil
	case minio.IsObjectURL(path):
		store, err := cliCtx.Storage()
		if err != nil {
			return nil, err
		}
		cliCtx.Logger.Debug("fetching object", logging.String("path", path))
		return store.Get(ctx, path)
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeReadFailed, "failed to read file").WithDetail(path)
		}
		return data, nil
	}
}

// writeDestination stores data at path using the same addressing as
// readSource. Object uploads carry metadata as user metadata.
func writeDestination(ctx context.Context, cmd *cobra.Command, cliCtx *CLIContext, path string, data []byte, contentType string, metadata map[string]string) error {
	switch {
	case path == "" || path == stdioPath:
		if _, err := cmd.OutOrStdout().Write(data); err != nil {
			return errors.Wrap(err, errors.ErrCodeWriteFailed, "failed to write stdout")
		}
		return nil
	case minio.IsObjectURL(path):
		store, err := cliCtx.Storage()
		if err != nil {
			return err
		}
		cliCtx.Logger.Debug("storing object", logging.String("path", path), logging.Int("bytes", len(data)))
		return store.Put(ctx, path, data, contentType, metadata)
	default:
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return errors.Wrap(err, errors.ErrCodeWriteFailed, "failed to write file").WithDetail(path)
		}
		return nil
	}
}

// isStdout reports whether path sends output to stdout.
func isStdout(path string) bool {
	return path == "" || path == stdioPath
}
