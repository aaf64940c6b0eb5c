package artifact

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
)

// Ensure makes sure the model artifact exists at dest. If the file is
// already present it is assumed valid and no request is made; otherwise the
// full response body of a single GET against url is written to dest.
func Ensure(ctx context.Context, url string, dest string) error {
	if _, err := os.Stat(dest); err == nil {
		slog.Info("model artifact already present, skipping download", "path", dest)
		return nil
	}

	slog.Info("downloading model artifact", "url", url, "path", dest)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create download request for %s: %w", url, err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download artifact from %s: %w", url, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("artifact download from %s returned status %d", url, resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("failed to create artifact directory for %s: %w", dest, err)
	}

	file, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create artifact file %s: %w", dest, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			slog.Error("failed to close artifact file", "path", dest, "error", cerr)
		}
	}()

	written, err := io.Copy(file, resp.Body)
	if err != nil {
		return fmt.Errorf("failed to write artifact to %s: %w", dest, err)
	}

	slog.Info("model artifact downloaded", "path", dest, "bytes", written)
	return nil
}
