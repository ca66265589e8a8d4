package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// DownloadFile fetches the file contents for a file path returned by GetFile.
// Reads are capped at maxBytes; a file exceeding the cap is an error rather
// than a silent truncation.
func (c *Client) DownloadFile(ctx context.Context, filePath string, maxBytes int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.FileURL(filePath), nil)
	if err != nil {
		return nil, fmt.Errorf("telegram: create download request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("telegram: download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Code: resp.StatusCode, Description: "file download failed"}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("telegram: read download: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("telegram: file exceeds %d byte limit", maxBytes)
	}

	return data, nil
}
