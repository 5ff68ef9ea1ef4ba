// Package kaggle is a minimal client for the Kaggle public API: dataset
// archive download and extraction.
package kaggle

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/meddata-hub/meddata-cli/internal/hub"
)

// Credentials authenticate against the API with HTTP basic auth.
type Credentials struct {
	Username string
	Key      string
}

// Client downloads datasets.
type Client struct {
	endpoint string
	creds    Credentials
	http     *http.Client
}

// New creates a Client. endpoint defaults to https://www.kaggle.com.
func New(endpoint string, creds Credentials, httpClient *http.Client) *Client {
	if endpoint == "" {
		endpoint = "https://www.kaggle.com"
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		creds:    creds,
		http:     httpClient,
	}
}

// SplitRef splits "owner/slug".
func SplitRef(ref string) (owner, slug string, err error) {
	owner, slug, ok := strings.Cut(ref, "/")
	if !ok || owner == "" || slug == "" || strings.Contains(slug, "/") {
		return "", "", fmt.Errorf("dataset reference %q must be owner/slug", ref)
	}
	return owner, slug, nil
}

// DownloadDataset downloads the archive of ref into destDir and extracts
// it. It returns the paths of the extracted files.
func (c *Client) DownloadDataset(ctx context.Context, ref, destDir string) ([]string, error) {
	owner, slug, err := SplitRef(ref)
	if err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/api/v1/datasets/download/%s/%s", c.endpoint, owner, slug)
	req, err := hub.NewRequest(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.creds.Username, c.creds.Key)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if err := hub.CheckResponse(resp); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		resp.Body.Close()
		return nil, fmt.Errorf("failed to create download directory: %w", err)
	}

	name := attachmentName(resp.Header.Get("Content-Disposition"), slug+".zip")
	archive := filepath.Join(destDir, name)
	if _, err := hub.DownloadFile(resp, archive); err != nil {
		return nil, err
	}

	if !isZip(archive) {
		return []string{archive}, nil
	}

	files, err := Unzip(archive, destDir)
	if err != nil {
		return nil, err
	}
	if err := os.Remove(archive); err != nil {
		return nil, fmt.Errorf("failed to remove archive: %w", err)
	}
	return files, nil
}

func attachmentName(disposition, fallback string) string {
	if disposition == "" {
		return fallback
	}
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil || params["filename"] == "" {
		return fallback
	}
	return filepath.Base(params["filename"])
}

func isZip(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	magic := make([]byte, 4)
	if _, err := io.ReadFull(f, magic); err != nil {
		return false
	}
	return bytes.Equal(magic, []byte("PK\x03\x04"))
}

// Unzip extracts archive into destDir. Entries escaping destDir are
// rejected.
func Unzip(archive, destDir string) ([]string, error) {
	zr, err := zip.OpenReader(archive)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %s: %w", archive, err)
	}
	defer zr.Close()

	root, err := filepath.Abs(destDir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, zf := range zr.File {
		target := filepath.Join(root, filepath.FromSlash(zf.Name))
		if target != root && !strings.HasPrefix(target, root+string(os.PathSeparator)) {
			return nil, fmt.Errorf("archive entry %q escapes the destination", zf.Name)
		}

		if zf.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return nil, err
			}
			continue
		}

		if err := extractFile(zf, target); err != nil {
			return nil, err
		}
		files = append(files, target)
	}

	return files, nil
}

func extractFile(zf *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	rc, err := zf.Open()
	if err != nil {
		return fmt.Errorf("failed to open archive entry %s: %w", zf.Name, err)
	}
	defer rc.Close()

	out, err := os.Create(target)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return fmt.Errorf("failed to extract %s: %w", zf.Name, err)
	}
	return out.Close()
}
