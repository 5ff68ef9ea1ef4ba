// Package huggingface is a minimal client for the Hugging Face Hub and its
// datasets-server.
//
// It covers what the CLI needs: listing and downloading the Parquet shards
// of a dataset, authenticating a token, creating a dataset repository and
// committing files to it. Files the Hub wants in LFS are uploaded through
// the Git LFS batch API before the commit references them.
package huggingface

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/meddata-hub/meddata-cli/internal/hub"
)

// Options configures a Client.
type Options struct {
	// Endpoint is the Hub base URL. Default: https://huggingface.co
	Endpoint string

	// DatasetsServer is the datasets-server base URL.
	// Default: https://datasets-server.huggingface.co
	DatasetsServer string

	// Token is sent as a bearer token when set.
	Token string

	HTTPClient *http.Client
}

// Client talks to the Hub.
type Client struct {
	endpoint       string
	datasetsServer string
	token          string
	http           *http.Client
}

// New creates a Client.
func New(opts Options) *Client {
	if opts.Endpoint == "" {
		opts.Endpoint = "https://huggingface.co"
	}
	if opts.DatasetsServer == "" {
		opts.DatasetsServer = "https://datasets-server.huggingface.co"
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Client{
		endpoint:       strings.TrimRight(opts.Endpoint, "/"),
		datasetsServer: strings.TrimRight(opts.DatasetsServer, "/"),
		token:          opts.Token,
		http:           opts.HTTPClient,
	}
}

// lfsMediaType is required by the Git LFS batch and verify endpoints.
const lfsMediaType = "application/vnd.git-lfs+json"

func (c *Client) do(ctx context.Context, method, u string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := hub.NewRequest(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return c.send(req)
}

func (c *Client) send(req *http.Request) (*http.Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if err := hub.CheckResponse(resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) doJSON(ctx context.Context, method, u string, in, out any) error {
	return c.doMedia(ctx, method, u, "application/json", nil, in, out)
}

// doMedia sends in as mediaType and decodes the response into out. header
// is applied after the default Authorization header and may replace it.
func (c *Client) doMedia(ctx context.Context, method, u, mediaType string, header map[string]string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := hub.NewRequest(ctx, method, u, body)
	if err != nil {
		return err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", mediaType)
	if in != nil {
		req.Header.Set("Content-Type", mediaType)
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}

	resp, err := c.send(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, err = io.Copy(io.Discard, resp.Body)
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", u, err)
	}
	return nil
}

// =============================================================================
// DATASETS-SERVER
// =============================================================================

// ParquetFile is one shard listed by the datasets-server.
type ParquetFile struct {
	Dataset  string `json:"dataset"`
	Config   string `json:"config"`
	Split    string `json:"split"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

// ParquetFiles lists the Parquet shards of a dataset.
func (c *Client) ParquetFiles(ctx context.Context, dataset string) ([]ParquetFile, error) {
	u := c.datasetsServer + "/parquet?dataset=" + url.QueryEscape(dataset)

	var out struct {
		ParquetFiles []ParquetFile `json:"parquet_files"`
	}
	if err := c.doJSON(ctx, http.MethodGet, u, nil, &out); err != nil {
		return nil, err
	}
	return out.ParquetFiles, nil
}

// SelectSplit keeps the shards of split for the first config listed.
func SelectSplit(files []ParquetFile, split string) []ParquetFile {
	config := ""
	var out []ParquetFile
	for _, f := range files {
		if f.Split != split {
			continue
		}
		if config == "" {
			config = f.Config
		}
		if f.Config == config {
			out = append(out, f)
		}
	}
	return out
}

// Download fetches rawURL into dest.
func (c *Client) Download(ctx context.Context, rawURL, dest string) (int64, error) {
	resp, err := c.do(ctx, http.MethodGet, rawURL, nil, "")
	if err != nil {
		return 0, err
	}
	return hub.DownloadFile(resp, dest)
}

// =============================================================================
// HUB API
// =============================================================================

// User is the identity behind a token.
type User struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// WhoAmI validates the token and returns its user.
func (c *Client) WhoAmI(ctx context.Context) (*User, error) {
	var u User
	if err := c.doJSON(ctx, http.MethodGet, c.endpoint+"/api/whoami-v2", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateDatasetRepo creates repoID ("org/name"). An existing repo is not
// an error.
func (c *Client) CreateDatasetRepo(ctx context.Context, repoID string, private bool) error {
	org, name, ok := strings.Cut(repoID, "/")
	if !ok {
		org, name = "", repoID
	}

	req := map[string]any{
		"type":    "dataset",
		"name":    name,
		"private": private,
	}
	if org != "" {
		req["organization"] = org
	}

	err := c.doJSON(ctx, http.MethodPost, c.endpoint+"/api/repos/create", req, nil)
	if hub.IsStatus(err, http.StatusConflict) {
		return nil
	}
	return err
}

// RepoURL returns the public page of a dataset repo.
func (c *Client) RepoURL(repoID string) string {
	return c.endpoint + "/datasets/" + repoID
}

// =============================================================================
// UPLOADS
// =============================================================================

// UploadFile commits the local file at localPath to pathInRepo on main.
func (c *Client) UploadFile(ctx context.Context, repoID, localPath, pathInRepo, message string) error {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", localPath, err)
	}
	if message == "" {
		message = "Upload " + filepath.Base(pathInRepo)
	}

	mode, err := c.uploadMode(ctx, repoID, pathInRepo, data)
	if err != nil {
		return err
	}

	sum := sha256.Sum256(data)
	oid := hex.EncodeToString(sum[:])

	var op map[string]any
	if mode == "lfs" {
		if err := c.uploadLFS(ctx, repoID, oid, data); err != nil {
			return err
		}
		op = map[string]any{"key": "lfsFile", "value": map[string]any{
			"path": pathInRepo, "algo": "sha256", "oid": oid, "size": len(data),
		}}
	} else {
		op = map[string]any{"key": "file", "value": map[string]any{
			"path": pathInRepo, "encoding": "base64", "content": base64.StdEncoding.EncodeToString(data),
		}}
	}

	return c.commit(ctx, repoID, message, op)
}

func (c *Client) uploadMode(ctx context.Context, repoID, pathInRepo string, data []byte) (string, error) {
	sample := data
	if len(sample) > 512 {
		sample = sample[:512]
	}

	req := map[string]any{"files": []map[string]any{{
		"path":   pathInRepo,
		"size":   len(data),
		"sample": base64.StdEncoding.EncodeToString(sample),
	}}}

	var resp struct {
		Files []struct {
			Path       string `json:"path"`
			UploadMode string `json:"uploadMode"`
		} `json:"files"`
	}
	u := fmt.Sprintf("%s/api/datasets/%s/preupload/main", c.endpoint, repoID)
	if err := c.doJSON(ctx, http.MethodPost, u, req, &resp); err != nil {
		return "", err
	}

	for _, f := range resp.Files {
		if f.Path == pathInRepo {
			return f.UploadMode, nil
		}
	}
	return "regular", nil
}

func (c *Client) uploadLFS(ctx context.Context, repoID, oid string, data []byte) error {
	batch := map[string]any{
		"operation": "upload",
		"transfers": []string{"basic"},
		"hash_algo": "sha256",
		"objects":   []map[string]any{{"oid": oid, "size": len(data)}},
	}

	var resp struct {
		Objects []struct {
			Actions map[string]struct {
				Href   string            `json:"href"`
				Header map[string]string `json:"header"`
			} `json:"actions"`
			Error *struct {
				Code    int    `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		} `json:"objects"`
	}

	u := fmt.Sprintf("%s/datasets/%s.git/info/lfs/objects/batch", c.endpoint, repoID)
	if err := c.doMedia(ctx, http.MethodPost, u, lfsMediaType, nil, batch, &resp); err != nil {
		return err
	}
	if len(resp.Objects) == 0 {
		return fmt.Errorf("LFS batch returned no objects")
	}

	obj := resp.Objects[0]
	if obj.Error != nil {
		return fmt.Errorf("LFS batch rejected object: %d %s", obj.Error.Code, obj.Error.Message)
	}

	upload, ok := obj.Actions["upload"]
	if !ok {
		// The Hub already has this object.
		return nil
	}

	req, err := hub.NewRequest(ctx, http.MethodPut, upload.Href, bytes.NewReader(data))
	if err != nil {
		return err
	}
	for k, v := range upload.Header {
		req.Header.Set(k, v)
	}
	req.ContentLength = int64(len(data))

	putResp, err := c.send(req)
	if err != nil {
		return fmt.Errorf("failed to upload LFS object: %w", err)
	}
	putResp.Body.Close()

	verify, ok := obj.Actions["verify"]
	if !ok {
		return nil
	}
	object := map[string]any{"oid": oid, "size": len(data)}
	if err := c.doMedia(ctx, http.MethodPost, verify.Href, lfsMediaType, verify.Header, object, nil); err != nil {
		return fmt.Errorf("failed to verify LFS object: %w", err)
	}

	return nil
}

func (c *Client) commit(ctx context.Context, repoID, summary string, ops ...map[string]any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)

	header := map[string]any{"key": "header", "value": map[string]any{"summary": summary, "description": ""}}
	if err := enc.Encode(header); err != nil {
		return err
	}
	for _, op := range ops {
		if err := enc.Encode(op); err != nil {
			return err
		}
	}

	u := fmt.Sprintf("%s/api/datasets/%s/commit/main", c.endpoint, repoID)
	resp, err := c.do(ctx, http.MethodPost, u, &buf, "application/x-ndjson")
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}
