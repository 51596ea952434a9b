// Package zenodo is a minimal client for publishing run bundles to a Zenodo
// deposition: create a new version of an existing deposition, find its
// upload bucket and stream files into it.
package zenodo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/climres/h2pipeline/internal/ctxlog"
)

// MetadataFileName is the Zenodo metadata file expected at a bundle root.
const MetadataFileName = "zenodo.json"

// Client talks to one Zenodo instance. Uploads retry transient failures.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New returns a client for the given Zenodo host, e.g. "zenodo.org".
func New(host, token string) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 4
	rc.Logger = nil

	return &Client{
		baseURL: "https://" + host,
		token:   token,
		http:    rc.StandardClient(),
	}
}

// NewVersion creates a new draft version of an existing deposition and
// applies the metadata from metadataFile to it. It returns the new
// deposition's ID.
func (c *Client) NewVersion(ctx context.Context, depositionID, metadataFile string) (string, error) {
	var created struct {
		Links struct {
			LatestDraft string `json:"latest_draft"`
		} `json:"links"`
	}
	path := fmt.Sprintf("/api/deposit/depositions/%s/actions/newversion", depositionID)
	if err := c.do(ctx, http.MethodPost, path, nil, &created); err != nil {
		return "", fmt.Errorf("creating new version of deposition %s: %w", depositionID, err)
	}

	newID := created.Links.LatestDraft[strings.LastIndex(created.Links.LatestDraft, "/")+1:]
	if newID == "" {
		return "", fmt.Errorf("deposition %s: new version response carries no draft link", depositionID)
	}

	raw, err := os.ReadFile(metadataFile)
	if err != nil {
		return "", fmt.Errorf("reading deposit metadata: %w", err)
	}
	if !json.Valid(raw) {
		return "", fmt.Errorf("deposit metadata %s is not valid JSON", metadataFile)
	}

	if err := c.do(ctx, http.MethodPut, "/api/deposit/depositions/"+newID, bytes.NewReader(raw), nil); err != nil {
		return "", fmt.Errorf("updating metadata of deposition %s: %w", newID, err)
	}

	return newID, nil
}

// BucketURL returns the upload bucket URL for a deposition.
func (c *Client) BucketURL(ctx context.Context, depositionID string) (string, error) {
	var deposition struct {
		Links struct {
			Bucket string `json:"bucket"`
		} `json:"links"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/deposit/depositions/"+depositionID, nil, &deposition); err != nil {
		return "", fmt.Errorf("fetching deposition %s: %w", depositionID, err)
	}
	if deposition.Links.Bucket == "" {
		return "", fmt.Errorf("deposition %s has no bucket link", depositionID)
	}
	return deposition.Links.Bucket, nil
}

// UploadFile streams one file into the bucket, keyed by its path relative to
// rootDir so the bundle's directory structure survives the upload.
func (c *Client) UploadFile(ctx context.Context, bucketURL, rootDir, path string) error {
	rel, err := filepath.Rel(rootDir, path)
	if err != nil {
		return fmt.Errorf("uploading %s: %w", path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("uploading %s: %w", path, err)
	}
	defer f.Close()

	target := bucketURL + "/" + url.PathEscape(filepath.ToSlash(rel))
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target, f)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("uploading %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("uploading %s: %s: %s", path, resp.Status, strings.TrimSpace(string(body)))
	}

	ctxlog.FromContext(ctx).Debug("Uploaded file.", "file", rel)
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("%s %s: %s: %s", method, path, resp.Status, strings.TrimSpace(string(msg)))
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// CollectBundleFiles lists the files of a bundle worth publishing. Interim
// output directories and unexecuted notebooks are working artifacts, not
// results, and are left out.
func CollectBundleFiles(bundlePath string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(bundlePath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == "interim" {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.Contains(d.Name(), "unexecuted") {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("collecting bundle files under %s: %w", bundlePath, err)
	}
	return files, nil
}
