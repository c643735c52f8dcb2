package cache

import (
	"archive/zip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"geoexplorer/internal/geo"
	"geoexplorer/internal/metrics"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog"
)

// UserAgent is sent with every download
const UserAgent = "Mozilla/5.0 (compatible; geoexplorer/1.0)"

// DefaultMemoryEntries is the number of decoded collections kept in memory
const DefaultMemoryEntries = 64

// ErrNotCached is returned in offline mode when no disk copy exists
var ErrNotCached = errors.New("not cached")

// StatusError is a non-2xx response from a GeoJSON endpoint
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %s", e.URL, e.Status)
}

// DecodeError is a body that did not parse as a GeoJSON feature collection
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Manager fetches GeoJSON datasets network-first with a disk copy to fall
// back on, and downloads the Natural Earth basemap
type Manager struct {
	cacheDir string
	client   *http.Client
	offline  bool
	memory   *lru.Cache[string, *geojson.FeatureCollection]
	log      zerolog.Logger
	metrics  *metrics.Metrics
}

// DataFile represents a Natural Earth dataset to download
type DataFile struct {
	Name     string // Friendly name
	URL      string // Download URL
	Base     string // Base filename (without extension)
	Optional bool   // If true, failure to download won't stop the app
}

// NaturalEarthFiles are the 1:50m outlines drawn under every layer
var NaturalEarthFiles = []DataFile{
	{
		Name:     "States/Provinces",
		URL:      "https://naciscdn.org/naturalearth/50m/cultural/ne_50m_admin_1_states_provinces.zip",
		Base:     strings.TrimSuffix(geo.BasemapStates, ".shp"),
		Optional: true,
	},
	{
		Name:     "Coastlines",
		URL:      "https://naciscdn.org/naturalearth/50m/physical/ne_50m_coastline.zip",
		Base:     strings.TrimSuffix(geo.BasemapCoastline, ".shp"),
		Optional: true,
	},
}

// Option configures a Manager
type Option func(*Manager)

// WithHTTPClient replaces the default client
func WithHTTPClient(c *http.Client) Option {
	return func(m *Manager) { m.client = c }
}

// WithOffline serves every request from disk
func WithOffline(offline bool) Option {
	return func(m *Manager) { m.offline = offline }
}

// WithLogger sets the logger
func WithLogger(log zerolog.Logger) Option {
	return func(m *Manager) { m.log = log }
}

// WithMetrics records cache lookups
func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Manager) { m.metrics = mt }
}

// NewManager creates a new cache manager
// If cacheDir is empty, uses ~/.geoexplorer/data
func NewManager(cacheDir string, opts ...Option) (*Manager, error) {
	if cacheDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		cacheDir = filepath.Join(home, ".geoexplorer", "data")
	}

	if err := os.MkdirAll(filepath.Join(cacheDir, "geojson"), 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	memory, err := lru.New[string, *geojson.FeatureCollection](DefaultMemoryEntries)
	if err != nil {
		return nil, err
	}

	m := &Manager{
		cacheDir: cacheDir,
		client:   &http.Client{Timeout: 60 * time.Second},
		memory:   memory,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

// Fetch returns the feature collection at rawURL. Remote URLs are fetched
// network-first; on a transport failure the last good disk copy is served.
// Local paths and file:// URLs are read directly, .shp files via go-shp.
// The returned collection is shared and must not be modified.
func (m *Manager) Fetch(ctx context.Context, rawURL string) (*geojson.FeatureCollection, error) {
	if fc, ok := m.memory.Get(rawURL); ok {
		m.metrics.IncCacheLookup("memory")
		return fc, nil
	}

	var (
		fc  *geojson.FeatureCollection
		err error
	)
	if isRemote(rawURL) {
		fc, err = m.fetchRemote(ctx, rawURL)
	} else {
		fc, err = m.readLocal(rawURL)
	}
	if err != nil {
		return nil, err
	}

	m.memory.Add(rawURL, fc)
	return fc, nil
}

func isRemote(rawURL string) bool {
	return strings.HasPrefix(rawURL, "http://") || strings.HasPrefix(rawURL, "https://")
}

func (m *Manager) fetchRemote(ctx context.Context, rawURL string) (*geojson.FeatureCollection, error) {
	if m.offline {
		fc, err := m.readDiskCopy(rawURL)
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("fetch %s: %w", rawURL, ErrNotCached)
		}
		return fc, err
	}

	data, err := m.download(ctx, rawURL)
	if err != nil {
		var status *StatusError
		if errors.As(err, &status) || ctx.Err() != nil {
			return nil, err
		}

		fc, diskErr := m.readDiskCopy(rawURL)
		if diskErr != nil {
			return nil, err
		}
		m.log.Warn().Err(err).Str("url", rawURL).Msg("network failed, serving cached copy")
		m.metrics.IncCacheLookup("disk")
		return fc, nil
	}

	fc, err := decode(rawURL, data)
	if err != nil {
		return nil, err
	}
	m.metrics.IncCacheLookup("network")

	if err := m.writeDiskCopy(rawURL, data); err != nil {
		m.log.Warn().Err(err).Str("url", rawURL).Msg("failed to write cache copy")
	}
	return fc, nil
}

func (m *Manager) download(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/geo+json, application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	return data, nil
}

func decode(rawURL string, data []byte) (*geojson.FeatureCollection, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, &DecodeError{URL: rawURL, Err: err}
	}
	return fc, nil
}

func (m *Manager) readLocal(rawURL string) (*geojson.FeatureCollection, error) {
	path := rawURL
	if strings.HasPrefix(rawURL, "file://") {
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", rawURL, err)
		}
		path = u.Path
	}

	if strings.EqualFold(filepath.Ext(path), ".shp") {
		fc, err := geo.LoadShapefile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		return fc, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return decode(rawURL, data)
}

// DiskPath is where the last good copy of rawURL is kept
func (m *Manager) DiskPath(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	return filepath.Join(m.cacheDir, "geojson", hex.EncodeToString(sum[:])+".geojson")
}

func (m *Manager) readDiskCopy(rawURL string) (*geojson.FeatureCollection, error) {
	data, err := os.ReadFile(m.DiskPath(rawURL))
	if err != nil {
		return nil, err
	}
	return decode(rawURL, data)
}

func (m *Manager) writeDiskCopy(rawURL string, data []byte) error {
	dest := m.DiskPath(rawURL)
	tmp, err := os.CreateTemp(filepath.Dir(dest), "fetch_*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dest)
}

// EnsureBasemap ensures the Natural Earth outlines are available
// Downloads missing files automatically
// Optional files that fail to download will be skipped with a warning
func (m *Manager) EnsureBasemap() error {
	if m.offline {
		return nil
	}
	for _, file := range NaturalEarthFiles {
		if err := m.ensureFile(file); err != nil {
			if file.Optional {
				fmt.Printf("Warning: Skipping %s (optional): %v\n", file.Name, err)
				continue
			}
			return fmt.Errorf("failed to ensure %s: %w", file.Name, err)
		}
	}
	return nil
}

// ensureFile checks if a data file exists, downloads if needed
func (m *Manager) ensureFile(file DataFile) error {
	shpPath := filepath.Join(m.cacheDir, file.Base+".shp")
	if _, err := os.Stat(shpPath); err == nil {
		return nil
	}

	fmt.Printf("Downloading %s...\n", file.Name)

	req, err := http.NewRequest(http.MethodGet, file.URL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed with status: %s (URL: %s)", resp.Status, file.URL)
	}

	tmpFile, err := os.CreateTemp("", "ne_*.zip")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name())
	defer tmpFile.Close()

	if _, err := io.Copy(tmpFile, resp.Body); err != nil {
		return fmt.Errorf("failed to save download: %w", err)
	}
	tmpFile.Close()

	if err := extractZip(tmpFile.Name(), m.cacheDir); err != nil {
		return fmt.Errorf("failed to extract: %w", err)
	}

	fmt.Printf("Downloaded and extracted %s\n", file.Name)
	return nil
}

func extractZip(zipPath, destDir string) error {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		if f.FileInfo().IsDir() || strings.HasPrefix(filepath.Base(f.Name), ".") {
			continue
		}

		destPath := filepath.Join(destDir, filepath.Base(f.Name))
		rc, err := f.Open()
		if err != nil {
			return err
		}

		outFile, err := os.Create(destPath)
		if err != nil {
			rc.Close()
			return err
		}

		_, err = io.Copy(outFile, rc)
		outFile.Close()
		rc.Close()

		if err != nil {
			return err
		}
	}

	return nil
}

// Dir returns the cache directory
func (m *Manager) Dir() string {
	return m.cacheDir
}

// Purge drops every decoded collection held in memory
func (m *Manager) Purge() {
	m.memory.Purge()
}
