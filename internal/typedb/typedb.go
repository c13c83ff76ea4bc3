// Package typedb resolves ICAO type designators to human-readable aircraft
// model names using a locally cached reference database.
package typedb

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/flugtracker/flugtracker-go/internal/conf"
	"github.com/flugtracker/flugtracker-go/internal/errors"
	"github.com/flugtracker/flugtracker-go/internal/logging"
)

// UnknownModel is the sentinel label stored when no type information can be
// resolved at all. Resolve never returns an empty string.
const UnknownModel = "Unbekannt"

// Package-level logger for type database operations
var (
	typedbLogger   *slog.Logger
	typedbLevelVar = new(slog.LevelVar)
)

func init() {
	var err error
	typedbLevelVar.Set(slog.LevelInfo)
	typedbLogger, _, err = logging.NewFileLogger("logs/typedb.log", "typedb", typedbLevelVar)
	if err != nil {
		logging.Error("Failed to initialize typedb file logger", "error", err)
		typedbLogger = logging.Default().With("service", "typedb")
	}
}

// LiveLookup is an optional authoritative type lookup keyed by hex address,
// typically backed by a local receiver database. It returns an empty string
// when the hex is unknown.
type LiveLookup func(icaoHex string) string

// remoteEntry mirrors one element of the ICAO Doc8643 aircraft type listing.
type remoteEntry struct {
	Designator    string `json:"Designator"`
	ModelFullName string `json:"ModelFullName"`
}

// Resolver owns the type designator mapping. The mapping is read-only
// between refreshes; a refresh replaces it wholesale under the write lock so
// concurrent resolution never observes a partial update.
type Resolver struct {
	mu      sync.RWMutex
	mapping map[string]string

	path         string
	remoteURL    string
	refreshAfter time.Duration

	liveLookup LiveLookup
	cache      *gocache.Cache
	client     *http.Client
}

// New creates a Resolver from settings, loading the reference file and
// refreshing it from the remote listing when it is missing or stale. A
// failed refresh is logged and never fatal; the resolver starts with
// whatever mapping is available, possibly empty.
func New(settings *conf.Settings, liveLookup LiveLookup) *Resolver {
	cacheTTL := time.Duration(settings.TypeDB.CacheTTL) * time.Minute

	r := &Resolver{
		mapping:      map[string]string{},
		path:         settings.TypeDB.Path,
		remoteURL:    settings.TypeDB.RemoteURL,
		refreshAfter: time.Duration(settings.TypeDB.RefreshDays) * 24 * time.Hour,
		liveLookup:   liveLookup,
		cache:        gocache.New(cacheTTL, 2*cacheTTL),
		client:       &http.Client{Timeout: 30 * time.Second},
	}

	if err := r.RefreshIfStale(); err != nil {
		typedbLogger.Warn("Reference database refresh failed, continuing with local data", "error", err)
	}
	if err := r.loadFile(); err != nil {
		typedbLogger.Warn("Reference database unavailable, type codes will not be resolved", "error", err)
	}
	return r
}

// Resolve maps a hex address and raw feed type code to a display model name.
// Priority: live receiver lookup, then the reference mapping for the
// trimmed upper-cased code, then the code itself, then the hex address,
// then the UnknownModel sentinel.
func (r *Resolver) Resolve(icaoHex, rawTypeCode string) string {
	hex := strings.ToUpper(strings.TrimSpace(icaoHex))
	code := strings.ToUpper(strings.TrimSpace(rawTypeCode))

	cacheKey := hex + "/" + code
	if cached, found := r.cache.Get(cacheKey); found {
		return cached.(string)
	}

	label := r.resolveUncached(hex, code)
	r.cache.SetDefault(cacheKey, label)
	return label
}

func (r *Resolver) resolveUncached(hex, code string) string {
	if r.liveLookup != nil {
		if live := strings.TrimSpace(r.liveLookup(hex)); live != "" {
			code = strings.ToUpper(live)
		}
	}

	r.mu.RLock()
	model, ok := r.mapping[code]
	r.mu.RUnlock()
	if ok {
		return model
	}

	switch {
	case code != "":
		return code
	case hex != "":
		return hex
	default:
		return UnknownModel
	}
}

// Len returns the number of entries in the current mapping.
func (r *Resolver) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.mapping)
}

// RefreshIfStale downloads the remote listing when the local file is
// missing or older than the configured cadence.
func (r *Resolver) RefreshIfStale() error {
	info, err := os.Stat(r.path)
	if err == nil && time.Since(info.ModTime()) < r.refreshAfter {
		return nil
	}
	return r.download()
}

// ManualRefresh forces a re-download of the reference database and swaps
// the in-memory mapping, regardless of file age.
func (r *Resolver) ManualRefresh() error {
	if err := r.download(); err != nil {
		return err
	}
	return r.loadFile()
}

// download fetches the remote listing and rewrites the local two-column
// reference file.
func (r *Resolver) download() error {
	typedbLogger.Info("Refreshing aircraft type database", "url", r.remoteURL)

	resp, err := r.client.Get(r.remoteURL)
	if err != nil {
		return errors.New(err).
			Component("typedb").
			Category(errors.CategoryNetwork).
			Context("url", r.remoteURL).
			Build()
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			typedbLogger.Debug("Failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return errors.Newf("type listing returned status %d", resp.StatusCode).
			Component("typedb").
			Category(errors.CategoryNetwork).
			Context("url", r.remoteURL).
			Build()
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.New(err).
			Component("typedb").
			Category(errors.CategoryNetwork).
			Context("operation", "read_response_body").
			Build()
	}

	var entries []remoteEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return errors.New(err).
			Component("typedb").
			Category(errors.CategoryFileIO).
			Context("operation", "parse_type_listing").
			Build()
	}

	if err := r.writeFile(entries); err != nil {
		return err
	}

	typedbLogger.Info("Aircraft type database refreshed", "entries", len(entries))
	return nil
}

// writeFile persists the listing as a two-column csv table, keyed by
// upper-cased designator. Later duplicates win, matching the listing order.
func (r *Resolver) writeFile(entries []remoteEntry) error {
	f, err := os.Create(r.path)
	if err != nil {
		return errors.New(err).
			Component("typedb").
			Category(errors.CategoryFileIO).
			Context("path", r.path).
			Build()
	}
	defer func() {
		if err := f.Close(); err != nil {
			typedbLogger.Debug("Failed to close reference file", "error", err)
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"icao", "model"}); err != nil {
		return fmt.Errorf("writing reference file header: %w", err)
	}
	for _, e := range entries {
		designator := strings.ToUpper(strings.TrimSpace(e.Designator))
		model := strings.TrimSpace(e.ModelFullName)
		if designator == "" || model == "" {
			continue
		}
		if err := w.Write([]string{designator, model}); err != nil {
			return fmt.Errorf("writing reference file row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

// loadFile reads the local reference table and atomically swaps the
// in-memory mapping.
func (r *Resolver) loadFile() error {
	f, err := os.Open(r.path)
	if err != nil {
		return errors.New(err).
			Component("typedb").
			Category(errors.CategoryFileIO).
			Context("path", r.path).
			Build()
	}
	defer func() {
		if err := f.Close(); err != nil {
			typedbLogger.Debug("Failed to close reference file", "error", err)
		}
	}()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = 2
	rows, err := reader.ReadAll()
	if err != nil {
		return errors.New(err).
			Component("typedb").
			Category(errors.CategoryFileIO).
			Context("path", r.path).
			Context("operation", "parse_reference_table").
			Build()
	}

	mapping := make(map[string]string, len(rows))
	for i, row := range rows {
		if i == 0 && strings.EqualFold(row[0], "icao") {
			continue // header
		}
		designator := strings.ToUpper(strings.TrimSpace(row[0]))
		model := strings.TrimSpace(row[1])
		if designator == "" || model == "" {
			continue
		}
		mapping[designator] = model
	}

	r.mu.Lock()
	r.mapping = mapping
	r.mu.Unlock()
	r.cache.Flush()

	typedbLogger.Info("Loaded aircraft type database", "path", r.path, "entries", len(mapping))
	return nil
}
