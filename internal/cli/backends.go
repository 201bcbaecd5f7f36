package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/noor/internal/storage"
	"github.com/julianstephens/noor/internal/storage/httpstore"
	"github.com/julianstephens/noor/internal/storage/jsonfile"
	"github.com/julianstephens/noor/internal/storage/postgres"
	"github.com/julianstephens/noor/internal/storage/sqlite"
)

// ErrUnknownRemote is returned for a remote URL no backend understands
var ErrUnknownRemote = errors.New("unsupported remote store")

// OpenCache picks the cache backend by file extension
func OpenCache(path string) storage.CacheProvider {
	if IsJSONPath(path) {
		return jsonfile.NewStore(path)
	}
	return sqlite.NewStore(path)
}

// OpenRemote picks the remote backend by URL scheme. An empty URL means
// local-only and returns nil.
func OpenRemote(url string) (storage.RemoteProvider, error) {
	url = strings.TrimSpace(url)
	switch {
	case url == "":
		return nil, nil
	case postgres.IsURL(url) || strings.Contains(url, "host="):
		if valid, err := postgres.ValidateConnString(url); !valid {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("PostgreSQL connection strings with embedded passwords are not allowed; use PGPASSWORD, ~/.pgpass or 'noor keyring set remote'")
			}
			return nil, err
		}
		return postgres.New(url), nil
	case strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://"):
		return httpstore.New(url), nil
	case strings.HasPrefix(url, "sqlite://"):
		return sqlite.NewStore(strings.TrimPrefix(url, "sqlite://")), nil
	case strings.HasSuffix(url, ".db"):
		return sqlite.NewStore(url), nil
	default:
		return nil, fmt.Errorf("%w: %q (expected postgres://, http(s)://, sqlite:// or a .db path)", ErrUnknownRemote, url)
	}
}
