package driven

// ConfigStore is a flat key/value view of the configuration file.
// Keys are dotted section paths such as "ingest.max_pages". Typed getters
// return the zero value when a key is missing or holds another type.
type ConfigStore interface {
	Get(key string) (any, bool)
	GetString(key string) string
	GetInt(key string) int
	GetBool(key string) bool
	GetStringSlice(key string) []string

	// Keys returns every key currently set, sorted.
	Keys() []string

	// Set stores value under key and persists it.
	Set(key string, value any) error

	// Save writes the current values; Load replaces them from storage.
	Save() error
	Load() error

	// Path locates the backing file, or describes an in-memory store.
	Path() string
}
