package repository

// CacheRepository memoises string values, e.g. vehicle valuations.
type CacheRepository interface {
	Get(key string) (string, bool)
	Set(key string, value string) error
}
