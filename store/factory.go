package store

import "fmt"

// ValidStores is the set of recognized store backends. "none" disables persistence.
var ValidStores = map[string]bool{"": true, "none": true, "memory": true, "sqlite": true}

// NewStore creates a store backend by name. It returns a nil Store for "" and "none".
func NewStore(kind, sqlitePath string) (Store, error) {
	switch kind {
	case "", "none":
		return nil, nil
	case "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		return NewSQLiteStore(sqlitePath), nil
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", kind)
	}
}

func CloseIfSupported(store Store) error {
	closer, ok := store.(interface{ Close() error })
	if !ok {
		return nil
	}
	return closer.Close()
}
