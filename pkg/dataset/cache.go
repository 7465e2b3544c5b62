package dataset

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
)

func cacheKey(url string) []byte {
	return fmt.Appendf([]byte{}, "dataset-%s", url)
}

// GetCached returns the dataset previously stored for url, if any.
func GetCached(db *leveldb.DB, url string) (Dataset, bool, error) {
	b, err := db.Get(cacheKey(url), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, false, nil
	} else if err != nil {
		return nil, false, err
	}

	var out Dataset
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached dataset %s: %w", url, err)
	}
	return out, true, nil
}

func PutCached(db *leveldb.DB, url string, data Dataset) error {
	if b, err := json.Marshal(data); err != nil {
		return fmt.Errorf("failed to cache dataset: %w", err)
	} else if err := db.Put(cacheKey(url), b, nil); err != nil {
		return fmt.Errorf("failed to cache dataset: %w", err)
	}
	return nil
}
