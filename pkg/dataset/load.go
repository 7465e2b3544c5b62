package dataset

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/jedib0t/go-pretty/v6/progress"
	"github.com/syndtr/goleveldb/leveldb"
)

var (
	apiClient = resty.New()
)

func isRemote(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// Load reads the dataset at path, which is either a local file or an
// http(s) URL. Remote datasets are served from db when cached there and
// stored into it after a fetch. db and pw may be nil.
func Load(ctx context.Context, pw progress.Writer, db *leveldb.DB, path string) (Dataset, error) {
	var tracker *progress.Tracker
	if pw != nil {
		tracker = &progress.Tracker{
			Message: fmt.Sprintf("Loading %s", path),
			Units:   progress.UnitsDefault,
		}
		pw.AppendTracker(tracker)
		tracker.Start()
	}

	data, err := load(ctx, db, path)
	if err != nil {
		if tracker != nil {
			tracker.MarkAsErrored()
		}
		return nil, err
	}
	if len(data) == 0 {
		if tracker != nil {
			tracker.MarkAsErrored()
		}
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyDataset)
	}

	if tracker != nil {
		tracker.UpdateTotal(int64(len(data)))
		tracker.SetValue(int64(len(data)))
		tracker.MarkAsDone()
	}
	return data, nil
}

func load(ctx context.Context, db *leveldb.DB, path string) (Dataset, error) {
	if !isRemote(path) {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open dataset: %w", err)
		}
		defer f.Close()

		if data, err := Parse(f); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		} else {
			return data, nil
		}
	}

	if db != nil {
		if data, ok, err := GetCached(db, path); err != nil {
			log.Printf("ignoring dataset cache: %v", err)
		} else if ok {
			return data, nil
		}
	}

	data, err := fetch(ctx, path)
	if err != nil {
		return nil, err
	}

	if db != nil && len(data) > 0 {
		if err := PutCached(db, path, data); err != nil {
			log.Println(err)
		}
	}
	return data, nil
}

func fetch(ctx context.Context, url string) (Dataset, error) {
	if resp, err := apiClient.R().SetContext(ctx).Get(url); err != nil {
		return nil, fmt.Errorf("failed to fetch dataset: %w", err)
	} else if resp.IsError() {
		return nil, fmt.Errorf("failed to fetch dataset: error response: %v", resp.Status())
	} else if data, err := Parse(bytes.NewReader(resp.Body())); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", url, err)
	} else {
		return data, nil
	}
}
