package airports

import (
	"context"
	"fmt"
	"sync"

	"github.com/oakwood-commons/flightform/pkg/logger"
)

// Dataset is the load-once airport list shared by all widgets on a form.
//
// It starts empty. The first Load populates it (or records the failure) and
// closes the Ready channel; later loads are ignored. Records never change
// after that, so readers need no coordination beyond Ready.
type Dataset struct {
	once    sync.Once
	ready   chan struct{}
	mu      sync.RWMutex
	records []Record
	source  string
	err     error
}

// NewDataset returns an empty dataset waiting for Load.
func NewDataset() *Dataset {
	return &Dataset{ready: make(chan struct{})}
}

// NewStaticDataset returns a dataset that is already loaded with records.
func NewStaticDataset(records []Record) *Dataset {
	d := NewDataset()
	d.once.Do(func() { d.finish("static", records, nil) })
	return d
}

// Load fetches and decodes src, populating the dataset. Only the first call
// has any effect; every call returns the outcome of that first load. A failure
// leaves the dataset empty for good.
func (d *Dataset) Load(ctx context.Context, src Source) error {
	d.once.Do(func() {
		log := logger.WithValues(logger.ForComponent(ctx, "dataset"), logger.SourceKey, src.String())
		log.V(1).Info("loading airport data")

		records, err := fetchAndDecode(ctx, src)
		if err != nil {
			err = fmt.Errorf("%w: %s: %w", ErrDataLoad, src, err)
			log.Error(err, "error loading airport data")
			d.finish(src.String(), nil, err)
			return
		}
		log.Info("airport data loaded", "count", len(records))
		d.finish(src.String(), records, nil)
	})
	<-d.ready
	return d.Err()
}

// LoadAsync starts Load in the background. Callers wait on Ready.
func (d *Dataset) LoadAsync(ctx context.Context, src Source) {
	go func() { _ = d.Load(ctx, src) }()
}

func fetchAndDecode(ctx context.Context, src Source) ([]Record, error) {
	data, err := src.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// finish must only run inside d.once.
func (d *Dataset) finish(source string, records []Record, err error) {
	d.mu.Lock()
	d.records = records
	d.source = source
	d.err = err
	d.mu.Unlock()
	close(d.ready)
}

// Ready is closed once loading has finished, successfully or not.
func (d *Dataset) Ready() <-chan struct{} {
	return d.ready
}

// IsReady reports whether loading has finished.
func (d *Dataset) IsReady() bool {
	select {
	case <-d.ready:
		return true
	default:
		return false
	}
}

// Records returns the loaded records, or nil before loading finishes or after
// a failed load. The slice is shared and must not be modified.
func (d *Dataset) Records() []Record {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.records
}

// Len returns the number of loaded records.
func (d *Dataset) Len() int {
	return len(d.Records())
}

// Err returns the load failure, if any.
func (d *Dataset) Err() error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.err
}

// Source names where the records came from; empty until loaded.
func (d *Dataset) Source() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.source
}
