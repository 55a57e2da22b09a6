package dataset

import (
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sgostarter/i/l"
	"github.com/sgostarter/i/stg"
	"github.com/sgostarter/libeasygo/stg/fs/rawfs"
	"github.com/sgostarter/libeasygo/stg/mwf"
)

type Loader interface {
	Load(fileName string) ([]Record, error)
	LoadDataset(fileName, entityField, fallback string) (*Dataset, error)
}

func NewLoader(storage stg.FileStorage, cacheDuration time.Duration, logger l.Wrapper) Loader {
	if logger == nil {
		logger = l.NewNopLoggerWrapper()
	}

	if storage == nil {
		storage = rawfs.NewFSStorage("")
	}

	if cacheDuration <= 0 {
		cacheDuration = time.Minute
	}

	return &loaderImpl{
		logger:  logger.WithFields(l.StringField(l.ClsKey, "loaderImpl")),
		storage: storage,
		serial:  &mwf.JSONSerial{},
		cached:  cache.New(cacheDuration, cacheDuration*2),
	}
}

type loaderImpl struct {
	logger  l.Wrapper
	storage stg.FileStorage
	serial  mwf.Serial

	cached *cache.Cache
}

func (impl *loaderImpl) Load(fileName string) (records []Record, err error) {
	if i, ok := impl.cached.Get(fileName); ok {
		records, _ = i.([]Record)

		return
	}

	d, err := impl.storage.ReadFile(fileName)
	if err != nil {
		impl.logger.WithFields(l.ErrorField(err), l.StringField("file", fileName)).Error("read failed")

		return
	}

	err = impl.serial.Unmarshal(d, &records)
	if err != nil {
		err = fmt.Errorf("%w: %s: %w", ErrBadValue, fileName, err)

		return
	}

	impl.cached.Set(fileName, records, cache.DefaultExpiration)

	impl.logger.WithFields(l.StringField("file", fileName), l.IntField("records", len(records))).Debug("loaded")

	return
}

func (impl *loaderImpl) LoadDataset(fileName, entityField, fallback string) (*Dataset, error) {
	records, err := impl.Load(fileName)
	if err != nil {
		return nil, err
	}

	return GroupBy(fileName, records, entityField, fallback)
}
