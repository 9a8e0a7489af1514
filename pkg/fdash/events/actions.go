// Package events carries price data actions between the poller and its
// consumers through an in-process bus.
package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/komsit37/fdash/pkg/fdash/types"
)

// Type names an action kind.
type Type string

const (
	TypeGetAPIPriceData  Type = "[Price Data] Get API Price Data"
	TypeBulkAddPriceData Type = "[Price Data] Bulk Add Price Data"
	TypeLoadedFailure    Type = "[Price Data] Loaded Failure"
)

// Action is anything published on the bus.
type Action interface {
	Type() Type
	Header() Meta
}

// Meta identifies one published action.
type Meta struct {
	ID uuid.UUID
	At time.Time
}

// Header returns m; it is promoted into every action.
func (m Meta) Header() Meta { return m }

// NewMeta stamps a new action.
func NewMeta() Meta {
	return Meta{ID: uuid.New(), At: time.Now()}
}

// GetAPIPriceData asks the poller to begin polling.
type GetAPIPriceData struct {
	Meta
}

func (GetAPIPriceData) Type() Type { return TypeGetAPIPriceData }

// BulkAddPriceData carries one successful fetch, one record per tracked symbol.
type BulkAddPriceData struct {
	Meta
	PriceData []types.PriceRecord
}

func (BulkAddPriceData) Type() Type { return TypeBulkAddPriceData }

// LoadedFailure reports a failed fetch.
type LoadedFailure struct {
	Meta
	ErrorMsg string
}

func (LoadedFailure) Type() Type { return TypeLoadedFailure }

// NewGetAPIPriceData returns a stamped trigger action.
func NewGetAPIPriceData() GetAPIPriceData {
	return GetAPIPriceData{Meta: NewMeta()}
}

// NewBulkAddPriceData returns a stamped success action.
func NewBulkAddPriceData(data []types.PriceRecord) BulkAddPriceData {
	return BulkAddPriceData{Meta: NewMeta(), PriceData: data}
}

// NewLoadedFailure returns a stamped failure action.
func NewLoadedFailure(msg string) LoadedFailure {
	return LoadedFailure{Meta: NewMeta(), ErrorMsg: msg}
}
