package market

import (
	"context"
	"fmt"

	yfgo "github.com/komsit37/yf-go"

	"github.com/komsit37/fdash/pkg/fdash/types"
)

// YahooQuoter implements Quoter using yf-go's price module.
type YahooQuoter struct {
	client *yfgo.Client
}

// NewYahooQuoter creates a quoter with a default yf-go client.
func NewYahooQuoter() *YahooQuoter {
	return &YahooQuoter{client: yfgo.NewClient()}
}

func (q *YahooQuoter) Quote(ctx context.Context, ticker string) (types.PriceRecord, error) {
	res, err := q.client.QuoteSummaryTyped(ctx, ticker, []yfgo.QuoteSummaryModule{yfgo.ModulePrice})
	if err != nil {
		return types.PriceRecord{}, err
	}
	if res.Price == nil {
		return types.PriceRecord{}, fmt.Errorf("no price for %s", ticker)
	}

	fields := map[string]any{}
	p := res.Price.RegularMarketPrice
	if p.Raw == nil && p.Fmt == "" {
		return types.PriceRecord{}, fmt.Errorf("no price for %s", ticker)
	}
	if p.Raw != nil {
		fields[types.FieldPrice] = *p.Raw
	}
	if p.Fmt != "" {
		fields[types.FieldPriceFmt] = p.Fmt
	}
	cp := res.Price.RegularMarketChangePercent
	if cp.Raw != nil {
		fields[types.FieldChangePercent] = *cp.Raw
	}
	if cp.Fmt != "" {
		fields[types.FieldChangeFmt] = cp.Fmt
	}
	if res.Price.ShortName != "" {
		fields[types.FieldName] = res.Price.ShortName
	} else if res.Price.LongName != "" {
		fields[types.FieldName] = res.Price.LongName
	}
	return types.PriceRecord{Fields: fields}, nil
}
