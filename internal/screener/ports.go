package screener

import (
	"context"
	"time"

	"quant-lab/internal/series"
)

// MarketCapProvider 提供单个标的的市值查询，用于候选池排序。
type MarketCapProvider interface {
	MarketCap(ctx context.Context, ticker string) (float64, error)
}

// PriceLoader 提供历史价格序列加载，单标的与配对两种形态。
type PriceLoader interface {
	LoadSingle(ctx context.Context, ticker string, start, end time.Time) (series.PriceSeries, error)
	LoadPair(ctx context.Context, ticker1, ticker2 string, start, end time.Time) (series.PriceSeries, error)
}

// CompanyResolver 判断两个代码是否指向同一家公司，
// 用于配对筛选时剔除同一公司的双重上市。
type CompanyResolver interface {
	SameCompany(ctx context.Context, ticker1, ticker2 string) (bool, error)
}
