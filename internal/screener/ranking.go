package screener

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// 市值拉取的默认并发度。
const defaultFetchWorkers = 8

// Company 表示候选池中的一个标的及其排序信号。
type Company struct {
	Ticker    string
	MarketCap float64
}

// TopCompanies 通过有界工作池并发拉取各标的市值，按市值降序排序后
// 截断到前 topN 个 (topN <= 0 时返回全部)。
//
// 单个标的查询失败只会被记录并从候选池剔除，不会中断整个筛选；
// 并发收集不保证顺序，由随后的排序恢复确定性。
func (s *Selector) TopCompanies(ctx context.Context, tickers []string, topN int) ([]Company, error) {
	var (
		mu        sync.Mutex
		companies []Company
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.fetchWorkers)

	for _, ticker := range tickers {
		ticker := ticker
		group.Go(func() error {
			marketCap, err := s.caps.MarketCap(groupCtx, ticker)
			if err != nil {
				s.logger.Warn("市值数据不可用, 剔除该标的",
					zap.String("ticker", ticker),
					zap.Error(err),
				)
				return nil
			}
			mu.Lock()
			companies = append(companies, Company{Ticker: ticker, MarketCap: marketCap})
			mu.Unlock()
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(companies, func(i, j int) bool {
		if companies[i].MarketCap != companies[j].MarketCap {
			return companies[i].MarketCap > companies[j].MarketCap
		}
		return companies[i].Ticker < companies[j].Ticker
	})

	if topN > 0 && len(companies) > topN {
		companies = companies[:topN]
	}
	return companies, nil
}
