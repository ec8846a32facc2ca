// Package marketdata 实现基于 Yahoo Finance 风格接口的历史行情客户端，
// 为筛选与回测层提供价格序列、市值与公司名称查询。
package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"quant-lab/internal/series"
)

// Client 封装行情接口调用。
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient 创建行情客户端。
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			Price struct {
				LongName  string `json:"longName"`
				MarketCap struct {
					Raw float64 `json:"raw"`
				} `json:"marketCap"`
			} `json:"price"`
		} `json:"result"`
	} `json:"quoteSummary"`
}

// history 拉取单标的的日线收盘价，剔除缺失值后按日期升序返回。
func (c *Client) history(ctx context.Context, ticker string, start, end time.Time) ([]time.Time, []float64, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s", c.baseURL, url.PathEscape(ticker))
	query := url.Values{}
	query.Set("period1", fmt.Sprintf("%d", start.Unix()))
	query.Set("period2", fmt.Sprintf("%d", end.Unix()))
	query.Set("interval", "1d")

	var resp chartResponse
	if err := c.getJSON(ctx, endpoint+"?"+query.Encode(), &resp); err != nil {
		return nil, nil, err
	}
	if resp.Chart.Error != nil {
		return nil, nil, fmt.Errorf("marketdata: 行情接口返回错误: %s", resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 || len(resp.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, nil, fmt.Errorf("marketdata: %s 无可用行情数据", ticker)
	}

	result := resp.Chart.Result[0]
	closes := result.Indicators.Quote[0].Close

	var (
		dates  []time.Time
		values []float64
	)
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		day := time.Unix(ts, 0).UTC().Truncate(24 * time.Hour)
		dates = append(dates, day)
		values = append(values, *closes[i])
	}
	return dates, values, nil
}

// LoadSingle 加载单标的价格序列。
func (c *Client) LoadSingle(ctx context.Context, ticker string, start, end time.Time) (series.PriceSeries, error) {
	dates, closes, err := c.history(ctx, ticker, start, end)
	if err != nil {
		return series.PriceSeries{}, err
	}
	if dates == nil {
		dates = []time.Time{}
		closes = []float64{}
	}
	return series.NewSingle(dates, closes)
}

// LoadPair 加载配对序列，两腿按交易日内连接对齐。
func (c *Client) LoadPair(ctx context.Context, ticker1, ticker2 string, start, end time.Time) (series.PriceSeries, error) {
	dates1, closes1, err := c.history(ctx, ticker1, start, end)
	if err != nil {
		return series.PriceSeries{}, err
	}
	dates2, closes2, err := c.history(ctx, ticker2, start, end)
	if err != nil {
		return series.PriceSeries{}, err
	}

	byDate := make(map[time.Time]float64, len(dates2))
	for i, d := range dates2 {
		byDate[d] = closes2[i]
	}

	dates := []time.Time{}
	close1 := []float64{}
	close2 := []float64{}
	for i, d := range dates1 {
		v2, ok := byDate[d]
		if !ok {
			continue
		}
		dates = append(dates, d)
		close1 = append(close1, closes1[i])
		close2 = append(close2, v2)
	}
	return series.NewPair(dates, close1, close2)
}

// quoteSummary 拉取标的的报价摘要。
func (c *Client) quoteSummary(ctx context.Context, ticker string) (*quoteSummaryResponse, error) {
	endpoint := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=price", c.baseURL, url.PathEscape(ticker))
	var resp quoteSummaryResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("marketdata: %s 无报价摘要数据", ticker)
	}
	return &resp, nil
}

// MarketCap 查询标的市值，缺失时返回错误由调用方剔除该标的。
func (c *Client) MarketCap(ctx context.Context, ticker string) (float64, error) {
	resp, err := c.quoteSummary(ctx, ticker)
	if err != nil {
		return 0, err
	}
	marketCap := resp.QuoteSummary.Result[0].Price.MarketCap.Raw
	if marketCap <= 0 {
		return 0, fmt.Errorf("marketdata: %s 市值数据不可用", ticker)
	}
	return marketCap, nil
}

// LongName 查询公司全名，缺失时回退为代码本身。
func (c *Client) LongName(ctx context.Context, ticker string) (string, error) {
	resp, err := c.quoteSummary(ctx, ticker)
	if err != nil {
		return "", err
	}
	name := resp.QuoteSummary.Result[0].Price.LongName
	if name == "" {
		return ticker, nil
	}
	return name, nil
}

// SameCompany 判断两个代码是否指向同一家公司：公司全名小写后相等
// 且均非空才算同一公司。
func (c *Client) SameCompany(ctx context.Context, ticker1, ticker2 string) (bool, error) {
	name1, err := c.LongName(ctx, ticker1)
	if err != nil {
		return false, err
	}
	name2, err := c.LongName(ctx, ticker2)
	if err != nil {
		return false, err
	}
	name1 = strings.ToLower(name1)
	name2 = strings.ToLower(name2)
	return name1 != "" && name2 != "" && name1 == name2, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("marketdata: 构建请求失败: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "quant-lab/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("marketdata: 请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("marketdata: 接口返回状态码 %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("marketdata: 解析响应失败: %w", err)
	}
	return nil
}
