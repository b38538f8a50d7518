package model

// MarketHistoryItem 行情历史点
type MarketHistoryItem struct {
	Date   string  `json:"date"`
	Value  float64 `json:"value"`
	Change float64 `json:"change"`
}

// MarketItem 行情条目（燃油价格、运价指数等）
type MarketItem struct {
	ID       string              `json:"id"`
	Title    string              `json:"title"`
	Currency string              `json:"currency"`
	History  []MarketHistoryItem `json:"history"`
}

// Latest 最新一条历史记录
func (m MarketItem) Latest() (MarketHistoryItem, bool) {
	if len(m.History) == 0 {
		return MarketHistoryItem{}, false
	}
	return m.History[len(m.History)-1], true
}
