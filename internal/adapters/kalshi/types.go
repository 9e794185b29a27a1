package kalshi

// DTOs del API de Kalshi. Solo los campos que consumimos.

type marketsResponse struct {
	Markets []apiMarket `json:"markets"`
	Cursor  string      `json:"cursor"`
}

type apiMarket struct {
	Ticker    string `json:"ticker"`
	Title     string `json:"title"`
	Category  string `json:"category"`
	Status    string `json:"status"`
	LastPrice int    `json:"last_price"` // centavos, 1-99
	YesBid    int    `json:"yes_bid"`
	YesAsk    int    `json:"yes_ask"`
	Result    string `json:"result"` // "yes" | "no" | ""
	Volume24h int    `json:"volume_24h"`
	CloseTime string `json:"close_time"` // RFC3339
}

// tickerMessage es un mensaje del canal "ticker" del websocket.
type tickerMessage struct {
	Type string `json:"type"`
	Msg  struct {
		MarketTicker string `json:"market_ticker"`
		Price        int    `json:"price"` // centavos
	} `json:"msg"`
}
