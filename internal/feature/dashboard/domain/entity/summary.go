package entity

// StatCard はダッシュボード上部の統計カード1枚分です。
type StatCard struct {
	Title      string `json:"title"`
	Value      string `json:"value"`
	Raw        string `json:"raw"`
	Change     string `json:"change"`
	IsPositive bool   `json:"is_positive"`
}

// ActivityItem は表示用に整形されたアクティビティです。
type ActivityItem struct {
	Kind        string `json:"kind"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Time        string `json:"time"`
}

// TransactionItem は「最近の取引」テーブルの1行です。
type TransactionItem struct {
	OrderNo string `json:"order_no"`
	Client  string `json:"client"`
	Asset   string `json:"asset"`
	Type    string `json:"type"`
	Amount  string `json:"amount"`
	Status  string `json:"status"`
}

// Summary は GET /api/v1/dashboard/summary の内容です。キャッシュにはこの形で JSON 保存されます。
type Summary struct {
	Stats              []StatCard        `json:"stats"`
	RecentActivities   []ActivityItem    `json:"recent_activities"`
	RecentTransactions []TransactionItem `json:"recent_transactions"`
	GeneratedAt        string            `json:"generated_at"`
}
