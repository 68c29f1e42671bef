package dto

// DashboardFilter is bound from GET /admin/analytics/dashboard. Empty bounds
// default to the last 30 days.
type DashboardFilter struct {
	From string `form:"from" validate:"omitempty,datetime=2006-01-02"`
	To   string `form:"to"   validate:"omitempty,datetime=2006-01-02"`
}

type DayRevenue struct {
	Date    string `json:"date"`
	Orders  int64  `json:"orders"`
	Revenue string `json:"revenue"`
}

type TopItem struct {
	ItemID      string `json:"itemId"`
	Type        string `json:"type"`
	Designation string `json:"designation"`
	Quantity    int64  `json:"quantity"`
}

type DashboardResponse struct {
	From         string           `json:"from"`
	To           string           `json:"to"`
	OrdersCount  int64            `json:"ordersCount"`
	Revenue      string           `json:"revenue"`
	ByStatus     map[string]int64 `json:"byStatus"`
	RevenueByDay []DayRevenue     `json:"revenueByDay"`
	TopItems     []TopItem        `json:"topItems"`
	ClientsCount int64            `json:"clientsCount"`
}
