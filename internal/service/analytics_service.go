package service

import (
	"context"
	"time"

	"boutique/internal/dto"
	"boutique/internal/model"
	"boutique/internal/repository"

	"github.com/shopspring/decimal"
)

const (
	dashboardDefaultDays = 30
	dashboardTopItems    = 5
)

// revenueExcluded are the statuses that never count as revenue.
var revenueExcluded = []string{model.StatusCancelled, model.StatusRefunded}

type AnalyticsService interface {
	Dashboard(ctx context.Context, filter dto.DashboardFilter) (*dto.DashboardResponse, error)
}

type analyticsService struct {
	ventes  repository.VenteRepository
	clients repository.ClientRepository
	now     func() time.Time
}

func NewAnalyticsService(ventes repository.VenteRepository, clients repository.ClientRepository) AnalyticsService {
	return &analyticsService{ventes: ventes, clients: clients, now: time.Now}
}

// Dashboard aggregates orders in [from, to], both days inclusive.
func (s *analyticsService) Dashboard(ctx context.Context, filter dto.DashboardFilter) (*dto.DashboardResponse, error) {
	from, to, err := s.dashboardRange(filter)
	if err != nil {
		return nil, err
	}
	end := to.AddDate(0, 0, 1)

	ventes, err := s.ventes.InRange(ctx, from, end)
	if err != nil {
		return nil, err
	}

	days := map[string]*dto.DayRevenue{}
	dayRevenue := map[string]decimal.Decimal{}
	for d := from; d.Before(end); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		days[key] = &dto.DayRevenue{Date: key}
		dayRevenue[key] = decimal.Zero
	}

	byStatus := map[string]int64{}
	revenue := decimal.Zero
	for _, v := range ventes {
		byStatus[v.Status]++
		key := v.CreatedAt.In(from.Location()).Format("2006-01-02")
		day, ok := days[key]
		if !ok {
			continue
		}
		day.Orders++
		if countsAsRevenue(v.Status) {
			revenue = revenue.Add(v.NetAPayer)
			dayRevenue[key] = dayRevenue[key].Add(v.NetAPayer)
		}
	}

	perDay := make([]dto.DayRevenue, 0, len(days))
	for d := from; d.Before(end); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		day := days[key]
		day.Revenue = money(dayRevenue[key])
		perDay = append(perDay, *day)
	}

	rows, err := s.ventes.TopItems(ctx, from, end, revenueExcluded, dashboardTopItems)
	if err != nil {
		return nil, err
	}
	top := make([]dto.TopItem, len(rows))
	for i, r := range rows {
		top[i] = dto.TopItem{ItemID: r.ItemID, Type: r.Type, Designation: r.Designation, Quantity: r.Quantity}
	}

	clients, err := s.clients.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.DashboardResponse{
		From:         from.Format("2006-01-02"),
		To:           to.Format("2006-01-02"),
		OrdersCount:  int64(len(ventes)),
		Revenue:      money(revenue),
		ByStatus:     byStatus,
		RevenueByDay: perDay,
		TopItems:     top,
		ClientsCount: clients,
	}, nil
}

// dashboardRange resolves the filter to day starts. Missing bounds default to
// the last 30 days ending today.
func (s *analyticsService) dashboardRange(filter dto.DashboardFilter) (time.Time, time.Time, error) {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	to := today
	if filter.To != "" {
		t, err := time.ParseInLocation("2006-01-02", filter.To, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, invalid("date de fin invalide")
		}
		to = t
	}
	from := to.AddDate(0, 0, -(dashboardDefaultDays - 1))
	if filter.From != "" {
		f, err := time.ParseInLocation("2006-01-02", filter.From, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, invalid("date de début invalide")
		}
		from = f
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, invalid("la date de fin précède la date de début")
	}
	if to.Sub(from) > 366*24*time.Hour {
		return time.Time{}, time.Time{}, invalid("la période ne peut dépasser un an")
	}
	return from, to, nil
}

func countsAsRevenue(status string) bool {
	for _, s := range revenueExcluded {
		if status == s {
			return false
		}
	}
	return true
}
