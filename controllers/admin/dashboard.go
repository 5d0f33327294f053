package adminControllers

import (
	"math"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rbpanchal/medimatch-api/models"
	"gorm.io/gorm"
)

const lowStockThreshold = 5

type revenuePoint struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

type topProduct struct {
	Product string `json:"product"`
	Sold    int    `json:"sold"`
}

// GET /api/admin/dashboard/
//
// KPIs, revenue trend, status breakdown, top sellers and low-stock
// alerts, computed over the full order log. The aggregation is done
// in-process; order volume for a single supplier stays small enough
// that this beats maintaining rollup tables.
func Dashboard(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}

		today := time.Now().UTC().Format("2006-01-02")

		var revenue float64
		ordersToday := 0
		byStatus := map[string]int{
			"pending": 0, "confirmed": 0, "shipped": 0, "delivered": 0, "cancelled": 0,
		}
		trendByDay := make(map[string]float64)

		for _, o := range orders {
			revenue += o.Total
			day := o.CreatedAt.UTC().Format("2006-01-02")
			trendByDay[day] += o.Total
			if day == today {
				ordersToday++
			}
			if _, ok := byStatus[string(o.Status)]; ok {
				byStatus[string(o.Status)]++
			}
		}

		days := make([]string, 0, len(trendByDay))
		for d := range trendByDay {
			days = append(days, d)
		}
		sort.Strings(days)

		trend := make([]revenuePoint, 0, len(days))
		for _, d := range days {
			trend = append(trend, revenuePoint{Date: d, Amount: trendByDay[d]})
		}

		growth := weekOverWeekGrowth(trend)

		// Top products by units sold, from the immutable item snapshots.
		var items []models.OrderItem
		if err := db.Find(&items).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order items"})
			return
		}
		sold := make(map[string]int)
		for _, it := range items {
			sold[it.ProductName] += it.Quantity
		}
		names := make([]string, 0, len(sold))
		for n := range sold {
			names = append(names, n)
		}
		sort.Slice(names, func(i, j int) bool { return sold[names[i]] > sold[names[j]] })
		if len(names) > 5 {
			names = names[:5]
		}
		top := make([]topProduct, 0, len(names))
		for _, n := range names {
			top = append(top, topProduct{Product: n, Sold: sold[n]})
		}

		var lowStock []models.Variant
		db.Where("stock <= ?", lowStockThreshold).Find(&lowStock)

		var activeUsers int64
		db.Model(&models.Profile{}).Where("blocked = ?", false).Count(&activeUsers)

		c.JSON(http.StatusOK, gin.H{
			"kpis": gin.H{
				"total_orders":   len(orders),
				"revenue":        revenue,
				"orders_today":   ordersToday,
				"pending_orders": byStatus["pending"],
				"active_users":   activeUsers,
			},
			"charts": gin.H{
				"revenue_last_30":  lastN(trend, 30),
				"orders_by_status": byStatus,
				"top_products":     top,
			},
			"alerts": gin.H{
				"low_stock": lowStock,
			},
			"insights": gin.H{
				"revenue_growth": growth,
			},
		})
	}
}

// weekOverWeekGrowth compares the average daily revenue of the last 7
// recorded days against the 7 before that, as a percentage.
func weekOverWeekGrowth(trend []revenuePoint) float64 {
	avg := func(points []revenuePoint) float64 {
		if len(points) == 0 {
			return 0
		}
		var sum float64
		for _, p := range points {
			sum += p.Amount
		}
		return sum / float64(len(points))
	}

	lastWeek := avg(lastN(trend, 7))
	var prevWeek float64
	if len(trend) > 7 {
		prev := trend[:len(trend)-7]
		prevWeek = avg(lastN(prev, 7))
	}
	if prevWeek == 0 {
		return 0
	}
	return math.Round(((lastWeek-prevWeek)/prevWeek)*10000) / 100
}

func lastN(points []revenuePoint, n int) []revenuePoint {
	if len(points) <= n {
		return points
	}
	return points[len(points)-n:]
}
