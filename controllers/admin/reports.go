package adminControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rbpanchal/medimatch-api/models"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func writeSheet(c *gin.Context, filename, sheetName string, headers []string, rows [][]interface{}) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(sheetName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create sheet"})
		return
	}

	headerRow := sheet.AddRow()
	for _, h := range headers {
		headerRow.AddCell().SetValue(h)
	}
	for _, row := range rows {
		r := sheet.AddRow()
		for _, cell := range row {
			r.AddCell().SetValue(cell)
		}
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Header("Content-Type", xlsxContentType)
	if err := file.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write report"})
	}
}

// GET /api/admin/reports/sales?start=&end=
func SalesReport(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		start, end := c.Query("start"), c.Query("end")
		if start == "" || end == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "start and end required"})
			return
		}

		var orders []models.Order
		err := db.Where("created_at >= ? AND created_at <= ?", start, end).Find(&orders).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}

		rows := make([][]interface{}, 0, len(orders))
		for _, o := range orders {
			rows = append(rows, []interface{}{o.ID, o.Total, string(o.Status), o.CreatedAt.Format("2006-01-02 15:04:05")})
		}
		writeSheet(c, "sales_report.xlsx", "Sales",
			[]string{"Order ID", "Total", "Status", "Date"}, rows)
	}
}

// GET /api/admin/reports/products
//
// Units and revenue per product, aggregated from order item snapshots.
func ProductReport(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var items []models.OrderItem
		if err := db.Find(&items).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order items"})
			return
		}

		type perf struct {
			qty     int
			revenue float64
		}
		totals := make(map[string]*perf)
		order := make([]string, 0)
		for _, it := range items {
			p, ok := totals[it.ProductName]
			if !ok {
				p = &perf{}
				totals[it.ProductName] = p
				order = append(order, it.ProductName)
			}
			p.qty += it.Quantity
			p.revenue += it.Price * float64(it.Quantity)
		}

		rows := make([][]interface{}, 0, len(order))
		for _, name := range order {
			rows = append(rows, []interface{}{name, totals[name].qty, totals[name].revenue})
		}
		writeSheet(c, "product_performance.xlsx", "Products",
			[]string{"Product", "Total Sold", "Total Revenue"}, rows)
	}
}

// GET /api/admin/reports/customers
func CustomerReport(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var profiles []models.Profile
		if err := db.Find(&profiles).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
			return
		}

		rows := make([][]interface{}, 0, len(profiles))
		for _, p := range profiles {
			blocked := "No"
			if p.Blocked {
				blocked = "Yes"
			}
			rows = append(rows, []interface{}{p.ID, p.FullName, blocked, p.CreatedAt.Format("2006-01-02")})
		}
		writeSheet(c, "customers.xlsx", "Customers",
			[]string{"User ID", "Name", "Blocked", "Joined"}, rows)
	}
}

// GET /api/admin/reports/orders
//
// One row per order line, denormalized for spreadsheet filtering.
func OrdersReport(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.Preload("Items").Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}

		var rows [][]interface{}
		for _, o := range orders {
			for _, it := range o.Items {
				rows = append(rows, []interface{}{
					o.ID, string(o.Status), o.Total,
					o.CreatedAt.Format("2006-01-02 15:04:05"),
					it.ProductName, it.Quantity, it.Price,
				})
			}
		}
		writeSheet(c, "orders_detailed.xlsx", "Orders",
			[]string{"Order ID", "Status", "Order Total", "Date", "Product", "Qty", "Price"}, rows)
	}
}
