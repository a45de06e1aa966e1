/*
 * @module service/cleansing/table_cleaners
 * @description 分表清洗器，对九张数据集分别应用固定的去重、过滤、日期标准化和编码修复规则
 * @architecture 分层架构 - 数据清洗层，每个清洗方法对应一张表的规则集
 * @documentReference ai_docs/data_prep_design.md
 * @stateFlow 输入表拷贝 -> 规则按序应用 -> 输出清洗后的新表
 * @rules 清洗在输入表副本上进行，越界值、非法状态、重复键一律静默过滤
 * @dependencies log/slog, sort, strings
 * @refs service/meta/datasets.go, service/pipeline
 */

package cleansing

import (
	"log/slog"
	"sort"
	"strings"

	"dataprep-service/service/meta"
	"dataprep-service/service/models"
)

// TableCleaner 分表清洗器
type TableCleaner struct{}

// NewTableCleaner 创建分表清洗器实例
func NewTableCleaner() *TableCleaner {
	return &TableCleaner{}
}

// CleanGeolocation 清洗地理位置表：修复城市编码 -> 按邮编前缀去重 -> 过滤越界经纬度
func (c *TableCleaner) CleanGeolocation(table *models.Table) *models.Table {
	if table == nil {
		return nil
	}
	geo := table.Copy()

	RepairColumnEncoding(geo, meta.ColumnGeoCity)

	geo, removed := geo.DropDuplicatesByKey(meta.ColumnGeoZipCodePrefix)
	if removed > 0 {
		slog.Info("地理位置表去重完成", "dataset", meta.DatasetGeolocation, "removed", removed)
	}

	geo = geo.Filter(func(row map[string]interface{}) bool {
		lat, latOK := models.CellFloat(row[meta.ColumnGeoLat])
		lng, lngOK := models.CellFloat(row[meta.ColumnGeoLng])
		return latOK && lngOK && lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
	})

	return geo
}

// CleanOrders 清洗订单表：标准化5个日期列 -> 按订单号去重 -> 过滤非法状态
func (c *TableCleaner) CleanOrders(table *models.Table) *models.Table {
	if table == nil {
		return nil
	}
	orders := table.Copy()

	StandardizeDates(orders, meta.OrderDateColumns)

	orders, removed := orders.DropDuplicatesByKey(meta.ColumnOrderID)
	if removed > 0 {
		slog.Info("订单表去重完成", "dataset", meta.DatasetOrders, "removed", removed)
	}

	valid := make(map[string]bool, len(meta.ValidOrderStatuses))
	for _, status := range meta.ValidOrderStatuses {
		valid[status] = true
	}
	orders = orders.Filter(func(row map[string]interface{}) bool {
		status := row[meta.ColumnOrderStatus]
		return !models.IsAbsent(status) && valid[models.CellString(status)]
	})

	return orders
}

// CleanOrderItems 清洗订单明细表：标准化发货期限 -> 过滤负价格/负运费 -> 整行去重
func (c *TableCleaner) CleanOrderItems(table *models.Table) *models.Table {
	if table == nil {
		return nil
	}
	items := table.Copy()

	StandardizeDates(items, []string{meta.ColumnShippingLimitDate})

	items = items.Filter(func(row map[string]interface{}) bool {
		price, priceOK := models.CellFloat(row[meta.ColumnPrice])
		freight, freightOK := models.CellFloat(row[meta.ColumnFreightValue])
		return priceOK && freightOK && price >= 0 && freight >= 0
	})

	items, removed := items.DropFullDuplicates()
	if removed > 0 {
		slog.Info("订单明细表去重完成", "dataset", meta.DatasetOrderItems, "removed", removed)
	}

	return items
}

// CleanCustomers 清洗客户表：修复城市编码 -> 按唯一客户号去重
func (c *TableCleaner) CleanCustomers(table *models.Table) *models.Table {
	if table == nil {
		return nil
	}
	customers := table.Copy()

	RepairColumnEncoding(customers, meta.ColumnCustomerCity)

	customers, removed := customers.DropDuplicatesByKey(meta.ColumnCustomerUniqueID)
	if removed > 0 {
		slog.Info("客户表去重完成", "dataset", meta.DatasetCustomers, "removed", removed)
	}

	return customers
}

// CleanSellers 清洗卖家表：修复城市编码 -> 按卖家号去重
func (c *TableCleaner) CleanSellers(table *models.Table) *models.Table {
	if table == nil {
		return nil
	}
	sellers := table.Copy()

	RepairColumnEncoding(sellers, meta.ColumnSellerCity)

	sellers, removed := sellers.DropDuplicatesByKey(meta.ColumnSellerID)
	if removed > 0 {
		slog.Info("卖家表去重完成", "dataset", meta.DatasetSellers, "removed", removed)
	}

	return sellers
}

// CleanProducts 清洗商品表：按商品号去重 -> 左连接英文品类名 -> 按品类中位数填充尺寸缺失值
// translation 为空时跳过英文品类名补充，商品行全部保留
func (c *TableCleaner) CleanProducts(table, translation *models.Table) *models.Table {
	if table == nil {
		return nil
	}
	products := table.Copy()

	products, removed := products.DropDuplicatesByKey(meta.ColumnProductID)
	if removed > 0 {
		slog.Info("商品表去重完成", "dataset", meta.DatasetProducts, "removed", removed)
	}

	if translation != nil {
		products = c.attachEnglishCategory(products, translation)
	}

	for _, col := range meta.ProductDimensionColumns {
		if products.HasColumn(col) {
			c.fillByCategoryMedian(products, col)
		}
	}

	return products
}

// attachEnglishCategory 按品类名左连接英文品类名，未匹配的商品保留缺失英文名
func (c *TableCleaner) attachEnglishCategory(products, translation *models.Table) *models.Table {
	english := make(map[string]interface{}, translation.RowCount())
	for _, row := range translation.Rows {
		category := row[meta.ColumnProductCategoryName]
		if models.IsAbsent(category) {
			continue
		}
		if _, exists := english[models.CellString(category)]; !exists {
			english[models.CellString(category)] = row[meta.ColumnProductCategoryEnglish]
		}
	}

	products.AddColumn(meta.ColumnProductCategoryEnglish)
	for _, row := range products.Rows {
		category := row[meta.ColumnProductCategoryName]
		if models.IsAbsent(category) {
			row[meta.ColumnProductCategoryEnglish] = nil
			continue
		}
		if value, ok := english[models.CellString(category)]; ok {
			row[meta.ColumnProductCategoryEnglish] = value
		} else {
			row[meta.ColumnProductCategoryEnglish] = nil
		}
	}
	return products
}

// fillByCategoryMedian 按品类分组计算列中位数并填充缺失值
// 品类缺失的行和整组缺失的品类保持缺失，不填零
func (c *TableCleaner) fillByCategoryMedian(products *models.Table, column string) {
	groups := make(map[string][]float64)
	for _, row := range products.Rows {
		category := row[meta.ColumnProductCategoryName]
		if models.IsAbsent(category) {
			continue
		}
		if value, ok := models.CellFloat(row[column]); ok {
			key := models.CellString(category)
			groups[key] = append(groups[key], value)
		}
	}

	medians := make(map[string]float64, len(groups))
	for key, values := range groups {
		medians[key] = median(values)
	}

	for _, row := range products.Rows {
		if !models.IsAbsent(row[column]) {
			continue
		}
		category := row[meta.ColumnProductCategoryName]
		if models.IsAbsent(category) {
			continue
		}
		if m, ok := medians[models.CellString(category)]; ok {
			row[column] = m
		}
	}
}

// median 计算浮点数切片的中位数，偶数个取中间两数均值
func median(values []float64) float64 {
	sorted := append([]float64{}, values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// CleanPayments 清洗支付表：过滤负支付金额 -> 支付类型转小写并去空白
func (c *TableCleaner) CleanPayments(table *models.Table) *models.Table {
	if table == nil {
		return nil
	}
	payments := table.Copy()

	payments = payments.Filter(func(row map[string]interface{}) bool {
		value, ok := models.CellFloat(row[meta.ColumnPaymentValue])
		return ok && value >= 0
	})

	for _, row := range payments.Rows {
		if models.IsAbsent(row[meta.ColumnPaymentType]) {
			continue
		}
		row[meta.ColumnPaymentType] = strings.TrimSpace(strings.ToLower(models.CellString(row[meta.ColumnPaymentType])))
	}

	return payments
}

// CleanReviews 清洗评价表：标准化2个日期列 -> 修复标题和内容编码 -> 过滤越界评分 -> 按评价号去重
func (c *TableCleaner) CleanReviews(table *models.Table) *models.Table {
	if table == nil {
		return nil
	}
	reviews := table.Copy()

	StandardizeDates(reviews, meta.ReviewDateColumns)

	for _, col := range meta.ReviewTextColumns {
		RepairColumnEncoding(reviews, col)
	}

	reviews = reviews.Filter(func(row map[string]interface{}) bool {
		score, ok := models.CellFloat(row[meta.ColumnReviewScore])
		return ok && score >= 1 && score <= 5
	})

	reviews, removed := reviews.DropDuplicatesByKey(meta.ColumnReviewID)
	if removed > 0 {
		slog.Info("评价表去重完成", "dataset", meta.DatasetReviews, "removed", removed)
	}

	return reviews
}
