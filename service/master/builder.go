/*
 * @module service/master/builder
 * @description 主数据集构建器，以订单表为基础按固定顺序左连接各清洗后的表，
 *              聚合支付和评价数据，并计算派生列
 * @architecture 管道模式 - 固定顺序的连接和聚合步骤
 * @documentReference ai_docs/data_prep_design.md
 * @stateFlow 订单基表 -> 客户 -> 订单明细 -> 商品 -> 卖家 -> 支付聚合 -> 评价聚合 -> 地理位置 -> 派生列
 * @rules 订单表缺失时构建中止返回错误；其他表缺失时对应步骤跳过，左表原样通过
 * @dependencies fmt, log/slog, math, strings
 * @refs service/meta/datasets.go, service/pipeline
 */

package master

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"dataprep-service/service/meta"
	"dataprep-service/service/models"
)

// MasterDatasetName 主数据集表名
const MasterDatasetName = "master_dataset"

// geolocationRenames 地理位置列到客户维度列的重命名映射
var geolocationRenames = map[string]string{
	meta.ColumnGeoZipCodePrefix: meta.ColumnCustomerZipCodePrefix,
	meta.ColumnGeoLat:           meta.ColumnCustomerLat,
	meta.ColumnGeoLng:           meta.ColumnCustomerLng,
	meta.ColumnGeoCity:          meta.ColumnCustomerGeoCity,
	meta.ColumnGeoState:         meta.ColumnCustomerGeoSt,
}

// Builder 主数据集构建器
type Builder struct{}

// NewBuilder 创建主数据集构建器实例
func NewBuilder() *Builder {
	return &Builder{}
}

// Build 按固定顺序构建主数据集
// tables 为清洗后的表集合，缺失的可选表对应的连接步骤被跳过
func (b *Builder) Build(tables map[string]*models.Table) (*models.Table, error) {
	orders := tables[meta.DatasetOrders]
	if orders == nil {
		return nil, fmt.Errorf("订单表缺失，无法构建主数据集")
	}

	master := orders.Copy()
	master.Name = MasterDatasetName
	b.logShape("orders", master)

	if customers := tables[meta.DatasetCustomers]; customers != nil {
		master = leftJoin(master, customers, meta.ColumnCustomerID)
		b.logShape("customers", master)
	}

	if items := tables[meta.DatasetOrderItems]; items != nil {
		master = leftJoin(master, items, meta.ColumnOrderID)
		b.logShape("order_items", master)
	}

	if products := tables[meta.DatasetProducts]; products != nil {
		master = leftJoin(master, products, meta.ColumnProductID)
		b.logShape("products", master)
	}

	if sellers := tables[meta.DatasetSellers]; sellers != nil {
		master = leftJoin(master, sellers, meta.ColumnSellerID)
		b.logShape("sellers", master)
	}

	if payments := tables[meta.DatasetPayments]; payments != nil {
		master = leftJoin(master, aggregatePayments(payments), meta.ColumnOrderID)
		b.logShape("payments", master)
	}

	if reviews := tables[meta.DatasetReviews]; reviews != nil {
		master = leftJoin(master, aggregateReviews(reviews), meta.ColumnOrderID)
		b.logShape("reviews", master)
	}

	if geo := tables[meta.DatasetGeolocation]; geo != nil {
		master = leftJoin(master, renameGeolocation(geo), meta.ColumnCustomerZipCodePrefix)
		b.logShape("geolocation", master)
	}

	deriveOrderItemTotal(master)
	deriveDeliveryDays(master)

	slog.Info("主数据集构建完成", "rows", master.RowCount(), "columns", master.ColumnCount())
	return master, nil
}

// logShape 输出连接步骤后的中间表规模
func (b *Builder) logShape(step string, table *models.Table) {
	slog.Info("主数据集连接步骤完成", "step", step, "rows", table.RowCount(), "columns", table.ColumnCount())
}

// leftJoin 左外连接：保留左表全部行，右表按连接键匹配
// 右表存在多条匹配时产生扇出，无匹配时右表列填缺失值；连接键缺失的行视为无匹配
func leftJoin(left, right *models.Table, key string) *models.Table {
	if !left.HasColumn(key) || !right.HasColumn(key) {
		return left
	}

	// 右表新增列：连接键和与左表同名的列不重复引入
	var rightColumns []string
	for _, col := range right.Columns {
		if col == key || left.HasColumn(col) {
			continue
		}
		rightColumns = append(rightColumns, col)
	}

	index := make(map[string][]map[string]interface{}, right.RowCount())
	for _, row := range right.Rows {
		value := row[key]
		if models.IsAbsent(value) {
			continue
		}
		k := models.CellString(value)
		index[k] = append(index[k], row)
	}

	result := models.NewTable(left.Name, append(append([]string{}, left.Columns...), rightColumns...))
	for _, leftRow := range left.Rows {
		var matches []map[string]interface{}
		if value := leftRow[key]; !models.IsAbsent(value) {
			matches = index[models.CellString(value)]
		}
		if len(matches) == 0 {
			merged := models.CopyRecord(leftRow)
			for _, col := range rightColumns {
				merged[col] = nil
			}
			result.AppendRow(merged)
			continue
		}
		for _, rightRow := range matches {
			merged := models.CopyRecord(leftRow)
			for _, col := range rightColumns {
				merged[col] = rightRow[col]
			}
			result.AppendRow(merged)
		}
	}
	return result
}

// aggregatePayments 支付表按订单号聚合：
// 支付类型取去重后的值用 ", " 连接，分期数取最大值，支付金额求和
func aggregatePayments(payments *models.Table) *models.Table {
	result := models.NewTable(meta.DatasetPayments, []string{
		meta.ColumnOrderID,
		meta.ColumnPaymentType,
		meta.ColumnPaymentInstallments,
		meta.ColumnPaymentValue,
	})

	type paymentGroup struct {
		types        []string
		seenTypes    map[string]bool
		installments int64
		hasInstall   bool
		value        float64
	}

	groups := make(map[string]*paymentGroup)
	var order []string

	for _, row := range payments.Rows {
		orderID := row[meta.ColumnOrderID]
		if models.IsAbsent(orderID) {
			continue
		}
		key := models.CellString(orderID)
		group, exists := groups[key]
		if !exists {
			group = &paymentGroup{seenTypes: make(map[string]bool)}
			groups[key] = group
			order = append(order, key)
		}

		if paymentType := row[meta.ColumnPaymentType]; !models.IsAbsent(paymentType) {
			text := models.CellString(paymentType)
			if !group.seenTypes[text] {
				group.seenTypes[text] = true
				group.types = append(group.types, text)
			}
		}
		if installments, ok := models.CellInt(row[meta.ColumnPaymentInstallments]); ok {
			if !group.hasInstall || installments > group.installments {
				group.installments = installments
				group.hasInstall = true
			}
		}
		if value, ok := models.CellFloat(row[meta.ColumnPaymentValue]); ok {
			group.value += value
		}
	}

	for _, key := range order {
		group := groups[key]
		row := map[string]interface{}{
			meta.ColumnOrderID:      key,
			meta.ColumnPaymentType:  strings.Join(group.types, ", "),
			meta.ColumnPaymentValue: group.value,
		}
		if group.hasInstall {
			row[meta.ColumnPaymentInstallments] = group.installments
		} else {
			row[meta.ColumnPaymentInstallments] = nil
		}
		result.AppendRow(row)
	}
	return result
}

// aggregateReviews 评价表按订单号聚合：评分取均值，创建日期和评价内容取首个非缺失值
func aggregateReviews(reviews *models.Table) *models.Table {
	result := models.NewTable(meta.DatasetReviews, []string{
		meta.ColumnOrderID,
		meta.ColumnReviewScore,
		meta.ColumnReviewCreationDate,
		meta.ColumnReviewCommentMessage,
	})

	type reviewGroup struct {
		scoreSum   float64
		scoreCount int
		creation   interface{}
		comment    interface{}
	}

	groups := make(map[string]*reviewGroup)
	var order []string

	for _, row := range reviews.Rows {
		orderID := row[meta.ColumnOrderID]
		if models.IsAbsent(orderID) {
			continue
		}
		key := models.CellString(orderID)
		group, exists := groups[key]
		if !exists {
			group = &reviewGroup{}
			groups[key] = group
			order = append(order, key)
		}

		if score, ok := models.CellFloat(row[meta.ColumnReviewScore]); ok {
			group.scoreSum += score
			group.scoreCount++
		}
		if group.creation == nil {
			if creation := row[meta.ColumnReviewCreationDate]; !models.IsAbsent(creation) {
				group.creation = creation
			}
		}
		if group.comment == nil {
			if comment := row[meta.ColumnReviewCommentMessage]; !models.IsAbsent(comment) {
				group.comment = comment
			}
		}
	}

	for _, key := range order {
		group := groups[key]
		row := map[string]interface{}{
			meta.ColumnOrderID:              key,
			meta.ColumnReviewCreationDate:   group.creation,
			meta.ColumnReviewCommentMessage: group.comment,
		}
		if group.scoreCount > 0 {
			row[meta.ColumnReviewScore] = group.scoreSum / float64(group.scoreCount)
		} else {
			row[meta.ColumnReviewScore] = nil
		}
		result.AppendRow(row)
	}
	return result
}

// renameGeolocation 将地理位置表列名重命名为客户维度列名，返回新表
func renameGeolocation(geo *models.Table) *models.Table {
	renamed := models.NewTable(geo.Name, nil)
	for _, col := range geo.Columns {
		if target, ok := geolocationRenames[col]; ok {
			renamed.Columns = append(renamed.Columns, target)
		} else {
			renamed.Columns = append(renamed.Columns, col)
		}
	}
	for _, row := range geo.Rows {
		newRow := make(map[string]interface{}, len(row))
		for k, v := range row {
			if target, ok := geolocationRenames[k]; ok {
				newRow[target] = v
			} else {
				newRow[k] = v
			}
		}
		renamed.AppendRow(newRow)
	}
	return renamed
}

// deriveOrderItemTotal 派生单项总价 = 价格 + 运费，任一操作数缺失时结果缺失
func deriveOrderItemTotal(master *models.Table) {
	master.AddColumn(meta.ColumnOrderItemTotal)
	for _, row := range master.Rows {
		price, priceOK := models.CellFloat(row[meta.ColumnPrice])
		freight, freightOK := models.CellFloat(row[meta.ColumnFreightValue])
		if priceOK && freightOK {
			row[meta.ColumnOrderItemTotal] = price + freight
		} else {
			row[meta.ColumnOrderItemTotal] = nil
		}
	}
}

// deriveDeliveryDays 派生送达天数 = 送达时间与下单时间的整天差
// 两个时间列任一不存在时不派生该列
func deriveDeliveryDays(master *models.Table) {
	if !master.HasColumn(meta.ColumnOrderPurchaseTimestamp) || !master.HasColumn(meta.ColumnOrderDeliveredCustomer) {
		return
	}
	master.AddColumn(meta.ColumnDeliveryDays)
	for _, row := range master.Rows {
		purchase, purchaseOK := models.CellTime(row[meta.ColumnOrderPurchaseTimestamp])
		delivered, deliveredOK := models.CellTime(row[meta.ColumnOrderDeliveredCustomer])
		if !purchaseOK || !deliveredOK {
			row[meta.ColumnDeliveryDays] = nil
			continue
		}
		days := int64(math.Floor(delivered.Sub(purchase).Hours() / 24))
		row[meta.ColumnDeliveryDays] = days
	}
}
