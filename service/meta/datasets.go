/*
 * @module service/meta/datasets
 * @description 数据集元数据定义，包括数据集名称、默认文件名、列名常量和各表的固定清洗域
 * @architecture 元数据层
 * @documentReference ai_docs/data_prep_design.md
 * @stateFlow 静态元数据定义
 * @rules 列名与清洗规则均为固定约定，不支持运行时配置
 * @dependencies 无
 * @refs service/cleansing, service/master, service/pipeline
 */

package meta

// 数据集名称常量
const (
	DatasetOrders             = "orders"
	DatasetOrderItems         = "order_items"
	DatasetCustomers          = "customers"
	DatasetProducts           = "products"
	DatasetSellers            = "sellers"
	DatasetPayments           = "payments"
	DatasetReviews            = "reviews"
	DatasetGeolocation        = "geolocation"
	DatasetProductTranslation = "product_translation"
)

// DatasetNames 全部数据集名称，顺序与加载顺序一致
var DatasetNames = []string{
	DatasetOrders,
	DatasetOrderItems,
	DatasetCustomers,
	DatasetProducts,
	DatasetSellers,
	DatasetPayments,
	DatasetReviews,
	DatasetGeolocation,
	DatasetProductTranslation,
}

// DefaultDatasetFiles 数据集名称 -> Olist 原始文件名
var DefaultDatasetFiles = map[string]string{
	DatasetOrders:             "olist_orders_dataset.csv",
	DatasetOrderItems:         "olist_order_items_dataset.csv",
	DatasetCustomers:          "olist_customers_dataset.csv",
	DatasetProducts:           "olist_products_dataset.csv",
	DatasetSellers:            "olist_sellers_dataset.csv",
	DatasetPayments:           "olist_order_payments_dataset.csv",
	DatasetReviews:            "olist_order_reviews_dataset.csv",
	DatasetGeolocation:        "olist_geolocation_dataset.csv",
	DatasetProductTranslation: "product_category_name_translation.csv",
}

// 订单表列名常量
const (
	ColumnOrderID                   = "order_id"
	ColumnCustomerID                = "customer_id"
	ColumnOrderStatus               = "order_status"
	ColumnOrderPurchaseTimestamp    = "order_purchase_timestamp"
	ColumnOrderApprovedAt           = "order_approved_at"
	ColumnOrderDeliveredCarrierDate = "order_delivered_carrier_date"
	ColumnOrderDeliveredCustomer    = "order_delivered_customer_date"
	ColumnOrderEstimatedDelivery    = "order_estimated_delivery_date"
)

// 订单明细表列名常量
const (
	ColumnOrderItemID       = "order_item_id"
	ColumnProductID         = "product_id"
	ColumnSellerID          = "seller_id"
	ColumnShippingLimitDate = "shipping_limit_date"
	ColumnPrice             = "price"
	ColumnFreightValue      = "freight_value"
)

// 客户表列名常量
const (
	ColumnCustomerUniqueID      = "customer_unique_id"
	ColumnCustomerZipCodePrefix = "customer_zip_code_prefix"
	ColumnCustomerCity          = "customer_city"
	ColumnCustomerState         = "customer_state"
)

// 商品表列名常量
const (
	ColumnProductCategoryName    = "product_category_name"
	ColumnProductCategoryEnglish = "product_category_name_english"
	ColumnProductWeightG         = "product_weight_g"
	ColumnProductLengthCm        = "product_length_cm"
	ColumnProductHeightCm        = "product_height_cm"
	ColumnProductWidthCm         = "product_width_cm"
)

// 卖家表列名常量
const (
	ColumnSellerCity = "seller_city"
)

// 支付表列名常量
const (
	ColumnPaymentSequential   = "payment_sequential"
	ColumnPaymentType         = "payment_type"
	ColumnPaymentInstallments = "payment_installments"
	ColumnPaymentValue        = "payment_value"
)

// 评价表列名常量
const (
	ColumnReviewID              = "review_id"
	ColumnReviewScore           = "review_score"
	ColumnReviewCommentTitle    = "review_comment_title"
	ColumnReviewCommentMessage  = "review_comment_message"
	ColumnReviewCreationDate    = "review_creation_date"
	ColumnReviewAnswerTimestamp = "review_answer_timestamp"
)

// 地理位置表列名常量
const (
	ColumnGeoZipCodePrefix = "geolocation_zip_code_prefix"
	ColumnGeoLat           = "geolocation_lat"
	ColumnGeoLng           = "geolocation_lng"
	ColumnGeoCity          = "geolocation_city"
	ColumnGeoState         = "geolocation_state"
)

// 主数据集派生列名常量
const (
	ColumnOrderItemTotal  = "order_item_total"
	ColumnDeliveryDays    = "delivery_days"
	ColumnCustomerLat     = "customer_lat"
	ColumnCustomerLng     = "customer_lng"
	ColumnCustomerGeoCity = "customer_geo_city"
	ColumnCustomerGeoSt   = "customer_geo_state"
)

// ValidOrderStatuses 订单有效状态集合，状态不在其中的行被静默删除
var ValidOrderStatuses = []string{
	"delivered", "shipped", "processing", "canceled", "invoiced", "created",
}

// OrderDateColumns 订单表需要标准化的日期列
var OrderDateColumns = []string{
	ColumnOrderPurchaseTimestamp,
	ColumnOrderApprovedAt,
	ColumnOrderDeliveredCarrierDate,
	ColumnOrderDeliveredCustomer,
	ColumnOrderEstimatedDelivery,
}

// ReviewDateColumns 评价表需要标准化的日期列
var ReviewDateColumns = []string{
	ColumnReviewCreationDate,
	ColumnReviewAnswerTimestamp,
}

// ReviewTextColumns 评价表需要修复编码的文本列
var ReviewTextColumns = []string{
	ColumnReviewCommentTitle,
	ColumnReviewCommentMessage,
}

// ProductDimensionColumns 商品表按品类中位数填充的数值列
var ProductDimensionColumns = []string{
	ColumnProductWeightG,
	ColumnProductLengthCm,
	ColumnProductHeightCm,
	ColumnProductWidthCm,
}
