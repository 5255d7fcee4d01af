package domain

// PaymentType — способ оплаты заказа.
type PaymentType string

const (
	PaymentCash       PaymentType = "CASH"
	PaymentDebitCard  PaymentType = "DEBIT_CARD"
	PaymentCreditCard PaymentType = "CREDIT_CARD"
)

// ShippingType — скорость доставки.
type ShippingType string

const (
	ShippingUrgent   ShippingType = "URGENT"
	ShippingEconomic ShippingType = "ECONOMIC"
)

// CarrierType — перевозчик.
type CarrierType string

const (
	CarrierPost  CarrierType = "POST"
	CarrierFedex CarrierType = "FEDEX"
)

// OrderItem — позиция заказа: код товара и цена, зафиксированная в момент
// оформления. Последующие изменения каталога позицию не затрагивают.
type OrderItem struct {
	Code  string  `json:"code"`
	Price float64 `json:"price"`
}

// Billing — платёжные данные заказа.
type Billing struct {
	Payment    PaymentType `json:"payment"`
	TotalPrice float64     `json:"totalPrice"`
}

// Shipping — параметры доставки заказа.
type Shipping struct {
	Type    ShippingType `json:"type"`
	Carrier CarrierType  `json:"carrier"`
}

// Order — доменная сущность заказа. Ключ поиска — пара (Email, ID).
type Order struct {
	Email     string      `json:"email"`
	ID        string      `json:"id"`
	CreatedAt int64       `json:"createdAt"` // epoch ms
	Products  []OrderItem `json:"products"`
	Billing   Billing     `json:"billing"`
	Shipping  Shipping    `json:"shipping"`
}

// ProductCodes возвращает коды товаров заказа в порядке позиций.
func (o Order) ProductCodes() []string {
	codes := make([]string, 0, len(o.Products))
	for _, it := range o.Products {
		codes = append(codes, it.Code)
	}
	return codes
}
