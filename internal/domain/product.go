package domain

// Product — товар каталога. При оформлении заказа используется как снимок:
// в заказ копируются код и текущая цена.
type Product struct {
	ID          string  `json:"id"`
	ProductName string  `json:"productName"`
	Code        string  `json:"code"`
	Price       float64 `json:"price"`
	Model       string  `json:"model"`
	ProductURL  string  `json:"productUrl"`
}
