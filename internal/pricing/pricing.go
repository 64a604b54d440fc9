package pricing

import "strings"

var productPrices = map[string]float64{
	"laptop":   999,
	"phone":    599,
	"tablet":   449,
	"monitor":  299,
	"keyboard": 89,
	"mouse":    49,
}

const (
	defaultPrice       = 99.0
	discountMinQty     = 5
	discountPercentage = 0.10
)

type Price struct {
	UnitPrice float64
	Subtotal  float64
	Discount  float64
	Total     float64
}

// Calculate рассчитывает стоимость заказа. Цена единицы товара берется из
// прайс-листа по названию товара без учета регистра, для неизвестных товаров
// используется цена по умолчанию. При количестве больше пяти применяется
// скидка 10%.
func Calculate(product string, quantity int) Price {
	unitPrice, ok := productPrices[strings.ToLower(product)]
	if !ok {
		unitPrice = defaultPrice
	}

	subtotal := unitPrice * float64(quantity)
	discount := 0.0
	if quantity > discountMinQty {
		discount = subtotal * discountPercentage
	}

	return Price{
		UnitPrice: unitPrice,
		Subtotal:  subtotal,
		Discount:  discount,
		Total:     subtotal - discount,
	}
}
