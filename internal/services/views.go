package services

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/models"
)

// CategoryView is the API shape of a category
type CategoryView struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// ShopView is the API shape of a shop
type ShopView struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	State bool   `json:"state"`
}

// ProductView names a product and its category
type ProductView struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

// ProductParameterView is one attribute of a listing
type ProductParameterView struct {
	Parameter string `json:"parameter"`
	Value     string `json:"value"`
}

// ProductInfoView is the API shape of a listing
type ProductInfoView struct {
	ID                uint64                 `json:"id"`
	Model             string                 `json:"model"`
	Product           ProductView            `json:"product"`
	Shop              uint64                 `json:"shop"`
	Quantity          uint                   `json:"quantity"`
	Price             decimal.Decimal        `json:"price"`
	PriceRRC          decimal.Decimal        `json:"price_rrc"`
	ProductParameters []ProductParameterView `json:"product_parameters"`
}

// ContactView is the API shape of a contact
type ContactView struct {
	ID        uint64 `json:"id"`
	City      string `json:"city"`
	Street    string `json:"street"`
	House     string `json:"house"`
	Structure string `json:"structure"`
	Building  string `json:"building"`
	Apartment string `json:"apartment"`
	User      uint64 `json:"user"`
	Phone     string `json:"phone"`
}

// OrderItemView is one line of an order
type OrderItemView struct {
	ID          uint64          `json:"id"`
	ProductInfo ProductInfoView `json:"product_info"`
	Quantity    uint            `json:"quantity"`
	Order       uint64          `json:"order"`
}

// OrderView is an order with its lines and computed total
type OrderView struct {
	ID           uint64          `json:"id"`
	OrderedItems []OrderItemView `json:"ordered_items"`
	State        string          `json:"state"`
	Dt           time.Time       `json:"dt"`
	TotalSum     decimal.Decimal `json:"total_sum"`
	Contact      *ContactView    `json:"contact"`
}

// UserView is the profile returned by /user/details
type UserView struct {
	ID        uint64        `json:"id"`
	Email     string        `json:"email"`
	FirstName string        `json:"first_name"`
	LastName  string        `json:"last_name"`
	Company   string        `json:"company"`
	Position  string        `json:"position"`
	Type      string        `json:"type"`
	Contacts  []ContactView `json:"contacts"`
}

func newShopView(s models.Shop) ShopView {
	return ShopView{ID: s.ID, Name: s.Name, State: s.State}
}

func newContactView(c models.Contact) ContactView {
	return ContactView{
		ID:        c.ID,
		City:      c.City,
		Street:    c.Street,
		House:     c.House,
		Structure: c.Structure,
		Building:  c.Building,
		Apartment: c.Apartment,
		User:      c.UserID,
		Phone:     c.Phone,
	}
}

func newProductInfoView(pi models.ProductInfo) ProductInfoView {
	params := make([]ProductParameterView, 0, len(pi.ProductParameters))
	for _, pp := range pi.ProductParameters {
		params = append(params, ProductParameterView{Parameter: pp.Parameter.Name, Value: pp.Value})
	}
	return ProductInfoView{
		ID:    pi.ID,
		Model: pi.Model,
		Product: ProductView{
			Name:     pi.Product.Name,
			Category: pi.Product.Category.Name,
		},
		Shop:              pi.ShopID,
		Quantity:          pi.Quantity,
		Price:             pi.Price,
		PriceRRC:          pi.PriceRRC,
		ProductParameters: params,
	}
}

// reduceOrders converts orders to views. keep, when set, selects which lines are shown;
// the total covers only the shown lines.
func reduceOrders(orders []models.Order, keep func(models.OrderItem) bool) []OrderView {
	output := make([]OrderView, 0, len(orders))

	for _, order := range orders {
		view := OrderView{
			ID:           order.ID,
			State:        order.State,
			Dt:           order.CreatedAt,
			TotalSum:     decimal.Zero,
			OrderedItems: make([]OrderItemView, 0, len(order.OrderedItems)),
		}
		if order.Contact != nil {
			contact := newContactView(*order.Contact)
			view.Contact = &contact
		}

		for _, item := range order.OrderedItems {
			if keep != nil && !keep(item) {
				continue
			}
			view.OrderedItems = append(view.OrderedItems, OrderItemView{
				ID:          item.ID,
				ProductInfo: newProductInfoView(item.ProductInfo),
				Quantity:    item.Quantity,
				Order:       order.ID,
			})
			line := item.ProductInfo.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
			view.TotalSum = view.TotalSum.Add(line)
		}

		output = append(output, view)
	}

	return output
}
