package console

import (
	"strconv"
	"time"

	"github.com/erazemk/loja/internal/client"
	"github.com/erazemk/loja/internal/listctl"
	"github.com/erazemk/loja/internal/model"
)

func newPage[T listctl.Entity](c *client.Client, opts listctl.Options, slug, heading string, columns, fields []column[T]) *resourcePage[T] {
	return &resourcePage[T]{
		slug:    slug,
		heading: heading,
		ctl:     listctl.New[T](client.NewResource[T](c, slug), opts),
		columns: columns,
		fields:  fields,
	}
}

// newPages builds the catalog pages in menu order.
func newPages(c *client.Client, opts listctl.Options) []page {
	return []page{
		newPage(c, opts, "brands", "Brands",
			[]column[model.Brand]{
				{"ID", func(b model.Brand) string { return id(b.ID) }},
				{"NAME", func(b model.Brand) string { return b.Name }},
			},
			[]column[model.Brand]{
				{"name", func(b model.Brand) string { return b.Name }},
			},
		),
		newPage(c, opts, "categories", "Categories",
			[]column[model.Category]{
				{"ID", func(c model.Category) string { return id(c.ID) }},
				{"NAME", func(c model.Category) string { return c.Name }},
				{"DESCRIPTION", func(c model.Category) string { return c.Description }},
			},
			[]column[model.Category]{
				{"name", func(c model.Category) string { return c.Name }},
				{"description", func(c model.Category) string { return c.Description }},
			},
		),
		newPage(c, opts, "products", "Products",
			[]column[model.Product]{
				{"ID", func(p model.Product) string { return id(p.ID) }},
				{"NAME", func(p model.Product) string { return p.Name }},
				{"PRICE", func(p model.Product) string { return money(p.Price) }},
				{"ACTIVE", func(p model.Product) string { return p.Active }},
				{"CATEGORY", func(p model.Product) string {
					if p.Category != nil {
						return p.Category.Name
					}
					return id(p.CategoryID)
				}},
				{"BRAND", func(p model.Product) string {
					if p.Brand != nil {
						return p.Brand.Name
					}
					return "-"
				}},
			},
			[]column[model.Product]{
				{"name", func(p model.Product) string { return p.Name }},
				{"description", func(p model.Product) string { return p.Description }},
				{"price", func(p model.Product) string { return money(p.Price) }},
				{"active", func(p model.Product) string { return p.Active }},
				{"category_id", func(p model.Product) string { return id(p.CategoryID) }},
				{"brand_id", func(p model.Product) string {
					if p.BrandID == nil {
						return ""
					}
					return id(*p.BrandID)
				}},
			},
		),
		newPage(c, opts, "customers", "Customers",
			[]column[model.Customer]{
				{"ID", func(c model.Customer) string { return id(c.ID) }},
				{"NAME", func(c model.Customer) string { return c.Name }},
				{"EMAIL", func(c model.Customer) string { return c.Email }},
				{"PHONE", func(c model.Customer) string { return c.Phone }},
			},
			[]column[model.Customer]{
				{"name", func(c model.Customer) string { return c.Name }},
				{"email", func(c model.Customer) string { return c.Email }},
				{"phone", func(c model.Customer) string { return c.Phone }},
			},
		),
		newPage(c, opts, "orders", "Orders",
			[]column[model.Order]{
				{"ID", func(o model.Order) string { return id(o.ID) }},
				{"ORDER", func(o model.Order) string { return o.DisplayName() }},
				{"CUSTOMER", func(o model.Order) string {
					if o.Customer != nil {
						return o.Customer.Name
					}
					return id(o.CustomerID)
				}},
				{"STATUS", func(o model.Order) string { return o.Status }},
				{"TOTAL", func(o model.Order) string { return money(o.Total) }},
			},
			[]column[model.Order]{
				{"customer_id", func(o model.Order) string { return id(o.CustomerID) }},
				{"status", func(o model.Order) string { return o.Status }},
			},
		),
		newPage(c, opts, "order-items", "Order items",
			[]column[model.OrderItem]{
				{"ID", func(i model.OrderItem) string { return id(i.ID) }},
				{"ORDER", func(i model.OrderItem) string { return model.Order{ID: i.OrderID}.DisplayName() }},
				{"PRODUCT", func(i model.OrderItem) string {
					if i.Product != nil {
						return i.Product.Name
					}
					return id(i.ProductID)
				}},
				{"AMOUNT", func(i model.OrderItem) string { return strconv.Itoa(i.Amount) }},
				{"VALUE", func(i model.OrderItem) string { return money(i.Value) }},
				{"SUBTOTAL", func(i model.OrderItem) string { return money(i.Subtotal()) }},
			},
			[]column[model.OrderItem]{
				{"order_id", func(i model.OrderItem) string { return id(i.OrderID) }},
				{"product_id", func(i model.OrderItem) string { return id(i.ProductID) }},
				{"amount", func(i model.OrderItem) string { return strconv.Itoa(i.Amount) }},
				{"value", func(i model.OrderItem) string { return money(i.Value) }},
			},
		),
		newPage(c, opts, "sales", "Sales",
			[]column[model.Sale]{
				{"ID", func(s model.Sale) string { return id(s.ID) }},
				{"ORDER", func(s model.Sale) string { return s.DisplayName() }},
				{"VALUE", func(s model.Sale) string { return money(s.Value) }},
				{"SOLD AT", func(s model.Sale) string {
					if s.SoldAt.IsZero() {
						return "-"
					}
					return s.SoldAt.Local().Format(time.DateTime)
				}},
				{"NOTES", func(s model.Sale) string { return s.Notes }},
			},
			[]column[model.Sale]{
				{"order_id", func(s model.Sale) string { return id(s.OrderID) }},
				{"value", func(s model.Sale) string { return money(s.Value) }},
				{"notes", func(s model.Sale) string { return s.Notes }},
			},
		),
	}
}

func id(v int64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatInt(v, 10)
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
