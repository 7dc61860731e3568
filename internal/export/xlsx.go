package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/tealeg/xlsx"

	"storefront_backend/internal/models"
)

const (
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	timeLayout  = "2006-01-02 15:04:05"
)

var orderHeaders = []string{
	"Order Number", "Created At", "Customer", "Email", "Phone", "City", "Pincode",
	"Items", "Subtotal", "Shipping", "Tax", "Discount", "Total",
	"Status", "Payment Method", "Payment Status", "Gateway Order ID",
}

var productHeaders = []string{
	"ID", "Slug", "Name", "SKU", "Category", "Price", "Discount Price", "Effective Price",
	"Stock", "Status", "Visible", "Featured", "Bestseller", "Purposes", "Beads", "Mukhis", "Platings", "Created At",
}

func addHeader(sheet *xlsx.Sheet, headers []string) {
	row := sheet.AddRow()
	for _, h := range headers {
		row.AddCell().SetString(h)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// OrdersWorkbook - одна строка на заказ, позиции свернуты в "name x qty"
func OrdersWorkbook(orders []models.Order) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return nil, fmt.Errorf("add sheet: %w", err)
	}
	addHeader(sheet, orderHeaders)

	for _, o := range orders {
		addr := o.ShippingAddress.Data()
		items := make([]string, 0, len(o.Items))
		for _, it := range o.Items {
			items = append(items, fmt.Sprintf("%s x %d", it.ProductName, it.Quantity))
		}

		row := sheet.AddRow()
		row.AddCell().SetString(o.OrderNumber)
		row.AddCell().SetString(o.CreatedAt.Format(timeLayout))
		row.AddCell().SetString(o.CustomerName)
		row.AddCell().SetString(o.CustomerEmail)
		row.AddCell().SetString(deref(o.CustomerPhone))
		row.AddCell().SetString(addr.City)
		row.AddCell().SetString(addr.Pincode)
		row.AddCell().SetString(strings.Join(items, "; "))
		row.AddCell().SetFloat(o.Subtotal.InexactFloat64())
		row.AddCell().SetFloat(o.ShippingCost.InexactFloat64())
		row.AddCell().SetFloat(o.Tax.InexactFloat64())
		row.AddCell().SetFloat(o.Discount.InexactFloat64())
		row.AddCell().SetFloat(o.Total.InexactFloat64())
		row.AddCell().SetString(string(o.Status))
		row.AddCell().SetString(string(o.PaymentMethod))
		row.AddCell().SetString(string(o.PaymentStatus))
		row.AddCell().SetString(deref(o.RazorpayOrderID))
	}
	return file, nil
}

func ProductsWorkbook(products []models.Product) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return nil, fmt.Errorf("add sheet: %w", err)
	}
	addHeader(sheet, productHeaders)

	for i := range products {
		p := &products[i]
		facets := p.FacetMap()
		category := ""
		if p.Category != nil {
			category = p.Category.Name
		}
		discount := ""
		if p.DiscountPrice != nil {
			discount = p.DiscountPrice.StringFixed(2)
		}

		row := sheet.AddRow()
		row.AddCell().SetString(p.ID)
		row.AddCell().SetString(p.Slug)
		row.AddCell().SetString(p.Name)
		row.AddCell().SetString(deref(p.SKU))
		row.AddCell().SetString(category)
		row.AddCell().SetFloat(p.Price.InexactFloat64())
		row.AddCell().SetString(discount)
		row.AddCell().SetFloat(p.EffectivePrice().InexactFloat64())
		row.AddCell().SetInt(p.Stock)
		row.AddCell().SetString(string(p.Status))
		row.AddCell().SetBool(p.IsVisible)
		row.AddCell().SetBool(p.IsFeatured)
		row.AddCell().SetBool(p.IsBestseller)
		for _, key := range models.FacetKeys {
			row.AddCell().SetString(strings.Join(facets[key], ", "))
		}
		row.AddCell().SetString(p.CreatedAt.Format(timeLayout))
	}
	return file, nil
}

// Write пишет книгу в поток ответа
func Write(w io.Writer, file *xlsx.File) error {
	return file.Write(w)
}
