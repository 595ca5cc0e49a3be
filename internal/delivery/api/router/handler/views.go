package handler

import (
	"time"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Money is rendered with two decimal places as a JSON string.
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

type UserView struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	PhoneNumber string    `json:"phone_number"`
	IsVerified  bool      `json:"is_verified"`
	IsAdmin     bool      `json:"is_admin"`
}

func newUserView(u *entity.User) *UserView {
	if u == nil {
		return nil
	}

	return &UserView{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		PhoneNumber: u.PhoneNumber,
		IsVerified:  u.IsVerified,
		IsAdmin:     u.IsAdmin,
	}
}

type TokenView struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	User         *UserView `json:"user,omitempty"`
}

type SubCategoryView struct {
	ID         uuid.UUID `json:"id"`
	CategoryID uuid.UUID `json:"category_id"`
	Title      string    `json:"title"`
	Slug       string    `json:"slug"`
}

func newSubCategoryView(s *entity.SubCategory) *SubCategoryView {
	return &SubCategoryView{ID: s.ID, CategoryID: s.CategoryID, Title: s.Title, Slug: s.Slug}
}

func newSubCategoryViews(subs []*entity.SubCategory) []*SubCategoryView {
	out := make([]*SubCategoryView, 0, len(subs))
	for _, s := range subs {
		out = append(out, newSubCategoryView(s))
	}

	return out
}

type CategoryView struct {
	ID            uuid.UUID          `json:"id"`
	Title         string             `json:"title"`
	Slug          string             `json:"slug"`
	SubCategories []*SubCategoryView `json:"sub_categories"`
}

func newCategoryView(c *entity.Category) *CategoryView {
	return &CategoryView{
		ID:            c.ID,
		Title:         c.Title,
		Slug:          c.Slug,
		SubCategories: newSubCategoryViews(c.SubCategories),
	}
}

type ProductView struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	Material      string     `json:"material"`
	Discount      bool       `json:"discount"`
	TopDeal       bool       `json:"top_deal"`
	Colours       []string   `json:"colours"`
	Sizes         []string   `json:"sizes"`
	Price         string     `json:"price"`
	Inventory     int        `json:"inventory"`
	CategoryID    uuid.UUID  `json:"category_id"`
	SubCategoryID *uuid.UUID `json:"sub_category_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func newProductView(p *entity.Product) *ProductView {
	if p == nil {
		return nil
	}

	return &ProductView{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Material:      p.Material,
		Discount:      p.Discount,
		TopDeal:       p.TopDeal,
		Colours:       nonNil(p.Colours),
		Sizes:         nonNil(p.Sizes),
		Price:         money(p.Price),
		Inventory:     p.Inventory,
		CategoryID:    p.CategoryID,
		SubCategoryID: p.SubCategoryID,
		CreatedAt:     p.CreatedAt,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}

	return s
}

type CartItemView struct {
	ID        uuid.UUID    `json:"id"`
	CartID    uuid.UUID    `json:"cart_id"`
	ProductID uuid.UUID    `json:"product_id"`
	Product   *ProductView `json:"product,omitempty"`
	Quantity  int          `json:"quantity"`
	SubTotal  string       `json:"sub_total"`
}

func newCartItemView(i *entity.CartItem) *CartItemView {
	return &CartItemView{
		ID:        i.ID,
		CartID:    i.CartID,
		ProductID: i.ProductID,
		Product:   newProductView(i.Product),
		Quantity:  i.Quantity,
		SubTotal:  money(i.SubTotal()),
	}
}

func newCartItemViews(items []*entity.CartItem) []*CartItemView {
	out := make([]*CartItemView, 0, len(items))
	for _, i := range items {
		out = append(out, newCartItemView(i))
	}

	return out
}

type CartView struct {
	ID         uuid.UUID       `json:"id"`
	OwnerID    uuid.UUID       `json:"owner_id"`
	Items      []*CartItemView `json:"items"`
	GrandTotal string          `json:"grand_total"`
	CreatedAt  time.Time       `json:"created_at"`
}

func newCartView(c *entity.Cart) *CartView {
	return &CartView{
		ID:         c.ID,
		OwnerID:    c.OwnerID,
		Items:      newCartItemViews(c.Items),
		GrandTotal: money(c.GrandTotal()),
		CreatedAt:  c.CreatedAt,
	}
}

type OrderItemView struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Price     string    `json:"price"`
	LineTotal string    `json:"line_total"`
}

type OrderView struct {
	ID            uuid.UUID        `json:"id"`
	OwnerID       uuid.UUID        `json:"owner_id"`
	Address       string           `json:"address"`
	TotalPrice    string           `json:"total_price"`
	Delivered     bool             `json:"delivered"`
	TransactionID string           `json:"transaction_id,omitempty"`
	Items         []*OrderItemView `json:"items"`
	PlacedAt      time.Time        `json:"placed_at"`
}

func newOrderView(o *entity.Order) *OrderView {
	items := make([]*OrderItemView, 0, len(o.Items))
	for _, i := range o.Items {
		items = append(items, &OrderItemView{
			ID:        i.ID,
			ProductID: i.ProductID,
			Quantity:  i.Quantity,
			Price:     money(i.Price),
			LineTotal: money(i.LineTotal()),
		})
	}

	return &OrderView{
		ID:            o.ID,
		OwnerID:       o.OwnerID,
		Address:       o.Address,
		TotalPrice:    money(o.TotalPrice),
		Delivered:     o.Delivered,
		TransactionID: o.TransactionID,
		Items:         items,
		PlacedAt:      o.PlacedAt,
	}
}

type PeriodSummaryView struct {
	Period     string `json:"period"`
	OrderCount int64  `json:"order_count"`
	Revenue    string `json:"revenue"`
}

type ProductSalesView struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int64     `json:"quantity"`
	Revenue     string    `json:"revenue"`
}
