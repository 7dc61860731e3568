package services

import (
	"encoding/json"

	"storefront_backend/internal/models"
	"storefront_backend/internal/services/dto"
)

// Преобразование моделей в ответы API

func toUserResponse(u *models.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:             u.ID,
		Slug:           u.Slug,
		Email:          u.Email,
		Name:           u.Name,
		Phone:          u.Phone,
		Avatar:         u.Avatar,
		MemberSince:    u.CreatedAt.Format("January 2006"),
		SpiritualLevel: u.SpiritualLevel,
		EmailVerified:  u.EmailVerified,
		DateOfBirth:    dto.DateOnly(u.DateOfBirth),
	}
}

func toAdminResponse(a *models.AdminUser) *dto.AdminResponse {
	return &dto.AdminResponse{
		ID:    a.ID,
		Email: a.Email,
		Name:  a.Name,
		Role:  string(a.Role),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func toProductResponse(p *models.Product) *dto.ProductResponse {
	resp := &dto.ProductResponse{
		ID:               p.ID,
		Slug:             p.Slug,
		Name:             p.Name,
		CategoryID:       p.CategoryID,
		SubCategoryID:    p.SubCategoryID,
		SubSubCategoryID: p.SubSubCategoryID,
		Price:            dto.Money(p.EffectivePrice()),
		OriginalPrice:    dto.Money(p.Price),
		DiscountPrice:    dto.MoneyPtr(p.DiscountPrice),
		Stock:            p.Stock,
		SKU:              p.SKU,
		ShortDescription: p.ShortDescription,
		FullDescription:  p.FullDescription,
		Thumbnail:        p.Thumbnail,
		Images:           nonNil(p.Images),
		Tags:             nonNil(p.Tags),
		Benefits:         nonNil(p.Benefits),
		WhoShouldWear:    nonNil(p.WhoShouldWear),
		WearingRules:     nonNil(p.WearingRules),
		FilterAttributes: p.FacetMap(),
		Variants:         p.Variants,
		IsFeatured:       p.IsFeatured,
		IsVisible:        p.IsVisible,
		IsBestseller:     p.IsBestseller,
		IsNew:            p.IsNew,
		Status:           string(p.Status),
		Rating:           dto.MoneyPtr(p.Rating),
		ReviewCount:      p.ReviewCount,
		Reviews:          p.ReviewCount,
		SortOrder:        p.SortOrder,
		CreatedAt:        dto.ISOTime(p.CreatedAt),
		UpdatedAt:        dto.ISOTime(p.UpdatedAt),
	}
	if resp.Variants == nil {
		resp.Variants = []models.ProductVariant{}
	}
	resp.Description = p.FullDescription
	if resp.Description == nil {
		resp.Description = p.ShortDescription
	}
	if len(p.Authenticity) > 0 {
		resp.Authenticity = json.RawMessage(p.Authenticity)
	}
	if p.Category != nil {
		resp.Category = p.Category.Name
		resp.CategorySlug = p.Category.Slug
	}
	if p.SubCategory != nil {
		resp.SubCategorySlug = p.SubCategory.Slug
	}
	return resp
}

func toProductResponses(products []models.Product) []*dto.ProductResponse {
	out := make([]*dto.ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, toProductResponse(&products[i]))
	}
	return out
}

func toSubSubCategoryResponse(s *models.SubSubCategory) *dto.SubSubCategoryResponse {
	return &dto.SubSubCategoryResponse{
		ID:          s.ID,
		Slug:        s.Slug,
		Name:        s.Name,
		Description: s.Description,
		Image:       s.Image,
		Status:      string(s.Status),
		SortOrder:   s.SortOrder,
		ParentID:    s.ParentID,
	}
}

func toSubCategoryResponse(s *models.SubCategory) *dto.SubCategoryResponse {
	resp := &dto.SubCategoryResponse{
		ID:          s.ID,
		Slug:        s.Slug,
		Name:        s.Name,
		Description: s.Description,
		Image:       s.Image,
		Status:      string(s.Status),
		SortOrder:   s.SortOrder,
		ParentID:    s.ParentID,
	}
	for i := range s.SubSubCategories {
		resp.SubSubCategories = append(resp.SubSubCategories, toSubSubCategoryResponse(&s.SubSubCategories[i]))
	}
	return resp
}

func toCategoryResponse(c *models.Category) *dto.CategoryResponse {
	resp := &dto.CategoryResponse{
		ID:                c.ID,
		Slug:              c.Slug,
		Name:              c.Name,
		Description:       c.Description,
		Image:             c.Image,
		Type:              string(c.Type),
		Status:            string(c.Status),
		ShowInShopSection: c.ShowInShopSection,
		SortOrder:         c.SortOrder,
		SEOTitle:          c.SEOTitle,
		SEODescription:    c.SEODescription,
	}
	for i := range c.SubCategories {
		resp.SubCategories = append(resp.SubCategories, toSubCategoryResponse(&c.SubCategories[i]))
	}
	return resp
}

func toFilterCategoryResponse(c *models.FilterAttributeCategory) *dto.FilterCategoryResponse {
	resp := &dto.FilterCategoryResponse{
		ID:         c.ID,
		Slug:       c.Slug,
		Name:       c.Name,
		SortOrder:  c.SortOrder,
		Attributes: make([]*dto.FilterAttributeResponse, 0, len(c.Attributes)),
	}
	for i := range c.Attributes {
		resp.Attributes = append(resp.Attributes, toFilterAttributeResponse(&c.Attributes[i]))
	}
	return resp
}

func toFilterAttributeResponse(a *models.FilterAttribute) *dto.FilterAttributeResponse {
	return &dto.FilterAttributeResponse{
		ID:         a.ID,
		CategoryID: a.CategoryID,
		Name:       a.Name,
		SortOrder:  a.SortOrder,
	}
}

func toOrderItemResponse(i *models.OrderItem) *dto.OrderItemResponse {
	return &dto.OrderItemResponse{
		ID:           i.ID,
		ProductID:    i.ProductID,
		ProductName:  i.ProductName,
		ProductImage: i.ProductImage,
		Quantity:     i.Quantity,
		Price:        dto.Money(i.Price),
		Total:        dto.Money(i.Total),
	}
}

func toOrderItemResponses(items []models.OrderItem) []*dto.OrderItemResponse {
	out := make([]*dto.OrderItemResponse, 0, len(items))
	for i := range items {
		out = append(out, toOrderItemResponse(&items[i]))
	}
	return out
}

func toOrderResponse(o *models.Order) *dto.OrderResponse {
	return &dto.OrderResponse{
		ID:                o.ID,
		OrderNumber:       o.OrderNumber,
		CustomerID:        o.UserID,
		CustomerName:      o.CustomerName,
		CustomerEmail:     o.CustomerEmail,
		CustomerPhone:     o.CustomerPhone,
		ShippingAddress:   o.ShippingAddress.Data(),
		Items:             toOrderItemResponses(o.Items),
		Subtotal:          dto.Money(o.Subtotal),
		ShippingCost:      dto.Money(o.ShippingCost),
		Tax:               dto.Money(o.Tax),
		Discount:          dto.Money(o.Discount),
		Total:             dto.Money(o.Total),
		Status:            string(o.Status),
		PaymentMethod:     string(o.PaymentMethod),
		PaymentStatus:     string(o.PaymentStatus),
		RazorpayOrderID:   o.RazorpayOrderID,
		RazorpayPaymentID: o.RazorpayPaymentID,
		CouponCode:        o.CouponCode,
		IsGift:            o.IsGift,
		GiftMessage:       o.GiftMessage,
		CreatedAt:         dto.ISOTime(o.CreatedAt),
		UpdatedAt:         dto.ISOTime(o.UpdatedAt),
	}
}

func toOrderResponses(orders []models.Order) []*dto.OrderResponse {
	out := make([]*dto.OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, toOrderResponse(&orders[i]))
	}
	return out
}

func toOrderSummaryResponse(o *models.Order) *dto.OrderSummaryResponse {
	return &dto.OrderSummaryResponse{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		Total:         dto.Money(o.Total),
		Status:        string(o.Status),
		PaymentStatus: string(o.PaymentStatus),
		PaymentMethod: string(o.PaymentMethod),
		CreatedAt:     dto.ISOTime(o.CreatedAt),
		Items:         toOrderItemResponses(o.Items),
	}
}

func toAddressResponse(a *models.Address) *dto.AddressResponse {
	return &dto.AddressResponse{
		ID:        a.ID,
		Type:      a.Type,
		Name:      a.Name,
		Street:    a.Street,
		City:      a.City,
		State:     a.State,
		Pincode:   a.Pincode,
		Phone:     a.Phone,
		IsDefault: a.IsDefault,
	}
}

func toAddressResponses(addresses []models.Address) []*dto.AddressResponse {
	out := make([]*dto.AddressResponse, 0, len(addresses))
	for i := range addresses {
		out = append(out, toAddressResponse(&addresses[i]))
	}
	return out
}

func toWishlistProductResponse(item *models.WishlistItem) *dto.WishlistProductResponse {
	resp := &dto.WishlistProductResponse{
		ID:        item.ID,
		ProductID: item.ProductID,
	}
	if p := item.Product; p != nil {
		resp.Slug = p.Slug
		resp.Name = p.Name
		resp.Price = dto.Money(p.EffectivePrice())
		resp.OriginalPrice = dto.Money(p.Price)
		resp.DiscountPrice = dto.MoneyPtr(p.DiscountPrice)
		resp.Image = p.Thumbnail
		if resp.Image == nil && len(p.Images) > 0 {
			resp.Image = strPtr(p.Images[0])
		}
		if p.Category != nil {
			resp.Category = p.Category.Name
		}
	}
	return resp
}

func toBlogPostResponse(b *models.BlogPost) *dto.BlogPostResponse {
	resp := &dto.BlogPostResponse{
		ID:           b.ID,
		Slug:         b.Slug,
		Title:        b.Title,
		Excerpt:      b.Excerpt,
		Content:      b.Content,
		Image:        b.Image,
		AuthorName:   b.AuthorName,
		AuthorAvatar: b.AuthorAvatar,
		AuthorRole:   b.AuthorRole,
		ReadTime:     b.ReadTime,
		Tags:         nonNil(b.Tags),
		IsMustRead:   b.IsMustRead,
		IsPopular:    b.IsPopular,
		IsFeatured:   b.IsFeatured,
		Views:        b.Views,
		Status:       string(b.Status),
		PublishedAt:  dto.ISOTimePtr(b.PublishedAt),
		SortOrder:    b.SortOrder,
		CreatedAt:    dto.ISOTime(b.CreatedAt),
		UpdatedAt:    dto.ISOTime(b.UpdatedAt),
	}
	if b.AuthorName != nil || b.AuthorAvatar != nil || b.AuthorRole != nil {
		resp.Author = &dto.BlogAuthor{Name: b.AuthorName, Avatar: b.AuthorAvatar, Role: b.AuthorRole}
	}
	if b.Category != nil {
		resp.Category = strPtr(string(*b.Category))
	}
	date := b.CreatedAt
	if b.PublishedAt != nil {
		date = *b.PublishedAt
	}
	resp.Date = *dto.DateOnly(&date)
	return resp
}

func toPageResponse(p *models.Page) *dto.PageResponse {
	content := json.RawMessage(p.Content)
	if len(content) == 0 {
		content = json.RawMessage("null")
	}
	return &dto.PageResponse{
		ID:        p.ID,
		Key:       p.Slug,
		Title:     p.Title,
		Content:   content,
		Status:    string(p.Status),
		UpdatedAt: dto.ISOTime(p.UpdatedAt),
	}
}

// toAdminUserResponse - googleId маскируется
func toAdminUserResponse(u *models.User) *dto.AdminUserResponse {
	resp := &dto.AdminUserResponse{
		ID:             u.ID,
		Slug:           u.Slug,
		Email:          u.Email,
		Name:           u.Name,
		Phone:          u.Phone,
		Avatar:         u.Avatar,
		SignInMethod:   string(u.SignInMethod()),
		DateOfBirth:    dto.DateOnly(u.DateOfBirth),
		SpiritualLevel: u.SpiritualLevel,
		EmailVerified:  u.EmailVerified,
		IsActive:       u.IsActive,
		CreatedAt:      dto.ISOTime(u.CreatedAt),
		UpdatedAt:      dto.ISOTime(u.UpdatedAt),
	}
	if u.GoogleID != nil && *u.GoogleID != "" {
		resp.GoogleID = strPtr("***")
	}
	return resp
}
