package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"storefront_backend/internal/export"
	"storefront_backend/internal/logger"
	"storefront_backend/internal/models"
	"storefront_backend/internal/repositories"
	"storefront_backend/internal/services/dto"
	"storefront_backend/pkg/apperrors"
)

const (
	publicProductLimit = 24
	adminProductLimit  = 20
	maxProductLimit    = 100
)

type ProductService interface {
	// Витрина: только active + visible
	ListPublic(ctx context.Context, db *gorm.DB, query *dto.ProductListQuery) (*dto.ProductListResponse, error)
	GetPublicBySlug(ctx context.Context, db *gorm.DB, slug string) (*dto.ProductResponse, error)

	// Админка
	AdminList(ctx context.Context, db *gorm.DB, query *dto.AdminProductListQuery) (*dto.ProductListResponse, error)
	AdminGet(ctx context.Context, db *gorm.DB, id string) (*dto.ProductResponse, error)
	Create(ctx context.Context, db *gorm.DB, req *dto.CreateProductRequest) (*dto.ProductResponse, error)
	Update(ctx context.Context, db *gorm.DB, id string, req *dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Delete(ctx context.Context, db *gorm.DB, id string) error
	Export(ctx context.Context, db *gorm.DB, w io.Writer) error
}

type productService struct {
	productRepo  repositories.ProductRepository
	categoryRepo repositories.CategoryRepository
	filterRepo   repositories.FilterAttributeRepository
}

func NewProductService(
	productRepo repositories.ProductRepository,
	categoryRepo repositories.CategoryRepository,
	filterRepo repositories.FilterAttributeRepository,
) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		filterRepo:   filterRepo,
	}
}

func productNotFound(err error) error {
	if errors.Is(err, repositories.ErrProductNotFound) {
		return apperrors.NewNotFoundError("product", "Product not found")
	}
	return apperrors.InternalError(err)
}

// splitList - "a, b,,c" -> [a b c] без повторов
func splitList(raw string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, dup := seen[part]; dup {
			continue
		}
		seen[part] = struct{}{}
		out = append(out, part)
	}
	return out
}

// parsePrice - некорректное значение фильтра игнорируется
func parsePrice(raw string) *decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	return &d
}

func (s *productService) ListPublic(ctx context.Context, db *gorm.DB, query *dto.ProductListQuery) (*dto.ProductListResponse, error) {
	page, limit, offset := pageParams(query.Page, query.Limit, publicProductLimit, maxProductLimit)

	facets := models.FacetMap{}
	for key, raw := range query.FacetParams() {
		if values := splitList(raw); len(values) > 0 {
			facets[key] = values
		}
	}

	sort := repositories.ProductSort(query.Sort)
	if sort == "" {
		sort = repositories.SortPopular
	}

	products, total, err := s.productRepo.List(db, repositories.ProductFilter{
		Status:          models.ProductStatusActive,
		VisibleOnly:     true,
		CategorySlug:    strings.TrimSpace(query.CategorySlug),
		SubCategorySlug: strings.TrimSpace(query.SubCategorySlug),
		MinPrice:        parsePrice(query.MinPrice),
		MaxPrice:        parsePrice(query.MaxPrice),
		Search:          strings.TrimSpace(query.Search),
		Facets:          facets,
		Sort:            sort,
		Limit:           limit,
		Offset:          offset,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.ProductListResponse{
		Products: toProductResponses(products),
		PageMeta: dto.NewPageMeta(total, page, limit),
	}, nil
}

func (s *productService) GetPublicBySlug(ctx context.Context, db *gorm.DB, slug string) (*dto.ProductResponse, error) {
	product, err := s.productRepo.FindBySlug(db, strings.TrimSpace(slug), true)
	if err != nil {
		return nil, productNotFound(err)
	}
	return toProductResponse(product), nil
}

func (s *productService) AdminList(ctx context.Context, db *gorm.DB, query *dto.AdminProductListQuery) (*dto.ProductListResponse, error) {
	page, limit, offset := pageParams(query.Page, query.Limit, adminProductLimit, maxProductLimit)

	products, total, err := s.productRepo.List(db, repositories.ProductFilter{
		Status:        models.ProductStatus(query.Status),
		CategoryID:    strings.TrimSpace(query.CategoryID),
		SubCategoryID: strings.TrimSpace(query.SubCategoryID),
		Search:        strings.TrimSpace(query.Search),
		AdminSearch:   true,
		Sort:          repositories.SortAdmin,
		Limit:         limit,
		Offset:        offset,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.ProductListResponse{
		Products: toProductResponses(products),
		PageMeta: dto.NewPageMeta(total, page, limit),
	}, nil
}

func (s *productService) AdminGet(ctx context.Context, db *gorm.DB, id string) (*dto.ProductResponse, error) {
	product, err := s.productRepo.FindByID(db, id)
	if err != nil {
		return nil, productNotFound(err)
	}
	return toProductResponse(product), nil
}

func (s *productService) Create(ctx context.Context, db *gorm.DB, req *dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(req.Name)
	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		slug = slugify(name)
	}
	if slug == "" {
		return nil, apperrors.ValidationError(map[string]string{"slug": "could not be derived from name"})
	}

	tx, err := beginTx(db)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	subID := optionalText(req.SubCategoryID)
	subSubID := optionalText(req.SubSubCategoryID)
	if err := s.checkTaxonomy(tx, req.CategoryID, subID, subSubID); err != nil {
		return nil, err
	}

	taken, err := s.productRepo.SlugExists(tx, slug, "")
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if taken {
		return nil, apperrors.ErrConflict(nil, "product", "A product with this slug already exists.")
	}

	facets, err := s.validateFacets(tx, req.FilterAttributes)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		Slug:             slug,
		Name:             name,
		CategoryID:       req.CategoryID,
		SubCategoryID:    subID,
		SubSubCategoryID: subSubID,
		Price:            *req.Price,
		DiscountPrice:    req.DiscountPrice,
		SKU:              optionalText(req.SKU),
		ShortDescription: optionalText(req.ShortDescription),
		FullDescription:  optionalText(req.FullDescription),
		Thumbnail:        optionalText(req.Thumbnail),
		Images:           datatypes.JSONSlice[string](nonNil(req.Images)),
		Tags:             datatypes.JSONSlice[string](nonNil(req.Tags)),
		Benefits:         datatypes.JSONSlice[string](nonNil(req.Benefits)),
		WhoShouldWear:    datatypes.JSONSlice[string](nonNil(req.WhoShouldWear)),
		WearingRules:     datatypes.JSONSlice[string](nonNil(req.WearingRules)),
		Variants:         datatypes.JSONSlice[models.ProductVariant](req.Variants),
		IsFeatured:       req.IsFeatured,
		IsBestseller:     req.IsBestseller,
		IsNew:            req.IsNew,
		IsVisible:        true,
		Status:           models.ProductStatusActive,
		Rating:           req.Rating,
		Facets:           facets,
	}
	if product.FullDescription == nil {
		product.FullDescription = optionalText(req.Description)
	}
	if len(req.Authenticity) > 0 {
		product.Authenticity = datatypes.JSON(req.Authenticity)
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.IsVisible != nil {
		product.IsVisible = *req.IsVisible
	}
	if req.Status != "" {
		product.Status = models.ProductStatus(req.Status)
	}
	if req.ReviewCount != nil {
		product.ReviewCount = *req.ReviewCount
	}
	if req.SortOrder != nil {
		product.SortOrder = *req.SortOrder
	}

	if err := s.productRepo.Create(tx, product); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.ErrConflict(err, "product", "A product with this slug already exists.")
		}
		return nil, apperrors.InternalError(err)
	}
	if err := commitTx(tx); err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "Product created", "product_id", product.ID, "slug", product.Slug)
	return s.AdminGet(ctx, db, product.ID)
}

func (s *productService) Update(ctx context.Context, db *gorm.DB, id string, req *dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	tx, err := beginTx(db)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	current, err := s.productRepo.FindByID(tx, id)
	if err != nil {
		return nil, productNotFound(err)
	}

	fields := map[string]interface{}{}

	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Slug != nil {
		slug := strings.TrimSpace(*req.Slug)
		if slug != "" && slug != current.Slug {
			taken, err := s.productRepo.SlugExists(tx, slug, id)
			if err != nil {
				return nil, apperrors.InternalError(err)
			}
			if taken {
				return nil, apperrors.ErrConflict(nil, "product", "A product with this slug already exists.")
			}
			fields["slug"] = slug
		}
	}

	// таксономия проверяется целиком, если изменилось хоть одно звено
	if req.CategoryID != nil || req.SubCategoryID.Set || req.SubSubCategoryID.Set {
		categoryID := current.CategoryID
		if req.CategoryID != nil {
			categoryID = strings.TrimSpace(*req.CategoryID)
		}
		subID := current.SubCategoryID
		if req.SubCategoryID.Set {
			subID = optionalText(req.SubCategoryID.Ptr())
		}
		subSubID := current.SubSubCategoryID
		if req.SubSubCategoryID.Set {
			subSubID = optionalText(req.SubSubCategoryID.Ptr())
		}
		if err := s.checkTaxonomy(tx, categoryID, subID, subSubID); err != nil {
			return nil, err
		}
		fields["category_id"] = categoryID
		fields["sub_category_id"] = subID
		fields["sub_sub_category_id"] = subSubID
	}

	if req.Price != nil {
		fields["price"] = *req.Price
	}
	if req.DiscountPrice.Set {
		if req.DiscountPrice.Valid {
			fields["discount_price"] = req.DiscountPrice.Value
		} else {
			fields["discount_price"] = nil
		}
	}
	if req.Stock != nil {
		fields["stock"] = *req.Stock
	}
	if req.SKU != nil {
		fields["sku"] = patchText(*req.SKU)
	}
	if req.ShortDescription != nil {
		fields["short_description"] = patchText(*req.ShortDescription)
	}
	if req.FullDescription != nil {
		fields["full_description"] = patchText(*req.FullDescription)
	} else if req.Description != nil {
		fields["full_description"] = patchText(*req.Description)
	}
	if req.Thumbnail != nil {
		fields["thumbnail"] = patchText(*req.Thumbnail)
	}
	if req.Images != nil {
		fields["images"] = datatypes.JSONSlice[string](nonNil(*req.Images))
	}
	if req.Tags != nil {
		fields["tags"] = datatypes.JSONSlice[string](nonNil(*req.Tags))
	}
	if req.Benefits != nil {
		fields["benefits"] = datatypes.JSONSlice[string](nonNil(*req.Benefits))
	}
	if req.WhoShouldWear != nil {
		fields["who_should_wear"] = datatypes.JSONSlice[string](nonNil(*req.WhoShouldWear))
	}
	if req.WearingRules != nil {
		fields["wearing_rules"] = datatypes.JSONSlice[string](nonNil(*req.WearingRules))
	}
	if req.Variants != nil {
		fields["variants"] = datatypes.JSONSlice[models.ProductVariant](*req.Variants)
	}
	if len(req.Authenticity) > 0 {
		fields["authenticity"] = datatypes.JSON(req.Authenticity)
	}
	if req.IsFeatured != nil {
		fields["is_featured"] = *req.IsFeatured
	}
	if req.IsVisible != nil {
		fields["is_visible"] = *req.IsVisible
	}
	if req.IsBestseller != nil {
		fields["is_bestseller"] = *req.IsBestseller
	}
	if req.IsNew != nil {
		fields["is_new"] = *req.IsNew
	}
	if req.Status != nil {
		fields["status"] = models.ProductStatus(*req.Status)
	}
	if req.Rating.Set {
		if req.Rating.Valid {
			fields["rating"] = req.Rating.Value
		} else {
			fields["rating"] = nil
		}
	}
	if req.ReviewCount != nil {
		fields["review_count"] = *req.ReviewCount
	}
	if req.SortOrder != nil {
		fields["sort_order"] = *req.SortOrder
	}

	if err := s.productRepo.Update(tx, id, fields); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.ErrConflict(err, "product", "A product with this slug already exists.")
		}
		return nil, productNotFound(err)
	}

	if req.FilterAttributes != nil {
		facets, err := s.validateFacets(tx, req.FilterAttributes)
		if err != nil {
			return nil, err
		}
		if err := s.productRepo.ReplaceFacets(tx, id, facets); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}

	if err := commitTx(tx); err != nil {
		return nil, err
	}
	return s.AdminGet(ctx, db, id)
}

func (s *productService) Delete(ctx context.Context, db *gorm.DB, id string) error {
	tx, err := beginTx(db)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.productRepo.Delete(tx, id); err != nil {
		return productNotFound(err)
	}
	if err := commitTx(tx); err != nil {
		return err
	}

	logger.CtxInfo(ctx, "Product deleted", "product_id", id)
	return nil
}

func (s *productService) Export(ctx context.Context, db *gorm.DB, w io.Writer) error {
	products, _, err := s.productRepo.List(db, repositories.ProductFilter{Sort: repositories.SortAdmin})
	if err != nil {
		return apperrors.InternalError(err)
	}
	file, err := export.ProductsWorkbook(products)
	if err != nil {
		return apperrors.InternalError(err)
	}
	return export.Write(w, file)
}

// checkTaxonomy - категория существует, подкатегория принадлежит ей,
// под-подкатегория принадлежит подкатегории
func (s *productService) checkTaxonomy(db *gorm.DB, categoryID string, subID, subSubID *string) error {
	if _, err := s.categoryRepo.FindCategoryByID(db, categoryID, false); err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return apperrors.NewNotFoundError("category", "Category not found.")
		}
		return apperrors.InternalError(err)
	}

	if subID != nil {
		sub, err := s.categoryRepo.FindSubCategoryByID(db, *subID)
		if err != nil && !errors.Is(err, repositories.ErrSubCategoryNotFound) {
			return apperrors.InternalError(err)
		}
		if sub == nil || sub.ParentID != categoryID {
			return apperrors.NewBadRequestError("Subcategory does not belong to the selected category.")
		}
	}

	if subSubID != nil {
		if subID == nil {
			return apperrors.NewBadRequestError("Sub-subcategory requires a subcategory.")
		}
		subSub, err := s.categoryRepo.FindSubSubCategoryByID(db, *subSubID)
		if err != nil && !errors.Is(err, repositories.ErrSubSubCategoryNotFound) {
			return apperrors.InternalError(err)
		}
		if subSub == nil || subSub.ParentID != *subID {
			return apperrors.NewBadRequestError("Sub-subcategory does not belong to the selected subcategory.")
		}
	}
	return nil
}

// validateFacets сверяет значения с атрибутами FilterAttributeCategory
// с тем же slug, что и ключ фасета
func (s *productService) validateFacets(db *gorm.DB, facets models.FacetMap) ([]models.ProductFacet, error) {
	rows := []models.ProductFacet{}
	if len(facets) == 0 {
		return rows, nil
	}

	vocab, err := s.filterRepo.Vocabulary(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	problems := map[string]string{}
	for _, key := range models.FacetKeys {
		seen := map[string]struct{}{}
		for _, value := range facets[key] {
			value = strings.TrimSpace(value)
			if value == "" {
				continue
			}
			if _, dup := seen[value]; dup {
				continue
			}
			seen[value] = struct{}{}

			if _, ok := vocab[string(key)][value]; !ok {
				problems["filterAttributes."+string(key)] = fmt.Sprintf("unknown value '%s'", value)
				continue
			}
			rows = append(rows, models.ProductFacet{FacetKey: key, Value: value})
		}
	}
	if len(problems) > 0 {
		return nil, apperrors.ValidationError(problems)
	}
	return rows, nil
}
