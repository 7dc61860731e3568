package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"storefront_backend/internal/auth"
	"storefront_backend/internal/logger"
	"storefront_backend/internal/models"
	"storefront_backend/internal/repositories"
	"storefront_backend/internal/services/dto"
	"storefront_backend/pkg/apperrors"
)

const (
	accountOrdersLimit    = 10
	accountOrdersMaxLimit = 50
	overviewOrders        = 5
	overviewWishlist      = 8
	defaultAddressType    = "Home"
)

// AccountService - личный кабинет покупателя; все операции ограничены userID из токена
type AccountService interface {
	Overview(ctx context.Context, db *gorm.DB, userID string) (*dto.AccountOverviewResponse, error)
	ListOrders(ctx context.Context, db *gorm.DB, userID string, query *dto.AccountOrdersQuery) (*dto.OrderListResponse, error)
	GetOrder(ctx context.Context, db *gorm.DB, userID, orderNumber string) (*dto.OrderResponse, error)

	ListAddresses(ctx context.Context, db *gorm.DB, userID string) ([]*dto.AddressResponse, error)
	CreateAddress(ctx context.Context, db *gorm.DB, userID string, req *dto.CreateAddressRequest) (*dto.AddressResponse, error)
	UpdateAddress(ctx context.Context, db *gorm.DB, userID, id string, req *dto.UpdateAddressRequest) (*dto.AddressResponse, error)
	DeleteAddress(ctx context.Context, db *gorm.DB, userID, id string) error

	ListWishlist(ctx context.Context, db *gorm.DB, userID string) ([]*dto.WishlistProductResponse, error)
	AddToWishlist(ctx context.Context, db *gorm.DB, userID, productID string) error
	RemoveFromWishlist(ctx context.Context, db *gorm.DB, userID, productID string) error

	UpdateProfile(ctx context.Context, db *gorm.DB, userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	ChangePassword(ctx context.Context, db *gorm.DB, userID string, req *dto.ChangePasswordRequest) error
	Deactivate(ctx context.Context, db *gorm.DB, userID string) (*dto.DeactivatedAccountResponse, error)
}

type accountService struct {
	userRepo     repositories.UserRepository
	orderRepo    repositories.OrderRepository
	addressRepo  repositories.AddressRepository
	wishlistRepo repositories.WishlistRepository
	productRepo  repositories.ProductRepository
}

func NewAccountService(
	userRepo repositories.UserRepository,
	orderRepo repositories.OrderRepository,
	addressRepo repositories.AddressRepository,
	wishlistRepo repositories.WishlistRepository,
	productRepo repositories.ProductRepository,
) AccountService {
	return &accountService{
		userRepo:     userRepo,
		orderRepo:    orderRepo,
		addressRepo:  addressRepo,
		wishlistRepo: wishlistRepo,
		productRepo:  productRepo,
	}
}

func (s *accountService) loadUser(db *gorm.DB, userID string) (*models.User, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewNotFoundError("account", "User not found")
		}
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}

func addressNotFound(err error) error {
	if errors.Is(err, repositories.ErrAddressNotFound) {
		return apperrors.NewNotFoundError("account", "Address not found")
	}
	return apperrors.InternalError(err)
}

// --- Overview & orders ---

func (s *accountService) Overview(ctx context.Context, db *gorm.DB, userID string) (*dto.AccountOverviewResponse, error) {
	user, err := s.loadUser(db, userID)
	if err != nil {
		return nil, err
	}

	resp := &dto.AccountOverviewResponse{
		User:         toUserResponse(user),
		RecentOrders: []*dto.RecentOrderResponse{},
		Wishlist:     []*dto.WishlistProductResponse{},
	}

	if resp.Counts.OrdersCount, err = s.orderRepo.CountByUser(db, userID); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if resp.Counts.WishlistCount, err = s.wishlistRepo.CountByUser(db, userID); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if resp.Counts.AddressesCount, err = s.addressRepo.CountByUser(db, userID); err != nil {
		return nil, apperrors.InternalError(err)
	}

	orders, _, err := s.orderRepo.List(db, repositories.OrderFilter{UserID: userID, Limit: overviewOrders})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	for _, o := range orders {
		resp.RecentOrders = append(resp.RecentOrders, &dto.RecentOrderResponse{
			ID:          o.ID,
			OrderNumber: o.OrderNumber,
			Total:       dto.Money(o.Total),
			Status:      string(o.Status),
			ItemCount:   len(o.Items),
			CreatedAt:   dto.ISOTime(o.CreatedAt),
		})
	}

	items, err := s.wishlistRepo.ListByUser(db, userID, overviewWishlist)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	for i := range items {
		resp.Wishlist = append(resp.Wishlist, toWishlistProductResponse(&items[i]))
	}

	address, err := s.addressRepo.FindDefault(db, userID)
	switch {
	case err == nil:
		resp.DefaultAddress = toAddressResponse(address)
	case !errors.Is(err, repositories.ErrAddressNotFound):
		return nil, apperrors.InternalError(err)
	}

	return resp, nil
}

func (s *accountService) ListOrders(ctx context.Context, db *gorm.DB, userID string, query *dto.AccountOrdersQuery) (*dto.OrderListResponse, error) {
	page, limit, offset := pageParams(query.Page, query.Limit, accountOrdersLimit, accountOrdersMaxLimit)

	orders, total, err := s.orderRepo.List(db, repositories.OrderFilter{
		UserID: userID,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.OrderListResponse{
		Orders:   toOrderResponses(orders),
		PageMeta: dto.NewPageMeta(total, page, limit),
	}, nil
}

// GetOrder - чужой заказ неотличим от несуществующего
func (s *accountService) GetOrder(ctx context.Context, db *gorm.DB, userID, orderNumber string) (*dto.OrderResponse, error) {
	order, err := s.orderRepo.FindByUserAndNumber(db, userID, strings.TrimSpace(orderNumber))
	if err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return nil, apperrors.NewNotFoundError("order", "Order not found")
		}
		return nil, apperrors.InternalError(err)
	}
	return toOrderResponse(order), nil
}

// --- Addresses ---

func (s *accountService) ListAddresses(ctx context.Context, db *gorm.DB, userID string) ([]*dto.AddressResponse, error) {
	addresses, err := s.addressRepo.ListByUser(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return toAddressResponses(addresses), nil
}

func (s *accountService) CreateAddress(ctx context.Context, db *gorm.DB, userID string, req *dto.CreateAddressRequest) (*dto.AddressResponse, error) {
	tx, err := beginTx(db)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	address := &models.Address{
		UserID:    userID,
		Slug:      randomSlug("addr", 6),
		Type:      strings.TrimSpace(req.Type),
		Name:      strings.TrimSpace(req.Name),
		Street:    strings.TrimSpace(req.Street),
		City:      strings.TrimSpace(req.City),
		State:     strings.TrimSpace(req.State),
		Pincode:   strings.TrimSpace(req.Pincode),
		Phone:     optionalText(req.Phone),
		IsDefault: req.IsDefault,
	}
	if address.Type == "" {
		address.Type = defaultAddressType
	}

	if err := s.addressRepo.Create(tx, address); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if address.IsDefault {
		if err := s.addressRepo.ClearDefault(tx, userID, address.ID); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}
	if err := commitTx(tx); err != nil {
		return nil, err
	}
	return toAddressResponse(address), nil
}

func (s *accountService) UpdateAddress(ctx context.Context, db *gorm.DB, userID, id string, req *dto.UpdateAddressRequest) (*dto.AddressResponse, error) {
	tx, err := beginTx(db)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := s.addressRepo.FindByUser(tx, userID, id); err != nil {
		return nil, addressNotFound(err)
	}

	fields := map[string]interface{}{}
	set := func(column string, v *string) {
		if v != nil {
			fields[column] = strings.TrimSpace(*v)
		}
	}
	set("type", req.Type)
	set("name", req.Name)
	set("street", req.Street)
	set("city", req.City)
	set("state", req.State)
	set("pincode", req.Pincode)
	if req.Phone != nil {
		fields["phone"] = patchText(*req.Phone)
	}
	if req.IsDefault != nil {
		fields["is_default"] = *req.IsDefault
	}

	if err := s.addressRepo.Update(tx, id, fields); err != nil {
		return nil, addressNotFound(err)
	}
	if req.IsDefault != nil && *req.IsDefault {
		if err := s.addressRepo.ClearDefault(tx, userID, id); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}

	address, err := s.addressRepo.FindByUser(tx, userID, id)
	if err != nil {
		return nil, addressNotFound(err)
	}
	if err := commitTx(tx); err != nil {
		return nil, err
	}
	return toAddressResponse(address), nil
}

func (s *accountService) DeleteAddress(ctx context.Context, db *gorm.DB, userID, id string) error {
	if err := s.addressRepo.Delete(db, userID, id); err != nil {
		return addressNotFound(err)
	}
	return nil
}

// --- Wishlist ---

func (s *accountService) ListWishlist(ctx context.Context, db *gorm.DB, userID string) ([]*dto.WishlistProductResponse, error) {
	items, err := s.wishlistRepo.ListByUser(db, userID, 0)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	out := make([]*dto.WishlistProductResponse, 0, len(items))
	for i := range items {
		out = append(out, toWishlistProductResponse(&items[i]))
	}
	return out, nil
}

func (s *accountService) AddToWishlist(ctx context.Context, db *gorm.DB, userID, productID string) error {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return apperrors.NewBadRequestError("Product ID is required")
	}
	if _, err := s.productRepo.FindByID(db, productID); err != nil {
		return productNotFound(err)
	}
	if err := s.wishlistRepo.Add(db, userID, productID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *accountService) RemoveFromWishlist(ctx context.Context, db *gorm.DB, userID, productID string) error {
	if err := s.wishlistRepo.Remove(db, userID, productID); err != nil {
		if errors.Is(err, repositories.ErrWishlistNotFound) {
			return apperrors.NewNotFoundError("account", "Wishlist item not found")
		}
		return apperrors.InternalError(err)
	}
	return nil
}

// --- Profile ---

func (s *accountService) UpdateProfile(ctx context.Context, db *gorm.DB, userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		fields["phone"] = patchText(*req.Phone)
	}
	if req.Avatar != nil {
		fields["avatar"] = patchText(*req.Avatar)
	}
	if req.SpiritualLevel != nil {
		fields["spiritual_level"] = patchText(*req.SpiritualLevel)
	}
	if req.DateOfBirth.Set {
		if req.DateOfBirth.Valid {
			fields["date_of_birth"] = req.DateOfBirth.Value.Time
		} else {
			fields["date_of_birth"] = nil
		}
	}

	if len(fields) > 0 {
		if err := s.userRepo.UpdateFields(db, userID, fields); err != nil {
			if errors.Is(err, repositories.ErrUserNotFound) {
				return nil, apperrors.NewNotFoundError("account", "User not found")
			}
			return nil, apperrors.InternalError(err)
		}
	}

	user, err := s.loadUser(db, userID)
	if err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// ChangePassword: текущий пароль обязателен, если он уже задан;
// аккаунт только с Google может задать пароль впервые
func (s *accountService) ChangePassword(ctx context.Context, db *gorm.DB, userID string, req *dto.ChangePasswordRequest) error {
	user, err := s.loadUser(db, userID)
	if err != nil {
		return err
	}

	if user.HasPassword() {
		if req.CurrentPassword == "" {
			return apperrors.ValidationError(map[string]string{"currentPassword": "is required"})
		}
		if !auth.CheckPasswordHash(req.CurrentPassword, *user.PasswordHash) {
			return apperrors.NewBadRequestError("Current password is incorrect.")
		}
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.userRepo.UpdateFields(db, userID, map[string]interface{}{"password_hash": hash}); err != nil {
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Password changed", "user_id", userID)
	return nil
}

// Deactivate - мягкое удаление: вход и выдача токенов блокируются через is_active
func (s *accountService) Deactivate(ctx context.Context, db *gorm.DB, userID string) (*dto.DeactivatedAccountResponse, error) {
	user, err := s.loadUser(db, userID)
	if err != nil {
		return nil, err
	}
	err = s.userRepo.UpdateFields(db, userID, map[string]interface{}{
		"is_active":      false,
		"email_verified": false,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Account deactivated", "user_id", userID)
	return &dto.DeactivatedAccountResponse{ID: user.ID, Email: user.Email}, nil
}
