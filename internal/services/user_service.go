package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"storefront_backend/internal/logger"
	"storefront_backend/internal/models"
	"storefront_backend/internal/repositories"
	"storefront_backend/internal/services/dto"
	"storefront_backend/pkg/apperrors"
)

const (
	adminUsersLimit    = 20
	adminUsersMaxLimit = 100
	adminUserOrders    = 10
)

// UserService - управление покупателями из админки
type UserService interface {
	List(ctx context.Context, db *gorm.DB, query *dto.AdminUserListQuery) (*dto.AdminUserListResponse, error)
	Get(ctx context.Context, db *gorm.DB, id string) (*dto.AdminUserDetailResponse, error)
	Update(ctx context.Context, db *gorm.DB, id string, req *dto.AdminUpdateUserRequest) (*dto.AdminUserResponse, error)
}

type userService struct {
	userRepo     repositories.UserRepository
	orderRepo    repositories.OrderRepository
	addressRepo  repositories.AddressRepository
	wishlistRepo repositories.WishlistRepository
}

func NewUserService(
	userRepo repositories.UserRepository,
	orderRepo repositories.OrderRepository,
	addressRepo repositories.AddressRepository,
	wishlistRepo repositories.WishlistRepository,
) UserService {
	return &userService{
		userRepo:     userRepo,
		orderRepo:    orderRepo,
		addressRepo:  addressRepo,
		wishlistRepo: wishlistRepo,
	}
}

func userNotFound(err error) error {
	if errors.Is(err, repositories.ErrUserNotFound) {
		return apperrors.NewNotFoundError("user", "User not found")
	}
	return apperrors.InternalError(err)
}

func (s *userService) List(ctx context.Context, db *gorm.DB, query *dto.AdminUserListQuery) (*dto.AdminUserListResponse, error) {
	page, limit, offset := pageParams(query.Page, query.Limit, adminUsersLimit, adminUsersMaxLimit)

	users, total, err := s.userRepo.List(db, repositories.UserFilter{
		Search:       strings.TrimSpace(query.Search),
		SignInMethod: models.SignInMethod(query.SignInMethod),
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	// счетчики одним запросом на страницу, без N+1
	orderCounts, err := s.orderRepo.CountsByUsers(db, ids)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	addressCounts, err := s.addressRepo.CountsByUsers(db, ids)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	out := make([]*dto.AdminUserResponse, 0, len(users))
	for i := range users {
		resp := toAdminUserResponse(&users[i])
		orders, addresses := orderCounts[users[i].ID], addressCounts[users[i].ID]
		resp.OrdersCount = &orders
		resp.AddressesCount = &addresses
		out = append(out, resp)
	}

	return &dto.AdminUserListResponse{
		Users:    out,
		PageMeta: dto.NewPageMeta(total, page, limit),
	}, nil
}

func (s *userService) Get(ctx context.Context, db *gorm.DB, id string) (*dto.AdminUserDetailResponse, error) {
	user, err := s.userRepo.FindByID(db, id)
	if err != nil {
		return nil, userNotFound(err)
	}

	addresses, err := s.addressRepo.ListByUser(db, id)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	orders, ordersTotal, err := s.orderRepo.List(db, repositories.OrderFilter{UserID: id, Limit: adminUserOrders})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	wishlistTotal, err := s.wishlistRepo.CountByUser(db, id)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.AdminUserDetailResponse{
		AdminUserResponse: toAdminUserResponse(user),
		Addresses:         toAddressResponses(addresses),
		RecentOrders:      make([]*dto.AdminUserOrderResponse, 0, len(orders)),
	}
	addressesTotal := int64(len(addresses))
	resp.OrdersCount = &ordersTotal
	resp.AddressesCount = &addressesTotal
	resp.WishlistCount = &wishlistTotal

	for _, o := range orders {
		resp.RecentOrders = append(resp.RecentOrders, &dto.AdminUserOrderResponse{
			ID:          o.ID,
			OrderNumber: o.OrderNumber,
			Subtotal:    dto.Money(o.Subtotal),
			Status:      string(o.Status),
			CreatedAt:   dto.ISOTime(o.CreatedAt),
		})
	}
	return resp, nil
}

func (s *userService) Update(ctx context.Context, db *gorm.DB, id string, req *dto.AdminUpdateUserRequest) (*dto.AdminUserResponse, error) {
	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		fields["phone"] = patchText(*req.Phone)
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
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}

	if len(fields) > 0 {
		if err := s.userRepo.UpdateFields(db, id, fields); err != nil {
			return nil, userNotFound(err)
		}
	}

	user, err := s.userRepo.FindByID(db, id)
	if err != nil {
		return nil, userNotFound(err)
	}

	logger.CtxInfo(ctx, "User updated by admin", "user_id", id)
	return toAdminUserResponse(user), nil
}
