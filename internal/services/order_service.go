package services

import (
	"context"
	"errors"
	"io"
	"strings"

	"gorm.io/gorm"

	"storefront_backend/internal/export"
	"storefront_backend/internal/logger"
	"storefront_backend/internal/models"
	"storefront_backend/internal/repositories"
	"storefront_backend/internal/services/dto"
	"storefront_backend/pkg/apperrors"
)

const (
	adminOrdersLimit    = 50
	adminOrdersMaxLimit = 200
)

// OrderService - заказы в админке. Позиции заказа неизменяемы,
// меняются только статусы.
type OrderService interface {
	List(ctx context.Context, db *gorm.DB, query *dto.AdminOrderListQuery) (*dto.AdminOrderListResponse, error)
	Get(ctx context.Context, db *gorm.DB, id string) (*dto.OrderResponse, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, id string, req *dto.UpdateOrderStatusRequest) (*dto.OrderResponse, error)
	Export(ctx context.Context, db *gorm.DB, query *dto.AdminOrderListQuery, w io.Writer) error
}

type orderService struct {
	orderRepo repositories.OrderRepository
}

func NewOrderService(orderRepo repositories.OrderRepository) OrderService {
	return &orderService{orderRepo: orderRepo}
}

func orderNotFound(err error) error {
	if errors.Is(err, repositories.ErrOrderNotFound) {
		return apperrors.NewNotFoundError("order", "Order not found")
	}
	return apperrors.InternalError(err)
}

// orderStatusFilter - "all" означает без фильтра
func orderStatusFilter(raw string) models.OrderStatus {
	raw = strings.TrimSpace(raw)
	if raw == "all" {
		return ""
	}
	return models.OrderStatus(raw)
}

func (s *orderService) List(ctx context.Context, db *gorm.DB, query *dto.AdminOrderListQuery) (*dto.AdminOrderListResponse, error) {
	page, limit, offset := pageParams(query.Page, query.Limit, adminOrdersLimit, adminOrdersMaxLimit)

	orders, total, err := s.orderRepo.List(db, repositories.OrderFilter{
		Status: orderStatusFilter(query.Status),
		Search: strings.TrimSpace(query.Search),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.AdminOrderListResponse{
		Data:       toOrderResponses(orders),
		Pagination: dto.NewPageMeta(total, page, limit),
	}, nil
}

func (s *orderService) Get(ctx context.Context, db *gorm.DB, id string) (*dto.OrderResponse, error) {
	order, err := s.orderRepo.FindByID(db, id)
	if err != nil {
		return nil, orderNotFound(err)
	}
	return toOrderResponse(order), nil
}

func (s *orderService) UpdateStatus(ctx context.Context, db *gorm.DB, id string, req *dto.UpdateOrderStatusRequest) (*dto.OrderResponse, error) {
	if strings.TrimSpace(req.Status) == "" {
		return nil, apperrors.NewBadRequestError("Status is required")
	}
	status := models.OrderStatus(req.Status)
	if !status.Valid() {
		return nil, apperrors.ErrInvalidStatus("order", "Invalid order status")
	}

	fields := map[string]interface{}{"status": status}
	if req.PaymentStatus != "" {
		fields["payment_status"] = models.PaymentStatus(req.PaymentStatus)
	}
	if err := s.orderRepo.UpdateFields(db, id, fields); err != nil {
		return nil, orderNotFound(err)
	}

	logger.CtxInfo(ctx, "Order status updated", "order_id", id, "status", status)
	return s.Get(ctx, db, id)
}

func (s *orderService) Export(ctx context.Context, db *gorm.DB, query *dto.AdminOrderListQuery, w io.Writer) error {
	orders, err := s.orderRepo.ListForExport(db, repositories.OrderFilter{
		Status: orderStatusFilter(query.Status),
		Search: strings.TrimSpace(query.Search),
	})
	if err != nil {
		return apperrors.InternalError(err)
	}
	file, err := export.OrdersWorkbook(orders)
	if err != nil {
		return apperrors.InternalError(err)
	}
	return export.Write(w, file)
}
