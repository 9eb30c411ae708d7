package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/moviehouse/seat-inventory/internal/inventory"
	"github.com/moviehouse/seat-inventory/internal/model"
	"github.com/moviehouse/seat-inventory/internal/queue"
	"github.com/moviehouse/seat-inventory/internal/repository"
	"github.com/moviehouse/seat-inventory/internal/service"
)

// CustomerHandler serves the authenticated customer surface: placing
// reservations and listing own orders.
type CustomerHandler struct {
	Engine   *inventory.Engine
	Orders   *repository.OrderRepo
	Sessions *repository.SessionRepo

	// PublishEvents gates the post-commit broker publish so tests can
	// run the handler without a broker.
	PublishEvents bool
}

func NewCustomerHandler(engine *inventory.Engine, orders *repository.OrderRepo, sessions *repository.SessionRepo, publishEvents bool) *CustomerHandler {
	if engine == nil || orders == nil || sessions == nil {
		panic("nil dependency passed to NewCustomerHandler")
	}
	return &CustomerHandler{Engine: engine, Orders: orders, Sessions: sessions, PublishEvents: publishEvents}
}

type reserveReq struct {
	Seats []uint32 `json:"seats"`
}

type orderPart struct {
	ID         uint64 `json:"id"`
	SeatNumber uint32 `json:"seat_number"`
	CreatedAt  string `json:"created_at"`
}

type reserveResp struct {
	SessionID uint64      `json:"session_id"`
	Orders    []orderPart `json:"orders"`
}

// CreateOrder handles POST /v1/sessions/:id/orders.  The engine treats
// the request as all-or-nothing: either every named seat becomes an
// order or the whole batch is rejected with the current free-seat list.
func (h *CustomerHandler) CreateOrder(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	sessionID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req reserveReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	orders, err := h.Engine.Reserve(c.Request().Context(), uid, sessionID, req.Seats)
	if err != nil {
		return respondError(c, err)
	}

	if h.PublishEvents {
		h.publishCreated(c, uid, sessionID, req.Seats, orders)
	}

	out := make([]orderPart, len(orders))
	for i, o := range orders {
		out[i] = orderPart{ID: o.ID, SeatNumber: req.Seats[i], CreatedAt: o.CreatedAt.UTC().Format(time.RFC3339)}
	}
	return c.JSON(http.StatusCreated, reserveResp{SessionID: sessionID, Orders: out})
}

// publishCreated emits the order.created event.  The reservation already
// committed, so publish failures are logged and dropped.
func (h *CustomerHandler) publishCreated(c echo.Context, uid, sessionID uint64, seats []uint32, orders []model.Order) {
	detail, err := h.Sessions.GetDetail(c.Request().Context(), sessionID)
	if err != nil {
		c.Logger().Warnf("order event: load session %d failed: %v", sessionID, err)
		return
	}
	ids := make([]uint64, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	ev := queue.OrderCreatedEvent{
		OrderIDs:    ids,
		CustomerID:  uid,
		SessionID:   sessionID,
		HallName:    detail.HallName,
		MovieTitle:  detail.MovieTitle,
		Date:        detail.Date,
		TimeStart:   detail.TimeStart,
		SeatNumbers: seats,
		PriceEach:   detail.Price,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	_ = service.PublishOrderCreated(c.Request().Context(), ev)
}

// MyOrders handles GET /v1/orders and lists the customer's own orders,
// newest first.
func (h *CustomerHandler) MyOrders(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	orders, err := h.Orders.ListByCustomer(c.Request().Context(), uid)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}
