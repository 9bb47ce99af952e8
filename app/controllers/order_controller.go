package controllers

import (
	"net/http"

	"github.com/nairobitech/duka/app/services"
	"github.com/nairobitech/duka/pkg/bind"
	"github.com/nairobitech/duka/pkg/middleware"
	"github.com/nairobitech/duka/pkg/response"
	"github.com/nairobitech/duka/pkg/router"
	"github.com/nairobitech/duka/pkg/ws"
)

// OrderFeed is the live back-office feed. Order events are broadcast to
// every connected admin client.
var OrderFeed = ws.NewHub()

func init() { go OrderFeed.Run() }

// OrderController handles checkout, order listings and the status workflow.
type OrderController struct {
	service *services.OrderService
}

func NewOrderController() *OrderController {
	return &OrderController{service: services.NewOrderService()}
}

// Index lists orders: admins see all, users see their own.
func (c *OrderController) Index(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	orders, err := c.service.ListFor(p.ID, p.Role)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, orders)
}

// Store places an order for the caller.
func (c *OrderController) Store(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	var in services.PlaceOrderInput
	errs, err := bind.JSON(r, &in)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}
	if len(in.Items) == 0 {
		response.Error(w, http.StatusBadRequest, "order needs at least one item")
		return
	}

	order, err := c.service.Place(userID, in)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, order)
}

// SetStatus moves an order through its lifecycle. Admin only.
func (c *OrderController) SetStatus(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Status string `json:"status" validate:"required"`
	}
	errs, err := bind.JSON(r, &in)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	order, err := c.service.SetStatus(router.Param(r, "id"), in.Status)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, order)
}

// AdminIndex returns every order with purchaser and item details. Admin only.
func (c *OrderController) AdminIndex(w http.ResponseWriter, r *http.Request) {
	orders, err := c.service.AdminList()
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, orders)
}

// Feed upgrades to a WebSocket on the live order feed. Admin only.
func (c *OrderController) Feed(w http.ResponseWriter, r *http.Request) {
	ws.Upgrade(w, r, OrderFeed)
}
