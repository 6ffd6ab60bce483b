package marketplaceserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	cartmapper "github.com/Apurer/go-gin-marketplace/internal/domains/cart/adapters/http/mapper"
)

// CartAPI exposes the cart store of a session.
type CartAPI struct {
	sessions SessionAPI
}

func NewCartAPI(sessions SessionAPI) CartAPI {
	return CartAPI{sessions: sessions}
}

// Get /v1/sessions/:sessionId/cart
func (api *CartAPI) GetCart(c *gin.Context) {
	handle, ok := api.sessions.resolve(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, cartmapper.FromDomainState(handle.Cart.Snapshot(c.Request.Context())))
}

// Post /v1/sessions/:sessionId/cart/items
// Adds a product with quantity 1; adding a product already in the cart changes nothing
func (api *CartAPI) AddItem(c *gin.Context) {
	handle, ok := api.sessions.resolve(c)
	if !ok {
		return
	}
	var payload cartmapper.Product
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	product, err := cartmapper.ToDomainProduct(payload)
	if err != nil {
		respondError(c, err)
		return
	}
	ctx := c.Request.Context()
	handle.Cart.AddItem(ctx, product)
	c.JSON(http.StatusOK, cartmapper.FromDomainState(handle.Cart.Snapshot(ctx)))
}

// Delete /v1/sessions/:sessionId/cart/items/:itemId
func (api *CartAPI) RemoveItem(c *gin.Context) {
	handle, ok := api.sessions.resolve(c)
	if !ok {
		return
	}
	var itemID string
	if err := runtime.BindStyledParameterWithLocation("simple", false, "itemId", runtime.ParamLocationPath, c.Param("itemId"), &itemID); err != nil {
		respondBadRequest(c, err)
		return
	}
	ctx := c.Request.Context()
	handle.Cart.RemoveItem(ctx, cartmapper.ToDomainItemID(itemID))
	c.JSON(http.StatusOK, cartmapper.FromDomainState(handle.Cart.Snapshot(ctx)))
}

// Delete /v1/sessions/:sessionId/cart
func (api *CartAPI) ClearCart(c *gin.Context) {
	handle, ok := api.sessions.resolve(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	handle.Cart.ClearCart(ctx)
	c.JSON(http.StatusOK, cartmapper.FromDomainState(handle.Cart.Snapshot(ctx)))
}

// Put /v1/sessions/:sessionId/cart/totals
// Stores the caller-computed shipping fee and total as given
func (api *CartAPI) SetTotals(c *gin.Context) {
	handle, ok := api.sessions.resolve(c)
	if !ok {
		return
	}
	var payload CartTotals
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	ctx := c.Request.Context()
	handle.Cart.SetTotals(ctx, *payload.ShippingFee, *payload.TotalAmount)
	c.JSON(http.StatusOK, cartmapper.FromDomainState(handle.Cart.Snapshot(ctx)))
}
