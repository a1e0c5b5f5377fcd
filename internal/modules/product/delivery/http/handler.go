package handler

import (
	"fmt"
	"net/http"

	"anoa.com/productcatalog/internal/entity"
	"anoa.com/productcatalog/internal/mediator"
	"anoa.com/productcatalog/internal/modules/product/dto"
	"anoa.com/productcatalog/internal/modules/product/request"
	searchRequest "anoa.com/productcatalog/internal/modules/search/request"
	search "anoa.com/productcatalog/internal/modules/search/service"
	"anoa.com/productcatalog/pkg/apperror"
	commonDto "anoa.com/productcatalog/pkg/dto"
	"anoa.com/productcatalog/pkg/pagination"
	"anoa.com/productcatalog/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type ProductHandler struct {
	mediator *mediator.Mediator
}

func NewProductHandler(m *mediator.Mediator) *ProductHandler {
	return &ProductHandler{mediator: m}
}

func (h *ProductHandler) GetProducts(c *gin.Context) {
	var params commonDto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		response.BindError(c, err)
		return
	}

	products, err := mediator.Send[[]*entity.Product](c.Request.Context(), h.mediator, request.ListProducts{
		Query: pagination.FromParams(params),
	})
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromEntities(products))
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := response.ParseID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	product, err := mediator.Send[*entity.Product](c.Request.Context(), h.mediator, request.GetProduct{ID: id})
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromEntity(product))
}

func (h *ProductHandler) SearchProducts(c *gin.Context) {
	var params commonDto.SearchParams
	if err := c.ShouldBindQuery(&params); err != nil {
		response.BindError(c, err)
		return
	}

	docs, err := mediator.Send[[]search.Document](c.Request.Context(), h.mediator, searchRequest.SearchProducts{
		Query: params.Query,
		Limit: params.Limit,
	})
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, docs)
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req dto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	product, err := mediator.Send[*entity.Product](c.Request.Context(), h.mediator, request.CreateProduct{
		Product: req.ToEntity(),
	})
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.Header("Location", fmt.Sprintf("/api/products/%d", product.ID))
	c.JSON(http.StatusCreated, dto.FromEntity(product))
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, err := response.ParseID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.ProductRequest
	if err := response.DecodeJSON(c, &req); err != nil {
		response.ResponseError(c, err)
		return
	}
	if req.ID != id {
		response.ResponseError(c, apperror.Invalid(fmt.Sprintf("id in path (%d) does not match id in body (%d)", id, req.ID)))
		return
	}
	if err := binding.Validator.ValidateStruct(&req); err != nil {
		response.BindError(c, err)
		return
	}

	product, err := mediator.Send[*entity.Product](c.Request.Context(), h.mediator, request.UpdateProduct{
		Product: req.ToEntity(),
	})
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromEntity(product))
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, err := response.ParseID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if _, err := mediator.Send[*entity.Product](c.Request.Context(), h.mediator, request.GetProduct{ID: id}); err != nil {
		response.ResponseError(c, err)
		return
	}

	if _, err := mediator.Send[mediator.Unit](c.Request.Context(), h.mediator, request.DeleteProduct{ID: id}); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func Expectations() []mediator.Expectation {
	return append(request.Expectations(), searchRequest.Expectations()...)
}
