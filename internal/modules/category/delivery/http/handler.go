package handler

import (
	"fmt"
	"net/http"

	"anoa.com/productcatalog/internal/entity"
	"anoa.com/productcatalog/internal/mediator"
	"anoa.com/productcatalog/internal/modules/category/dto"
	"anoa.com/productcatalog/internal/modules/category/request"
	productDto "anoa.com/productcatalog/internal/modules/product/dto"
	productRequest "anoa.com/productcatalog/internal/modules/product/request"
	"anoa.com/productcatalog/pkg/apperror"
	commonDto "anoa.com/productcatalog/pkg/dto"
	"anoa.com/productcatalog/pkg/pagination"
	"anoa.com/productcatalog/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type CategoryHandler struct {
	mediator *mediator.Mediator
}

func NewCategoryHandler(m *mediator.Mediator) *CategoryHandler {
	return &CategoryHandler{mediator: m}
}

func (h *CategoryHandler) GetCategories(c *gin.Context) {
	var params commonDto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		response.BindError(c, err)
		return
	}

	categories, err := mediator.Send[[]*entity.Category](c.Request.Context(), h.mediator, request.ListCategories{
		Query: pagination.FromParams(params),
	})
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromEntities(categories))
}

func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id, err := response.ParseID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	category, err := mediator.Send[*entity.Category](c.Request.Context(), h.mediator, request.GetCategory{ID: id})
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromEntity(category))
}

// GetCategoryProducts lists the products of one category.
func (h *CategoryHandler) GetCategoryProducts(c *gin.Context) {
	id, err := response.ParseID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var params commonDto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		response.BindError(c, err)
		return
	}

	products, err := mediator.Send[[]*entity.Product](c.Request.Context(), h.mediator, productRequest.ListProductsByCategory{
		CategoryID: id,
		Query:      pagination.FromParams(params),
	})
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, productDto.FromEntities(products))
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req dto.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	category, err := mediator.Send[*entity.Category](c.Request.Context(), h.mediator, request.CreateCategory{
		Category: req.ToEntity(),
	})
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.Header("Location", fmt.Sprintf("/api/categories/%d", category.ID))
	c.JSON(http.StatusCreated, dto.FromEntity(category))
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, err := response.ParseID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.CategoryRequest
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

	category, err := mediator.Send[*entity.Category](c.Request.Context(), h.mediator, request.UpdateCategory{
		Category: req.ToEntity(),
	})
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromEntity(category))
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, err := response.ParseID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if _, err := mediator.Send[*entity.Category](c.Request.Context(), h.mediator, request.GetCategory{ID: id}); err != nil {
		response.ResponseError(c, err)
		return
	}

	if _, err := mediator.Send[mediator.Unit](c.Request.Context(), h.mediator, request.DeleteCategory{ID: id}); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Expectations lists the mediator requests sent by this handler.
func Expectations() []mediator.Expectation {
	return append(request.Expectations(),
		mediator.Expect[[]*entity.Product, productRequest.ListProductsByCategory]())
}
