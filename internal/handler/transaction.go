package handler

import (
	"net/http"
	"strconv"

	"github.com/sebastianmarines/assetgridapp/internal/query"
	"github.com/sebastianmarines/assetgridapp/internal/service"
	"github.com/sebastianmarines/assetgridapp/internal/util"

	"github.com/gin-gonic/gin"
)

// TransactionHandler exposes the transaction engine over HTTP.
type TransactionHandler struct {
	Service  *service.TransactionService
	PageSize int
}

func NewTransactionHandler(s *service.TransactionService, pageSize int) *TransactionHandler {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &TransactionHandler{Service: s, PageSize: pageSize}
}

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return 0, false
	}
	return uint(id), true
}

func (h *TransactionHandler) Get(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	view, err := h.Service.Get(user.ID, id)
	if err != nil {
		serviceError(c, err)
		return
	}
	util.Success(c, util.Response{"transaction": view})
}

func (h *TransactionHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var model service.CreateTransaction
	if err := c.ShouldBindJSON(&model); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return
	}
	if err := util.ValidateDescription(model.Description); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	view, err := h.Service.Create(user.ID, model)
	if err != nil {
		serviceError(c, err)
		return
	}
	util.Success(c, util.Response{"transaction": view})
}

func (h *TransactionHandler) CreateMany(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var items []service.CreateTransaction
	if err := c.ShouldBindJSON(&items); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return
	}

	resp, err := h.Service.CreateMany(user.ID, items)
	if err != nil {
		serviceError(c, err)
		return
	}
	util.Success(c, util.Response{
		"succeeded": resp.Succeeded,
		"duplicate": resp.Duplicate,
		"failed":    resp.Failed,
	})
}

func (h *TransactionHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var patch service.UpdateTransaction
	if err := c.ShouldBindJSON(&patch); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return
	}
	if patch.Description != nil {
		if err := util.ValidateDescription(*patch.Description); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
			return
		}
	}

	view, err := h.Service.Update(user.ID, id, patch)
	if err != nil {
		serviceError(c, err)
		return
	}
	util.Success(c, util.Response{"transaction": view})
}

type updateMultipleReq struct {
	Query *query.SearchGroup        `json:"query" binding:"required"`
	Model service.UpdateTransaction `json:"model"`
}

func (h *TransactionHandler) UpdateMultiple(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req updateMultipleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return
	}

	if err := h.Service.UpdateMultiple(user.ID, req.Query, req.Model); err != nil {
		serviceError(c, err)
		return
	}
	util.Success(c, util.Response{"message": "updated"})
}

func (h *TransactionHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.Service.Delete(user.ID, id); err != nil {
		serviceError(c, err)
		return
	}
	util.Success(c, util.Response{"message": "deleted"})
}

func (h *TransactionHandler) DeleteMultiple(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var group query.SearchGroup
	if err := c.ShouldBindJSON(&group); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return
	}

	if err := h.Service.DeleteMultiple(user.ID, &group); err != nil {
		serviceError(c, err)
		return
	}
	util.Success(c, util.Response{"message": "deleted"})
}

func (h *TransactionHandler) Search(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req query.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return
	}
	if req.To <= req.From {
		req.To = req.From + h.PageSize
	}

	resp, err := h.Service.Search(user.ID, req)
	if err != nil {
		serviceError(c, err)
		return
	}
	util.Success(c, util.Response{
		"data":       resp.Data,
		"totalItems": resp.TotalItems,
	})
}

func (h *TransactionHandler) FindDuplicates(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var identifiers []string
	if err := c.ShouldBindJSON(&identifiers); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return
	}

	duplicates, err := h.Service.FindDuplicates(user.ID, identifiers)
	if err != nil {
		serviceError(c, err)
		return
	}
	util.Success(c, util.Response{"duplicates": duplicates})
}

func (h *TransactionHandler) CategoryAutocomplete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	names, err := h.Service.CategoryAutocomplete(user.ID, c.Param("prefix"))
	if err != nil {
		serviceError(c, err)
		return
	}
	util.Success(c, util.Response{"categories": names})
}
