package handler

import (
	"net/http"

	"github.com/sebastianmarines/assetgridapp/internal/models"
	"github.com/sebastianmarines/assetgridapp/internal/query"
	"github.com/sebastianmarines/assetgridapp/internal/service"
	"github.com/sebastianmarines/assetgridapp/internal/util"

	"github.com/gin-gonic/gin"
)

// AccountHandler exposes account management over HTTP.
type AccountHandler struct {
	Service  *service.AccountService
	PageSize int
}

func NewAccountHandler(s *service.AccountService, pageSize int) *AccountHandler {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &AccountHandler{Service: s, PageSize: pageSize}
}

func (h *AccountHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var model service.CreateAccount
	if err := c.ShouldBindJSON(&model); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return
	}

	view, err := h.Service.Create(user.ID, model)
	if err != nil {
		serviceError(c, err)
		return
	}
	util.Success(c, util.Response{"account": view})
}

func (h *AccountHandler) Get(c *gin.Context) {
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
	util.Success(c, util.Response{"account": view})
}

func (h *AccountHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var model service.UpdateAccount
	if err := c.ShouldBindJSON(&model); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return
	}

	view, err := h.Service.Update(user.ID, id, model)
	if err != nil {
		serviceError(c, err)
		return
	}
	util.Success(c, util.Response{"account": view})
}

func (h *AccountHandler) Delete(c *gin.Context) {
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

func (h *AccountHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	views, err := h.Service.List(user.ID)
	if err != nil {
		serviceError(c, err)
		return
	}
	util.Success(c, util.Response{"accounts": views})
}

func (h *AccountHandler) Search(c *gin.Context) {
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

func (h *AccountHandler) ListGrants(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	grants, err := h.Service.ListGrants(user.ID, id)
	if err != nil {
		serviceError(c, err)
		return
	}
	util.Success(c, util.Response{"users": grants})
}

type setGrantReq struct {
	Username    string `json:"username" binding:"required"`
	Permissions int    `json:"permissions"`
}

func (h *AccountHandler) SetGrant(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req setGrantReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return
	}

	err := h.Service.SetGrant(user.ID, id, req.Username, models.AccountPermissions(req.Permissions))
	if err != nil {
		serviceError(c, err)
		return
	}
	util.Success(c, util.Response{"message": "updated"})
}
