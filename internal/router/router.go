package router

import (
	"github.com/sebastianmarines/assetgridapp/internal/config"
	"github.com/sebastianmarines/assetgridapp/internal/handler"
	"github.com/sebastianmarines/assetgridapp/internal/middleware"
	"github.com/sebastianmarines/assetgridapp/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine and all API routes.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	api := r.Group("/api/v1")

	authHandler := handler.NewAuthHandler(db, cfg.JWT, cfg.Security.BcryptCost)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(cfg.JWT.Secret, db))

	protected.GET("/me", handler.GetMe)

	transactionService := service.NewTransactionService(db)
	transactionHandler := handler.NewTransactionHandler(transactionService, cfg.App.PageSize)
	protected.GET("/transaction/:id", transactionHandler.Get)
	protected.POST("/transaction", transactionHandler.Create)
	protected.PUT("/transaction/:id", transactionHandler.Update)
	protected.DELETE("/transaction/:id", transactionHandler.Delete)
	protected.POST("/transaction/createmany", transactionHandler.CreateMany)
	protected.POST("/transaction/updatemultiple", transactionHandler.UpdateMultiple)
	protected.DELETE("/transaction/deletemultiple", transactionHandler.DeleteMultiple)
	protected.POST("/transaction/search", transactionHandler.Search)
	protected.POST("/transaction/findduplicates", transactionHandler.FindDuplicates)
	protected.GET("/taxonomy/categoryautocomplete/:prefix", transactionHandler.CategoryAutocomplete)

	accountService := service.NewAccountService(db)
	accountHandler := handler.NewAccountHandler(accountService, cfg.App.PageSize)
	protected.POST("/account", accountHandler.Create)
	protected.GET("/account", accountHandler.List)
	protected.GET("/account/:id", accountHandler.Get)
	protected.PUT("/account/:id", accountHandler.Update)
	protected.DELETE("/account/:id", accountHandler.Delete)
	protected.POST("/account/search", accountHandler.Search)
	protected.GET("/account/:id/users", accountHandler.ListGrants)
	protected.PUT("/account/:id/users", accountHandler.SetGrant)

	importExportHandler := handler.NewImportExportHandler(transactionService)
	protected.GET("/export/csv", importExportHandler.ExportCSV)
	protected.GET("/export/xlsx", importExportHandler.ExportXLSX)
	protected.POST("/import/csv", importExportHandler.ImportCSV)

	return r
}
