package routes

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"riftory-api/internal/handlers"
	"riftory-api/internal/httpx"
	"riftory-api/internal/media"
	"riftory-api/internal/repository"
	"riftory-api/internal/services"
)

// RegisterRoutes arma repositorios, servicios y handlers sobre la base
// y el adaptador de medios, y cuelga la superficie HTTP completa.
func RegisterRoutes(router *gin.Engine, db *mongo.Database, store media.Store, mediaFolder string) {
	productRepo := repository.NewProductRepository(db.Collection("products"))
	favoriteRepo := repository.NewFavoriteRepository(db.Collection("favorites"))
	profileRepo := repository.NewProfileRepository(db.Collection("profiles"))

	productService := services.NewProductService(productRepo, store, mediaFolder)
	favoriteService := services.NewFavoriteService(favoriteRepo, productRepo)
	profileService := services.NewProfileService(profileRepo, productRepo, favoriteRepo, store, mediaFolder)

	productHandler := handlers.NewProductHandler(productService)
	favoriteHandler := handlers.NewFavoriteHandler(favoriteService)
	profileHandler := handlers.NewProfileHandler(profileService)
	healthHandler := handlers.NewHealthHandler()

	router.GET("/", healthHandler.Root)
	router.GET("/health", healthHandler.Health)

	api := router.Group("/api")
	{
		products := api.Group("/products")
		{
			products.GET("", productHandler.GetProducts)
			products.GET("/my/:deviceId", productHandler.GetMyProducts)
			products.GET("/:id", productHandler.GetProductByID)
			products.POST("", productHandler.CreateProduct)
			products.PUT("/:id", productHandler.UpdateProduct)
			products.DELETE("/:id", productHandler.DeleteProduct)
		}

		favorites := api.Group("/favorites")
		{
			favorites.GET("/check/:deviceId/:productId", favoriteHandler.CheckFavorite)
			favorites.GET("/:deviceId", favoriteHandler.GetFavorites)
			favorites.POST("", favoriteHandler.AddFavorite)
			favorites.DELETE("", favoriteHandler.RemoveFavorite)
		}

		profile := api.Group("/profile")
		{
			profile.GET("/:deviceId", profileHandler.GetProfile)
			profile.PUT("/:deviceId", profileHandler.UpdateProfile)
			profile.GET("/:deviceId/stats", profileHandler.GetStats)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		httpx.Fail(c, 404, "Route not found")
	})
}
