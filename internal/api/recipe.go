package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipebook/backend/internal/middleware"
	"github.com/pageza/recipebook/backend/internal/service"
	"github.com/pageza/recipebook/backend/internal/types"
)

type RecipeHandler struct {
	recipeService   service.IRecipeService
	favoriteService service.IFavoriteService
	createLimiter   *middleware.RateLimiter
	modifyLimiter   *middleware.RateLimiter
	log             *zap.Logger
}

func NewRecipeHandler(recipeService service.IRecipeService, favoriteService service.IFavoriteService, createLimiter, modifyLimiter *middleware.RateLimiter, log *zap.Logger) *RecipeHandler {
	return &RecipeHandler{
		recipeService:   recipeService,
		favoriteService: favoriteService,
		createLimiter:   createLimiter,
		modifyLimiter:   modifyLimiter,
		log:             log,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	create := []gin.HandlerFunc{h.CreateRecipe}
	update := []gin.HandlerFunc{h.UpdateRecipe}
	if h.createLimiter != nil {
		create = append([]gin.HandlerFunc{h.createLimiter.RateLimitMiddleware()}, create...)
	}
	if h.modifyLimiter != nil {
		update = append([]gin.HandlerFunc{h.modifyLimiter.PerRecipeRateLimitMiddleware()}, update...)
	}

	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/stream", h.StreamRecipes)
		recipes.POST("", create...)
		recipes.GET("/:id", h.GetRecipe)
		recipes.PUT("/:id", update...)
		recipes.DELETE("/:id", h.DeleteRecipe)
		recipes.GET("/:id/stream", h.StreamRecipe)
		recipes.POST("/:id/favorite", h.ToggleFavorite)
	}
	router.GET("/favorites", h.ListFavorites)

	if h.createLimiter != nil {
		router.GET("/limits/recipes", h.CreationQuota)
	}
}

func favoritesOnly(c *gin.Context) bool {
	only, _ := strconv.ParseBool(c.Query("favorites"))
	return only
}

// ListRecipes returns all recipes, or only the caller's favorites with ?favorites=true
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	snapshot, err := h.recipeService.ListRecipes(c.Request.Context(), middleware.UserID(c), favoritesOnly(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// StreamRecipes pushes the full list on every change
func (h *RecipeHandler) StreamRecipes(c *gin.Context) {
	snapshots, err := h.recipeService.WatchRecipes(c.Request.Context(), middleware.UserID(c), favoritesOnly(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	streamEvents(c, "recipes", snapshots)
}

// GetRecipe returns one recipe with the caller's favorite flag
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// StreamRecipe pushes one recipe on every change
func (h *RecipeHandler) StreamRecipe(c *gin.Context) {
	snapshots, err := h.recipeService.WatchRecipe(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	streamEvents(c, "recipe", snapshots)
}

// CreateRecipe adds a recipe
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req types.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	recipe, err := h.recipeService.AddRecipe(c.Request.Context(), req.Fields())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

// UpdateRecipe replaces a recipe's content. Omitted fields become empty.
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	var req types.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	recipe, err := h.recipeService.UpdateRecipe(c.Request.Context(), c.Param("id"), req.Fields())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// DeleteRecipe deletes a recipe and drops it from the caller's favorites
func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id := c.Param("id")
	favorites, err := h.recipeService.DeleteRecipe(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "favorites": favorites})
}

// ToggleFavorite adds the recipe to the caller's favorites, or removes it
func (h *RecipeHandler) ToggleFavorite(c *gin.Context) {
	id := c.Param("id")
	favorites, present, err := h.favoriteService.ToggleFavorite(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, types.FavoriteResponse{RecipeID: id, Favorite: present, Favorites: favorites})
}

// ListFavorites returns the caller's favorite recipe ids
func (h *RecipeHandler) ListFavorites(c *gin.Context) {
	favorites, err := h.favoriteService.Favorites(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorites": favorites})
}

// CreationQuota reports how many recipes the caller may still create this window
func (h *RecipeHandler) CreationQuota(c *gin.Context) {
	remaining, reset, err := h.createLimiter.GetRemainingRequests(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"remaining": remaining,
		"reset_at":  reset.UTC(),
	})
}
