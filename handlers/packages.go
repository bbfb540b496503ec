package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mindhaven/services/catalog"
	"mindhaven/utils"
)

// CatalogHandler serves the static session-package reference data.
type CatalogHandler struct {
	Catalog catalog.Catalog
}

func NewCatalogHandler(cat catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{Catalog: cat}
}

func (h *CatalogHandler) ListPackages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"packages": h.Catalog.List()})
}

func (h *CatalogHandler) GetPackage(c *gin.Context) {
	pkg, ok := h.Catalog.Get(c.Param("id"))
	if !ok {
		utils.JSONError(c, http.StatusNotFound, "unknownPackage", "unknown session package")
		return
	}
	c.JSON(http.StatusOK, gin.H{"package": pkg})
}
