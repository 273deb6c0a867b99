package web

import (
	"github.com/gin-gonic/gin"
)

// handleSearch proxies a content-provider search. The offset parameter
// carries the provider's opaque page token.
func (a *API) handleSearch(c *gin.Context) {
	page, err := a.search.Search(c.Query("query"), c.Query("offset"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, page)
}
