package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"cryptoupi/internal/authz"
)

func getStringFromCtx(c *gin.Context, key string) string {
	v, ok := c.Get(key)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

func getSubjectAndRole(c *gin.Context) (subject, role string) {
	return getStringFromCtx(c, authz.CtxSubject), getStringFromCtx(c, authz.CtxRole)
}

// pagination reads page/size query params, 1-based.
func pagination(c *gin.Context, defSize, maxSize int) (limit, offset int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(defSize)))
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defSize
	}
	if size > maxSize {
		size = maxSize
	}
	return size, (page - 1) * size
}
