package filestorage

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campusportal/internal/pkg/logger"
)

// ServeHandler streams blobs from storage. It is mounted on a wildcard route
// such as "/uploads/*path".
func ServeHandler(storage FileStorage) gin.HandlerFunc {
	return func(c *gin.Context) {
		rc, info, err := storage.Open(c.Request.Context(), c.Param("path"))
		if err != nil {
			if errors.Is(err, ErrBlobNotFound) {
				c.Status(http.StatusNotFound)
				return
			}
			logger.Error().Err(err).Str("path", c.Param("path")).Msg("Failed to open blob")
			c.Status(http.StatusInternalServerError)
			return
		}
		defer rc.Close()

		c.Header("Content-Type", info.ContentType)
		c.Header("Content-Length", strconv.FormatInt(info.Size, 10))
		c.Status(http.StatusOK)
		if _, err := io.Copy(c.Writer, rc); err != nil {
			logger.Debug().Err(err).Str("path", c.Param("path")).Msg("Blob stream interrupted")
		}
	}
}
