package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mirna-salem/petprofiles/internal/application"
	imageDomain "github.com/mirna-salem/petprofiles/internal/domain/image"
	"github.com/mirna-salem/petprofiles/internal/platform/domain"
	"github.com/mirna-salem/petprofiles/internal/platform/response"
)

// multipartOverhead is allowed on top of the file limit for boundaries and
// part headers, so an oversized file still parses and gets a clear error.
const multipartOverhead = 1 << 20

// ImageHandler handles HTTP requests for image operations.
type ImageHandler struct {
	service        *application.ImageService
	maxUploadBytes int64
}

// NewImageHandler creates a new ImageHandler.
func NewImageHandler(service *application.ImageService, maxUploadBytes int64) *ImageHandler {
	return &ImageHandler{service: service, maxUploadBytes: maxUploadBytes}
}

// RegisterRoutes registers all image routes on an already guarded group.
func (h *ImageHandler) RegisterRoutes(r *gin.RouterGroup) {
	images := r.Group("/images")
	{
		images.POST("", h.UploadImage)
		images.GET("/:fileName", h.DownloadImage)
		images.GET("/:fileName/url", h.GetImageURL)
		images.DELETE("/:fileName", h.DeleteImage)
	}
}

// UploadImage handles POST /images with a multipart "file" field.
func (h *ImageHandler) UploadImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+multipartOverhead)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, domain.NewTooLargeError("request body exceeds the upload limit"))
			return
		}
		response.BadRequest(c, "no file uploaded")
		return
	}

	f, err := fh.Open()
	if err != nil {
		response.Error(c, domain.NewInternalError("failed to open upload", err))
		return
	}
	defer f.Close()

	result, err := h.service.Upload(c.Request.Context(), f, fh.Size, fh.Filename)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// DownloadImage handles GET /images/:fileName. With direct=true it redirects
// to a direct object-store link instead of proxying the bytes.
func (h *ImageHandler) DownloadImage(c *gin.Context) {
	key := c.Param("fileName")

	if direct, _ := strconv.ParseBool(c.Query("direct")); direct {
		link, err := h.service.SignedURL(c.Request.Context(), key, 0)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Redirect(http.StatusFound, link.URL)
		return
	}

	img, err := h.service.Download(c.Request.Context(), key)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer img.Body.Close()

	c.DataFromReader(http.StatusOK, -1, img.ContentType, img.Body, nil)
}

// GetImageURL handles GET /images/:fileName/url. The link is signed unless
// signed=false; expiresIn accepts a duration ("15m") or seconds.
func (h *ImageHandler) GetImageURL(c *gin.Context) {
	key := c.Param("fileName")

	signed := true
	if v := c.Query("signed"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			response.BadRequest(c, "signed must be true or false")
			return
		}
		signed = b
	}

	if !signed {
		if err := imageDomain.ValidateKey(key); err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, application.URLResult{URL: h.service.PublicURL(key), Signed: false})
		return
	}

	ttl, err := parseExpiry(c.Query("expiresIn"))
	if err != nil {
		response.BadRequest(c, "expiresIn must be a duration like 15m or a number of seconds")
		return
	}
	if err := application.ValidateTTL(ttl); err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.service.SignedURL(c.Request.Context(), key, ttl)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// DeleteImage handles DELETE /images/:fileName.
func (h *ImageHandler) DeleteImage(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("fileName")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func parseExpiry(v string) (time.Duration, error) {
	if v == "" {
		return 0, nil
	}
	if secs, err := strconv.ParseInt(v, 10, 64); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(v)
}
