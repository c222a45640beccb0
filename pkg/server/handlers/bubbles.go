package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/soundprediction/bubbles"
	"github.com/soundprediction/bubbles/pkg/server/dto"
	"github.com/soundprediction/bubbles/pkg/types"
)

// BubbleHandler serves the bubble pages and form actions.
//
// Form submissions are answered with 303 redirects, including validation
// failures, which redirect back with ?error= and the submitted values. JSON
// requests get the same outcomes as status codes and JSON bodies instead.
type BubbleHandler struct {
	bubbles bubbles.Bubbles
	logger  *slog.Logger
}

// NewBubbleHandler creates a new bubble handler
func NewBubbleHandler(b bubbles.Bubbles, logger *slog.Logger) *BubbleHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &BubbleHandler{
		bubbles: b,
		logger:  logger,
	}
}

// List handles GET /bubbles
func (h *BubbleHandler) List(c *gin.Context) {
	all, err := h.bubbles.GetAll(c.Request.Context())
	if err != nil {
		h.fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, dto.ListResponse{
		Bubbles: dto.FromBubbles(all),
		Error:   c.Query("error"),
		Title:   c.Query("title"),
	})
}

// Create handles POST /bubbles
func (h *BubbleHandler) Create(c *gin.Context) {
	attrs, err := bindAttributes(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	b, err := h.bubbles.Create(c.Request.Context(), attrs)
	if err != nil {
		title, _ := attrs.Title()
		h.fail(c, err, withQuery("/bubbles", "error", err.Error(), "title", title))
		return
	}

	h.logger.InfoContext(c.Request.Context(), "Bubble created", "title", b.Title)
	if wantsJSON(c) {
		c.JSON(http.StatusCreated, dto.FromBubble(b))
		return
	}
	c.Redirect(http.StatusSeeOther, bubblePath(b.Title))
}

// Show handles GET /bubbles/:title
func (h *BubbleHandler) Show(c *gin.Context) {
	ctx := c.Request.Context()
	b, err := h.bubbles.Get(ctx, c.Param("title"))
	if err != nil {
		h.fail(c, err, "")
		return
	}

	relatedTo, others, err := h.bubbles.ListRelatedAndOthers(ctx, b)
	if err != nil {
		h.fail(c, err, "")
		return
	}

	c.JSON(http.StatusOK, dto.DetailResponse{
		Bubble:    dto.FromBubble(b),
		RelatedTo: dto.FromBubbles(relatedTo),
		Others:    dto.FromBubbles(others),
		Error:     c.Query("error"),
	})
}

// Patch handles POST /bubbles/:title
func (h *BubbleHandler) Patch(c *gin.Context) {
	ctx := c.Request.Context()
	title := c.Param("title")

	attrs, err := bindAttributes(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	b, err := h.bubbles.Get(ctx, title)
	if err != nil {
		h.fail(c, err, "")
		return
	}

	updated, err := h.bubbles.Patch(ctx, b, attrs)
	if err != nil {
		h.fail(c, err, withQuery(bubblePath(title), "error", err.Error()))
		return
	}

	if wantsJSON(c) {
		c.JSON(http.StatusOK, dto.FromBubble(updated))
		return
	}
	c.Redirect(http.StatusSeeOther, bubblePath(updated.Title))
}

// Delete handles DELETE /bubbles/:title and POST /bubbles/:title/delete
func (h *BubbleHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	b, err := h.bubbles.Get(ctx, c.Param("title"))
	if err != nil {
		h.fail(c, err, "")
		return
	}
	if err := h.bubbles.Delete(ctx, b); err != nil {
		h.fail(c, err, "")
		return
	}

	h.logger.InfoContext(ctx, "Bubble deleted", "title", b.Title)
	if wantsJSON(c) {
		c.Status(http.StatusNoContent)
		return
	}
	c.Redirect(http.StatusSeeOther, "/bubbles")
}

// Relate handles POST /bubbles/:title/relate
func (h *BubbleHandler) Relate(c *gin.Context) {
	h.changeRelation(c, h.bubbles.Relate)
}

// Unrelate handles POST /bubbles/:title/unrelate
func (h *BubbleHandler) Unrelate(c *gin.Context) {
	h.changeRelation(c, h.bubbles.Unrelate)
}

func (h *BubbleHandler) changeRelation(c *gin.Context, apply func(ctx context.Context, b, other *types.Bubble) error) {
	ctx := c.Request.Context()

	var req dto.RelateRequest
	if err := c.ShouldBind(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_request", "other is required")
		return
	}

	b, err := h.bubbles.Get(ctx, c.Param("title"))
	if err != nil {
		h.fail(c, err, "")
		return
	}
	other, err := h.bubbles.Get(ctx, req.Other)
	if err != nil {
		h.fail(c, err, "")
		return
	}
	if err := apply(ctx, b, other); err != nil {
		h.fail(c, err, "")
		return
	}

	if wantsJSON(c) {
		c.Status(http.StatusNoContent)
		return
	}
	c.Redirect(http.StatusSeeOther, bubblePath(b.Title))
}

// fail maps a gateway error to a response. Validation errors redirect to the
// back URL when it is set and the client submitted a form.
func (h *BubbleHandler) fail(c *gin.Context, err error, back string) {
	switch types.KindOf(err) {
	case types.KindValidation:
		if back != "" && !wantsJSON(c) {
			c.Redirect(http.StatusSeeOther, back)
			return
		}
		writeError(c, http.StatusBadRequest, "validation_failed", err.Error())
	case types.KindNotFound:
		writeError(c, http.StatusNotFound, "not_found", err.Error())
	default:
		h.logger.ErrorContext(c.Request.Context(), "Request failed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"error", err,
		)
		writeError(c, http.StatusInternalServerError, "internal_error", "Something went wrong.")
	}
}

// bindAttributes reads free-form attributes from a JSON object or a form body.
func bindAttributes(c *gin.Context) (types.Attributes, error) {
	attrs := types.Attributes{}
	if c.ContentType() == binding.MIMEJSON {
		if err := c.ShouldBindJSON(&attrs); err != nil {
			return nil, err
		}
		return attrs, nil
	}

	if err := c.Request.ParseForm(); err != nil {
		return nil, err
	}
	for key, values := range c.Request.PostForm {
		if len(values) > 0 {
			attrs[key] = values[0]
		}
	}
	return attrs, nil
}

func wantsJSON(c *gin.Context) bool {
	return c.ContentType() == binding.MIMEJSON ||
		strings.Contains(c.GetHeader("Accept"), binding.MIMEJSON)
}

func writeError(c *gin.Context, status int, code, message string) {
	c.JSON(status, dto.ErrorResponse{
		Error:   code,
		Message: message,
		Code:    status,
	})
}

func bubblePath(title string) string {
	return "/bubbles/" + url.PathEscape(title)
}

// withQuery appends key/value pairs to path, skipping empty values.
func withQuery(path string, kv ...string) string {
	q := url.Values{}
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] != "" {
			q.Set(kv[i], kv[i+1])
		}
	}
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}
