package handlers

import (
	"net/http"

	"timekeeper/internal/models"
	"timekeeper/internal/service"

	"github.com/gin-gonic/gin"
)

// AddMemoRequest is the payload for a new sticky note. Title or content must be set.
type AddMemoRequest struct {
	Title   string `json:"title" example:"Groceries"`
	Content string `json:"content" example:"milk, eggs"`
	// Palette name or hex; empty picks the first palette color
	Color string `json:"color" example:"blue"`
}

// UpdateMemoRequest is a partial edit; omitted fields are left alone.
type UpdateMemoRequest struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
	Color   *string `json:"color,omitempty" example:"#4caf50"`
}

type memoListResponse struct {
	Memos    []models.Memo `json:"memos"`
	ActiveID string        `json:"active_id,omitempty"`
}

// @Summary      List memos
// @Tags         memos
// @Produce      json
// @Success      200  {object}  memoListResponse
// @Router       /api/v1/memos [get]
// @Security     BearerAuth
func (h *Handler) listMemos(c *gin.Context) {
	resp := memoListResponse{Memos: h.services.Memos.List()}
	if active, ok := h.services.Memos.Active(); ok {
		resp.ActiveID = active.ID
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary      Memo palette
// @Tags         memos
// @Produce      json
// @Success      200  {array}  models.MemoColor
// @Router       /api/v1/memos/colors [get]
// @Security     BearerAuth
func (h *Handler) memoColors(c *gin.Context) {
	c.JSON(http.StatusOK, models.MemoPalette)
}

// @Summary      Add memo
// @Description  The new memo becomes the active one
// @Tags         memos
// @Accept       json
// @Produce      json
// @Param        body  body      AddMemoRequest  true  "Memo payload"
// @Success      201   {object}  models.Memo
// @Failure      400   {object}  map[string]string
// @Router       /api/v1/memos [post]
// @Security     BearerAuth
func (h *Handler) addMemo(c *gin.Context) {
	var req AddMemoRequest
	if !h.bindJSONOrBadRequest(c, &req) {
		return
	}
	m, err := h.services.Memos.Add(c.Request.Context(), service.MemoParams{
		Title:   req.Title,
		Content: req.Content,
		Color:   req.Color,
	})
	if err != nil {
		h.respondServiceError(c, "memo_add_failed", err, "color", req.Color)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// @Summary      Update memo
// @Tags         memos
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "Memo ID"
// @Param        body  body      UpdateMemoRequest  true  "Fields to change"
// @Success      200   {object}  models.Memo
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/memos/{id} [patch]
// @Security     BearerAuth
func (h *Handler) updateMemo(c *gin.Context) {
	var req UpdateMemoRequest
	if !h.bindJSONOrBadRequest(c, &req) {
		return
	}
	id := c.Param("id")
	m, found, err := h.services.Memos.Update(c.Request.Context(), id, service.MemoUpdate{
		Title:   req.Title,
		Content: req.Content,
		Color:   req.Color,
	})
	if !found {
		notFound(c, errMemoNotFound)
		return
	}
	if err != nil {
		h.respondServiceError(c, "memo_update_failed", err, "id", id)
		return
	}
	c.JSON(http.StatusOK, m)
}

// @Summary      Set active memo
// @Tags         memos
// @Produce      json
// @Param        id   path      string  true  "Memo ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/memos/{id}/activate [post]
// @Security     BearerAuth
func (h *Handler) activateMemo(c *gin.Context) {
	id := c.Param("id")
	if !h.services.Memos.SetActive(c.Request.Context(), id) {
		notFound(c, errMemoNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusActive, "id": id})
}

// @Summary      Remove memo
// @Tags         memos
// @Produce      json
// @Param        id   path      string  true  "Memo ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/memos/{id} [delete]
// @Security     BearerAuth
func (h *Handler) removeMemo(c *gin.Context) {
	id := c.Param("id")
	if !h.services.Memos.Remove(c.Request.Context(), id) {
		notFound(c, errMemoNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusRemoved, "id": id})
}
