// Package stats реализует HTTP-обработчик сводки по всем учётным записям.
package stats

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/renewal-tracker/internal/http/response"
	"github.com/magabrotheeeer/renewal-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/renewal-tracker/internal/models"
)

type Handler struct {
	log     *slog.Logger
	service Service
	now     func() time.Time
}

type Service interface {
	Stats(ctx context.Context, now time.Time) (models.Stats, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
		now:     time.Now,
	}
}

// ServeHTTP возвращает сводку без учёта фильтров.
// @Summary Сводка по учётным записям
// @Tags accounts
// @Produce json
// @Success 200 {object} response.Response
// @Failure 500 {object} response.ErrorResponse
// @Router /accounts/stats [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.stats"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	st, err := h.service.Stats(r.Context(), h.now())
	if err != nil {
		log.Error("failed to count stats", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not count stats"))
		return
	}

	render.JSON(w, r, response.OK(map[string]any{
		"stats": st,
	}))
}
