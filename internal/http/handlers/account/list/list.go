// Package list реализует HTTP-обработчик списка учётных записей с поиском,
// фильтром по диапазону и сортировкой по дате продления.
package list

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
	"github.com/magabrotheeeer/renewal-tracker/internal/tracker"
)

type Handler struct {
	log     *slog.Logger
	service Service
	now     func() time.Time
}

type Service interface {
	List(ctx context.Context, q tracker.Query, now time.Time) ([]models.Account, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
		now:     time.Now,
	}
}

// ServeHTTP возвращает отобранные записи.
// @Summary Список учётных записей
// @Tags accounts
// @Produce json
// @Param search query string false "Подстрока email или заметок"
// @Param bucket query string false "all, overdue, today, week, month, future"
// @Param sort query string false "asc или desc"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /accounts [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	params := r.URL.Query()
	bucket, err := tracker.ParseBucket(params.Get("bucket"))
	if err != nil {
		log.Info("bad bucket", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}
	order, err := tracker.ParseSortOrder(params.Get("sort"))
	if err != nil {
		log.Info("bad sort order", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}

	q := tracker.Query{Search: params.Get("search"), Bucket: bucket, Sort: order}
	accounts, err := h.service.List(r.Context(), q, h.now())
	if err != nil {
		log.Error("failed to list accounts", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list accounts"))
		return
	}

	log.Debug("accounts listed", slog.Int("count", len(accounts)))
	render.JSON(w, r, response.OK(map[string]any{
		"accounts": accounts,
	}))
}
