// Package renew реализует HTTP-обработчик продления учётной записи на один месяц.
package renew

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
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
}

type Service interface {
	Renew(ctx context.Context, id string) (*models.Account, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP сдвигает дату продления на один календарный месяц.
// @Summary Продлить учётную запись
// @Tags accounts
// @Produce json
// @Param id path string true "ID учётной записи"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /accounts/{id}/renew [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.renew"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	acc, err := h.service.Renew(r.Context(), id)
	switch {
	case errors.Is(err, tracker.ErrInvalidAccount):
		log.Info("renew without id")
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("account id is required"))
		return
	case errors.Is(err, models.ErrAccountNotFound):
		log.Info("account not found", slog.String("id", id))
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("account not found"))
		return
	case err != nil:
		log.Error("failed to renew account", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not renew account"))
		return
	}

	log.Info("account renewed", slog.String("id", id), slog.String("renewal_date", acc.RenewalDate))
	render.JSON(w, r, response.OK(map[string]any{
		"account": acc,
	}))
}
