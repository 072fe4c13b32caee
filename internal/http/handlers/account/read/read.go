// Package read реализует HTTP-обработчик получения учётной записи по идентификатору.
package read

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
)

// Handler обрабатывает запросы на получение учётной записи.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис чтения учётной записи
}

// Service описывает интерфейс бизнес-логики чтения.
type Service interface {
	Read(ctx context.Context, id string) (*models.Account, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP возвращает учётную запись по id из URL.
// @Summary Получить учётную запись
// @Tags accounts
// @Produce json
// @Param id path string true "ID учётной записи"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /accounts/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	acc, err := h.service.Read(r.Context(), id)
	if errors.Is(err, models.ErrAccountNotFound) {
		log.Info("account not found", slog.String("id", id))
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("account not found"))
		return
	}
	if err != nil {
		log.Error("failed to read account", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read account"))
		return
	}

	render.JSON(w, r, response.OK(map[string]any{
		"account": acc,
	}))
}
