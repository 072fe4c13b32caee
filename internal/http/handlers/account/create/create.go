// Package create реализует HTTP-обработчик добавления учётной записи.
package create

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/renewal-tracker/internal/http/response"
	"github.com/magabrotheeeer/renewal-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/renewal-tracker/internal/lib/validation"
	"github.com/magabrotheeeer/renewal-tracker/internal/models"
)

// Handler обрабатывает запросы на создание учётной записи.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает бизнес-логику создания.
type Service interface {
	Create(ctx context.Context, draft models.AccountDraft) (*models.Account, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validation.New(),
	}
}

// ServeHTTP добавляет учётную запись.
// @Summary Создать учётную запись
// @Tags accounts
// @Accept json
// @Produce json
// @Param account body models.AccountDraft true "Данные учётной записи"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /accounts [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.AccountDraft
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode request"))
		return
	}

	req = req.Normalize()
	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			log.Error("validation failed", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid request"))
			return
		}
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(verrs))
		return
	}

	acc, err := h.service.Create(r.Context(), req)
	if err != nil {
		log.Error("failed to create account", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create account"))
		return
	}

	log.Info("account created", slog.String("id", acc.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OK(map[string]any{
		"account": acc,
	}))
}
