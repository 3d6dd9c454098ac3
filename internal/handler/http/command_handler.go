package http

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/vasiliy-maslov/lunch-order/internal/command"
)

const responseTypeInChannel = "in_channel"

// SlashCommandRequest is the form a chat platform posts for a slash command.
type SlashCommandRequest struct {
	Command   string `form:"command" validate:"max=64"`
	Text      string `form:"text" validate:"max=4000"`
	UserName  string `form:"user_name" validate:"required,max=255"`
	UserID    string `form:"user_id" validate:"max=255"`
	ChannelID string `form:"channel_id" validate:"max=255"`
}

type AttachmentResponse struct {
	Fallback string `json:"fallback,omitempty"`
	Text     string `json:"text"`
	Color    string `json:"color,omitempty"`
}

type CommandResponse struct {
	Text         string               `json:"text"`
	Markdown     bool                 `json:"mrkdwn"`
	ResponseType string               `json:"response_type,omitempty"`
	Attachments  []AttachmentResponse `json:"attachments,omitempty"`
}

// Dispatcher runs one decoded command on behalf of caller.
type Dispatcher interface {
	Dispatch(ctx context.Context, keyword string, args []string, caller string) (command.Reply, error)
}

type CommandHandler struct {
	dispatcher Dispatcher
	validate   *validator.Validate
}

func NewCommandHandler(dispatcher Dispatcher) *CommandHandler {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		return field.Tag.Get("form")
	})
	return &CommandHandler{
		dispatcher: dispatcher,
		validate:   validate,
	}
}

func (h *CommandHandler) RegisterRoutes(router chi.Router) {
	router.Post("/commands", h.handleCommand)
}

func (h *CommandHandler) handleCommand(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		log.Warn().Err(err).Msg("Failed to parse command form")
		respondWithError(w, http.StatusBadRequest, "Invalid form payload")
		return
	}

	requestPayload := SlashCommandRequest{
		Command:   r.PostForm.Get("command"),
		Text:      r.PostForm.Get("text"),
		UserName:  strings.TrimSpace(r.PostForm.Get("user_name")),
		UserID:    r.PostForm.Get("user_id"),
		ChannelID: r.PostForm.Get("channel_id"),
	}

	if err := h.validate.Struct(requestPayload); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			respondWithJSON(w, http.StatusBadRequest, ValidationErrorResponse{
				Error:   "Validation failed",
				Details: formatValidationErrors(validationErrors),
			})
		} else {
			log.Error().Err(err).Type("validation_error_type", err).Msg("Unexpected error type during validation")
			respondWithError(w, http.StatusInternalServerError, "Internal validation error")
		}
		return
	}

	args := strings.Fields(requestPayload.Text)
	var keyword string
	if len(args) > 0 {
		keyword = args[0]
	}

	reply, err := h.dispatcher.Dispatch(r.Context(), keyword, args, requestPayload.UserName)
	if err != nil {
		log.Error().Err(err).
			Str("keyword", keyword).
			Str("user_name", requestPayload.UserName).
			Str("channel_id", requestPayload.ChannelID).
			Msg("Failed to dispatch command")
		respondWithError(w, http.StatusInternalServerError, "Failed to process command")
		return
	}

	respondWithJSON(w, http.StatusOK, toCommandResponse(reply))
}

func toCommandResponse(reply command.Reply) CommandResponse {
	response := CommandResponse{
		Text:     reply.Text,
		Markdown: reply.Markdown,
	}
	if reply.InChannel {
		response.ResponseType = responseTypeInChannel
	}
	for _, a := range reply.Attachments {
		response.Attachments = append(response.Attachments, AttachmentResponse{
			Fallback: a.Fallback,
			Text:     a.Text,
			Color:    a.Color,
		})
	}
	return response
}
