package handler

import (
	"net/http"

	"SensorHubAPI/internal/logger"
	"SensorHubAPI/internal/models"
	"SensorHubAPI/internal/service"

	"github.com/gorilla/mux"
)

type CommandHandler struct {
	commandService *service.CommandService
	log            *logger.Logger
}

func NewCommandHandler(commandService *service.CommandService, log *logger.Logger) *CommandHandler {
	return &CommandHandler{
		commandService: commandService,
		log:            log,
	}
}

func (h *CommandHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/devices/{id}/commands", h.IssueCommand).Methods("POST")
	r.HandleFunc("/devices/{id}/commands", h.GetCommandHistory).Methods("GET")
}

func (h *CommandHandler) IssueCommand(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req models.CommandRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.DeviceID = mux.Vars(r)["id"]

	if req.CommandType == "" {
		respondError(w, http.StatusBadRequest, "command is required")
		return
	}

	command, err := h.commandService.Issue(r.Context(), p, &req)
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusCreated, command)
}

func (h *CommandHandler) GetCommandHistory(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	commands, err := h.commandService.History(r.Context(), p, mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, commands)
}
