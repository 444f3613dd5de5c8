package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/AlanVogel/ChatAppSample/internal/auth"
	"github.com/AlanVogel/ChatAppSample/internal/metrics"
	"github.com/AlanVogel/ChatAppSample/internal/service"
	"github.com/AlanVogel/ChatAppSample/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Handler aggregates the HTTP handlers with their injected services.
type Handler struct {
	userSvc *service.UserService
	roomSvc *service.RoomService
	msgSvc  *service.MessageService
}

func NewHandler(userSvc *service.UserService, roomSvc *service.RoomService, msgSvc *service.MessageService) *Handler {
	return &Handler{userSvc: userSvc, roomSvc: roomSvc, msgSvc: msgSvc}
}

// Register creates a user account.
func (h *Handler) Register(c *gin.Context) {
	var req validation.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, http.StatusBadRequest, "Invalid payload!")
		return
	}
	if err := validation.Check(req); err != nil {
		respondErr(c, http.StatusBadRequest, err.Error())
		return
	}
	user, err := h.userSvc.Register(req.Nickname, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailExists) {
			respondErr(c, http.StatusBadRequest, "Email already exist!")
			return
		}
		log.Error().Err(err).Str("email", req.Email).Msg("register")
		respondErr(c, http.StatusInternalServerError, "Something went wrong!")
		return
	}
	respondOK(c, "User created!", gin.H{"user": user})
}

// Login rotates the caller's key word and hands back the only valid token.
func (h *Handler) Login(c *gin.Context) {
	var req validation.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, http.StatusBadRequest, "Invalid payload!")
		return
	}
	if err := validation.Check(req); err != nil {
		respondErr(c, http.StatusBadRequest, err.Error())
		return
	}
	result, err := h.userSvc.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			respondErr(c, http.StatusNotFound, "User does not exist!")
		case errors.Is(err, service.ErrInvalidCredentials):
			respondErr(c, http.StatusUnauthorized, "Invalid credentials!")
		default:
			log.Error().Err(err).Str("email", req.Email).Msg("login")
			respondErr(c, http.StatusInternalServerError, "Something went wrong!")
		}
		return
	}
	respondOK(c, "Success!", gin.H{"user_id": result.UserID, "token": result.Token})
}

// GetUser returns one user's public fields.
func (h *Handler) GetUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		respondErr(c, http.StatusBadRequest, "Invalid user id!")
		return
	}
	user, err := h.userSvc.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondErr(c, http.StatusNotFound, "User does not exist!")
			return
		}
		log.Error().Err(err).Uint("user_id", id).Msg("get user")
		respondErr(c, http.StatusInternalServerError, "Something went wrong!")
		return
	}
	respondOK(c, "Success!", gin.H{"user": user})
}

// CreateRoom makes a room and auto-joins its creator.
func (h *Handler) CreateRoom(c *gin.Context) {
	actor := auth.CurrentUser(c)
	var req validation.RoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, http.StatusBadRequest, "Invalid payload!")
		return
	}
	req.UserID = actor.ID
	if err := validation.Check(req); err != nil {
		respondErr(c, http.StatusBadRequest, err.Error())
		return
	}
	room, err := h.roomSvc.Create(actor.ID, req.RoomName)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRoomExists):
			respondErr(c, http.StatusBadRequest, "Conversation room name already exist!")
		case errors.Is(err, service.ErrUserNotFound):
			respondErr(c, http.StatusNotFound, "User nickname does not exist!")
		default:
			log.Error().Err(err).Uint("user_id", actor.ID).Str("room_name", req.RoomName).Msg("create room")
			respondErr(c, http.StatusInternalServerError, "Something went wrong!")
		}
		return
	}
	respondOK(c, "Room created!", gin.H{"room": room})
}

// JoinRoom attaches the caller to a room.
func (h *Handler) JoinRoom(c *gin.Context) {
	actor := auth.CurrentUser(c)
	roomID, ok := pathID(c, "id")
	if !ok {
		respondErr(c, http.StatusBadRequest, "Invalid room id!")
		return
	}
	room, err := h.roomSvc.Join(actor.ID, roomID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRoomNotFound):
			respondErr(c, http.StatusNotFound, "Room name does not exist!")
		case errors.Is(err, service.ErrAlreadyJoined):
			respondErr(c, http.StatusBadRequest, "You are already joined!")
		default:
			log.Error().Err(err).Uint("user_id", actor.ID).Uint("room_id", roomID).Msg("join room")
			respondErr(c, http.StatusInternalServerError, "Something went wrong!")
		}
		return
	}
	respondOK(c, fmt.Sprintf("You joined the room: %s", room.Name), gin.H{"room": room})
}

// LeaveRoom detaches the caller from a room.
func (h *Handler) LeaveRoom(c *gin.Context) {
	actor := auth.CurrentUser(c)
	roomID, ok := pathID(c, "id")
	if !ok {
		respondErr(c, http.StatusBadRequest, "Invalid room id!")
		return
	}
	room, err := h.roomSvc.Leave(actor.ID, roomID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRoomNotFound):
			respondErr(c, http.StatusNotFound, "Room name does not exist!")
		case errors.Is(err, service.ErrNotJoined):
			respondErr(c, http.StatusNotFound, fmt.Sprintf("Room for the user %s does not exist!", actor.Nickname))
		default:
			log.Error().Err(err).Uint("user_id", actor.ID).Uint("room_id", roomID).Msg("leave room")
			respondErr(c, http.StatusInternalServerError, "Something went wrong!")
		}
		return
	}
	respondOK(c, fmt.Sprintf("You leaved the room: %s", room.Name), gin.H{"room": room})
}

// SendMessage posts a message into a room the caller belongs to.
func (h *Handler) SendMessage(c *gin.Context) {
	actor := auth.CurrentUser(c)
	roomID, ok := pathID(c, "id")
	if !ok {
		respondErr(c, http.StatusBadRequest, "Invalid room id!")
		return
	}
	var req validation.MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, http.StatusBadRequest, "Invalid payload!")
		return
	}
	req.UserID = actor.ID
	if err := validation.Check(req); err != nil {
		respondErr(c, http.StatusBadRequest, err.Error())
		return
	}
	msg, err := h.msgSvc.Send(actor.ID, roomID, req.Body)
	if err != nil {
		if errors.Is(err, service.ErrNotJoined) {
			respondErr(c, http.StatusNotFound, "You are not joined to the conversation!")
			return
		}
		log.Error().Err(err).Uint("user_id", actor.ID).Uint("room_id", roomID).Msg("send message")
		respondErr(c, http.StatusInternalServerError, "Something went wrong!")
		return
	}
	metrics.MessagesSent.Inc()
	respondOK(c, "Message is successfully send!", gin.H{"msg": msg})
}

// ListRooms returns the rooms a user belongs to; none is an empty list.
func (h *Handler) ListRooms(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		respondErr(c, http.StatusBadRequest, "Invalid user id!")
		return
	}
	rooms, err := h.roomSvc.List(userID)
	if err != nil {
		log.Error().Err(err).Uint("user_id", userID).Msg("list rooms")
		respondErr(c, http.StatusInternalServerError, "Something went wrong!")
		return
	}
	respondOK(c, "Success!", gin.H{"rooms": rooms})
}

// DeleteRoom removes a room the caller belongs to, cascading memberships and
// message attachments.
func (h *Handler) DeleteRoom(c *gin.Context) {
	actor := auth.CurrentUser(c)
	roomID, ok := pathID(c, "id")
	if !ok {
		respondErr(c, http.StatusBadRequest, "Invalid room id!")
		return
	}
	if err := h.roomSvc.Delete(actor.ID, roomID); err != nil {
		if errors.Is(err, service.ErrRoomNotFound) {
			respondErr(c, http.StatusNotFound,
				fmt.Sprintf("Conversation by the id: %d does not exist for the user: %s ", roomID, actor.Nickname))
			return
		}
		log.Error().Err(err).Uint("user_id", actor.ID).Uint("room_id", roomID).Msg("delete room")
		respondErr(c, http.StatusInternalServerError, "Something went wrong!")
		return
	}
	respondOK(c, "Conversation deleted!", nil)
}

// DeleteMessage removes one of the caller's own messages.
func (h *Handler) DeleteMessage(c *gin.Context) {
	actor := auth.CurrentUser(c)
	msgID, ok := pathID(c, "id")
	if !ok {
		respondErr(c, http.StatusBadRequest, "Invalid message id!")
		return
	}
	if err := h.msgSvc.Delete(actor.ID, msgID); err != nil {
		if errors.Is(err, service.ErrMessageNotFound) {
			respondErr(c, http.StatusNotFound,
				fmt.Sprintf("Message by the id: %d does not exist for the user: %s ", msgID, actor.Nickname))
			return
		}
		log.Error().Err(err).Uint("user_id", actor.ID).Uint("message_id", msgID).Msg("delete message")
		respondErr(c, http.StatusInternalServerError, "Something went wrong!")
		return
	}
	respondOK(c, "Message deleted!", nil)
}

func pathID(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil || v <= 0 {
		return 0, false
	}
	return uint(v), true
}
