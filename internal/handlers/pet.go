package handlers

import (
	"net/http"
	"time"

	"coffebless/internal/pet"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const petWriteWait = 5 * time.Second

func (h *Handler) GetPet(c *gin.Context) {
	c.JSON(http.StatusOK, h.pets.Get(sessionID(c)).State())
}

// PetAction runs feed, pet, dance, sleep or interact. "applied" is false
// when the action was still cooling down.
func (h *Handler) PetAction(c *gin.Context) {
	id := sessionID(c)
	applied, err := h.pets.Get(id).Do(pet.Action(c.Param("action")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	h.pets.Publish(id)
	c.JSON(http.StatusOK, gin.H{"success": true, "applied": applied, "state": h.pets.Get(id).State()})
}

// PetStyle changes the cosmetic choices. Empty fields are left alone.
func (h *Handler) PetStyle(c *gin.Context) {
	var req struct {
		Emotion   string `json:"emotion"`
		Accessory string `json:"accessory"`
		Recipe    string `json:"recipe"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Datos inválidos")
		return
	}

	id := sessionID(c)
	p := h.pets.Get(id)
	if req.Emotion != "" {
		if err := p.SetEmotion(pet.Emotion(req.Emotion)); err != nil {
			badRequest(c, err.Error())
			return
		}
	}
	if req.Accessory != "" {
		if err := p.SetAccessory(pet.Accessory(req.Accessory)); err != nil {
			badRequest(c, err.Error())
			return
		}
	}
	if req.Recipe != "" {
		if err := p.SelectRecipe(req.Recipe); err != nil {
			badRequest(c, err.Error())
			return
		}
	}
	h.pets.Publish(id)
	c.JSON(http.StatusOK, gin.H{"success": true, "state": p.State()})
}

// PetSocket streams the pet's state after every tick and action until the
// client goes away.
func (h *Handler) PetSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("pet websocket upgrade", zap.Error(err))
		return
	}
	defer conn.Close()

	states, unsubscribe := h.pets.Subscribe(sessionID(c))
	defer unsubscribe()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case st, ok := <-states:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(petWriteWait))
			if err := conn.WriteJSON(st); err != nil {
				return
			}
		}
	}
}
