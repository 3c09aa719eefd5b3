package httpapi

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"io"
	"math/big"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/cthunline/cthunline-web-sub002/internal/export"
	"github.com/cthunline/cthunline-web-sub002/internal/hub"
	"github.com/cthunline/cthunline-web-sub002/internal/room"
	"github.com/cthunline/cthunline-web-sub002/internal/sketch"
	"github.com/cthunline/cthunline-web-sub002/internal/template"
	"github.com/cthunline/cthunline-web-sub002/internal/types"
)

// Templates is the template repository as seen by the HTTP layer.
type Templates interface {
	Create(ctx context.Context, name string, userID int, snap sketch.Snapshot) (template.Template, error)
	Get(ctx context.Context, id uuid.UUID) (template.Template, error)
	List(ctx context.Context) ([]template.Template, error)
	Update(ctx context.Context, id uuid.UUID, name string, snap sketch.Snapshot) (template.Template, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

const maxCodeAttempts = 10

func GenerateCode() (string, error) {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	code := make([]byte, 6)
	for i := 0; i < 6; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		code[i] = charset[num.Int64()]
	}
	return string(code), nil
}

type createRoomRequest struct {
	TemplateID *uuid.UUID `json:"templateId"`
}

type roomResponse struct {
	Code    string          `json:"code"`
	Version int             `json:"version"`
	Clients int             `json:"clients"`
	Sketch  sketch.Snapshot `json:"sketch"`
}

// CreateRoom opens a room under a fresh code, optionally seeded from a
// saved template.
func CreateRoom(h *hub.Hub, templates Templates) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRoomRequest
		if err := decodeBody(w, r, &req, true); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		initial := sketch.Empty()
		if req.TemplateID != nil {
			if templates == nil {
				writeError(w, http.StatusServiceUnavailable, "templates are disabled")
				return
			}
			snap, status, err := loadTemplate(r.Context(), templates, *req.TemplateID)
			if err != nil {
				writeError(w, status, err.Error())
				return
			}
			initial = snap
		}

		var code string
		for attempt := 0; code == "" && attempt < maxCodeAttempts; attempt++ {
			c, err := GenerateCode()
			if err != nil {
				writeError(w, http.StatusInternalServerError, "failed to generate code")
				return
			}
			if h.Room(c) == nil {
				code = c
			}
		}
		if code == "" {
			writeError(w, http.StatusInternalServerError, "failed to generate code")
			return
		}

		reply := make(chan *room.Room, 1)
		h.Inbox() <- hub.CreateRoom{Code: code, Sketch: initial, Reply: reply}
		rm := <-reply
		if rm == nil {
			writeError(w, http.StatusInternalServerError, "failed to create room")
			return
		}

		writeJSON(w, http.StatusCreated, roomResponse{Code: code, Sketch: initial})
	}
}

func GetRoom(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, ok := roomView(r.Context(), h, chi.URLParam(r, "code"))
		if !ok {
			writeError(w, http.StatusNotFound, "room not found")
			return
		}
		writeJSON(w, http.StatusOK, roomResponse{
			Code:    view.Code,
			Version: view.Version,
			Clients: view.NumClients,
			Sketch:  view.Sketch,
		})
	}
}

// ExportRoom renders the room's current sketch as a PDF.
func ExportRoom(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		view, ok := roomView(r.Context(), h, code)
		if !ok {
			writeError(w, http.StatusNotFound, "room not found")
			return
		}

		var buf bytes.Buffer
		if err := export.PDF(&buf, "Room "+code, view.Sketch); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to render pdf")
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="`+code+`.pdf"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())
	}
}

type templateRequest struct {
	Name     string           `json:"name"`
	UserID   int              `json:"userId"`
	Sketch   *sketch.Snapshot `json:"sketch"`
	RoomCode string           `json:"roomCode"`
}

func ListTemplates(t Templates) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := t.List(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to list templates")
			return
		}
		if list == nil {
			list = []template.Template{}
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// CreateTemplate saves either the sketch in the body or, when roomCode is
// given instead, the room's current sketch.
func CreateTemplate(t Templates, h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req templateRequest
		if err := decodeBody(w, r, &req, false); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		snap := sketch.Empty()
		switch {
		case req.Sketch != nil:
			snap = req.Sketch.Clone()
		case req.RoomCode != "":
			view, ok := roomView(r.Context(), h, req.RoomCode)
			if !ok {
				writeError(w, http.StatusNotFound, "room not found")
				return
			}
			snap = view.Sketch
		}
		// Templates are saved hidden; the editor reveals them after loading.
		snap.Displayed = false

		tpl, err := t.Create(r.Context(), req.Name, req.UserID, snap)
		if err != nil {
			writeTemplateError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, tpl)
	}
}

func GetTemplate(t Templates) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := templateID(w, r)
		if !ok {
			return
		}
		tpl, err := t.Get(r.Context(), id)
		if err != nil {
			writeTemplateError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, tpl)
	}
}

func UpdateTemplate(t Templates) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := templateID(w, r)
		if !ok {
			return
		}
		var req templateRequest
		if err := decodeBody(w, r, &req, false); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if req.Sketch == nil {
			writeError(w, http.StatusBadRequest, "sketch is required")
			return
		}
		snap := req.Sketch.Clone()
		snap.Displayed = false

		tpl, err := t.Update(r.Context(), id, req.Name, snap)
		if err != nil {
			writeTemplateError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, tpl)
	}
}

func DeleteTemplate(t Templates) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := templateID(w, r)
		if !ok {
			return
		}
		if err := t.Delete(r.Context(), id); err != nil {
			writeTemplateError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// Healthz reports 503 when check fails.
func Healthz(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(r.Context()); err != nil {
				writeError(w, http.StatusServiceUnavailable, err.Error())
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	}
}

func roomView(ctx context.Context, h *hub.Hub, code string) (room.View, bool) {
	rm := h.Room(code)
	if rm == nil {
		return room.View{}, false
	}
	reply := make(chan room.View, 1)
	select {
	case rm.Inbox() <- room.GetState{Reply: reply}:
	case <-rm.Done():
		return room.View{}, false
	case <-ctx.Done():
		return room.View{}, false
	}
	select {
	case v := <-reply:
		return v, true
	case <-rm.Done():
		return room.View{}, false
	case <-ctx.Done():
		return room.View{}, false
	}
}

func loadTemplate(ctx context.Context, t Templates, id uuid.UUID) (sketch.Snapshot, int, error) {
	tpl, err := t.Get(ctx, id)
	if errors.Is(err, template.ErrNotFound) {
		return sketch.Snapshot{}, http.StatusNotFound, err
	}
	if err != nil {
		return sketch.Snapshot{}, http.StatusInternalServerError, errors.New("failed to load template")
	}
	snap, err := tpl.Snapshot()
	if err != nil {
		return sketch.Snapshot{}, http.StatusInternalServerError, errors.New("failed to load template")
	}
	return snap, http.StatusOK, nil
}

func templateID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid template id")
		return uuid.Nil, false
	}
	return id, true
}

func writeTemplateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, template.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, template.ErrInvalidName):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "template storage failed")
	}
}

// decodeBody reads a JSON body into v. An empty body is accepted only when
// optional is set.
func decodeBody(w http.ResponseWriter, r *http.Request, v any, optional bool) error {
	body := http.MaxBytesReader(w, r.Body, types.MaxMessageBytes)
	err := json.NewDecoder(body).Decode(v)
	if errors.Is(err, io.EOF) {
		if optional {
			return nil
		}
		return errors.New("request body is required")
	}
	if err != nil {
		return errors.New("invalid json body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
