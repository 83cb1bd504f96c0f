package httpserver

import (
	"net/http"

	"github.com/samber/lo"

	"github.com/and161185/regolith/internal/model"
)

func (s *Server) createItem(w http.ResponseWriter, r *http.Request) {
	var req itemCreateRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, "Item not found", err)
		return
	}
	it, err := s.items.Create(r.Context(), *req.Name, *req.Description)
	if err != nil {
		s.writeError(w, r, "Item not found", err)
		return
	}
	writeJSON(w, http.StatusOK, toItemResponse(it))
}

func (s *Server) getItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, "Item not found", err)
		return
	}
	it, err := s.items.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, "Item not found", err)
		return
	}
	writeJSON(w, http.StatusOK, toItemResponse(it))
}

func (s *Server) listItems(w http.ResponseWriter, r *http.Request) {
	p, err := pageQuery(r, model.DefaultItemLimit)
	if err != nil {
		s.writeError(w, r, "", err)
		return
	}
	items, err := s.items.List(r.Context(), p)
	if err != nil {
		s.writeError(w, r, "", err)
		return
	}
	writeJSON(w, http.StatusOK, lo.Map(items, func(it model.Item, _ int) itemResponse { return toItemResponse(it) }))
}

func (s *Server) updateItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, "Item not found", err)
		return
	}
	var req itemUpdateRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, "Item not found", err)
		return
	}
	patch, err := req.patch()
	if err != nil {
		s.writeError(w, r, "Item not found", err)
		return
	}
	it, err := s.items.Update(r.Context(), id, patch)
	if err != nil {
		s.writeError(w, r, "Item not found", err)
		return
	}
	writeJSON(w, http.StatusOK, toItemResponse(it))
}

func (s *Server) deleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, "Item not found", err)
		return
	}
	if err := s.items.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, "Item not found", err)
		return
	}
	writeJSON(w, http.StatusOK, deletedResponse{Message: "Item deleted successfully"})
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var req userCreateRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, "User not found", err)
		return
	}
	u, err := s.users.Create(r.Context(), *req.Name)
	if err != nil {
		s.writeError(w, r, "User not found", err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(u))
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, "User not found", err)
		return
	}
	u, err := s.users.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, "User not found", err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(u))
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	p, err := pageQuery(r, model.DefaultUserLimit)
	if err != nil {
		s.writeError(w, r, "", err)
		return
	}
	users, err := s.users.List(r.Context(), p)
	if err != nil {
		s.writeError(w, r, "", err)
		return
	}
	writeJSON(w, http.StatusOK, lo.Map(users, func(u model.User, _ int) userResponse { return toUserResponse(u) }))
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, "User not found", err)
		return
	}
	if err := s.users.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, "User not found", err)
		return
	}
	writeJSON(w, http.StatusOK, deletedResponse{Message: "User deleted successfully"})
}

func (s *Server) createMessage(w http.ResponseWriter, r *http.Request) {
	var req messageCreateRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, "Sender not found", err)
		return
	}
	m, err := s.messages.Create(r.Context(), model.NewMessage{
		SenderID:    *req.SenderID,
		RecipientID: req.RecipientID,
		Content:     *req.Content,
	})
	if err != nil {
		s.writeError(w, r, "Sender not found", err)
		return
	}
	writeJSON(w, http.StatusOK, toMessageResponse(m))
}

func (s *Server) listMessages(w http.ResponseWriter, r *http.Request) {
	p, err := pageQuery(r, model.DefaultMessageLimit)
	if err != nil {
		s.writeError(w, r, "", err)
		return
	}
	msgs, err := s.messages.List(r.Context(), p)
	if err != nil {
		s.writeError(w, r, "", err)
		return
	}
	writeJSON(w, http.StatusOK, lo.Map(msgs, func(m model.Message, _ int) messageResponse { return toMessageResponse(m) }))
}
