package httpserver

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/and161185/regolith/internal/errs"
	"github.com/and161185/regolith/internal/model"
)

const maxBodyBytes = 1 << 20

var validate = validator.New(validator.WithRequiredStructEnabled())

type itemCreateRequest struct {
	Name        *string `json:"name" validate:"required"`
	Description *string `json:"description" validate:"required"`
}

// itemUpdateRequest keeps "absent" apart from an explicit null, which is rejected.
type itemUpdateRequest struct {
	Name        optionalString `json:"name"`
	Description optionalString `json:"description"`
}

func (r itemUpdateRequest) patch() (model.ItemPatch, error) {
	for _, f := range []struct {
		name string
		v    optionalString
	}{{"name", r.Name}, {"description", r.Description}} {
		if f.v.set && f.v.value == nil {
			return model.ItemPatch{}, fmt.Errorf("invalid body: %s must not be null: %w", f.name, errs.ErrValidation)
		}
	}
	return model.ItemPatch{Name: r.Name.value, Description: r.Description.value}, nil
}

// optionalString records whether the field appeared in the body at all.
type optionalString struct {
	set   bool
	value *string
}

func (o *optionalString) UnmarshalJSON(b []byte) error {
	o.set = true
	if string(b) == "null" {
		o.value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	o.value = &s
	return nil
}

type userCreateRequest struct {
	Name *string `json:"name" validate:"required"`
}

type messageCreateRequest struct {
	SenderID    *int64  `json:"sender_id" validate:"required"`
	RecipientID *int64  `json:"recipient_id"`
	Content     *string `json:"content" validate:"required"`
}

type itemResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type userResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type messageResponse struct {
	ID          int64     `json:"id"`
	SenderID    int64     `json:"sender_id"`
	RecipientID *int64    `json:"recipient_id"`
	SenderName  string    `json:"sender_name"`
	Content     string    `json:"content"`
	Timestamp   time.Time `json:"timestamp"`
}

type deletedResponse struct {
	Message string `json:"message"`
}

func toItemResponse(it model.Item) itemResponse {
	return itemResponse{ID: it.ID, Name: it.Name, Description: it.Description}
}

func toUserResponse(u model.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name}
}

func toMessageResponse(m model.Message) messageResponse {
	return messageResponse{
		ID:          m.ID,
		SenderID:    m.SenderID,
		RecipientID: m.RecipientID,
		SenderName:  m.SenderName,
		Content:     m.Content,
		Timestamp:   m.Timestamp.UTC(),
	}
}

// decode reads a JSON body into dst and runs struct validation on it.
func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid body: %v: %w", err, errs.ErrValidation)
	}
	if err := validate.Struct(dst); err != nil {
		return fmt.Errorf("invalid body: %v: %w", err, errs.ErrValidation)
	}
	return nil
}

// pathID parses the {id} path segment. Non-numeric ids are a validation error.
func pathID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", raw, errs.ErrValidation)
	}
	return id, nil
}

// pageQuery reads skip and limit. An absent limit becomes defaultLimit; an
// explicit limit=0 is kept and yields an empty page.
func pageQuery(r *http.Request, defaultLimit int) (model.Page, error) {
	p := model.Page{Limit: defaultLimit}
	q := r.URL.Query()
	for _, f := range []struct {
		name string
		dst  *int
	}{{"skip", &p.Offset}, {"limit", &p.Limit}} {
		raw := q.Get(f.name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return model.Page{}, fmt.Errorf("invalid %s %q: %w", f.name, raw, errs.ErrValidation)
		}
		*f.dst = v
	}
	return p, nil
}
