package mockapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) list(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, filter(h.store.list(name), r.URL.Query()))
	}
}

func (h *Handler) nested(child, foreignKey string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		query.Set(foreignKey, chi.URLParam(r, "id"))
		writeJSON(w, http.StatusOK, filter(h.store.list(child), query))
	}
}

func (h *Handler) get(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, ok := h.store.find(name, chi.URLParam(r, "id"))
		if !ok {
			notFound(w, r)
			return
		}
		writeJSON(w, http.StatusOK, item)
	}
}

// create answers as if the item had been added at the end of the collection.
func (h *Handler) create(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := decodeObject(r)
		if err != nil {
			serverError(w, err)
			return
		}
		body["id"] = len(h.store.list(name)) + 1
		writeJSON(w, http.StatusCreated, body)
	}
}

func (h *Handler) replace(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if _, ok := h.store.find(name, id); !ok {
			serverError(w, fmt.Errorf("cannot replace missing %s %s", name, id))
			return
		}
		body, err := decodeObject(r)
		if err != nil {
			serverError(w, err)
			return
		}
		body["id"] = numericID(id)
		writeJSON(w, http.StatusOK, body)
	}
}

func (h *Handler) update(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, ok := h.store.find(name, chi.URLParam(r, "id"))
		if !ok {
			notFound(w, r)
			return
		}
		body, err := decodeObject(r)
		if err != nil {
			serverError(w, err)
			return
		}
		merged := make(map[string]interface{}, len(item)+len(body))
		for k, v := range item {
			merged[k] = v
		}
		for k, v := range body {
			if k != "id" {
				merged[k] = v
			}
		}
		writeJSON(w, http.StatusOK, merged)
	}
}

// remove succeeds for any id, like the real service.
func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{})
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]interface{}{})
}

func serverError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"error": err.Error()})
}

// filter keeps items whose properties equal every query parameter. Repeated parameters match
// any of their values.
func filter(items []map[string]interface{}, query url.Values) []map[string]interface{} {
	ret := make([]map[string]interface{}, 0, len(items))
ItemLoop:
	for _, item := range items {
		for key, values := range query {
			if !containsString(values, propertyText(item[key])) {
				continue ItemLoop
			}
		}
		ret = append(ret, item)
	}
	return ret
}

func propertyText(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

func containsString(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}

func numericID(id string) interface{} {
	if n, err := strconv.Atoi(id); err == nil {
		return n
	}
	return id
}

// decodeObject reads a JSON object request body. A body that is not declared as JSON is ignored,
// as is an empty one.
func decodeObject(r *http.Request) (map[string]interface{}, error) {
	obj := map[string]interface{}{}
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		return obj, nil
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return obj, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&obj); err != nil {
		return nil, fmt.Errorf("invalid JSON body: %w", err)
	}
	if obj == nil {
		obj = map[string]interface{}{}
	}
	return obj, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
