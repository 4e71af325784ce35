package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"showshelf/internal/bookmarks"
	"showshelf/internal/credentials"
	"showshelf/internal/domain"
	"showshelf/internal/httpserver/deps"
	"showshelf/internal/logger"
)

type bookmarkListResponse struct {
	Bookmarks     []domain.Bookmark `json:"bookmarks"`
	Count         int               `json:"count"`
	Authenticated bool              `json:"authenticated"`
}

type addBookmarkRequest struct {
	Kind string `json:"kind"`
	ID   int64  `json:"id"`
}

type addBookmarkResponse struct {
	Status   string           `json:"status"` // "saved" | "already_saved"
	Bookmark *domain.Bookmark `json:"bookmark,omitempty"`
}

type membershipResponse struct {
	Bookmarked bool `json:"bookmarked"`
}

// session resolves the caller's coordinator from the bearer token.
func session(d deps.Deps, r *http.Request) (*bookmarks.Coordinator, error) {
	token := credentials.BearerFromRequest(r)
	owner, err := d.Verifier.Owner(token)
	if err != nil {
		return nil, err
	}
	return d.Sessions.Coordinator(owner, token), nil
}

// ensureLoaded loads the coordinator's view on first touch.
func ensureLoaded(coord *bookmarks.Coordinator, r *http.Request) error {
	if coord.Loaded() {
		return nil
	}
	return coord.Load(r.Context())
}

// ListBookmarks returns the caller's hydrated saved items in saved order.
// Callers without a valid token get an empty list, not an error: signed-out
// is a normal state for a browsing user.
func ListBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		coord, err := session(d, r)
		if err != nil {
			writeJSON(w, http.StatusOK, bookmarkListResponse{
				Bookmarks:     []domain.Bookmark{},
				Authenticated: false,
			})
			return
		}

		if err := ensureLoaded(coord, r); err != nil {
			writeError(d, w, err)
			return
		}

		list := coord.Bookmarks()
		writeJSON(w, http.StatusOK, bookmarkListResponse{
			Bookmarks:     list,
			Count:         len(list),
			Authenticated: true,
		})
	}
}

// AddBookmark saves a title. The handler hydrates the record from the
// catalog first so only fully-populated bookmarks ever enter the view.
// A duplicate is an informational outcome, not a failure.
func AddBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		coord, err := session(d, r)
		if err != nil {
			writeError(d, w, err)
			return
		}

		var req addBookmarkRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(d, w, domain.ErrBadInput)
			return
		}
		kind, err := domain.ParseKind(req.Kind)
		if err != nil {
			writeError(d, w, err)
			return
		}
		if req.ID <= 0 {
			writeError(d, w, domain.ErrBadInput)
			return
		}

		if err := ensureLoaded(coord, r); err != nil {
			writeError(d, w, err)
			return
		}

		// Cheap local duplicate check before hitting the catalog.
		if coord.IsBookmarked(kind, req.ID) {
			writeJSON(w, http.StatusOK, addBookmarkResponse{Status: "already_saved"})
			return
		}

		rec, err := d.Catalog.FetchDetails(r.Context(), kind, req.ID)
		if err != nil {
			writeError(d, w, err)
			return
		}

		b := domain.Bookmark{Kind: kind, ID: req.ID, Media: *rec}
		status, err := coord.Add(r.Context(), b)
		if err != nil {
			writeError(d, w, err)
			return
		}

		if status == bookmarks.StatusDuplicate {
			writeJSON(w, http.StatusOK, addBookmarkResponse{Status: "already_saved"})
			return
		}

		d.Logger.Info("bookmark saved",
			logger.String("kind", string(kind)),
			logger.Int64("id", req.ID))
		writeJSON(w, http.StatusCreated, addBookmarkResponse{Status: "saved", Bookmark: &b})
	}
}

// RemoveBookmark deletes a saved title. Idempotent: removing something
// that is not saved still succeeds.
func RemoveBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		coord, err := session(d, r)
		if err != nil {
			writeError(d, w, err)
			return
		}

		kind, id, err := pathKey(r)
		if err != nil {
			writeError(d, w, err)
			return
		}

		if err := ensureLoaded(coord, r); err != nil {
			writeError(d, w, err)
			return
		}

		if err := coord.Remove(r.Context(), kind, id); err != nil {
			writeError(d, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// BookmarkStatus reports whether a title is in the caller's saved list.
func BookmarkStatus(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, id, err := pathKey(r)
		if err != nil {
			writeError(d, w, err)
			return
		}

		coord, err := session(d, r)
		if err != nil {
			writeJSON(w, http.StatusOK, membershipResponse{Bookmarked: false})
			return
		}

		if err := ensureLoaded(coord, r); err != nil {
			writeError(d, w, err)
			return
		}

		writeJSON(w, http.StatusOK, membershipResponse{Bookmarked: coord.IsBookmarked(kind, id)})
	}
}

func pathKey(r *http.Request) (domain.MediaKind, int64, error) {
	kind, err := domain.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		return "", 0, err
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return "", 0, domain.ErrBadInput
	}
	return kind, id, nil
}
