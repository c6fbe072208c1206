package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/halfway/internal/ranking"
	"github.com/sells-group/halfway/internal/session"
)

func TestSessions_Lifecycle(t *testing.T) {
	h, _ := newTestRouter(t, staticSearcher(places()))

	rr := do(t, h, http.MethodPost, "/v1/sessions", "")
	require.Equal(t, http.StatusCreated, rr.Code)
	created := decode[session.Snapshot](t, rr)
	require.NotEmpty(t, created.ID)
	assert.ElementsMatch(t, []string{"bar", "cafe", "restaurant"}, created.Categories)
	assert.Equal(t, ranking.SortDistance, created.Sort)

	base := "/v1/sessions/" + created.ID

	rr = do(t, h, http.MethodPost, base+"/search", bodyAB+"}")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	snap := decode[session.Snapshot](t, rr)
	require.Len(t, snap.Places, 2)
	assert.Equal(t, "near-bar", snap.Places[0].PlaceID)

	rr = do(t, h, http.MethodPut, base+"/sort", `{"sort":"rating"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "far-cafe", decode[session.Snapshot](t, rr).Places[0].PlaceID)

	rr = do(t, h, http.MethodPost, base+"/categories/bar", "")
	require.Equal(t, http.StatusOK, rr.Code)
	snap = decode[session.Snapshot](t, rr)
	assert.NotContains(t, snap.Categories, "bar")
	require.Len(t, snap.Places, 1)
	assert.Equal(t, "far-cafe", snap.Places[0].PlaceID)

	rr = do(t, h, http.MethodDelete, base+"/categories", "")
	require.Equal(t, http.StatusOK, rr.Code)
	snap = decode[session.Snapshot](t, rr)
	assert.Empty(t, snap.Categories)
	assert.Len(t, snap.Places, 2)

	rr = do(t, h, http.MethodPost, base+"/categories/reset", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[session.Snapshot](t, rr).Categories, 3)

	rr = do(t, h, http.MethodGet, base, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, created.ID, decode[session.Snapshot](t, rr).ID)
}

func TestSessions_EmptySearchReportsError(t *testing.T) {
	h, _ := newTestRouter(t, staticSearcher(nil))

	created := decode[session.Snapshot](t, do(t, h, http.MethodPost, "/v1/sessions", ""))
	rr := do(t, h, http.MethodPost, "/v1/sessions/"+created.ID+"/search", bodyAB+"}")
	require.Equal(t, http.StatusOK, rr.Code)

	snap := decode[session.Snapshot](t, rr)
	assert.Equal(t, "No places found within 50 km.", snap.Error)
	assert.Empty(t, snap.Places)
}

func TestSessions_NotFoundAndValidation(t *testing.T) {
	h, _ := newTestRouter(t, staticSearcher(nil))

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/v1/sessions/nope", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodPost, "/v1/sessions/nope/categories/cafe", "").Code)

	created := decode[session.Snapshot](t, do(t, h, http.MethodPost, "/v1/sessions", ""))
	base := "/v1/sessions/" + created.ID
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPut, base+"/sort", `{"sort":"loudest"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPut, base+"/sort", `nope`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, base+"/search", `{"a":{"latitude":0,"longitude":0}}`).Code)
}
