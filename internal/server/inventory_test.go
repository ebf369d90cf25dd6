package server_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoriesSeededAndManaged(t *testing.T) {
	env := newTestEnv(t)
	pair := env.registerAndLogin("stockist", "staff")
	token := pair.AccessToken

	type page struct {
		Items []map[string]any `json:"items"`
		Total int              `json:"total"`
	}

	var seeded page
	res := env.request(http.MethodGet, "/api/v1/categories", token, nil, &seeded)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, 6, seeded.Total)
	// sort_order drives the listing
	assert.Equal(t, "Racquets", seeded.Items[0]["name"])

	t.Run("create and conflicts", func(t *testing.T) {
		var created map[string]any
		res := env.request(http.MethodPost, "/api/v1/categories", token, map[string]any{
			"name":       "Apparel",
			"slug":       "apparel",
			"sort_order": 7,
		}, &created)
		require.Equal(t, http.StatusCreated, res.StatusCode)

		res = env.request(http.MethodPost, "/api/v1/categories", token, map[string]any{
			"name": "Apparel",
			"slug": "apparel-two",
		}, nil)
		assert.Equal(t, http.StatusConflict, res.StatusCode)

		res = env.request(http.MethodPost, "/api/v1/categories", token, map[string]any{
			"name": "Apparel Two",
			"slug": "apparel",
		}, nil)
		assert.Equal(t, http.StatusConflict, res.StatusCode)
	})

	t.Run("update and soft delete", func(t *testing.T) {
		id := env.firstCategoryID(token)

		var updated map[string]any
		res := env.request(http.MethodPut, "/api/v1/categories/"+id, token, map[string]any{
			"description": "frames and more",
		}, &updated)
		require.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, "frames and more", updated["description"])

		res = env.request(http.MethodDelete, "/api/v1/categories/"+id, token, nil, nil)
		assert.Equal(t, http.StatusNoContent, res.StatusCode)

		var active page
		res = env.request(http.MethodGet, "/api/v1/categories?is_active=true", token, nil, &active)
		require.Equal(t, http.StatusOK, res.StatusCode)
		for _, item := range active.Items {
			assert.NotEqual(t, id, item["id"])
		}
	})
}

func TestProductValidation(t *testing.T) {
	env := newTestEnv(t)
	pair := env.registerAndLogin("stockist", "staff")
	token := pair.AccessToken

	t.Run("missing category id", func(t *testing.T) {
		var body map[string]any
		res := env.request(http.MethodPost, "/api/v1/products", token, map[string]any{
			"name":  "Orphan String",
			"brand": "Nowhere",
		}, &body)
		require.Equal(t, http.StatusBadRequest, res.StatusCode)

		errBody, ok := body["error"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "INVALID_PAYLOAD", errBody["text_code"])

		fields, ok := errBody["fields"].(map[string]any)
		require.True(t, ok)
		assert.Contains(t, fields, "category_id")
	})

	t.Run("zero category id", func(t *testing.T) {
		res := env.request(http.MethodPost, "/api/v1/products", token, map[string]any{
			"category_id": "00000000-0000-0000-0000-000000000000",
			"name":        "Orphan String",
			"brand":       "Nowhere",
		}, nil)
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})
}

func TestProductLifecycle(t *testing.T) {
	env := newTestEnv(t)
	pair := env.registerAndLogin("stockist", "staff")
	token := pair.AccessToken
	categoryID := env.firstCategoryID(token)

	t.Run("unknown category is a 404", func(t *testing.T) {
		res := env.request(http.MethodPost, "/api/v1/products", token, map[string]any{
			"category_id":       "00000000-0000-0000-0000-000000000001",
			"name":              "Ghost String",
			"brand":             "Nowhere",
			"quantity_in_stock": 1,
		}, nil)
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})

	var created map[string]any
	res := env.request(http.MethodPost, "/api/v1/products", token, map[string]any{
		"category_id":       categoryID,
		"name":              "Pro Staff 97",
		"brand":             "Wilson",
		"model":             "v14",
		"sku":               "WIL-PS97-V14",
		"price":             279.0,
		"quantity_in_stock": 12,
		"specifications":    map[string]any{"head_size_sq_in": 97, "pattern": "16x19"},
	}, &created)
	require.Equal(t, http.StatusCreated, res.StatusCode)
	id := created["id"].(string)

	var fetched map[string]any
	res = env.request(http.MethodGet, "/api/v1/products/"+id, token, nil, &fetched)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "Wilson", fetched["brand"])
	// the category relation is embedded
	require.NotNil(t, fetched["category"])

	var updated map[string]any
	res = env.request(http.MethodPut, "/api/v1/products/"+id, token, map[string]any{
		"quantity_in_stock": 2,
	}, &updated)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, float64(2), updated["quantity_in_stock"])
	assert.Equal(t, "Pro Staff 97", updated["name"])

	t.Run("low stock view", func(t *testing.T) {
		var page struct {
			Items []map[string]any `json:"items"`
			Total int              `json:"total"`
		}
		res := env.request(http.MethodGet, "/api/v1/products/low-stock", token, nil, &page)
		require.Equal(t, http.StatusOK, res.StatusCode)
		require.Equal(t, 1, page.Total)
		assert.Equal(t, id, page.Items[0]["id"])
	})

	t.Run("search filter", func(t *testing.T) {
		var page struct {
			Total int `json:"total"`
		}
		res := env.request(http.MethodGet, "/api/v1/products?search=staff", token, nil, &page)
		require.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, 1, page.Total)

		res = env.request(http.MethodGet, "/api/v1/products?search=nomatch", token, nil, &page)
		require.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, 0, page.Total)
	})

	res = env.request(http.MethodDelete, "/api/v1/products/"+id, token, nil, nil)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)

	var page struct {
		Total int `json:"total"`
	}
	res = env.request(http.MethodGet, "/api/v1/products?is_active=true", token, nil, &page)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, 0, page.Total)
}

func TestRacketLifecycle(t *testing.T) {
	env := newTestEnv(t)
	pair := env.registerAndLogin("stringer", "staff")
	token := pair.AccessToken

	clientID := env.createClient(token, "Owner")

	t.Run("unknown client is a 404", func(t *testing.T) {
		res := env.request(http.MethodPost, "/api/v1/rackets", token, map[string]any{
			"client_id": "00000000-0000-0000-0000-000000000001",
			"brand":     "Wilson",
			"model":     "Clash 100",
			"grip_size": "L2",
		}, nil)
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})

	racketID := env.createRacket(token, clientID)

	var fetched map[string]any
	res := env.request(http.MethodGet, "/api/v1/rackets/"+racketID, token, nil, &fetched)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, clientID, fetched["client_id"])
	require.NotNil(t, fetched["client"])

	var updated map[string]any
	res = env.request(http.MethodPut, "/api/v1/rackets/"+racketID, token, map[string]any{
		"notes": "cracked grommet at 3 o'clock",
	}, &updated)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "cracked grommet at 3 o'clock", updated["notes"])
	assert.Equal(t, "Wilson", updated["brand"])

	t.Run("client filter", func(t *testing.T) {
		otherClient := env.createClient(token, "Second")
		env.createRacket(token, otherClient)

		var page struct {
			Total int `json:"total"`
		}
		res := env.request(http.MethodGet, "/api/v1/rackets?client_id="+clientID, token, nil, &page)
		require.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, 1, page.Total)
	})

	res = env.request(http.MethodDelete, "/api/v1/rackets/"+racketID, token, nil, nil)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)

	res = env.request(http.MethodGet, "/api/v1/rackets/"+racketID, token, nil, &fetched)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, false, fetched["is_active"])
}
