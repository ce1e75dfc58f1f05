package controller

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/model"
)

type listingResponse struct {
	Products   []model.Product  `json:"products"`
	Pagination model.Pagination `json:"pagination"`
}

func TestListProductsPagination(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner@shop.test")
	for i := 1; i <= 25; i++ {
		env.seedProduct(t, owner.ID, fmt.Sprintf("Product %d", i), float64(i), "some description")
	}

	resp, body := env.do(t, env.jsonRequest(t, "GET", "/products", nil, ""))
	require.Equal(t, 200, resp.StatusCode)

	var page1 listingResponse
	require.NoError(t, json.Unmarshal(body, &page1))
	require.Len(t, page1.Products, model.ItemsPerPage)
	// Newest first.
	assert.Equal(t, "Product 25", page1.Products[0].Title)
	assert.Equal(t, 3, page1.Pagination.LastPage)
	assert.True(t, page1.Pagination.HasNextPage)
	assert.False(t, page1.Pagination.HasPreviousPage)

	_, body = env.do(t, env.jsonRequest(t, "GET", "/products?page=3", nil, ""))
	var page3 listingResponse
	require.NoError(t, json.Unmarshal(body, &page3))
	assert.Len(t, page3.Products, 5)
	assert.False(t, page3.Pagination.HasNextPage)
	assert.True(t, page3.Pagination.HasPreviousPage)

	// A page past the last yields an empty set, not an error.
	resp, body = env.do(t, env.jsonRequest(t, "GET", "/products?page=9", nil, ""))
	require.Equal(t, 200, resp.StatusCode)
	var beyond listingResponse
	require.NoError(t, json.Unmarshal(body, &beyond))
	assert.Empty(t, beyond.Products)

	// Garbage page defaults to 1.
	_, body = env.do(t, env.jsonRequest(t, "GET", "/products?page=banana", nil, ""))
	var fallback listingResponse
	require.NoError(t, json.Unmarshal(body, &fallback))
	assert.Equal(t, 1, fallback.Pagination.CurrentPage)
	assert.Len(t, fallback.Products, model.ItemsPerPage)
}

func TestSearchUnionsTermsAndDeduplicates(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner@shop.test")
	redMug := env.seedProduct(t, owner.ID, "Red Mug", 4.5, "a mug for coffee")
	env.seedProduct(t, owner.ID, "Blue Mug", 5.0, "ceramic cup")
	env.seedProduct(t, owner.ID, "Green Bowl", 8.0, "soup bowl")
	env.seedProduct(t, owner.ID, "Desk Lamp", 20.0, "bright light")

	// One term, case-insensitive, matches title or description.
	_, body := env.do(t, env.jsonRequest(t, "GET", "/search?s=MUG", nil, ""))
	var res listingResponse
	require.NoError(t, json.Unmarshal(body, &res))
	assert.Len(t, res.Products, 2)

	// Multiple terms union their matches.
	_, body = env.do(t, env.jsonRequest(t, "GET", "/search?s=mug+bowl", nil, ""))
	require.NoError(t, json.Unmarshal(body, &res))
	assert.Len(t, res.Products, 3)

	// A product matching both title and description appears once.
	_, body = env.do(t, env.jsonRequest(t, "GET", "/search?s=red+coffee", nil, ""))
	require.NoError(t, json.Unmarshal(body, &res))
	require.Len(t, res.Products, 1)
	assert.Equal(t, redMug.ID, res.Products[0].ID)

	// No match is an empty page, not an error.
	resp, body := env.do(t, env.jsonRequest(t, "GET", "/search?s=teapot", nil, ""))
	require.Equal(t, 200, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &res))
	assert.Empty(t, res.Products)
	assert.Equal(t, 0, res.Pagination.LastPage)
}

func TestGetProduct(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner@shop.test")
	p := env.seedProduct(t, owner.ID, "Red Mug", 4.5, "a mug")

	resp, body := env.do(t, env.jsonRequest(t, "GET", fmt.Sprintf("/products/%d", p.ID), nil, ""))
	require.Equal(t, 200, resp.StatusCode)
	var got model.Product
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, p.Title, got.Title)

	resp, _ = env.do(t, env.jsonRequest(t, "GET", "/products/9999", nil, ""))
	assert.Equal(t, 404, resp.StatusCode)
}
