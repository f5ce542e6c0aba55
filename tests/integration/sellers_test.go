//go:build integration

package integration

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/handcrafted-haven/marketplace/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSellers_CreateProfilePromotesRole(t *testing.T) {
	client := newTestClient(t)
	user := loginUser(t, client)

	resp, err := client.POST("/api/v1/seller/profile", map[string]string{
		"story":    "Third-generation woodworker.",
		"location": "Taos, NM",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// The promotion lands in tokens issued from now on
	client.LoginAs(t, user.Email, user.Password)

	resp, err = client.GET("/api/v1/me")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var me struct {
		Data struct {
			Role string `json:"role"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &me)
	assert.Equal(t, "SELLER", me.Data.Role)
}

func TestSellers_DuplicateProfile(t *testing.T) {
	client := newTestClient(t)
	loginSeller(t, client)

	resp, err := client.POST("/api/v1/seller/profile", map[string]string{
		"story": "A second origin story.",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestSellers_UpdateProfile(t *testing.T) {
	client := newTestClient(t)
	loginSeller(t, client)

	resp, err := client.PATCH("/api/v1/seller/profile", map[string]string{
		"bio": "Maker, mender, teacher.",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var updated struct {
		Data struct {
			Bio   string `json:"bio"`
			Story string `json:"story"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &updated)
	assert.Equal(t, "Maker, mender, teacher.", updated.Data.Bio)
	assert.NotEmpty(t, updated.Data.Story, "story should survive a partial update")
}

func TestSellers_ProfileNotFound(t *testing.T) {
	client := newTestClient(t)
	loginUser(t, client)

	resp, err := client.GET("/api/v1/seller/profile")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestSellers_ProductsRequireSellerRole(t *testing.T) {
	client := newTestClient(t)
	loginUser(t, client)

	resp, err := client.GET("/api/v1/seller/products")
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp, err = client.POST("/api/v1/seller/products", map[string]interface{}{
		"name":        "Sneaky Listing",
		"price":       10,
		"category_id": 1,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func TestSellers_ProductLifecycle(t *testing.T) {
	client := newTestClient(t)
	loginSeller(t, client)
	categoryID := firstCategoryID(t, client)

	productID := createProduct(t, client, categoryID)

	// Listed under own products
	resp, err := client.GET("/api/v1/seller/products")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var list struct {
		Data []struct {
			ID int64 `json:"id"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &list)
	require.Len(t, list.Data, 1)
	assert.Equal(t, productID, list.Data[0].ID)

	// Update
	resp, err = client.PUT(fmt.Sprintf("/api/v1/seller/products/%d", productID), map[string]interface{}{
		"name":        "Renamed Bowl",
		"description": "Now with a new glaze.",
		"price":       55.00,
		"category_id": categoryID,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var updated struct {
		Data struct {
			Name  string  `json:"name"`
			Price float64 `json:"price"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &updated)
	assert.Equal(t, "Renamed Bowl", updated.Data.Name)
	assert.Equal(t, 55.00, updated.Data.Price)

	// Delete
	resp, err = client.DELETE(fmt.Sprintf("/api/v1/seller/products/%d", productID))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp, err = client.DELETE(fmt.Sprintf("/api/v1/seller/products/%d", productID))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestSellers_OwnershipScoped(t *testing.T) {
	owner := newTestClient(t)
	loginSeller(t, owner)
	categoryID := firstCategoryID(t, owner)
	productID := createProduct(t, owner, categoryID)

	// A different seller cannot touch it; the response does not reveal
	// whether the product exists
	intruder := newTestClient(t)
	loginSeller(t, intruder)

	resp, err := intruder.PUT(fmt.Sprintf("/api/v1/seller/products/%d", productID), map[string]interface{}{
		"name":        "Hijacked",
		"price":       1,
		"category_id": categoryID,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp, err = intruder.DELETE(fmt.Sprintf("/api/v1/seller/products/%d", productID))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// Untouched for the owner
	resp, err = owner.GET("/api/v1/seller/products")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var list struct {
		Data []struct {
			Name string `json:"name"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &list)
	require.Len(t, list.Data, 1)
	assert.NotEqual(t, "Hijacked", list.Data[0].Name)
}

func TestSellers_CreateProduct_InvalidCategory(t *testing.T) {
	client := newTestClient(t)
	loginSeller(t, client)

	resp, err := client.POST("/api/v1/seller/products", map[string]interface{}{
		"name":        "Orphan Product",
		"price":       10,
		"category_id": 999999,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestSellers_Dashboard(t *testing.T) {
	client := newTestClient(t)
	loginSeller(t, client)
	categoryID := firstCategoryID(t, client)
	productID := createProduct(t, client, categoryID)
	createProduct(t, client, categoryID)

	// A review from another user feeds the aggregates
	reviewer := newTestClient(t)
	loginUser(t, reviewer)
	resp, err := reviewer.POST(fmt.Sprintf("/api/v1/products/%d/reviews", productID), map[string]interface{}{
		"rating":  5,
		"comment": "Perfect.",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp, err = client.GET("/api/v1/seller/dashboard")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var stats struct {
		Data struct {
			ProductCount  int     `json:"product_count"`
			ReviewCount   int     `json:"review_count"`
			AverageRating float64 `json:"average_rating"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &stats)
	assert.Equal(t, 2, stats.Data.ProductCount)
	assert.Equal(t, 1, stats.Data.ReviewCount)
	assert.Equal(t, 5.0, stats.Data.AverageRating)
}
