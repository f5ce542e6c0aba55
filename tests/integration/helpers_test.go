//go:build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/handcrafted-haven/marketplace/internal/testutil"
	"github.com/stretchr/testify/require"
)

// registeredUser is an account created through the API for a single test.
type registeredUser struct {
	ID       int64
	Name     string
	Email    string
	Password string
}

// registerUser creates a fresh account and returns it. The client is left
// unauthenticated.
func registerUser(t *testing.T, client *testutil.Client) registeredUser {
	t.Helper()

	user := registeredUser{
		Name:     testutil.RandomName(),
		Email:    testutil.RandomEmail(),
		Password: "password123",
	}

	resp, err := client.POST("/api/v1/auth/register", map[string]string{
		"name":     user.Name,
		"email":    user.Email,
		"password": user.Password,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var result struct {
		Data struct {
			ID int64 `json:"id"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)
	user.ID = result.Data.ID
	return user
}

// loginUser creates an account and logs the client in as it.
func loginUser(t *testing.T, client *testutil.Client) registeredUser {
	t.Helper()
	user := registerUser(t, client)
	client.LoginAs(t, user.Email, user.Password)
	return user
}

// loginSeller creates an account, gives it a seller profile (which promotes
// it to SELLER), and re-logs in so the session token carries the new role.
func loginSeller(t *testing.T, client *testutil.Client) registeredUser {
	t.Helper()
	user := loginUser(t, client)

	resp, err := client.POST("/api/v1/seller/profile", map[string]string{
		"story": "Everything started with a broken loom and a rainy winter.",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	client.LoginAs(t, user.Email, user.Password)
	return user
}

// loginAdmin logs the client in as the seeded admin.
func loginAdmin(t *testing.T, client *testutil.Client) {
	t.Helper()
	client.LoginAs(t, adminEmail, adminPassword)
}

// createProduct creates a product for the logged-in seller and returns its id.
func createProduct(t *testing.T, client *testutil.Client, categoryID int64) int64 {
	t.Helper()

	resp, err := client.POST("/api/v1/seller/products", map[string]interface{}{
		"name":        testutil.RandomProductName(),
		"description": "Hand made, one of a kind.",
		"price":       42.50,
		"category_id": categoryID,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var result struct {
		Data struct {
			ID int64 `json:"id"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)
	return result.Data.ID
}

// firstCategoryID returns the id of any seeded category.
func firstCategoryID(t *testing.T, client *testutil.Client) int64 {
	t.Helper()

	resp, err := client.GET("/api/v1/categories")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Data []struct {
			ID int64 `json:"id"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)
	require.NotEmpty(t, result.Data)
	return result.Data[0].ID
}
