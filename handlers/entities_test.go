package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func clientBody(email string) map[string]interface{} {
	return map[string]interface{}{
		"first_name":    "Aye",
		"last_name":     "Chan",
		"email":         email,
		"phone":         "+19876543210",
		"date_of_birth": "1990-05-17",
		"address":       "12 Pagoda Road, Suite 4",
		"city":          "Yangon",
		"state":         "Yangon Region",
		"zip_code":      "11181",
	}
}

func productBody(name string) map[string]interface{} {
	return map[string]interface{}{
		"name":             name,
		"description":      "Comprehensive auto coverage",
		"product_type":     "auto",
		"base_premium":     1200,
		"coverage_amount":  50000,
		"deductible":       500,
		"terms_conditions": "standard terms",
	}
}

func TestClients_HTTP(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/clients", clientBody("aye@example.com"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	client := decode[map[string]interface{}](t, w)
	require.Equal(t, true, client["is_active"])
	require.Equal(t, "1990-05-17", client["date_of_birth"])
	id := client["client_id"].(string)

	w = doJSON(t, r, http.MethodPost, "/clients", clientBody("aye@example.com"))
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "email already registered", decode[errorResponse](t, w).Detail)

	badPhone := clientBody("phone@example.com")
	badPhone["phone"] = "12-34"
	w = doJSON(t, r, http.MethodPost, "/clients", badPhone)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, decode[errorResponse](t, w).Detail, "phone failed on 'phone'")

	badZip := clientBody("zip@example.com")
	badZip["zip_code"] = "1234"
	w = doJSON(t, r, http.MethodPost, "/clients", badZip)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, decode[errorResponse](t, w).Detail, "zip_code failed on 'zipcode'")

	w = doJSON(t, r, http.MethodGet, "/clients?search=CHAN", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, decode[[]map[string]interface{}](t, w), 1)

	w = doJSON(t, r, http.MethodPut, "/clients/"+id, map[string]string{"city": "Mandalay"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Equal(t, "Mandalay", decode[map[string]interface{}](t, w)["city"])

	w = doJSON(t, r, http.MethodPatch, "/clients/"+id+"/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, false, decode[map[string]interface{}](t, w)["is_active"])

	w = doJSON(t, r, http.MethodGet, "/clients?is_active=false", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, decode[[]map[string]interface{}](t, w), 1)

	body := policyBody("CL-1")
	body["customer_id"] = id
	require.Equal(t, http.StatusCreated, doJSON(t, r, http.MethodPost, "/policies", body).Code)

	w = doJSON(t, r, http.MethodGet, "/clients/"+id+"/with-policies", nil)
	require.Equal(t, http.StatusOK, w.Code)
	withPolicies := decode[map[string]interface{}](t, w)
	require.Equal(t, id, withPolicies["client_id"])
	require.Len(t, withPolicies["policies"], 1)

	w = doJSON(t, r, http.MethodDelete, "/clients/"+id, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	w = doJSON(t, r, http.MethodGet, "/clients/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, false, decode[map[string]interface{}](t, w)["is_active"])

	require.Equal(t, http.StatusNotFound, doJSON(t, r, http.MethodGet, "/clients/missing/policies", nil).Code)
}

func TestProducts_HTTP(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/products", productBody("Auto Plus"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	product := decode[map[string]interface{}](t, w)
	require.Equal(t, "active", product["status"])
	id := int(product["id"].(float64))

	w = doJSON(t, r, http.MethodPost, "/products", productBody("Auto Plus"))
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "product with name 'Auto Plus' already exists", decode[errorResponse](t, w).Detail)

	bad := productBody("Bad Type")
	bad["product_type"] = "pet"
	require.Equal(t, http.StatusBadRequest, doJSON(t, r, http.MethodPost, "/products", bad).Code)

	w = doJSON(t, r, http.MethodGet, "/products/type/auto", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, decode[[]map[string]interface{}](t, w), 1)
	require.Equal(t, http.StatusBadRequest, doJSON(t, r, http.MethodGet, "/products/type/pet", nil).Code)

	w = doJSON(t, r, http.MethodGet, "/products/search/COMPREHENSIVE", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, decode[[]map[string]interface{}](t, w), 1)

	path := fmt.Sprintf("/products/%d/status?new_status=discontinued", id)
	w = doJSON(t, r, http.MethodPatch, path, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Equal(t, "discontinued", decode[map[string]interface{}](t, w)["status"])

	path = fmt.Sprintf("/products/%d/status?new_status=retired", id)
	require.Equal(t, http.StatusBadRequest, doJSON(t, r, http.MethodPatch, path, nil).Code)

	require.Equal(t, http.StatusBadRequest, doJSON(t, r, http.MethodGet, "/products/abc", nil).Code)
	require.Equal(t, http.StatusNotFound, doJSON(t, r, http.MethodGet, "/products/999", nil).Code)

	require.Equal(t, http.StatusNoContent, doJSON(t, r, http.MethodDelete, fmt.Sprintf("/products/%d", id), nil).Code)
	require.Equal(t, http.StatusNotFound, doJSON(t, r, http.MethodDelete, fmt.Sprintf("/products/%d", id), nil).Code)
}

func TestCommissions_HTTP(t *testing.T) {
	r := newTestRouter(t)
	policyId := createPolicy(t, r, "CM-1")["id"].(string)

	w := doJSON(t, r, http.MethodPost, "/commissions", map[string]interface{}{
		"agent_id":  "AGENT-7",
		"policy_id": "POL-NOPE",
		"amount":    50,
	})
	require.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodPost, "/commissions", map[string]interface{}{
		"agent_id":  "AGENT-7",
		"policy_id": policyId,
		"amount":    50,
		"rate":      7.5,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	commission := decode[map[string]interface{}](t, w)
	require.Equal(t, "pending", commission["status"])
	require.Nil(t, commission["paid_at"])
	path := fmt.Sprintf("/commissions/%d", int(commission["id"].(float64)))

	w = doJSON(t, r, http.MethodPut, path, map[string]string{"status": "paid"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NotNil(t, decode[map[string]interface{}](t, w)["paid_at"])

	w = doJSON(t, r, http.MethodGet, "/commissions?agent_id=AGENT-7&status=paid", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, decode[[]map[string]interface{}](t, w), 1)

	require.Equal(t, http.StatusNoContent, doJSON(t, r, http.MethodDelete, path, nil).Code)
	require.Equal(t, http.StatusNotFound, doJSON(t, r, http.MethodGet, path, nil).Code)
}

func TestExportPolicies_HTTP(t *testing.T) {
	r := newTestRouter(t)
	createPolicy(t, r, "EX-1")

	req := httptest.NewRequest(http.MethodGet, "/policies/export", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	// xlsx is a zip archive
	require.Equal(t, []byte("PK"), w.Body.Bytes()[:2])
}

func TestHealth_HTTP(t *testing.T) {
	r := newTestRouter(t)
	createPolicy(t, r, "H-1")

	w := doJSON(t, r, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	report := decode[map[string]interface{}](t, w)
	require.Equal(t, "healthy", report["status"])
	require.Equal(t, "connected", report["database"])
	require.EqualValues(t, 1, report["policies"])
}
